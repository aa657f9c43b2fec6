package handlers

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"
)

func TestHandleMailInvertedRangeSkipsUpstream(t *testing.T) {
	h := newTestHandlers(t, failingTransport(t))

	c, rec := newTestContext(t, http.MethodGet,
		"http://example.com/mail?from=2025-02-10&to=2025-02-01", nil)
	signIn(t, h, c)

	if err := h.HandleMail(c); err != nil {
		t.Fatalf("HandleMail() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "The start date must not be after the end date.") {
		t.Fatalf("body missing validation error: %q", body)
	}
	if strings.Contains(body, "alert-error") {
		t.Fatalf("validation error rendered as fetch error: %q", body)
	}
}

func TestHandleMailRendersActivity(t *testing.T) {
	h := newTestHandlers(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/mandrill/activity" {
			t.Fatalf("path = %q, want /api/mandrill/activity", req.URL.Path)
		}
		return jsonResponse(req, http.StatusOK, `{
			"quota":{"emails_sent":25000,"monthly_limit":250000,"emails_remaining":225000,"percentage_used":10.0,"reset_date":"2025-03-01"},
			"metrics":{"sent":100,"delivered":88,"rejected":12,"deliverability":88.0},
			"messages":[
				{"_id":"m1","email":"user@example.com","sender":"noreply@xva.com","subject":"Welcome","state":"sent","ts":1700000000,"opens":2,"clicks":1},
				{"_id":"m2","email":"bad@example.com","sender":"noreply@xva.com","subject":"Reset","state":"rejected","ts":1700000000,"opens":0,"clicks":0}
			],
			"total_count":2,"page":1,"page_size":100}`), nil
	})

	c, rec := newTestContext(t, http.MethodGet,
		"http://example.com/mail?from=2025-02-01&to=2025-02-08", nil)
	signIn(t, h, c)

	if err := h.HandleMail(c); err != nil {
		t.Fatalf("HandleMail() error = %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Delivered") {
		t.Fatalf("body missing mapped sent state: %q", body)
	}
	if !strings.Contains(body, "Rejected") {
		t.Fatalf("body missing rejected state: %q", body)
	}
	if !strings.Contains(body, "November 14, 2023 10:13 pm") {
		t.Fatalf("body missing formatted timestamp: %q", body)
	}
	if !strings.Contains(body, "225000") {
		t.Fatalf("body missing quota remaining: %q", body)
	}
	if !strings.Contains(body, "88.0%") {
		t.Fatalf("body missing deliverability: %q", body)
	}
	if !strings.Contains(body, "Showing 1-2 of 2") {
		t.Fatalf("body missing showing range: %q", body)
	}
}

func TestHandleMailExportFormCarriesSelectedLimit(t *testing.T) {
	h := newTestHandlers(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusOK, `{
			"messages":[{"_id":"m1","email":"user@example.com","sender":"noreply@xva.com","subject":"Welcome","state":"sent","ts":1700000000,"opens":0,"clicks":0}],
			"total_count":1,"page":1,"page_size":500}`), nil
	})

	c, rec := newTestContext(t, http.MethodGet,
		"http://example.com/mail?from=2025-02-01&to=2025-02-08&limit=500", nil)
	signIn(t, h, c)

	if err := h.HandleMail(c); err != nil {
		t.Fatalf("HandleMail() error = %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `name="limit" value="500"`) {
		t.Fatalf("export form missing hidden limit: %q", body)
	}
}

func TestHandleMailExportPostsSelectedLimit(t *testing.T) {
	var gotBody string
	h := newTestHandlers(t, func(req *http.Request) (*http.Response, error) {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		gotBody = string(raw)
		hdr := make(http.Header)
		hdr.Set("Content-Type", "text/csv")
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     hdr,
			Body:       io.NopCloser(strings.NewReader("csv-bytes")),
			Request:    req,
		}, nil
	})

	form := url.Values{}
	form.Set("from", "2025-02-01")
	form.Set("to", "2025-02-08")
	form.Set("limit", "500")
	c, _ := newTestContext(t, http.MethodPost, "http://example.com/mail/export", strings.NewReader(form.Encode()))
	signIn(t, h, c)

	if err := h.HandleMailExport(c); err != nil {
		t.Fatalf("HandleMailExport() error = %v", err)
	}
	if !strings.Contains(gotBody, `"limit":500`) {
		t.Fatalf("upstream request missing selected limit: %q", gotBody)
	}
}

func TestHandleMailStatusBucketsSentToUpstream(t *testing.T) {
	var gotBody string
	h := newTestHandlers(t, func(req *http.Request) (*http.Response, error) {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		gotBody = string(raw)
		return jsonResponse(req, http.StatusOK, `{"messages":[],"total_count":0}`), nil
	})

	c, _ := newTestContext(t, http.MethodGet,
		"http://example.com/mail?status=bounced&from=2025-02-01&to=2025-02-08", nil)
	signIn(t, h, c)

	if err := h.HandleMail(c); err != nil {
		t.Fatalf("HandleMail() error = %v", err)
	}
	if !strings.Contains(gotBody, `"bounced"`) || !strings.Contains(gotBody, `"soft-bounced"`) {
		t.Fatalf("request body missing bounce states: %q", gotBody)
	}
}

func TestHandleMailResendRequiresConfirmation(t *testing.T) {
	h := newTestHandlers(t, failingTransport(t))

	form := url.Values{}
	c, rec := newTestContext(t, http.MethodPost, "http://example.com/mail/m1/resend", strings.NewReader(form.Encode()))
	c.SetPath("/mail/:id/resend")
	c.SetPathValues(echo.PathValues{{Name: "id", Value: "m1"}})
	signIn(t, h, c)

	if err := h.HandleMailResend(c); err != nil {
		t.Fatalf("HandleMailResend() error = %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if !toastContains(t, rec, "confirmation") {
		t.Fatal("expected confirmation-required toast")
	}
}

func TestHandleMailResendMapsNotFound(t *testing.T) {
	h := newTestHandlers(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/mandrill/resend/m1" {
			t.Fatalf("path = %q, want /api/mandrill/resend/m1", req.URL.Path)
		}
		return jsonResponse(req, http.StatusNotFound, `{"error":"unknown message"}`), nil
	})

	form := url.Values{}
	form.Set("confirm", "1")
	c, rec := newTestContext(t, http.MethodPost, "http://example.com/mail/m1/resend", strings.NewReader(form.Encode()))
	c.SetPath("/mail/:id/resend")
	c.SetPathValues(echo.PathValues{{Name: "id", Value: "m1"}})
	signIn(t, h, c)

	if err := h.HandleMailResend(c); err != nil {
		t.Fatalf("HandleMailResend() error = %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if !toastContains(t, rec, "could not be found") {
		t.Fatal("expected not-found toast message")
	}
}

func TestHandleMailResendSuccessReportsNewID(t *testing.T) {
	h := newTestHandlers(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusOK, `{"message":"resent","new_message_id":"m1-copy"}`), nil
	})

	form := url.Values{}
	form.Set("confirm", "1")
	c, rec := newTestContext(t, http.MethodPost, "http://example.com/mail/m1/resend", strings.NewReader(form.Encode()))
	c.SetPath("/mail/:id/resend")
	c.SetPathValues(echo.PathValues{{Name: "id", Value: "m1"}})
	signIn(t, h, c)

	if err := h.HandleMailResend(c); err != nil {
		t.Fatalf("HandleMailResend() error = %v", err)
	}
	if !toastContains(t, rec, "m1-copy") {
		t.Fatal("expected toast naming the new message id")
	}
}

func TestHandleMailContentSanitizesHTML(t *testing.T) {
	h := newTestHandlers(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusOK, `{
			"subject":"Hello",
			"from_email":"noreply@xva.com","from_name":"XVA",
			"to":[{"email":"user@example.com","name":"User","type":"to"}],
			"content":"<p>Hi <mark>there</mark></p><script>alert(1)</script>"}`), nil
	})

	c, rec := newTestContext(t, http.MethodGet, "http://example.com/mail/m1", nil)
	c.SetPath("/mail/:id")
	c.SetPathValues(echo.PathValues{{Name: "id", Value: "m1"}})
	signIn(t, h, c)

	if err := h.HandleMailContent(c); err != nil {
		t.Fatalf("HandleMailContent() error = %v", err)
	}

	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Fatalf("body kept script tag: %q", body)
	}
	if !strings.Contains(body, "<mark>there</mark>") {
		t.Fatalf("body lost mark tag: %q", body)
	}
	if !strings.Contains(body, "XVA &lt;noreply@xva.com&gt;") {
		t.Fatalf("body missing sender label: %q", body)
	}
}

// toastContains decodes the flash cookie set on the response and reports
// whether its payload mentions the given fragment.
func toastContains(t *testing.T, rec interface{ Result() *http.Response }, fragment string) bool {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != flashToastCookieName || cookie.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(raw)), strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}
