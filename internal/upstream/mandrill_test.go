package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
)

func TestMailActivitySendsContractBody(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		return jsonResponse(req, http.StatusOK,
			`{"quota":{"emails_sent":100,"monthly_limit":225000,"emails_remaining":224900,"percentage_used":0.04,"reset_date":"2025-06-01"},`+
				`"metrics":{"sent":90,"delivered":88,"rejected":2,"deliverability":97.78},`+
				`"messages":[{"_id":"m1","email":"x@y.com","subject":"Hi","state":"rejected","ts":1700000000}],`+
				`"total_count":1,"page":1,"page_size":500}`), nil
	})

	q := MailQuery{
		Statuses: []string{"rejected"},
		DateFrom: "2025-04-26",
		DateTo:   "2025-05-03",
		Keyword:  "invoice",
		Limit:    500,
		Page:     1,
	}
	page, err := c.MailActivity(context.Background(), "tok", q)
	if err != nil {
		t.Fatalf("MailActivity error: %v", err)
	}

	if gotBody["date_from"] != "2025-04-26" || gotBody["date_to"] != "2025-05-03" {
		t.Fatalf("date range in body = %v / %v", gotBody["date_from"], gotBody["date_to"])
	}
	if gotBody["limit"] != float64(500) || gotBody["page_size"] != float64(500) {
		t.Fatalf("limit/page_size = %v / %v", gotBody["limit"], gotBody["page_size"])
	}
	if gotBody["keyword"] != "invoice" {
		t.Fatalf("keyword = %v", gotBody["keyword"])
	}

	if page.TotalCount != 1 || len(page.Messages) != 1 {
		t.Fatalf("page = %+v", page)
	}
	msg := page.Messages[0]
	if msg.ID != "m1" || msg.State != "rejected" || msg.TS != 1700000000 {
		t.Fatalf("message = %#v", msg)
	}
	if page.Quota.MonthlyLimit != 225000 || page.Metrics.Delivered != 88 {
		t.Fatalf("aggregates = %+v / %+v", page.Quota, page.Metrics)
	}
}

func TestMailActivityEmptyStatusMeansAll(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &gotBody)
		return jsonResponse(req, http.StatusOK, `{"messages":[],"total_count":0}`), nil
	})

	if _, err := c.MailActivity(context.Background(), "tok", MailQuery{Limit: 100}); err != nil {
		t.Fatalf("MailActivity error: %v", err)
	}
	statuses, ok := gotBody["status"].([]any)
	if !ok || len(statuses) != 0 {
		t.Fatalf("status must be an empty array, got %v", gotBody["status"])
	}
	if gotBody["page"] != float64(1) {
		t.Fatalf("page must default to 1, got %v", gotBody["page"])
	}
}

func TestResendMailReturnsNewMessageID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		return jsonResponse(req, http.StatusOK, `{"message":"resent","new_message_id":"m2"}`), nil
	})

	res, err := c.ResendMail(context.Background(), "tok", "m1")
	if err != nil {
		t.Fatalf("ResendMail error: %v", err)
	}
	if gotPath != "/api/mandrill/resend/m1" {
		t.Fatalf("path = %q", gotPath)
	}
	if res.NewMessageID != "m2" {
		t.Fatalf("NewMessageID = %q", res.NewMessageID)
	}
}

func TestResendMailNotFound(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusNotFound, `{"error":"message not available"}`), nil
	})

	_, err := c.ResendMail(context.Background(), "tok", "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMailContentByID(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusOK,
			`{"content":"<p>Hello</p>","subject":"Hi","from_email":"no-reply@xva-rnd.com","from_name":"Optima","to":[{"email":"x@y.com","name":"X","type":"to"}]}`), nil
	})

	content, err := c.MailContentByID(context.Background(), "tok", "m1")
	if err != nil {
		t.Fatalf("MailContentByID error: %v", err)
	}
	if content.Subject != "Hi" || len(content.To) != 1 || content.To[0].Email != "x@y.com" {
		t.Fatalf("content = %#v", content)
	}
}
