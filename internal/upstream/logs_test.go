package upstream

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestListLogsNormalizesAgentShape(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.RawQuery
		return jsonResponse(req, http.StatusOK,
			`{"files":[{"name":"app.log","date":"2025-01-01","server":"ui","env":"dev","logType":"main","size":1024,"lastModified":"2025-01-01T10:00:00Z"}],"totalCount":37,"page":2,"pageSize":50}`), nil
	})

	q := LogQuery{Date: "2025-01-01", Server: "ui", Env: "dev", Platform: "XVA", LogType: "main", Page: 2, PageSize: 50}
	list, err := c.ListLogs(context.Background(), "tok", q)
	if err != nil {
		t.Fatalf("ListLogs error: %v", err)
	}

	if !strings.Contains(gotQuery, "logType=main") || !strings.Contains(gotQuery, "platform=XVA") {
		t.Fatalf("query = %q", gotQuery)
	}
	if list.TotalCount != 37 || list.Page != 2 || list.PageSize != 50 {
		t.Fatalf("envelope = %+v", list)
	}
	f := list.Files[0]
	if f.Name != "app.log" || f.LogType != "main" || f.LastModified != "2025-01-01T10:00:00Z" || f.Size != 1024 {
		t.Fatalf("unexpected file: %#v", f)
	}
}

func TestListLogsNormalizesS3Shape(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusOK,
			`{"files":[{"file_name":"api-2025-01-01.log","path":"api-2025-01-01.log","date":"2025-01-01","env":"prod","size":2048,"last_modified":"2025-01-01T23:59:00Z","log_pattern":"background"}],"total_count":1,"page_size":25}`), nil
	})

	q := LogQuery{Date: "2025-01-01", Server: "api", Env: "prod", Platform: "DANONE", Page: 1, PageSize: 25}
	list, err := c.ListLogs(context.Background(), "tok", q)
	if err != nil {
		t.Fatalf("ListLogs error: %v", err)
	}

	if list.TotalCount != 1 || list.PageSize != 25 || list.Page != 1 {
		t.Fatalf("envelope = %+v", list)
	}
	f := list.Files[0]
	if f.Name != "api-2025-01-01.log" {
		t.Fatalf("Name = %q", f.Name)
	}
	if f.Server != "api" {
		t.Fatalf("Server fallback = %q, want requested server", f.Server)
	}
	if f.LogType != "background" || f.LastModified != "2025-01-01T23:59:00Z" {
		t.Fatalf("unexpected file: %#v", f)
	}
}

func TestListLogsEmptyResult(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusOK, `{"files":[],"totalCount":0,"page":1,"pageSize":50}`), nil
	})

	list, err := c.ListLogs(context.Background(), "tok", LogQuery{Date: "2025-01-01", Server: "ui", Env: "dev", Platform: "XVA", Page: 1, PageSize: 50})
	if err != nil {
		t.Fatalf("ListLogs error: %v", err)
	}
	if len(list.Files) != 0 || list.TotalCount != 0 {
		t.Fatalf("expected empty listing, got %+v", list)
	}
}

func TestLogContentReturnsRawText(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		h := make(http.Header)
		h.Set("Content-Type", "text/plain")
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     h,
			Body:       io.NopCloser(strings.NewReader("line one\nline two\n")),
			Request:    req,
		}, nil
	})

	q := LogQuery{Date: "2025-01-01", Server: "ui", Env: "dev", Platform: "XVA"}
	content, err := c.LogContent(context.Background(), "tok", q, "app.log")
	if err != nil {
		t.Fatalf("LogContent error: %v", err)
	}
	if gotPath != "/api/logs/get/ui/2025-01-01/dev/app.log" {
		t.Fatalf("path = %q", gotPath)
	}
	if content != "line one\nline two\n" {
		t.Fatalf("content = %q", content)
	}
}

func TestDownloadLogsJoinsFilesAndNamesArchive(t *testing.T) {
	var gotFiles string
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotFiles = req.URL.Query().Get("files")
		h := make(http.Header)
		h.Set("Content-Type", "application/zip")
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     h,
			Body:       io.NopCloser(strings.NewReader("PK\x03\x04")),
			Request:    req,
		}, nil
	})

	q := LogQuery{Date: "2025-01-01", Server: "ui", Env: "dev", Platform: "XVA"}
	blob, err := c.DownloadLogs(context.Background(), "tok", q, []string{"a.log", "b.log"})
	if err != nil {
		t.Fatalf("DownloadLogs error: %v", err)
	}
	if gotFiles != "a.log,b.log" {
		t.Fatalf("files param = %q", gotFiles)
	}
	if blob.Filename != "logs-2025-01-01.zip" {
		t.Fatalf("Filename = %q", blob.Filename)
	}
	if blob.ContentType != "application/zip" {
		t.Fatalf("ContentType = %q", blob.ContentType)
	}
}

func TestDownloadLogsSingleFileKeepsName(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		h := make(http.Header)
		h.Set("Content-Type", "application/octet-stream")
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     h,
			Body:       io.NopCloser(strings.NewReader("content")),
			Request:    req,
		}, nil
	})

	q := LogQuery{Date: "2025-01-01", Server: "api", Env: "prod", Platform: "XVA"}
	blob, err := c.DownloadLogs(context.Background(), "tok", q, []string{"only.log"})
	if err != nil {
		t.Fatalf("DownloadLogs error: %v", err)
	}
	if blob.Filename != "only.log" {
		t.Fatalf("Filename = %q", blob.Filename)
	}
}

func TestDownloadLogsRejectsEmptySelection(t *testing.T) {
	called := false
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(req, http.StatusOK, `{}`), nil
	})

	if _, err := c.DownloadLogs(context.Background(), "tok", LogQuery{Date: "2025-01-01"}, nil); err == nil {
		t.Fatal("expected error for empty selection")
	}
	if called {
		t.Fatal("no request should be issued for an empty selection")
	}
}

func TestDownloadHonorsContentDisposition(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		h := make(http.Header)
		h.Set("Content-Type", "application/zip")
		h.Set("Content-Disposition", `attachment; filename="bundle.zip"`)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     h,
			Body:       io.NopCloser(strings.NewReader("PK\x03\x04")),
			Request:    req,
		}, nil
	})

	q := LogQuery{Date: "2025-01-01", Server: "ui", Env: "dev", Platform: "XVA"}
	blob, err := c.DownloadLogs(context.Background(), "tok", q, []string{"a.log", "b.log"})
	if err != nil {
		t.Fatalf("DownloadLogs error: %v", err)
	}
	if blob.Filename != "bundle.zip" {
		t.Fatalf("Filename = %q, want server-provided name", blob.Filename)
	}
}
