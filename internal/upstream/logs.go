package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ListLogs fetches one page of log files for the given filter set and
// normalizes whichever wire variant the server answered with.
func (c *Client) ListLogs(ctx context.Context, token string, q LogQuery) (LogList, error) {
	values := url.Values{}
	values.Set("date", q.Date)
	values.Set("server", q.Server)
	values.Set("env", q.Env)
	values.Set("platform", q.Platform)
	if q.LogType != "" {
		values.Set("logType", q.LogType)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	var raw rawLogList
	if err := c.getJSON(ctx, "logs/list", "/api/logs/list"+queryString(values), token, &raw); err != nil {
		return LogList{}, err
	}
	return raw.normalize(q), nil
}

// LogContent fetches the raw text of one log file.
func (c *Client) LogContent(ctx context.Context, token string, q LogQuery, file string) (string, error) {
	file = strings.TrimSpace(file)
	if file == "" {
		return "", fmt.Errorf("upstream logs/get: file name is required")
	}

	path := fmt.Sprintf("/api/logs/get/%s/%s/%s/%s",
		url.PathEscape(q.Server), url.PathEscape(q.Date), url.PathEscape(q.Env), url.PathEscape(file))
	values := url.Values{}
	values.Set("platform", q.Platform)

	req, err := c.newRequest(ctx, "GET", path+queryString(values), token, nil)
	if err != nil {
		return "", err
	}
	body, _, err := c.do("logs/get", req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// SearchLogs returns match snippets for a keyword across the filtered logs.
func (c *Client) SearchLogs(ctx context.Context, token string, q LogQuery, keyword string) ([]LogMatch, error) {
	values := url.Values{}
	values.Set("date", q.Date)
	values.Set("server", q.Server)
	values.Set("env", q.Env)
	values.Set("platform", q.Platform)
	values.Set("keyword", keyword)

	var out []LogMatch
	if err := c.getJSON(ctx, "logs/search", "/api/logs/search"+queryString(values), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadLogs fetches one or more log files as an opaque blob. The server
// answers a single file directly and bundles several into an archive.
func (c *Client) DownloadLogs(ctx context.Context, token string, q LogQuery, files []string) (*Blob, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("upstream logs/download: no files selected")
	}

	values := url.Values{}
	values.Set("server", q.Server)
	values.Set("date", q.Date)
	values.Set("env", q.Env)
	values.Set("platform", q.Platform)
	values.Set("files", strings.Join(files, ","))

	fallback := files[0]
	if len(files) > 1 {
		fallback = fmt.Sprintf("logs-%s.zip", q.Date)
	}
	return c.getBlob(ctx, "logs/download", "/api/logs/download"+queryString(values), token, fallback)
}

// normalize flattens the duck-typed listing into the canonical shape. The
// page echo falls back to the requested values when the server omits it.
func (r rawLogList) normalize(q LogQuery) LogList {
	out := LogList{
		Files:    make([]LogFile, 0, len(r.Files)),
		Page:     r.Page,
		PageSize: firstNonNil(r.PageSizeCamel, r.PageSizeSnake, q.PageSize),
	}
	if out.Page == 0 {
		out.Page = q.Page
	}
	out.TotalCount = firstNonNil(r.TotalCountCamel, r.TotalCountSnake, len(r.Files))

	for _, f := range r.Files {
		out.Files = append(out.Files, f.normalize(q))
	}
	return out
}

func (r rawLogFile) normalize(q LogQuery) LogFile {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = strings.TrimSpace(r.FileName)
	}
	if name == "" {
		name = strings.TrimSpace(r.Path)
	}

	logType := strings.TrimSpace(r.LogType)
	if logType == "" {
		logType = strings.TrimSpace(r.LogPattern)
	}

	lastModified := strings.TrimSpace(r.LastModifiedSnake)
	if lastModified == "" {
		lastModified = strings.TrimSpace(r.LastModifiedCamel)
	}

	f := LogFile{
		Name:         name,
		Date:         strings.TrimSpace(r.Date),
		Server:       strings.TrimSpace(r.Server),
		Env:          strings.TrimSpace(r.Env),
		LogType:      logType,
		Size:         r.Size,
		LastModified: lastModified,
	}
	if f.Date == "" {
		f.Date = q.Date
	}
	if f.Server == "" {
		f.Server = q.Server
	}
	if f.Env == "" {
		f.Env = q.Env
	}
	return f
}

func firstNonNil(a, b *int, fallback int) int {
	if a != nil {
		return *a
	}
	if b != nil {
		return *b
	}
	return fallback
}
