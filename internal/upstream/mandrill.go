package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

type mailActivityBody struct {
	Status       []string `json:"status"`
	DateFrom     string   `json:"date_from"`
	DateTo       string   `json:"date_to"`
	Limit        int      `json:"limit"`
	Page         int      `json:"page"`
	PageSize     int      `json:"page_size"`
	Keyword      string   `json:"keyword,omitempty"`
	FetchContent bool     `json:"fetch_content"`
}

func (q MailQuery) body() mailActivityBody {
	statuses := q.Statuses
	if statuses == nil {
		statuses = []string{}
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return mailActivityBody{
		Status:       statuses,
		DateFrom:     q.DateFrom,
		DateTo:       q.DateTo,
		Limit:        q.Limit,
		Page:         page,
		PageSize:     q.Limit,
		Keyword:      strings.TrimSpace(q.Keyword),
		FetchContent: q.FetchContent,
	}
}

// MailActivity fetches one page of outbound mail events plus the quota and
// metrics aggregates the provider reports for the filtered window.
func (c *Client) MailActivity(ctx context.Context, token string, q MailQuery) (MailActivityPage, error) {
	var out MailActivityPage
	if err := c.postJSON(ctx, "mandrill/activity", "/api/mandrill/activity", token, q.body(), &out); err != nil {
		return MailActivityPage{}, err
	}
	if out.Messages == nil {
		out.Messages = []MailMessage{}
	}
	return out, nil
}

// ExportMail fetches the full filtered activity set as a downloadable file.
func (c *Client) ExportMail(ctx context.Context, token string, q MailQuery) (*Blob, error) {
	return c.postBlob(ctx, "mandrill/export", "/api/mandrill/export", token, q.body(), "mandrill-activity.json")
}

// MailContentByID fetches the stored content of one message.
func (c *Client) MailContentByID(ctx context.Context, token, id string) (MailContent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MailContent{}, fmt.Errorf("upstream mandrill/content: message id is required")
	}
	var out MailContent
	if err := c.getJSON(ctx, "mandrill/content", "/api/mandrill/content/"+url.PathEscape(id), token, &out); err != nil {
		return MailContent{}, err
	}
	return out, nil
}

// ResendMail asks the provider to resend one message and reports the new
// message identifier.
func (c *Client) ResendMail(ctx context.Context, token, id string) (ResendResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ResendResult{}, fmt.Errorf("upstream mandrill/resend: message id is required")
	}
	var out ResendResult
	if err := c.postJSON(ctx, "mandrill/resend", "/api/mandrill/resend/"+url.PathEscape(id), token, nil, &out); err != nil {
		return ResendResult{}, err
	}
	return out, nil
}
