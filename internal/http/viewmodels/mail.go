package viewmodels

import "html/template"

// MailRow is one outbound email event row.
type MailRow struct {
	ID          string
	Email       string
	Sender      string
	Subject     template.HTML
	StatusText  string
	StatusClass string
	DateLabel   string
	Opens       int
	Clicks      int
	CanResend   bool
}

// MailQuotaView is the provider quota panel.
type MailQuotaView struct {
	MonthlyLimit    int
	EmailsSent      int
	EmailsRemaining int
	PercentageUsed  string
	ResetDate       string
}

// MailMetricsView is the delivery metrics panel.
type MailMetricsView struct {
	Sent           int
	Delivered      int
	Rejected       int
	Deliverability string
}

// MailViewData feeds the mail activity page.
type MailViewData struct {
	Layout LayoutData

	DateFrom      string
	DateTo        string
	Status        string
	StatusOptions []SelectOption
	Keyword       string
	Limit         int
	LimitOptions  []int

	Quota    *MailQuotaView
	Metrics  *MailMetricsView
	Messages []MailRow

	Page        int
	TotalPages  int
	TotalCount  int
	ShowingFrom int
	ShowingTo   int
	PrevURL     string
	NextURL     string

	ValidationError string
	ErrorMessage    string
	EmptyStateMsg   string

	ExportAction string
}

// MailContentViewData feeds the single-message content page.
type MailContentViewData struct {
	Layout LayoutData

	Subject   string
	FromLabel string
	ToLabel   string
	Content   template.HTML

	ErrorMessage string
}
