package upstream

// User is an operator account as reported by the remote API.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// LoginResult is the payload returned by POST /api/users/login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LogQuery is the filter set for a log listing request.
type LogQuery struct {
	Date     string
	Server   string // "ui" or "api"
	Env      string
	Platform string
	LogType  string // main, background, sso, stdout; empty for all
	Page     int
	PageSize int
}

// LogFile is the canonical log artifact shape. The remote API emits two
// wire variants (snake_case S3 listings and camelCase agent listings);
// both normalize into this one struct before anything renders them.
type LogFile struct {
	Name         string
	Date         string
	Server       string
	Env          string
	LogType      string
	Size         int64
	LastModified string
}

// LogList is a page of log files plus the server-reported total.
type LogList struct {
	Files      []LogFile
	TotalCount int
	Page       int
	PageSize   int
}

// LogMatch is one search hit from GET /api/logs/search.
type LogMatch struct {
	FileName string `json:"file_name"`
	Server   string `json:"server"`
	Env      string `json:"env"`
	Content  string `json:"content"`
}

// BackupFile is a database backup artifact.
type BackupFile struct {
	FileName     string `json:"file_name"`
	Date         string `json:"date"`
	Env          string `json:"env"`
	Platform     string `json:"platform"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
}

// MailQuery is the filter set for a mail activity request.
type MailQuery struct {
	Statuses     []string
	DateFrom     string
	DateTo       string
	Keyword      string
	Limit        int
	Page         int
	FetchContent bool
}

// MailMessage is one outbound email event. Content may carry
// server-rendered markup (including <mark> highlight tags) and must be
// sanitized before display.
type MailMessage struct {
	ID      string `json:"_id"`
	Email   string `json:"email"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	State   string `json:"state"`
	TS      int64  `json:"ts"`
	Opens   int    `json:"opens"`
	Clicks  int    `json:"clicks"`
	Content string `json:"content,omitempty"`
}

// MailQuota is the provider-reported sending quota for the current period.
type MailQuota struct {
	EmailsSent      int     `json:"emails_sent"`
	MonthlyLimit    int     `json:"monthly_limit"`
	EmailsRemaining int     `json:"emails_remaining"`
	PercentageUsed  float64 `json:"percentage_used"`
	ResetDate       string  `json:"reset_date"`
	HourlyQuota     int     `json:"hourly_quota"`
	Backlog         int     `json:"backlog"`
}

// MailMetrics are aggregate delivery metrics for the filtered window.
type MailMetrics struct {
	Sent           int     `json:"sent"`
	Delivered      int     `json:"delivered"`
	Rejected       int     `json:"rejected"`
	Deliverability float64 `json:"deliverability"`
}

// MailActivityPage is the response of POST /api/mandrill/activity.
type MailActivityPage struct {
	Quota      MailQuota     `json:"quota"`
	Metrics    MailMetrics   `json:"metrics"`
	Messages   []MailMessage `json:"messages"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

// MailRecipient is one entry of a message's "to" list.
type MailRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// MailContent is the full stored content of one message.
type MailContent struct {
	Content   string          `json:"content"`
	Subject   string          `json:"subject"`
	FromEmail string          `json:"from_email"`
	FromName  string          `json:"from_name"`
	To        []MailRecipient `json:"to"`
}

// ResendResult is the response of POST /api/mandrill/resend/:id.
type ResendResult struct {
	Message      string `json:"message"`
	NewMessageID string `json:"new_message_id"`
}

// Blob is an opaque binary download proxied to the operator.
type Blob struct {
	ContentType string
	Filename    string
	Data        []byte
}

// rawLogFile accepts both wire variants of a log listing entry.
type rawLogFile struct {
	Name              string `json:"name"`
	FileName          string `json:"file_name"`
	Path              string `json:"path"`
	Date              string `json:"date"`
	Server            string `json:"server"`
	Env               string `json:"env"`
	LogType           string `json:"logType"`
	LogPattern        string `json:"log_pattern"`
	Size              int64  `json:"size"`
	LastModifiedCamel string `json:"lastModified"`
	LastModifiedSnake string `json:"last_modified"`
}

// rawLogList accepts both casings of the listing envelope.
type rawLogList struct {
	Files           []rawLogFile `json:"files"`
	TotalCountCamel *int         `json:"totalCount"`
	TotalCountSnake *int         `json:"total_count"`
	Page            int          `json:"page"`
	PageSizeCamel   *int         `json:"pageSize"`
	PageSizeSnake   *int         `json:"page_size"`
}
