// Package viewmodels holds the plain data structs the templates render.
package viewmodels

// ToastViewData is a one-shot flash notification.
type ToastViewData struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LayoutData is the common chrome every authenticated page renders:
// operator identity, active navigation, and the platform/env scope the
// data views are filtered by.
type LayoutData struct {
	Title      string
	CSRFToken  string
	Username   string
	UserEmail  string
	UserRole   string
	IsAdmin    bool
	ActivePath string
	Platform   string
	Env        string
	Platforms  []string
	Envs       []string
	Toast      *ToastViewData
}
