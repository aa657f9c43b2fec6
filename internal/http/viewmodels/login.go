package viewmodels

// LoginViewData feeds the login form.
type LoginViewData struct {
	CSRFToken    string
	Email        string
	Next         string
	ErrorMessage string
	Toast        *ToastViewData
}
