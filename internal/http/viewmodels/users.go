package viewmodels

// UserRow is one operator account row.
type UserRow struct {
	ID       int64
	Username string
	Email    string
	Role     string
}

// UsersViewData feeds the operator accounts page.
type UsersViewData struct {
	Layout LayoutData

	Users []UserRow

	ErrorMessage  string
	EmptyStateMsg string
}

// DashboardSection is one navigation card on the landing page.
type DashboardSection struct {
	Title       string
	Description string
	Href        string
}

// DashboardViewData feeds the landing page.
type DashboardViewData struct {
	Layout   LayoutData
	Sections []DashboardSection
}
