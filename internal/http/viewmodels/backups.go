package viewmodels

// BackupRow is one listed database backup artifact.
type BackupRow struct {
	FileName     string
	Date         string
	SizeLabel    string
	LastModified string
}

// BackupsViewData feeds the database backup browser page.
type BackupsViewData struct {
	Layout LayoutData

	Date  string
	Files []BackupRow

	ErrorMessage  string
	EmptyStateMsg string

	DownloadAction string
}
