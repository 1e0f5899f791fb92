package dto

// SalesReportInput holds optional YYYY-MM-DD bounds. Empty values fall back to the
// configured default window ending today.
type SalesReportInput struct {
	StartDate string
	EndDate   string
}
