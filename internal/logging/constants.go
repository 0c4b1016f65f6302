package logging

// Standardized field names for structured logging across the application.
const (
	FieldFile     = "file_path"
	FieldRow      = "row"
	FieldSection  = "section"
	FieldTicker   = "ticker"
	FieldCurrency = "currency"
	FieldDate     = "date"
	FieldValue    = "value"
	FieldCount    = "count"
	FieldError    = "error"
	FieldSource   = "source"
)
