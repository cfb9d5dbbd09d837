package logging

// Standard field names, so log output can be filtered consistently.
const (
	FieldFile       = "file_path"
	FieldBackend    = "backend"
	FieldOperation  = "operation"
	FieldStrategy   = "strategy"
	FieldBusiness   = "business"
	FieldCategory   = "category"
	FieldCount      = "count"
	FieldDuplicates = "duplicates"
	FieldAccepted   = "accepted"
	FieldSection    = "section"
	FieldRow        = "row"
	FieldAttempt    = "attempt"
	FieldMonth      = "month"
	FieldError      = "error"
)
