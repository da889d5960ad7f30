package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Formatting fields.
	FieldFlavor    = "flavor"
	FieldLineWidth = "line_width"
	FieldWrap      = "wrap"
	FieldJobs      = "jobs"
	FieldCheck     = "check"
	FieldLanguage  = "language"
	FieldCommand   = "command"
	FieldDuration  = "duration"
	FieldBytes     = "bytes"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesChanged     = "files_changed"
	FieldFilesCached      = "files_cached"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldName        = "name"
	FieldSeverity    = "severity"
	FieldFixable     = "fixable"
	FieldDescription = "description"

	// Language server fields.
	FieldMethod     = "method"
	FieldURI        = "uri"
	FieldDocVersion = "doc_version"
)
