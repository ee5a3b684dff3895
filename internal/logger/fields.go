package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields, propagated through the request context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSource is the catalog source identifier
	FieldSource = "source"

	// FieldProvider is the language model provider
	FieldProvider = "provider"
)

// Metric fields, attached to single log lines for aggregation.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"
	FieldStatus     = "status"

	// FieldStrategy is the catalog match strategy that produced a hit
	FieldStrategy = "strategy"

	// FieldCaption is a matched or requested meme caption
	FieldCaption = "caption"
)
