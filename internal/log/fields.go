package log

// Field names shared across all log call sites.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldReferer     = "referer"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldDescription = "description"
	FieldAmountCents = "amount_cents"
	FieldEntryType   = "entry_type"
	FieldWebhookURL  = "webhook_url"
)

// Component tags.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentFinance = "finance"
	ComponentNotify  = "notify"
)

// Operation tags.
const (
	OpCreate = "create"
	OpExport = "export"
	OpNotify = "notify"
	OpSweep  = "sweep"
)

// LogFields builds structured log attributes incrementally.
type LogFields map[string]any

// NewFields creates an empty field set.
func NewFields() LogFields {
	return make(LogFields)
}

// With sets an arbitrary field.
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntry tags a transaction or future entry being stored.
func (f LogFields) WithEntry(userID int64, desc string, amountCents int64, entryType string) LogFields {
	f[FieldUserID] = userID
	f[FieldDescription] = desc
	f[FieldAmountCents] = amountCents
	f[FieldEntryType] = entryType
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	f[FieldReferer] = referer
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice flattens the fields into slog's alternating key-value form.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
