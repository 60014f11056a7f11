package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldGroup      = "group"
	FieldName       = "name"
	FieldAction     = "action"
	FieldEntryID    = "entry_id"
	FieldAmount     = "amount"
	FieldGoal       = "goal"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentSync   = "sync"
	ComponentGoals  = "goals"
	ComponentAMQP   = "amqp"
	ComponentWorker = "worker"
	ComponentReport = "report"
	ComponentCache  = "cache"
)
