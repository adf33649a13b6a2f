package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldSessionID     = "session_id"
	FieldTransactionID = "transaction_id"
	FieldTxType        = "transaction_type"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldPlayerCount   = "player_count"
	FieldBackend       = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentWorker  = "worker"
	ComponentArchive = "archive"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpStartGame = "start_game"
	OpRecord    = "record"
	OpUndo      = "undo"
	OpEndGame   = "end_game"
	OpLoad      = "load"
	OpSave      = "save"
	OpReset     = "reset"
	OpAppend    = "append"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)
