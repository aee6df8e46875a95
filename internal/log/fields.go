package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldPlate       = "plate"
	FieldProductID   = "product_id"
	FieldEventID     = "event_id"
	FieldSupplierID  = "supplier_id"
	FieldInvoiceID   = "invoice_id"
	FieldAmountCents = "amount_cents"
	FieldOdometerKm  = "odometer_km"
	FieldDueDate     = "due_date"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentFleet   = "fleet"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpProject  = "project"
	OpClassify = "classify"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
