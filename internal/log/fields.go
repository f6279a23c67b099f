package log

// FieldComponent tags every record emitted through a component logger.
const FieldComponent = "component"

// Component names for the process-wide loggers.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
