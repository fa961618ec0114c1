package log

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

const (
	EncodingConsole = "console"
	EncodingJSON    = "json"
)
