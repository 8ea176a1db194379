package logging

import "strings"

// LogLevelFromString converts string to LogLevel
func LogLevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// InitializeFromConfig builds a logger from configuration values.
func InitializeFromConfig(logConfig LogConfig) *Logger {
	return NewLogger(Config{
		Level:         LogLevelFromString(logConfig.Level),
		LogFile:       logConfig.LogFile,
		EnableConsole: logConfig.EnableConsole,
		EnableFile:    logConfig.EnableFile,
	})
}

// LogConfig mirrors the YAML logging section.
type LogConfig struct {
	Level         string `yaml:"level"`
	EnableConsole bool   `yaml:"enable_console"`
	EnableFile    bool   `yaml:"enable_file"`
	LogFile       string `yaml:"log_file"`
}

// ComponentNames for structured logging
const (
	ComponentFilter = "filter"
	ComponentCodec  = "codec"
	ComponentConfig = "config"
	ComponentMain   = "main"
)

// ActionNames for structured logging
const (
	ActionStart      = "start"
	ActionInsert     = "insert"
	ActionLookup     = "lookup"
	ActionRemove     = "remove"
	ActionSerialize  = "serialize"
	ActionRestore    = "restore"
	ActionValidation = "validation"
)
