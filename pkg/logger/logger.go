package logger

// Backend is implemented by logging sinks the global logger dispatches to.
type Backend interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

// Logger fans every log call out to all configured backends.
type Logger struct {
	backends []Backend
}

var singleton *Logger

func getSingleton() *Logger {
	return singleton
}

// Init installs the global logger. Call it once at process start,
// before anything logs; calls made with no logger installed are dropped.
func Init(backends ...Backend) {
	singleton = &Logger{
		backends: backends,
	}
}

// Log writes a message at the default level to all backends.
func Log(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, backend := range logger.backends {
		backend.Log(message, keyvals...)
	}
}

// Debug writes a message at DEBUG level to all backends.
func Debug(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, backend := range logger.backends {
		backend.Debug(message, keyvals...)
	}
}

// Info writes a message at INFO level to all backends.
func Info(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, backend := range logger.backends {
		backend.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level to all backends.
func Warn(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, backend := range logger.backends {
		backend.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level to all backends.
func Error(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, backend := range logger.backends {
		backend.Error(message, keyvals...)
	}
}

// Fatal writes a message at FATAL level and terminates the process.
func Fatal(message string, keyvals ...any) {
	logger := getSingleton()
	if logger == nil {
		return
	}

	for _, backend := range logger.backends {
		backend.Fatal(message, keyvals...)
	}
}
