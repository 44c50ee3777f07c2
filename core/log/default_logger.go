package log

// defaultLogger is the process-wide logger used by the package-level logging functions; a nopLogger until a caller
// installs one via SetDefaultLogger.
var defaultLogger = NewWrappedLogger(nil)

// SetDefaultLogger installs logger as the destination for the package-level logging functions.
func SetDefaultLogger(logger Logger) {
	defaultLogger = NewWrappedLogger(logger)
}

// Tracef logs the provided information at the trace level using the default logger.
func Tracef(format string, args ...any) {
	defaultLogger.Tracef(format, args...)
}

// Debugf logs the provided information at the debug level using the default logger.
func Debugf(format string, args ...any) {
	defaultLogger.Debugf(format, args...)
}

// Infof logs the provided information at the info level using the default logger.
func Infof(format string, args ...any) {
	defaultLogger.Infof(format, args...)
}

// Warnf logs the provided information at the warn level using the default logger.
func Warnf(format string, args ...any) {
	defaultLogger.Warnf(format, args...)
}

// Errorf logs the provided information at the error level using the default logger.
func Errorf(format string, args ...any) {
	defaultLogger.Errorf(format, args...)
}

// Panicf logs the provided information at the panic level using the default logger.
func Panicf(format string, args ...any) {
	defaultLogger.Panicf(format, args...)
}
