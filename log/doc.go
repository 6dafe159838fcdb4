// Package log is the leveled, printf-style logger used by the workflow packages.
//
// The default logger is backed by github.com/kataras/golog and writes to stderr at
// info level. Replace it with SetDefaultLogger, SetLogLevel or SetOutput, or pass a
// Logger explicitly where a component accepts one. ParseLevel maps configuration
// strings to a LogLevel.
//
//	log.SetLogLevel(log.LogLevelDebug)
//	log.Info("run %s finished after %d generations", id, n)
package log
