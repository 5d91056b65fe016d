package logger

import "sync"

// closer is implemented by the package-level loggers
type closer[T any] interface {
	*T
	Close() error
}

// swapGlobal installs next in slot under mu and closes the logger it
// replaces. Passing nil clears the slot.
func swapGlobal[T any, P closer[T]](mu *sync.RWMutex, slot *P, next P) error {
	mu.Lock()
	defer mu.Unlock()

	prev := *slot
	*slot = next
	if prev == nil {
		return nil
	}
	return prev.Close()
}

func initGlobalFileLogger(fl *FileLogger) {
	_ = swapGlobal(&globalLoggerMu, &globalFileLogger, fl)
}

func closeGlobalFileLogger() error {
	return swapGlobal[FileLogger](&globalLoggerMu, &globalFileLogger, nil)
}

func initGlobalJSONLLogger(jl *JSONLLogger) {
	_ = swapGlobal(&globalJSONLMu, &globalJSONLLogger, jl)
}

func closeGlobalJSONLLogger() error {
	return swapGlobal[JSONLLogger](&globalJSONLMu, &globalJSONLLogger, nil)
}
