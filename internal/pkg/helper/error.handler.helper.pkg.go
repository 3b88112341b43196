package helper

import (
	"idea-inbox/internal/pkg/logger"
)

// HandleAppError logs err with its location. Fatal errors are returned to
// the caller, the others are only logged.
func HandleAppError(err error, function, step string, fatal bool) error {
	if err == nil {
		return nil
	}
	entry := logger.Error.WithError(err).WithField("function", function).WithField("step", step)
	if fatal {
		entry.Println("Fatal error")
		return err
	}
	entry.Println("Error")
	return nil
}
