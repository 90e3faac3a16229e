package logger

import (
	"os"
	"strings"

	corelogger "github.com/kilianp07/rescue/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// New returns a Logger for the given component. LOG_BACKEND selects the
// implementation ("zerolog" by default, or "logrus") and LOG_LEVEL the
// threshold.
func New(component string) Logger {
	level := corelogger.ParseLevel(os.Getenv("LOG_LEVEL"))
	switch strings.ToLower(os.Getenv("LOG_BACKEND")) {
	case "logrus":
		return NewLogrusLogger(component, level)
	default:
		return NewZerologLogger(component, level)
	}
}
