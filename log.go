package unifiedui

import (
	"io"
	"log"
)

// Discard is a Logger that ignores all logging. Components use it when no
// logger is configured.
var Discard = log.New(io.Discard, "", 0)

func loggerOr(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard
	}
	return l
}
