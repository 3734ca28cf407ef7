package markupify

import (
	"log"
	"os"
)

// Logger is the package logger. Only the message pipeline logs; the
// conversion core does no I/O.
var Logger = log.New(os.Stderr, "[markupify] ", log.LstdFlags)

// SetLogger replaces the package logger.
func SetLogger(logger *log.Logger) {
	Logger = logger
}
