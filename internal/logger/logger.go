package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init initializes the default logger.
func Init(debug, noColor bool) {
	InitWriter(os.Stderr, debug, noColor)
}

// InitWriter initializes the default logger to write to w.
func InitWriter(w io.Writer, debug, noColor bool) {
	log.SetDefault(log.NewWithOptions(w,
		log.Options{
			ReportCaller:    debug,
			ReportTimestamp: false,
			Prefix:          "chip8",
		}))

	log.SetLevel(log.WarnLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}
