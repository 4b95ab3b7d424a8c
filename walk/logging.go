// logging.go - default logging when the caller supplies none
//
// Licensing Terms: GPLv2

package walk

import "github.com/opencoff/go-logger"

func defaultLogger() logger.Logger {
	l, err := logger.NewLogger("NONE", logger.LOG_WARNING, "walk", logger.Ldate|logger.Ltime)
	if err != nil {
		// "NONE" is go-logger's sentinel for a discarding sink and
		// never fails to open; NewLogger's error still needs
		// checking like any other destination.
		panic(err)
	}
	return l
}
