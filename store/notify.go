package store

import "github.com/shuleplus/ukaguzi/core"

// Notifier surfaces user-visible outcome notifications, the toast analog.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type loggerNotifier struct {
	log core.Logger
}

var _ Notifier = (*loggerNotifier)(nil)

// NewLoggerNotifier routes notifications to the app logger; used where no
// richer UI surface exists.
func NewLoggerNotifier(log core.Logger) Notifier {
	return &loggerNotifier{log: log}
}

func (n *loggerNotifier) Success(msg string) { n.log.Info(msg) }
func (n *loggerNotifier) Error(msg string)   { n.log.Warn(msg) }
