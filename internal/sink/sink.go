// Package sink provides the destinations for commands emitted by the
// dispatcher.
package sink

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/phinze/pagedeck/internal/dispatch"
)

// Log writes every command to the logger.
type Log struct {
	logger *zap.SugaredLogger
}

// NewLog creates a sink that only logs.
func NewLog(logger *zap.SugaredLogger) *Log {
	return &Log{logger: logger.Named("commands")}
}

// Send implements dispatch.CommandSink.
func (l *Log) Send(cmd dispatch.Command) error {
	l.logger.Infof("Button %s pressed on page %d. Running command %d", cmd.Label, cmd.Page, cmd.Code)
	return nil
}

// Multi sends each command to every sink in order. A failing sink does not
// stop the rest; their errors are combined.
type Multi []dispatch.CommandSink

// Send implements dispatch.CommandSink.
func (m Multi) Send(cmd dispatch.Command) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Send(cmd))
	}
	return err
}
