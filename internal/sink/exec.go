package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phinze/pagedeck/internal/config"
	"github.com/phinze/pagedeck/internal/dispatch"
)

// DefaultTimeout bounds how long a command program may run.
const DefaultTimeout = 30 * time.Second

// Exec runs the program configured for a command code. Programs run in the
// background; Send returns once the program has started.
type Exec struct {
	mu       sync.RWMutex
	commands map[int]config.CommandConfig
	timeout  time.Duration
	logger   *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ExecOption configures an Exec sink.
type ExecOption func(*Exec)

// WithTimeout sets the per-program timeout.
func WithTimeout(d time.Duration) ExecOption {
	return func(e *Exec) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewExec creates a sink running commands.
func NewExec(commands map[int]config.CommandConfig, logger *zap.SugaredLogger, opts ...ExecOption) *Exec {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Exec{
		commands: commands,
		timeout:  DefaultTimeout,
		logger:   logger.Named("exec"),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetCommands replaces the command table, for config reloads. Programs
// already running are not affected.
func (e *Exec) SetCommands(commands map[int]config.CommandConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = commands
}

// Send implements dispatch.CommandSink. Codes without a configured program
// are ignored.
func (e *Exec) Send(cmd dispatch.Command) error {
	e.mu.RLock()
	cc, ok := e.commands[cmd.Code]
	e.mu.RUnlock()
	if !ok {
		e.logger.Debugw("No program configured", "command", cmd.Code)
		return nil
	}
	if len(cc.Run) == 0 {
		return fmt.Errorf("command %d: empty program", cmd.Code)
	}

	ctx, cancel := context.WithTimeout(e.ctx, e.timeout)
	c := exec.CommandContext(ctx, cc.Run[0], cc.Run[1:]...)
	c.WaitDelay = time.Second
	c.Env = append(os.Environ(),
		"PAGEDECK_COMMAND="+strconv.Itoa(cmd.Code),
		"PAGEDECK_PAGE="+strconv.Itoa(cmd.Page),
		"PAGEDECK_BUTTON="+strconv.Itoa(cmd.ID),
		"PAGEDECK_LABEL="+cmd.Label,
	)
	if cc.SecretValue != "" {
		c.Env = append(c.Env, "PAGEDECK_SECRET="+cc.SecretValue)
	}
	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out

	if err := c.Start(); err != nil {
		cancel()
		return fmt.Errorf("command %d: starting %s: %w", cmd.Code, cc.Run[0], err)
	}
	e.logger.Debugw("Started program", "command", cmd.Code, "program", cc.Run[0], "pid", c.Process.Pid)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		err := c.Wait()
		if err != nil {
			e.logger.Warnw("Program failed", "command", cmd.Code, "program", cc.Run[0], "error", err, "output", out.String())
			return
		}
		e.logger.Debugw("Program finished", "command", cmd.Code, "program", cc.Run[0], "output", out.String())
	}()
	return nil
}

// Wait blocks until every started program has exited.
func (e *Exec) Wait() {
	e.wg.Wait()
}

// Close kills running programs and waits for them.
func (e *Exec) Close() error {
	e.cancel()
	e.wg.Wait()
	return nil
}
