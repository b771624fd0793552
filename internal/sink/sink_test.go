package sink

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/phinze/pagedeck/internal/config"
	"github.com/phinze/pagedeck/internal/dispatch"
)

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewLog(zap.New(core).Sugar())

	if err := s.Send(dispatch.Command{Code: 23, Page: 2, ID: 3, Label: "CMD 3"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	want := "Button CMD 3 pressed on page 2. Running command 23"
	if entries[0].Message != want {
		t.Fatalf("message = %q, want %q", entries[0].Message, want)
	}
	if entries[0].LoggerName != "commands" {
		t.Fatalf("logger name = %q", entries[0].LoggerName)
	}
}

func TestMultiSendsToAll(t *testing.T) {
	var got []int
	record := dispatch.SinkFunc(func(c dispatch.Command) error {
		got = append(got, c.Code)
		return nil
	})
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	m := Multi{
		dispatch.SinkFunc(func(dispatch.Command) error { return errA }),
		record,
		dispatch.SinkFunc(func(dispatch.Command) error { return errB }),
		record,
	}
	err := m.Send(dispatch.Command{Code: 7})
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("combined error = %v", err)
	}
	if len(got) != 2 || got[0] != 7 || got[1] != 7 {
		t.Fatalf("recorded %v", got)
	}

	if err := (Multi{record}).Send(dispatch.Command{Code: 1}); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunsProgram(t *testing.T) {
	requireShell(t)
	out := filepath.Join(t.TempDir(), "out")

	e := NewExec(map[int]config.CommandConfig{
		12: {
			Run:         []string{"sh", "-c", `printf '%s %s %s %s' "$PAGEDECK_COMMAND" "$PAGEDECK_PAGE" "$PAGEDECK_LABEL" "$PAGEDECK_SECRET" > "$0"`, out},
			SecretValue: "hunter2",
		},
	}, zaptest.NewLogger(t).Sugar())
	defer e.Close()

	if err := e.Send(dispatch.Command{Code: 12, Page: 1, ID: 2, Label: "Play"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	e.Wait()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); got != "12 1 Play hunter2" {
		t.Fatalf("program saw %q", got)
	}
}

func TestExecIgnoresUnknownCode(t *testing.T) {
	e := NewExec(nil, zaptest.NewLogger(t).Sugar())
	defer e.Close()
	if err := e.Send(dispatch.Command{Code: 99}); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestExecStartFailure(t *testing.T) {
	e := NewExec(map[int]config.CommandConfig{
		1: {Run: []string{filepath.Join(t.TempDir(), "no-such-program")}},
		2: {},
	}, zaptest.NewLogger(t).Sugar())
	defer e.Close()

	err := e.Send(dispatch.Command{Code: 1})
	if err == nil || !strings.Contains(err.Error(), "command 1: starting") {
		t.Fatalf("got %v", err)
	}
	if err := e.Send(dispatch.Command{Code: 2}); err == nil {
		t.Fatal("empty program should fail")
	}
}

func TestExecTimeoutAndClose(t *testing.T) {
	requireShell(t)
	core, logs := observer.New(zapcore.WarnLevel)
	e := NewExec(map[int]config.CommandConfig{
		5: {Run: []string{"sh", "-c", "sleep 10"}},
	}, zap.New(core).Sugar(), WithTimeout(50*time.Millisecond))

	start := time.Now()
	if err := e.Send(dispatch.Command{Code: 5}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	e.Close()
	if time.Since(start) > 5*time.Second {
		t.Fatal("program outlived its timeout")
	}
	if logs.FilterMessage("Program failed").Len() != 1 {
		t.Fatalf("expected a failure log, got %v", logs.All())
	}
}

func TestExecSetCommands(t *testing.T) {
	requireShell(t)
	out := filepath.Join(t.TempDir(), "out")
	e := NewExec(nil, zaptest.NewLogger(t).Sugar())
	defer e.Close()

	e.SetCommands(map[int]config.CommandConfig{
		3: {Run: []string{"sh", "-c", `echo reloaded > "$0"`, out}},
	})
	if err := e.Send(dispatch.Command{Code: 3}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	e.Wait()
	if data, err := os.ReadFile(out); err != nil || strings.TrimSpace(string(data)) != "reloaded" {
		t.Fatalf("got %q, %v", data, err)
	}
}
