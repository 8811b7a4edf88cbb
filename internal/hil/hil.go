// Package hil runs hardware-in-the-loop sessions: a Verilator hardware
// simulation as a background service and an interactive controller in the
// foreground, with the simulation guaranteed to be reaped on every exit
// path.
package hil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ErrArtifactNotFound means the build produced no locatable simulation
// binary.
var ErrArtifactNotFound = errors.New("simulation binary not found")

type Options struct {
	BuildCmd []string

	// The build system keys its output path on a build hash, so the binary
	// is resolved at runtime: through Manifest when the build wrote one,
	// otherwise by searching SearchDir for executables matching Pattern.
	SearchDir string
	Pattern   string
	Manifest  string

	LaunchArgs []string
	LogPath    string

	// Endpoint is probed until the simulation accepts connections. Empty
	// means no probe; the harness just sleeps out Grace.
	Endpoint string
	Grace    time.Duration

	ControllerCmd []string

	// Controller stdio; nil fields default to the process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes a full session: build, locate, start the simulation in the
// background, wait for it to come up, hand the console to the controller,
// and tear the simulation down no matter how the controller ends.
func Run(ctx context.Context, opts *Options) error {
	if err := runBuild(ctx, opts.BuildCmd); err != nil {
		return err
	}
	bin, err := Locate(opts.SearchDir, opts.Pattern, opts.Manifest)
	if err != nil {
		return err
	}

	sess, err := Start(ctx, bin, opts.LaunchArgs, opts.LogPath)
	if err != nil {
		return err
	}
	defer sess.Stop()

	if err := WaitReady(ctx, opts.Endpoint, opts.Grace); err != nil {
		return fmt.Errorf("simulation at %s: %w (log: %s)", opts.Endpoint, err, opts.LogPath)
	}
	return runController(ctx, opts)
}

// Locate resolves the simulation binary. A manifest file naming the
// output path wins when present; otherwise the newest executable match
// under searchDir is picked, so stale binaries from earlier builds cannot
// shadow the one just built.
func Locate(searchDir, pattern, manifest string) (string, error) {
	if manifest != "" {
		if data, err := os.ReadFile(manifest); err == nil {
			p := strings.TrimSpace(string(data))
			if p != "" {
				if _, err := os.Stat(p); err == nil {
					return p, nil
				}
			}
		}
	}

	var best string
	var bestMod time.Time
	filepath.WalkDir(searchDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.Contains(d.Name(), pattern) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode()&0o111 == 0 {
			return nil
		}
		if best == "" || info.ModTime().After(bestMod) {
			best = path
			bestMod = info.ModTime()
		}
		return nil
	})
	if best == "" {
		return "", fmt.Errorf("%w: no executable matching %q under %s", ErrArtifactNotFound, pattern, searchDir)
	}
	return best, nil
}

// Session owns the background simulation process. Whoever starts a
// session must call Stop; nothing else is allowed to reap the process.
type Session struct {
	cmd     *exec.Cmd
	logFile *os.File
}

// Start launches the simulation in the background with stdout and stderr
// combined into one session log.
func Start(ctx context.Context, bin string, args []string, logPath string) (*Session, error) {
	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("creating session log: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("starting simulation %s: %w", bin, err)
	}
	return &Session{cmd: cmd, logFile: logFile}, nil
}

// PID returns the background process ID.
func (s *Session) PID() int {
	return s.cmd.Process.Pid
}

// Stop terminates and reaps the background process, escalating to SIGKILL
// if it ignores SIGTERM. Idempotent across exit paths.
func (s *Session) Stop() {
	if s.cmd != nil && s.cmd.Process != nil && s.cmd.ProcessState == nil {
		s.cmd.Process.Signal(syscall.SIGTERM)
		done := make(chan struct{})
		go func() {
			s.cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			s.cmd.Process.Kill()
			<-done
		}
	}
	if s.logFile != nil {
		s.logFile.Close()
		s.logFile = nil
	}
}

// WaitReady blocks until the endpoint accepts a TCP connection or the
// grace deadline passes. With no endpoint it degrades to sleeping out the
// grace period, which only bounds how long startup may take.
func WaitReady(ctx context.Context, endpoint string, grace time.Duration) error {
	if endpoint == "" {
		select {
		case <-time.After(grace):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", endpoint, time.Second)
		if err == nil {
			conn.Close()
			return nil
		}
		select {
		case <-time.After(200 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("not ready after %s", grace)
}

func runBuild(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("build command %v: %w\n%s", argv, err, out)
	}
	return nil
}

func runController(ctx context.Context, opts *Options) error {
	argv := opts.ControllerCmd
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("controller %v: %w", argv, err)
	}
	return nil
}
