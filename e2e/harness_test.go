// ABOUTME: E2E harness: builds the mpv binary and runs it under a real PTY
// ABOUTME: Captures raw terminal output for assertions on escape sequences

package e2e

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
)

// buildBinary compiles cmd/mpv once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "mpv-e2e-*")
		if err != nil {
			buildErr = err
			return
		}
		binPath = filepath.Join(dir, "mpv")
		cmd := exec.Command("go", "build", "-o", binPath, "github.com/AgustinCB/mpv/cmd/mpv")
		cmd.Dir = moduleRoot()
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build: %w\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatal(buildErr)
	}
	return binPath
}

func moduleRoot() string {
	wd, _ := os.Getwd()
	return filepath.Dir(wd)
}

// session is one player process running under a PTY.
type session struct {
	cmd  *exec.Cmd
	tty  *os.File
	mu   sync.Mutex
	out  bytes.Buffer
	done chan error
}

// startPlayer launches the binary under a PTY advertising kitty support.
func startPlayer(t *testing.T, args ...string) *session {
	t.Helper()
	return startPlayerWithTerm(t, "xterm-kitty", args...)
}

// startPlayerWithTerm launches the binary under a PTY with the given TERM
// and all other graphics-terminal hints scrubbed from the environment.
func startPlayerWithTerm(t *testing.T, termEnv string, args ...string) *session {
	t.Helper()
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}
	if runtime.GOOS != "linux" {
		t.Skip("e2e tests need linux shared memory")
	}

	bin := buildBinary(t)
	cmd := exec.Command(bin, args...)
	var env []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "TERM", "TERM_PROGRAM", "KITTY_WINDOW_ID", "GHOSTTY_RESOURCES_DIR", "WEZTERM_PANE":
			continue
		}
		env = append(env, kv)
	}
	cmd.Env = append(env, "TERM="+termEnv)

	tty, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: 40, Cols: 120, X: 960, Y: 600,
	})
	if err != nil {
		t.Fatal(err)
	}

	s := &session{cmd: cmd, tty: tty, done: make(chan error, 1)}
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := tty.Read(buf)
			if n > 0 {
				s.mu.Lock()
				s.out.Write(buf[:n])
				s.mu.Unlock()
			}
			if err != nil {
				break
			}
		}
	}()
	go func() { s.done <- cmd.Wait() }()
	return s
}

func (s *session) output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.String()
}

// expectString polls the captured output for needle.
func (s *session) expectString(t *testing.T, needle string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.output(), needle) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("did not see %q within %v; output:\n%q", needle, timeout, s.output())
}

// waitExit waits for the process to finish and returns its error.
func (s *session) waitExit(t *testing.T, timeout time.Duration) error {
	t.Helper()
	select {
	case err := <-s.done:
		return err
	case <-time.After(timeout):
		s.cmd.Process.Kill()
		t.Fatalf("process did not exit within %v; output:\n%q", timeout, s.output())
		return nil
	}
}

func (s *session) close() {
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.tty.Close()
}
