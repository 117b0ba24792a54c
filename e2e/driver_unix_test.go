//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/creack/pty"
)

const ringSize = 1 << 20  // 1 MiB of scrollback
var binPath = "dmitri_e2e" // unified binary path

// Key constants for better readability
const (
	KeyEnter     = "\r"
	KeyCtrlC     = "\x03"
	KeyEscape    = "\x1b"
	KeyTab       = "\t"
	KeyShiftTab  = "\x1b[Z"
	KeyBackspace = "\x7f"
)

// ANSI escape sequence regex for normalization - covers CSI, OSC, charset, keypad modes
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` + // CSI sequences
		`(?:\x1b\][^\x07]*\x07)|` + // OSC sequences
		`(?:\x1b[\(\)][A-Za-z])|` + // charset sequences
		`(?:\x1b=|\x1b>)|` + // keypad mode sequences
		`\r`, // carriage returns
)

// TUITestFramework provides utilities for testing the launcher in a PTY
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	tty       *os.File
	cmd       *exec.Cmd
	workspace string
	binDir    string

	// Ring buffer for continuous output capture
	mu   sync.Mutex
	buf  []byte
	head int
	full bool
	cond *sync.Cond
}

// NewTUITest creates a new TUI test framework instance with an isolated
// workspace: a fresh $HOME and an empty bin directory that becomes the
// whole search path.
func NewTUITest(t *testing.T) *TUITestFramework {
	tf := &TUITestFramework{
		t:   t,
		buf: make([]byte, ringSize),
	}
	tf.cond = sync.NewCond(&tf.mu)

	ws, err := os.MkdirTemp("", "dmitri-e2e-*")
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	tf.workspace = ws
	tf.binDir = filepath.Join(ws, "bin")
	if err := os.MkdirAll(tf.binDir, 0755); err != nil {
		t.Fatalf("failed to create bin dir: %v", err)
	}
	return tf
}

// AddExecutable drops an executable shell script into the search path.
// The launcher runs with the bin dir as its whole $PATH, so the script
// restores a standard one for its own commands.
func (tf *TUITestFramework) AddExecutable(name, script string) string {
	tf.t.Helper()
	p := filepath.Join(tf.binDir, name)
	content := "#!/bin/sh\nPATH=/usr/bin:/bin\n" + script + "\n"
	if err := os.WriteFile(p, []byte(content), 0755); err != nil {
		tf.t.Fatalf("failed to write executable %s: %v", name, err)
	}
	return p
}

// AddPlainFile drops a non-executable file into the search path. It
// must never show up as a candidate.
func (tf *TUITestFramework) AddPlainFile(name string) string {
	tf.t.Helper()
	p := filepath.Join(tf.binDir, name)
	if err := os.WriteFile(p, []byte("data\n"), 0644); err != nil {
		tf.t.Fatalf("failed to write file %s: %v", name, err)
	}
	return p
}

// StartApp launches the launcher with given arguments in a PTY
func (tf *TUITestFramework) StartApp(args ...string) error {
	// A test may restart the launcher in the same workspace.
	if tf.pty != nil {
		_ = tf.pty.Close()
	}
	if tf.tty != nil {
		_ = tf.tty.Close()
	}

	cmdArgs := append([]string{binPath}, args...)
	tf.cmd = exec.Command(cmdArgs[0], cmdArgs[1:]...)

	// Isolate the environment: the workspace is $HOME, so config,
	// cache and history all land inside it, and the bin dir is the
	// entire search path.
	tf.cmd.Env = []string{
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME=" + tf.workspace,
		"PATH=" + tf.binDir,
	}

	ptyFile, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("failed to open pty: %w", err)
	}

	tf.pty = ptyFile
	tf.tty = tty
	tf.cmd.Stdout = tty
	tf.cmd.Stdin = tty
	tf.cmd.Stderr = tty

	// Set terminal size
	ws := struct {
		Row uint16
		Col uint16
		X   uint16
		Y   uint16
	}{40, 120, 0, 0}
	syscall.Syscall(syscall.SYS_IOCTL, ptyFile.Fd(), uintptr(syscall.TIOCSWINSZ), uintptr(unsafe.Pointer(&ws)))

	if err := tf.cmd.Start(); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to start command: %w", err)
	}

	tf.startReader()

	return nil
}

// startReader starts the continuous reader goroutine
func (tf *TUITestFramework) startReader() {
	go func() {
		buf := make([]byte, 8192)
		for {
			n, err := tf.pty.Read(buf)
			if n > 0 {
				tf.mu.Lock()
				for i := 0; i < n; i++ {
					tf.buf[tf.head] = buf[i]
					tf.head = (tf.head + 1) % ringSize
					if tf.head == 0 {
						tf.full = true
					}
				}
				tf.cond.Broadcast()
				tf.mu.Unlock()
			}
			if err != nil {
				tf.mu.Lock()
				tf.cond.Broadcast()
				tf.mu.Unlock()
				return
			}
		}
	}()
}

// SendKeys sends keystrokes to the application
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// Type sends a string one rune at a time, the way a user would
func (tf *TUITestFramework) Type(s string) error {
	tf.t.Helper()
	for _, r := range s {
		if err := tf.SendKeys(string(r)); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

// Ready waits for the launcher strip to appear
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.OutputContainsPlain("> ", 10*time.Second)
}

// SeePlain waits for specific plain text to appear (normalized output)
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.OutputContainsPlain(text, 3*time.Second)
}

// WaitExit waits for the launcher process to exit and returns its exit
// code, or -1 on timeout.
func (tf *TUITestFramework) WaitExit(timeout time.Duration) int {
	tf.t.Helper()
	done := make(chan int, 1)
	go func() {
		err := tf.cmd.Wait()
		if err == nil {
			done <- 0
			return
		}
		if ee, ok := err.(*exec.ExitError); ok {
			done <- ee.ExitCode()
			return
		}
		done <- -1
	}()
	select {
	case code := <-done:
		tf.cmd = nil
		return code
	case <-time.After(timeout):
		return -1
	}
}

// WaitForFile polls until a file exists, for checking spawn side effects
func (tf *TUITestFramework) WaitForFile(path string, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if _, err := os.Stat(path); err == nil {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// LastFrame returns the most recent repaint of the strip: the plain
// output from the last prompt onward. Earlier frames stay in the ring
// buffer, so negative assertions must look here.
func (tf *TUITestFramework) LastFrame() string {
	tf.t.Helper()
	plain := tf.SnapshotPlain()
	idx := strings.LastIndex(plain, "> ")
	if idx < 0 {
		return plain
	}
	return plain[idx:]
}

// WaitLastFrame waits for a predicate to hold on the most recent frame
func (tf *TUITestFramework) WaitLastFrame(pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.LastFrame()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// OutputContainsPlain checks if the normalized output contains specific text within a timeout
func (tf *TUITestFramework) OutputContainsPlain(text string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, timeout)
}

// WaitFor waits for a predicate to be true in the output
func (tf *TUITestFramework) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.Snapshot()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond) // simple, reliable polling; tests only
	}
}

// Snapshot returns the current contents of the ring buffer (thread-safe)
func (tf *TUITestFramework) Snapshot() string {
	tf.t.Helper()
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.snapshot()
}

// snapshot returns the current contents of the ring buffer
// NOTE: This assumes the mutex is already locked by the caller
func (tf *TUITestFramework) snapshot() string {
	if !tf.full {
		return string(tf.buf[:tf.head])
	}
	out := make([]byte, ringSize)
	copy(out, tf.buf[tf.head:])
	copy(out[ringSize-tf.head:], tf.buf[:tf.head])
	return string(out)
}

// SnapshotPlain returns the current contents of the ring buffer with ANSI sequences removed
func (tf *TUITestFramework) SnapshotPlain() string {
	tf.t.Helper()
	return ansiRe.ReplaceAllString(tf.Snapshot(), "")
}

// Cleanup closes the PTY and terminates the application
func (tf *TUITestFramework) Cleanup() {
	// Close PTY first to deliver SIGHUP to child process
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.tty != nil {
		_ = tf.tty.Close()
		tf.tty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.cmd.Process.Wait()
		tf.cmd = nil
	}
	if tf.workspace != "" {
		_ = os.RemoveAll(tf.workspace)
		tf.workspace = ""
	}
}
