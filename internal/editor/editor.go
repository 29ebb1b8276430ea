// Package editor composes a startup idea in the user's $VISUAL or $EDITOR.
package editor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ComposeIdea creates the text presented to the editor.
func ComposeIdea(initial string) string {
	var b bytes.Buffer
	b.WriteString("# Describe your startup idea below.\n")
	b.WriteString("# Lines starting with '#' are ignored. Save an empty file to cancel.\n")
	if initial != "" {
		if !strings.HasSuffix(initial, "\n") {
			initial += "\n"
		}
		b.WriteString(initial)
	}
	return b.String()
}

// ParseIdea drops comment lines and surrounding blank lines.
func ParseIdea(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t\r"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// TempPath returns a fresh path for an idea draft.
func TempPath() (string, error) {
	name := fmt.Sprintf("idea-%d.md", time.Now().UnixNano())
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "ideaval", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "ideaval", "edit", name), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// Session wires the editor process to a terminal.
type Session struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OpenAt opens the editor at path with initial content and returns the
// final bytes and whether they changed. The file is removed afterwards.
func (s Session) OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	defer os.Remove(path)

	ed, err := PreferredEditor()
	if err != nil {
		return nil, false, err
	}
	// VISUAL/EDITOR may carry flags, so run through the shell
	cmd := exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
	cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	cmd.Stdin = orDefault(s.Stdin, os.Stdin)
	cmd.Stdout = orDefaultW(s.Stdout, os.Stdout)
	cmd.Stderr = orDefaultW(s.Stderr, os.Stderr)
	if err := cmd.Run(); err != nil {
		return nil, false, fmt.Errorf("run editor %q: %w", ed, err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// EditIdea runs the full compose cycle and returns the parsed idea.
func (s Session) EditIdea(initial string) (string, error) {
	path, err := TempPath()
	if err != nil {
		return "", err
	}
	out, _, err := s.OpenAt(path, []byte(ComposeIdea(initial)))
	if err != nil {
		return "", err
	}
	return ParseIdea(string(out)), nil
}

func orDefault(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orDefaultW(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
