package nav

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/neovim/go-client/nvim"

	"github.com/mvp-joe/symseek/internal/logger"
	"github.com/mvp-joe/symseek/internal/symbols"
)

var (
	// ErrNoSuitableWindow means no window holds a normal editable buffer.
	ErrNoSuitableWindow = errors.New("no suitable window")
	// ErrBadPathEncoding means the record's file path is not valid UTF-8
	// and cannot be compared against buffer names.
	ErrBadPathEncoding = errors.New("file path is not valid UTF-8")
)

// api is the slice of the Neovim RPC surface the navigation protocol
// touches. *nvim.Nvim satisfies it; tests substitute a scripted editor.
type api interface {
	Windows() ([]nvim.Window, error)
	WindowBuffer(window nvim.Window) (nvim.Buffer, error)
	Buffers() ([]nvim.Buffer, error)
	BufferName(buffer nvim.Buffer) (string, error)
	BufferOption(buffer nvim.Buffer, name string, result interface{}) error
	SetBufferOption(buffer nvim.Buffer, name string, value interface{}) error
	CurrentBuffer() (nvim.Buffer, error)
	SetCurrentBuffer(buffer nvim.Buffer) error
	CreateBuffer(listed, scratch bool) (nvim.Buffer, error)
	Command(cmd string) error
	SetBufferToWindow(window nvim.Window, buffer nvim.Buffer) error
	SetWindowCursor(window nvim.Window, pos [2]int) error
	Close() error
}

// NvimTarget drives a running Neovim instance over its unix socket. Each
// protocol step is a separate remote call, executed strictly in sequence;
// a cursor placement failure does not roll back the buffer and window
// changes already made.
type NvimTarget struct {
	socket string
	dial   func(addr string) (api, error)
}

// NewNvimTarget creates a target for the editor listening on socket.
func NewNvimTarget(socket string) *NvimTarget {
	return &NvimTarget{
		socket: socket,
		dial: func(addr string) (api, error) {
			return nvim.Dial(addr)
		},
	}
}

// Navigate opens the record's file in the editor and places the cursor on
// the declaration. Connection failure is fatal to the attempt; later
// failures leave whatever state was already established.
func (t *NvimTarget) Navigate(ctx context.Context, rec symbols.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !utf8.ValidString(rec.File) {
		return fmt.Errorf("%w: %q", ErrBadPathEncoding, rec.File)
	}

	v, err := t.dial(t.socket)
	if err != nil {
		return fmt.Errorf("connect to editor at %s: %w", t.socket, err)
	}
	defer v.Close()

	win, err := pickWindow(v)
	if err != nil {
		return err
	}

	buf, err := findOrOpenBuffer(v, rec.File)
	if err != nil {
		return err
	}

	if err := v.SetBufferToWindow(win, buf); err != nil {
		return fmt.Errorf("bind window to buffer: %w", err)
	}

	// Neovim cursor columns are 0-based; records are 1-based.
	if err := v.SetWindowCursor(win, [2]int{rec.Line, rec.Column - 1}); err != nil {
		return fmt.Errorf("set cursor to %d:%d: %w", rec.Line, rec.Column, err)
	}

	return nil
}

// pickWindow returns the first window whose buffer is a normal editable
// buffer (empty buftype), so navigation reuses an ordinary editing window
// rather than a terminal or help window.
func pickWindow(v api) (nvim.Window, error) {
	wins, err := v.Windows()
	if err != nil {
		return 0, fmt.Errorf("list windows: %w", err)
	}

	for _, win := range wins {
		buf, err := v.WindowBuffer(win)
		if err != nil {
			return 0, fmt.Errorf("window buffer: %w", err)
		}
		var buftype string
		if err := v.BufferOption(buf, "buftype", &buftype); err != nil {
			return 0, fmt.Errorf("buffer option buftype: %w", err)
		}
		if buftype == "" {
			return win, nil
		}
	}

	return 0, ErrNoSuitableWindow
}

// findOrOpenBuffer reuses an existing buffer named file, or loads the file
// into a fresh buffer. Loading switches the current buffer only long
// enough to issue the edit command, then restores it so the user's editing
// context is not visibly disturbed.
func findOrOpenBuffer(v api, file string) (nvim.Buffer, error) {
	bufs, err := v.Buffers()
	if err != nil {
		return 0, fmt.Errorf("list buffers: %w", err)
	}

	for _, buf := range bufs {
		name, err := v.BufferName(buf)
		if err != nil {
			return 0, fmt.Errorf("buffer name: %w", err)
		}
		if name == file {
			logger.Debug("reusing buffer %d for %s", buf, file)
			if err := v.SetBufferOption(buf, "buflisted", true); err != nil {
				return 0, fmt.Errorf("list buffer: %w", err)
			}
			return buf, nil
		}
	}

	logger.Debug("no open buffer for %s, loading it", file)

	prev, err := v.CurrentBuffer()
	if err != nil {
		return 0, fmt.Errorf("current buffer: %w", err)
	}

	buf, err := v.CreateBuffer(true, false)
	if err != nil {
		return 0, fmt.Errorf("create buffer: %w", err)
	}
	if err := v.SetCurrentBuffer(buf); err != nil {
		return 0, fmt.Errorf("switch to new buffer: %w", err)
	}
	if err := v.Command("edit " + escapeFileName(file)); err != nil {
		return 0, fmt.Errorf("edit %s: %w", file, err)
	}
	if err := v.SetCurrentBuffer(prev); err != nil {
		return 0, fmt.Errorf("restore previous buffer: %w", err)
	}

	return buf, nil
}

// escapeFileName escapes a path for use in an ex command, like Vim's
// fnameescape(): spaces and command-line metacharacters are backslashed.
func escapeFileName(file string) string {
	var b strings.Builder
	b.Grow(len(file))
	for _, r := range file {
		if strings.ContainsRune(" \t\n*?[{`$\\%#'\"|!<", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
