package nav

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/neovim/go-client/nvim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/symseek/internal/symbols"
)

// Test Plan for NvimTarget:
// - Connection failure aborts the whole attempt
// - The first window holding a normal buffer becomes the target window
// - All windows special -> ErrNoSuitableWindow
// - An existing buffer with the record's file name is relisted and reused
// - Otherwise a new buffer is created, the file loaded, and the user's
//   current buffer restored
// - Paths with ex command metacharacters are escaped before :edit
// - The target window is bound to the target buffer and the cursor set
//   with a 0-based column
// - A cursor placement failure is reported without rolling back
// - Non-UTF-8 file paths fail before dialing

// fakeEditor is a scripted in-memory Neovim standing in for the RPC API.
type fakeEditor struct {
	windows    []nvim.Window
	winBuffers map[nvim.Window]nvim.Buffer
	buffers    []nvim.Buffer
	names      map[nvim.Buffer]string
	buftypes   map[nvim.Buffer]string
	listed     map[nvim.Buffer]bool
	current    nvim.Buffer
	nextBuf    nvim.Buffer

	commands  []string
	cursorErr error
	cursor    map[nvim.Window][2]int
	closed    bool
}

func newFakeEditor() *fakeEditor {
	return &fakeEditor{
		windows:    []nvim.Window{1000},
		winBuffers: map[nvim.Window]nvim.Buffer{1000: 1},
		buffers:    []nvim.Buffer{1},
		names:      map[nvim.Buffer]string{1: "/p/main.rs"},
		buftypes:   map[nvim.Buffer]string{1: ""},
		listed:     map[nvim.Buffer]bool{1: true},
		current:    1,
		nextBuf:    2,
		cursor:     map[nvim.Window][2]int{},
	}
}

func (f *fakeEditor) Windows() ([]nvim.Window, error) { return f.windows, nil }

func (f *fakeEditor) WindowBuffer(w nvim.Window) (nvim.Buffer, error) {
	return f.winBuffers[w], nil
}

func (f *fakeEditor) Buffers() ([]nvim.Buffer, error) { return f.buffers, nil }

func (f *fakeEditor) BufferName(b nvim.Buffer) (string, error) { return f.names[b], nil }

func (f *fakeEditor) BufferOption(b nvim.Buffer, name string, result interface{}) error {
	if name == "buftype" {
		*(result.(*string)) = f.buftypes[b]
		return nil
	}
	return fmt.Errorf("unknown option %s", name)
}

func (f *fakeEditor) SetBufferOption(b nvim.Buffer, name string, value interface{}) error {
	if name == "buflisted" {
		f.listed[b] = value.(bool)
		return nil
	}
	return fmt.Errorf("unknown option %s", name)
}

func (f *fakeEditor) CurrentBuffer() (nvim.Buffer, error) { return f.current, nil }

func (f *fakeEditor) SetCurrentBuffer(b nvim.Buffer) error {
	f.current = b
	return nil
}

func (f *fakeEditor) CreateBuffer(listed, scratch bool) (nvim.Buffer, error) {
	b := f.nextBuf
	f.nextBuf++
	f.buffers = append(f.buffers, b)
	f.names[b] = ""
	f.buftypes[b] = ""
	f.listed[b] = listed
	return b, nil
}

func (f *fakeEditor) Command(cmd string) error {
	f.commands = append(f.commands, cmd)
	// :edit in an empty unnamed buffer loads the file into that buffer.
	// Backslash escapes are resolved the way the ex command line does.
	if name, ok := strings.CutPrefix(cmd, "edit "); ok {
		f.names[f.current] = strings.ReplaceAll(name, "\\", "")
	}
	return nil
}

func (f *fakeEditor) SetBufferToWindow(w nvim.Window, b nvim.Buffer) error {
	f.winBuffers[w] = b
	return nil
}

func (f *fakeEditor) SetWindowCursor(w nvim.Window, pos [2]int) error {
	if f.cursorErr != nil {
		return f.cursorErr
	}
	f.cursor[w] = pos
	return nil
}

func (f *fakeEditor) Close() error {
	f.closed = true
	return nil
}

func targetFor(f *fakeEditor) *NvimTarget {
	return &NvimTarget{
		socket: "/tmp/fake.sock",
		dial:   func(string) (api, error) { return f, nil },
	}
}

func record() symbols.Record {
	return symbols.Record{
		File:      "/p/foo.rs",
		Line:      5,
		Column:    1,
		Signature: "pub fn add(a: i32, b: i32) -> i32",
		Kind:      symbols.KindFunction,
	}
}

func TestNavigate_OpensNewBufferAndRestoresCurrent(t *testing.T) {
	t.Parallel()

	f := newFakeEditor()
	err := targetFor(f).Navigate(context.Background(), record())
	require.NoError(t, err)

	// Exactly one new buffer, carrying the record's file.
	require.Len(t, f.buffers, 2)
	newBuf := f.buffers[1]
	assert.Equal(t, "/p/foo.rs", f.names[newBuf])
	assert.Contains(t, f.commands, "edit /p/foo.rs")

	// The user's current buffer is back where it was.
	assert.Equal(t, nvim.Buffer(1), f.current)

	// The chosen window shows the new buffer with the cursor placed,
	// column converted to 0-based.
	assert.Equal(t, newBuf, f.winBuffers[1000])
	assert.Equal(t, [2]int{5, 0}, f.cursor[1000])

	assert.True(t, f.closed)
}

func TestNavigate_EscapesSpecialCharactersInPath(t *testing.T) {
	t.Parallel()

	f := newFakeEditor()
	rec := record()
	rec.File = "/p/my project/foo bar.rs"

	err := targetFor(f).Navigate(context.Background(), rec)
	require.NoError(t, err)

	assert.Contains(t, f.commands, `edit /p/my\ project/foo\ bar.rs`)
	require.Len(t, f.buffers, 2)
	assert.Equal(t, "/p/my project/foo bar.rs", f.names[f.buffers[1]])
}

func TestNavigate_ReusesExistingBuffer(t *testing.T) {
	t.Parallel()

	f := newFakeEditor()
	f.buffers = append(f.buffers, 7)
	f.names[7] = "/p/foo.rs"
	f.buftypes[7] = ""
	f.listed[7] = false

	err := targetFor(f).Navigate(context.Background(), record())
	require.NoError(t, err)

	// No new buffer, the existing one is relisted and bound.
	assert.Len(t, f.buffers, 2)
	assert.Empty(t, f.commands)
	assert.True(t, f.listed[7])
	assert.Equal(t, nvim.Buffer(7), f.winBuffers[1000])
	assert.Equal(t, [2]int{5, 0}, f.cursor[1000])
}

func TestNavigate_SkipsSpecialWindows(t *testing.T) {
	t.Parallel()

	f := newFakeEditor()
	// A terminal window precedes the normal one.
	f.windows = []nvim.Window{900, 1000}
	f.winBuffers[900] = 50
	f.names[50] = "term://zsh"
	f.buftypes[50] = "terminal"

	err := targetFor(f).Navigate(context.Background(), record())
	require.NoError(t, err)

	_, touched := f.cursor[900]
	assert.False(t, touched, "terminal window must not be used")
	assert.Equal(t, [2]int{5, 0}, f.cursor[1000])
}

func TestNavigate_NoSuitableWindow(t *testing.T) {
	t.Parallel()

	f := newFakeEditor()
	f.buftypes[1] = "help"

	err := targetFor(f).Navigate(context.Background(), record())
	assert.ErrorIs(t, err, ErrNoSuitableWindow)
}

func TestNavigate_ConnectFailureIsFatal(t *testing.T) {
	t.Parallel()

	target := &NvimTarget{
		socket: "/tmp/missing.sock",
		dial:   func(string) (api, error) { return nil, errors.New("connection refused") },
	}

	err := target.Navigate(context.Background(), record())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to editor")
}

func TestNavigate_RejectsInvalidPathEncoding(t *testing.T) {
	t.Parallel()

	dialed := false
	target := &NvimTarget{
		socket: "/tmp/fake.sock",
		dial: func(string) (api, error) {
			dialed = true
			return nil, errors.New("should not be called")
		},
	}

	rec := record()
	rec.File = "/p/\xff\xfe.rs"

	err := target.Navigate(context.Background(), rec)
	assert.ErrorIs(t, err, ErrBadPathEncoding)
	assert.False(t, dialed)
}

func TestNavigate_CursorFailureIsReportedNotRolledBack(t *testing.T) {
	t.Parallel()

	f := newFakeEditor()
	f.cursorErr = errors.New("cursor position outside buffer")

	err := targetFor(f).Navigate(context.Background(), record())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set cursor")

	// The buffer was opened and bound; nothing is undone.
	require.Len(t, f.buffers, 2)
	assert.Equal(t, f.buffers[1], f.winBuffers[1000])
}

func TestEscapeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain path", "/p/foo.rs", "/p/foo.rs"},
		{"spaces", "/p/my file.rs", `/p/my\ file.rs`},
		{"percent and hash", "/p/100%/#1.rs", `/p/100\%/\#1.rs`},
		{"backslash", `C:\p\foo.rs`, `C:\\p\\foo.rs`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeFileName(tt.in))
		})
	}
}

func TestPrintTarget(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	target := &PrintTarget{Out: &out}

	require.NoError(t, target.Navigate(context.Background(), record()))
	assert.Equal(t, "/p/foo.rs:5:1\tpub fn add(a: i32, b: i32) -> i32\n", out.String())
}
