// Package nav sends a confirmed symbol to a destination: a running Neovim
// instance over its RPC socket, or plain output when no editor is attached.
package nav

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mvp-joe/symseek/internal/symbols"
)

// Target navigates to one confirmed record. Implementations must be safe
// to call exactly once per session.
type Target interface {
	Navigate(ctx context.Context, rec symbols.Record) error
}

// PrintTarget writes the record's location instead of driving an editor.
// It is the fallback when no editor socket is configured.
type PrintTarget struct {
	Out io.Writer
}

// NewPrintTarget creates a PrintTarget writing to stdout.
func NewPrintTarget() *PrintTarget {
	return &PrintTarget{Out: os.Stdout}
}

// Navigate prints file:line:column and the signature.
func (t *PrintTarget) Navigate(_ context.Context, rec symbols.Record) error {
	_, err := fmt.Fprintf(t.Out, "%s:%d:%d\t%s\n", rec.File, rec.Line, rec.Column, rec.Signature)
	return err
}
