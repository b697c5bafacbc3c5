package tui

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/contactbook/internal/contact"
)

// Display renders pages of contacts.
type Display interface {
	Show(ctx context.Context, pages iter.Seq[[]*contact.Record]) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Writer     io.Writer        // Output destination (default: os.Stdout).
	ForcePlain bool             // Force plain text even if TTY.
	Now        func() time.Time // Clock for birthday countdowns (default: time.Now).
}

// NewDisplay returns a TUI pager when the writer is a TTY, or a plain text
// display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.ForcePlain || !IsTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer, now: opts.Now}
	}

	return &TUIDisplay{w: opts.Writer, now: opts.Now}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay writes every page as text lines.
type PlainDisplay struct {
	w   io.Writer
	now func() time.Time
}

// NewPlainDisplay returns a PlainDisplay writing to w.
func NewPlainDisplay(w io.Writer, now func() time.Time) *PlainDisplay {
	if now == nil {
		now = time.Now
	}
	return &PlainDisplay{w: w, now: now}
}

// Show writes each page under a "Page N" header.
// Returns the context error if cancelled between pages.
func (d *PlainDisplay) Show(ctx context.Context, pages iter.Seq[[]*contact.Record]) error {
	now := d.now()
	n := 0
	for page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		n++
		_, _ = fmt.Fprintf(d.w, "Page %d\n", n)
		for _, r := range page {
			_, _ = fmt.Fprintln(d.w, PlainRecord(r, now))
		}
	}
	if n == 0 {
		_, _ = fmt.Fprintln(d.w, "No contacts.")
	}
	return nil
}

// PlainRecord renders a record as its string form followed by its birthday
// and countdown, if any.
func PlainRecord(r *contact.Record, now time.Time) string {
	line := "  " + r.String()
	if bd, ok := r.Birthday(); ok {
		line += " Birthday: " + bd.Value()
		if days, ok := r.DaysToBirthdayFrom(now); ok {
			line += " (" + countdown(days) + ")"
		}
	}
	return line
}

// TUIDisplay pages through contacts using a Bubble Tea terminal UI.
// Falls back to PlainDisplay if the TUI program fails to start.
type TUIDisplay struct {
	w   io.Writer
	now func() time.Time
}

// Show runs the pager until the user quits.
func (d *TUIDisplay) Show(ctx context.Context, pages iter.Seq[[]*contact.Record]) error {
	model := NewModel(pages, WithClock(d.now))
	p := tea.NewProgram(model, tea.WithOutput(d.w), tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		plain := &PlainDisplay{w: d.w, now: d.now}
		return plain.Show(ctx, pages)
	}
	return nil
}
