// Package tui renders address book pages, as a Bubble Tea pager on a
// terminal or as plain text otherwise.
package tui

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contactbook/internal/contact"
)

// Model is the Bubble Tea model for paging through contacts.
type Model struct {
	pages [][]*contact.Record
	page  int
	keys  pagerKeys
	help  help.Model
	now   func() time.Time
	done  bool
}

// ModelOption configures optional Model behavior.
type ModelOption func(*Model)

// WithClock sets the clock used for birthday countdowns.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// NewModel creates a Model over the given pages. The pages are collected up
// front so the pager can move backwards.
func NewModel(pages iter.Seq[[]*contact.Record], opts ...ModelOption) Model {
	m := Model{
		keys: PagerKeyMap(),
		help: help.New(),
		now:  time.Now,
	}
	if pages != nil {
		m.pages = slices.Collect(pages)
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init does nothing; the pager is driven entirely by key presses.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if m.page < len(m.pages)-1 {
				m.page++
			}
		case key.Matches(msg, m.keys.Prev):
			if m.page > 0 {
				m.page--
			}
		case key.Matches(msg, m.keys.First):
			m.page = 0
		case key.Matches(msg, m.keys.Last):
			m.page = max(len(m.pages)-1, 0)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

// View renders the current page with a title and help bar.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	if len(m.pages) == 0 {
		b.WriteString(titleStyle.Render("Contacts") + "\n\n")
		b.WriteString(dimStyle.Render("  No contacts.") + "\n")
	} else {
		title := fmt.Sprintf("Contacts · page %d/%d", m.page+1, len(m.pages))
		b.WriteString(titleStyle.Render(title) + "\n\n")
		now := m.now()
		for _, r := range m.pages[m.page] {
			b.WriteString(renderRecord(r, now) + "\n")
		}
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

// renderRecord renders one styled record line.
func renderRecord(r *contact.Record, now time.Time) string {
	line := "  " + nameStyle.Render(r.Name())

	phones := phoneList(r)
	if phones == "" {
		phones = "no phones"
	}
	line += "  " + phoneStyle.Render(phones)

	if bd, ok := r.Birthday(); ok {
		line += "  " + dimStyle.Render("birthday "+bd.Value())
		if days, ok := r.DaysToBirthdayFrom(now); ok {
			line += " " + BirthdayBadge(days)
		}
	}
	return line
}

// phoneList joins a record's phones with "; ".
func phoneList(r *contact.Record) string {
	phones := r.Phones()
	values := make([]string, len(phones))
	for i, p := range phones {
		values[i] = p.Value()
	}
	return strings.Join(values, "; ")
}
