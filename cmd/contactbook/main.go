package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	"github.com/smileynet/contactbook/internal/config"
	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errContactNotFound is returned when a command names a contact that is not in the book.
var errContactNotFound = errors.New("contact not found")

// errInvalidArgument is returned for command arguments outside their allowed range.
var errInvalidArgument = errors.New("invalid argument")

// CLI is the top-level command structure for contactbook.
type CLI struct {
	Globals

	Version   kong.VersionFlag `help:"Show version." short:"V"`
	Add       AddCmd           `cmd:"" help:"Add a contact, replacing any contact with the same name."`
	Show      ShowCmd          `cmd:"" help:"Show a contact."`
	Delete    DeleteCmd        `cmd:"" help:"Delete a contact."`
	Phone     PhoneCmd         `cmd:"" help:"Manage a contact's phones."`
	Birthday  BirthdayCmd      `cmd:"" help:"Manage a contact's birthday."`
	List      ListCmd          `cmd:"" help:"List contacts page by page."`
	Search    SearchCmd        `cmd:"" help:"Search contacts by name or phone."`
	Birthdays BirthdaysCmd     `cmd:"" help:"List upcoming birthdays."`
}

// Globals holds flags shared by every command.
type Globals struct {
	Book string `help:"Contact book file (.json, .yaml or .yml). Overrides config." short:"b"`
}

// session is a loaded book plus the settings it was loaded with.
type session struct {
	cfg    *config.Config
	path   string
	book   *contact.AddressBook
	logger *slog.Logger
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contactbook/config.yaml"),
		".contactbook.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession resolves config and loads the book. A missing book file yields
// an empty book.
func openSession(g *Globals) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if g.Book != "" {
		cfg.Book.Path = g.Book
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	path, err := expandHome(cfg.Book.Path)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		path:   path,
		book:   contact.NewAddressBook(),
		logger: newLogger(os.Stderr, cfg.Log),
	}
	if err := s.book.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		s.logger.Debug("book not found, starting empty", "path", path)
		return s, nil
	}
	s.logger.Debug("loaded book", "path", path, "contacts", s.book.Len())
	return s, nil
}

// save writes the book back to its file.
func (s *session) save() error {
	if err := s.book.Save(s.path); err != nil {
		return err
	}
	s.logger.Debug("saved book", "path", s.path, "contacts", s.book.Len())
	return nil
}

// mutate runs fn against the session's book and saves the result.
func mutate(g *Globals, fn func(w io.Writer, book *contact.AddressBook) error) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	if err := fn(os.Stdout, s.book); err != nil {
		return err
	}
	return s.save()
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// newLogger builds the CLI logger: tint for text, slog's JSON handler for json.
func newLogger(w io.Writer, cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelWarn
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    !tui.IsTTY(w),
		})
	}
	return slog.New(handler)
}

// findRecord returns the named record or errContactNotFound.
func findRecord(book *contact.AddressBook, name string) (*contact.Record, error) {
	r, ok := book.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errContactNotFound, name)
	}
	return r, nil
}

// --- Contact commands ---

// AddCmd adds a contact with optional phones and birthday.
type AddCmd struct {
	Name     string   `arg:"" help:"Contact name."`
	Phones   []string `name:"phone" short:"p" help:"Phone number (10 digits). Repeatable."`
	Birthday string   `help:"Birthday as DD-MM-YYYY."`
}

// Run executes the add command.
func (a *AddCmd) Run(g *Globals) error {
	return mutate(g, a.run)
}

// run builds the record and stores it, enabling testable wiring.
func (a *AddCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := contact.NewRecord(a.Name, a.Birthday)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	for _, p := range a.Phones {
		if err := r.AddPhone(p); err != nil {
			return fmt.Errorf("add: %w", err)
		}
	}

	verb := "Added"
	if book.AddRecord(r) {
		verb = "Replaced"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", verb, r)
	return nil
}

// ShowCmd prints a single contact.
type ShowCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the show command.
func (c *ShowCmd) Run(g *Globals) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	return c.run(os.Stdout, s.book, time.Now())
}

func (c *ShowCmd) run(w io.Writer, book *contact.AddressBook, now time.Time) error {
	r, err := findRecord(book, c.Name)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	_, _ = fmt.Fprintln(w, strings.TrimSpace(tui.PlainRecord(r, now)))
	return nil
}

// DeleteCmd removes a contact. Deleting an unknown contact is not an error.
type DeleteCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the delete command.
func (c *DeleteCmd) Run(g *Globals) error {
	return mutate(g, c.run)
}

func (c *DeleteCmd) run(w io.Writer, book *contact.AddressBook) error {
	if _, ok := book.Find(c.Name); !ok {
		_, _ = fmt.Fprintf(w, "No contact named %q\n", c.Name)
		return nil
	}
	book.Delete(c.Name)
	_, _ = fmt.Fprintf(w, "Deleted %s\n", c.Name)
	return nil
}

// --- Phone commands ---

// PhoneCmd groups phone subcommands.
type PhoneCmd struct {
	Add    PhoneAddCmd    `cmd:"" help:"Add a phone to a contact."`
	Remove PhoneRemoveCmd `cmd:"" help:"Remove a phone from a contact."`
	Edit   PhoneEditCmd   `cmd:"" help:"Replace one of a contact's phones."`
}

// PhoneAddCmd appends a phone to a contact.
type PhoneAddCmd struct {
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"Phone number (10 digits)."`
}

// Run executes the phone add command.
func (c *PhoneAddCmd) Run(g *Globals) error {
	return mutate(g, c.run)
}

func (c *PhoneAddCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := findRecord(book, c.Name)
	if err != nil {
		return fmt.Errorf("phone add: %w", err)
	}
	if err := r.AddPhone(c.Phone); err != nil {
		return fmt.Errorf("phone add: %w", err)
	}
	_, _ = fmt.Fprintln(w, r)
	return nil
}

// PhoneRemoveCmd removes a phone from a contact.
type PhoneRemoveCmd struct {
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"Phone number to remove."`
}

// Run executes the phone remove command.
func (c *PhoneRemoveCmd) Run(g *Globals) error {
	return mutate(g, c.run)
}

func (c *PhoneRemoveCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := findRecord(book, c.Name)
	if err != nil {
		return fmt.Errorf("phone remove: %w", err)
	}
	if _, err := r.RemovePhone(c.Phone); err != nil {
		return fmt.Errorf("phone remove: %w", err)
	}
	_, _ = fmt.Fprintln(w, r)
	return nil
}

// PhoneEditCmd replaces one of a contact's phones.
type PhoneEditCmd struct {
	Name string `arg:"" help:"Contact name."`
	Old  string `arg:"" help:"Phone number to replace."`
	New  string `arg:"" help:"New phone number (10 digits)."`
}

// Run executes the phone edit command.
func (c *PhoneEditCmd) Run(g *Globals) error {
	return mutate(g, c.run)
}

func (c *PhoneEditCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := findRecord(book, c.Name)
	if err != nil {
		return fmt.Errorf("phone edit: %w", err)
	}
	if _, err := r.EditPhone(c.Old, c.New); err != nil {
		return fmt.Errorf("phone edit: %w", err)
	}
	_, _ = fmt.Fprintln(w, r)
	return nil
}

// --- Birthday commands ---

// BirthdayCmd groups birthday subcommands.
type BirthdayCmd struct {
	Set   BirthdaySetCmd   `cmd:"" help:"Set a contact's birthday."`
	Clear BirthdayClearCmd `cmd:"" help:"Remove a contact's birthday."`
}

// BirthdaySetCmd sets a contact's birthday.
type BirthdaySetCmd struct {
	Name string `arg:"" help:"Contact name."`
	Date string `arg:"" help:"Birthday as DD-MM-YYYY."`
}

// Run executes the birthday set command.
func (c *BirthdaySetCmd) Run(g *Globals) error {
	return mutate(g, c.run)
}

func (c *BirthdaySetCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := findRecord(book, c.Name)
	if err != nil {
		return fmt.Errorf("birthday set: %w", err)
	}
	if err := r.SetBirthday(c.Date); err != nil {
		return fmt.Errorf("birthday set: %w", err)
	}
	_, _ = fmt.Fprintf(w, "%s: birthday %s\n", r.Name(), c.Date)
	return nil
}

// BirthdayClearCmd removes a contact's birthday.
type BirthdayClearCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the birthday clear command.
func (c *BirthdayClearCmd) Run(g *Globals) error {
	return mutate(g, c.run)
}

func (c *BirthdayClearCmd) run(w io.Writer, book *contact.AddressBook) error {
	r, err := findRecord(book, c.Name)
	if err != nil {
		return fmt.Errorf("birthday clear: %w", err)
	}
	r.ClearBirthday()
	_, _ = fmt.Fprintf(w, "%s: birthday cleared\n", r.Name())
	return nil
}

// --- Listing commands ---

// ListCmd pages through every contact.
type ListCmd struct {
	PageSize int  `help:"Contacts per page (0 uses config)." default:"0"`
	NoTUI    bool `help:"Force plain text output even if stdout is a TTY." default:"false"`
}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}

	size := c.PageSize
	if size <= 0 {
		size = s.cfg.List.PageSize
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	display := tui.NewDisplay(tui.DisplayOptions{
		Writer:     os.Stdout,
		ForcePlain: c.NoTUI,
	})
	return display.Show(ctx, s.book.Pages(size))
}

// SearchCmd finds contacts by name or phone substring.
type SearchCmd struct {
	Query string `arg:"" help:"Text to find in names (any case) or phones."`
}

// Run executes the search command.
func (c *SearchCmd) Run(g *Globals) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	return c.run(os.Stdout, s.book, time.Now())
}

func (c *SearchCmd) run(w io.Writer, book *contact.AddressBook, now time.Time) error {
	results := book.Search(c.Query)
	if len(results) == 0 {
		_, _ = fmt.Fprintf(w, "No contacts match %q\n", c.Query)
		return nil
	}
	for _, r := range results {
		_, _ = fmt.Fprintln(w, tui.PlainRecord(r, now))
	}
	return nil
}

// BirthdaysCmd lists contacts with a birthday in the coming days.
type BirthdaysCmd struct {
	Within int `help:"Days ahead to include." default:"7"`
}

// Run executes the birthdays command.
func (c *BirthdaysCmd) Run(g *Globals) error {
	s, err := openSession(g)
	if err != nil {
		return err
	}
	return c.run(os.Stdout, s.book, time.Now())
}

func (c *BirthdaysCmd) run(w io.Writer, book *contact.AddressBook, now time.Time) error {
	if c.Within < 0 {
		return fmt.Errorf("birthdays: %w: --within must be non-negative, got %d", errInvalidArgument, c.Within)
	}
	upcoming := book.Upcoming(c.Within, now)
	if len(upcoming) == 0 {
		_, _ = fmt.Fprintf(w, "No birthdays in the next %d days\n", c.Within)
		return nil
	}
	for _, r := range upcoming {
		_, _ = fmt.Fprintln(w, tui.PlainRecord(r, now))
	}
	return nil
}

const (
	exitSuccess = 0
	exitDomain  = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range []error{
		contact.ErrInvalidPhone,
		contact.ErrInvalidBirthday,
		contact.ErrPhoneNotFound,
		errContactNotFound,
		errInvalidArgument,
	} {
		if errors.Is(err, target) {
			return exitDomain
		}
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contactbook"),
		kong.Description("A personal contact book."),
		kong.UsageOnError(),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
