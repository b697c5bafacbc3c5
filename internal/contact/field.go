// Package contact implements the contact book: validated fields, records and
// the insertion-ordered AddressBook with its search, paging and snapshots.
package contact

import (
	"fmt"
	"time"
)

// BirthdayLayout is the accepted birthday format (DD-MM-YYYY).
// Day and month may be written with one or two digits.
const BirthdayLayout = "2-1-2006"

// phoneLen is the exact number of digits in a valid phone.
const phoneLen = 10

// Field is the common surface of Name, Phone and Birthday.
type Field interface {
	Value() string
	String() string
}

var (
	_ Field = Name{}
	_ Field = Phone{}
	_ Field = Birthday{}
)

// Name is an unvalidated contact name.
type Name struct {
	value string
}

// NewName wraps v. Any string is accepted.
func NewName(v string) Name { return Name{value: v} }

func (n Name) Value() string  { return n.value }
func (n Name) String() string { return n.value }

// Set replaces the stored name.
func (n *Name) Set(v string) { n.value = v }

// Phone is a ten digit phone number.
type Phone struct {
	value string
}

// NewPhone returns a Phone, or an error wrapping ErrInvalidPhone if v is
// not exactly ten decimal digits.
func NewPhone(v string) (Phone, error) {
	if err := validatePhone(v); err != nil {
		return Phone{}, err
	}
	return Phone{value: v}, nil
}

func (p Phone) Value() string  { return p.value }
func (p Phone) String() string { return p.value }

// Set re-validates v and replaces the stored value only if it is valid.
func (p *Phone) Set(v string) error {
	if err := validatePhone(v); err != nil {
		return err
	}
	p.value = v
	return nil
}

func validatePhone(v string) error {
	if len(v) != phoneLen {
		return fmt.Errorf("%w: %q has %d characters", ErrInvalidPhone, v, len(v))
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return fmt.Errorf("%w: %q contains non-digit %q", ErrInvalidPhone, v, v[i])
		}
	}
	return nil
}

// Birthday is a civil date written as DD-MM-YYYY.
type Birthday struct {
	value string
	date  time.Time
}

// NewBirthday returns a Birthday, or an error wrapping ErrInvalidBirthday if
// v is not a valid DD-MM-YYYY date.
func NewBirthday(v string) (Birthday, error) {
	d, err := parseBirthday(v)
	if err != nil {
		return Birthday{}, err
	}
	return Birthday{value: v, date: d}, nil
}

func (b Birthday) Value() string  { return b.value }
func (b Birthday) String() string { return b.value }

// Date returns the parsed date at midnight UTC. The zero time is returned for
// a birthday restored from a snapshot that no longer parses.
func (b Birthday) Date() time.Time { return b.date }

// Set re-validates v and replaces the stored value only if it is valid.
func (b *Birthday) Set(v string) error {
	d, err := parseBirthday(v)
	if err != nil {
		return err
	}
	b.value, b.date = v, d
	return nil
}

func parseBirthday(v string) (time.Time, error) {
	d, err := time.Parse(BirthdayLayout, v)
	if err != nil || d.Year() < 1 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBirthday, v)
	}
	return d, nil
}
