package contact

import (
	"fmt"
	"strings"
	"time"
)

// Record is one contact: a name, an ordered list of phones (duplicates
// allowed) and an optional birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a record without phones. An empty birthday means none;
// a non-empty invalid one returns an error wrapping ErrInvalidBirthday.
func NewRecord(name, birthday string) (*Record, error) {
	r := &Record{name: NewName(name)}
	if birthday != "" {
		if err := r.SetBirthday(birthday); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// restoreRecord rebuilds a record from snapshot values without validation.
func restoreRecord(name string, phones []string, birthday string) *Record {
	r := &Record{name: NewName(name), phones: make([]Phone, 0, len(phones))}
	for _, p := range phones {
		r.phones = append(r.phones, Phone{value: p})
	}
	if birthday != "" {
		b := Birthday{value: birthday}
		if d, err := parseBirthday(birthday); err == nil {
			b.date = d
		}
		r.birthday = &b
	}
	return r
}

// Name returns the record's name, which is also its key in an AddressBook.
func (r *Record) Name() string { return r.name.Value() }

// Phones returns a copy of the record's phones in insertion order.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// SetBirthday validates v and sets it as the birthday.
func (r *Record) SetBirthday(v string) error {
	b, err := NewBirthday(v)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// ClearBirthday removes the birthday.
func (r *Record) ClearBirthday() { r.birthday = nil }

// AddPhone validates phone and appends it.
func (r *Record) AddPhone(phone string) error {
	p, err := NewPhone(phone)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes the first phone equal to phone and returns the
// remaining phones. The phones are unchanged if there is no match.
func (r *Record) RemovePhone(phone string) ([]Phone, error) {
	i := r.indexOf(phone)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q in %q", ErrPhoneNotFound, phone, r.Name())
	}
	r.phones = append(r.phones[:i], r.phones[i+1:]...)
	return r.Phones(), nil
}

// EditPhone replaces the first phone equal to oldPhone with newPhone and
// returns the new value. newPhone is validated like AddPhone.
func (r *Record) EditPhone(oldPhone, newPhone string) (string, error) {
	i := r.indexOf(oldPhone)
	if i < 0 {
		return "", fmt.Errorf("%w: %q in %q", ErrPhoneNotFound, oldPhone, r.Name())
	}
	if err := r.phones[i].Set(newPhone); err != nil {
		return "", err
	}
	return r.phones[i].Value(), nil
}

// FindPhone returns the first phone equal to phone.
func (r *Record) FindPhone(phone string) (Phone, bool) {
	i := r.indexOf(phone)
	if i < 0 {
		return Phone{}, false
	}
	return r.phones[i], true
}

func (r *Record) indexOf(phone string) int {
	for i, p := range r.phones {
		if p.Value() == phone {
			return i
		}
	}
	return -1
}

// DaysToBirthday returns the whole days until the next birthday, relative to
// the local wall clock. It reports false when no birthday is set.
func (r *Record) DaysToBirthday() (int, bool) {
	return r.DaysToBirthdayFrom(time.Now())
}

// DaysToBirthdayFrom is DaysToBirthday measured from now's calendar date.
//
// The next occurrence is this year's birthday unless now's date is already
// past it, in which case it is next year's. The birthday itself yields 0.
// A 29 February birthday falls on 1 March in non-leap years.
func (r *Record) DaysToBirthdayFrom(now time.Time) (int, bool) {
	if r.birthday == nil || r.birthday.date.IsZero() {
		return 0, false
	}
	month, day := r.birthday.date.Month(), r.birthday.date.Day()

	// Civil dates in UTC so that every day is exactly 24 hours long.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if today.After(next) {
		next = time.Date(now.Year()+1, month, day, 0, 0, 0, 0, time.UTC)
	}
	return int(next.Sub(today) / (24 * time.Hour)), true
}

// String renders the record as "Contact name: <name>, phones: <p1>; <p2>.".
func (r *Record) String() string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = p.Value()
	}
	return fmt.Sprintf("Contact name: %s, phones: %s.", r.Name(), strings.Join(values, "; "))
}
