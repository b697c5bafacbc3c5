package contact

import (
	"iter"
	"slices"
	"strings"
	"time"
)

// DefaultPageSize is the page size used by Pages when size is not positive.
const DefaultPageSize = 5

// AddressBook maps names to records and remembers insertion order.
type AddressBook struct {
	records map[string]*Record
	order   []string
}

// NewAddressBook returns an empty AddressBook.
func NewAddressBook() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// AddRecord stores r under its name. A record with the same name is replaced
// in place, keeping its position. It reports whether a record was replaced.
func (b *AddressBook) AddRecord(r *Record) bool {
	name := r.Name()
	_, replaced := b.records[name]
	if !replaced {
		b.order = append(b.order, name)
	}
	b.records[name] = r
	return replaced
}

// Find returns the record stored under name.
func (b *AddressBook) Find(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under name. Absent names are ignored.
func (b *AddressBook) Delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	b.order = slices.DeleteFunc(b.order, func(n string) bool { return n == name })
}

// Len returns the number of records.
func (b *AddressBook) Len() int { return len(b.order) }

// Records returns all records in insertion order.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.records[name])
	}
	return out
}

// Pages yields the records in insertion order as consecutive chunks of at
// most size records. The records are captured when Pages is called, so later
// changes to the book do not affect the sequence, and the sequence can be
// ranged over more than once.
func (b *AddressBook) Pages(size int) iter.Seq[[]*Record] {
	if size < 1 {
		size = DefaultPageSize
	}
	records := b.Records()
	return func(yield func([]*Record) bool) {
		for chunk := range slices.Chunk(records, size) {
			if !yield(chunk) {
				return
			}
		}
	}
}

// Search returns records whose name contains query, ignoring case, or that
// have a phone containing query exactly. Each record is checked for a name
// match and then for a phone match, so a record matching both ways appears
// twice, name match first. At most one phone match is counted per record.
func (b *AddressBook) Search(query string) []*Record {
	lower := strings.ToLower(query)
	var results []*Record
	for _, r := range b.Records() {
		if strings.Contains(strings.ToLower(r.Name()), lower) {
			results = append(results, r)
		}
		for _, p := range r.phones {
			if strings.Contains(p.Value(), query) {
				results = append(results, r)
				break
			}
		}
	}
	return results
}

// Upcoming returns records whose next birthday is at most within days after
// now, nearest first. Ties are ordered by name.
func (b *AddressBook) Upcoming(within int, now time.Time) []*Record {
	type entry struct {
		r    *Record
		days int
	}
	var entries []entry
	for _, r := range b.Records() {
		days, ok := r.DaysToBirthdayFrom(now)
		if ok && days <= within {
			entries = append(entries, entry{r: r, days: days})
		}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		if a.days != b.days {
			return a.days - b.days
		}
		return strings.Compare(a.r.Name(), b.r.Name())
	})
	out := make([]*Record, len(entries))
	for i, e := range entries {
		out[i] = e.r
	}
	return out
}

// replace swaps the book's contents for records, in order.
func (b *AddressBook) replace(records []*Record) {
	b.records = make(map[string]*Record, len(records))
	b.order = b.order[:0:0]
	for _, r := range records {
		b.AddRecord(r)
	}
}
