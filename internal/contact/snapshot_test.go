package contact_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smileynet/contactbook/internal/contact"
)

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type recordView struct {
	Name     string
	Phones   []string
	Birthday string
}

func view(b *contact.AddressBook) []recordView {
	var out []recordView
	for _, r := range b.Records() {
		v := recordView{Name: r.Name(), Phones: phoneValues(r.Phones())}
		if bd, ok := r.Birthday(); ok {
			v.Birthday = bd.Value()
		}
		out = append(out, v)
	}
	return out
}

func TestAddressBook_SaveLoad_RoundTrip(t *testing.T) {
	for _, file := range []string{"book.json", "book.yaml", "book.yml", "book.snapshot"} {
		t.Run(file, func(t *testing.T) {
			// Given a populated book
			original := bookOf(t,
				newRecord(t, faker.Name(), "12-05-1990", "1111111111", "2222222222", "1111111111"),
				newRecord(t, "Bob", ""),
				newRecord(t, "Cid", "29-02-2000", faker.Numerify("##########")),
			)
			path := filepath.Join(t.TempDir(), "nested", file)

			// When it is saved and loaded into a fresh book
			require.NoError(t, original.Save(path))
			loaded := contact.NewAddressBook()
			require.NoError(t, loaded.Load(path))

			// Then the contents are identical
			assert.Equal(t, view(original), view(loaded))
		})
	}
}

func TestAddressBook_Save_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, bookOf(t, newRecord(t, "Ann", ""), newRecord(t, "Bob", "")).Save(path))
	require.NoError(t, bookOf(t, newRecord(t, "Cid", "")).Save(path))

	loaded := contact.NewAddressBook()
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, []string{"Cid"}, names(loaded.Records()))
}

func TestAddressBook_Load_ReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, bookOf(t, newRecord(t, "Ann", "")).Save(path))

	b := bookOf(t, newRecord(t, "Bob", ""), newRecord(t, "Ann", "", "1111111111"))
	require.NoError(t, b.Load(path))

	assert.Equal(t, []recordView{{Name: "Ann", Phones: []string{}}}, view(b))
	_, ok := b.Find("Bob")
	assert.False(t, ok)
}

func TestAddressBook_Load_AcceptsUnvalidatedFields(t *testing.T) {
	path := writeSnapshot(t, "book.yaml", `
contacts:
  - name: Legacy
    phones: ["123", "+1 555 0100"]
    birthday: 1990/01/01
`)
	b := contact.NewAddressBook()
	require.NoError(t, b.Load(path))

	r, ok := b.Find("Legacy")
	require.True(t, ok)
	assert.Equal(t, []string{"123", "+1 555 0100"}, phoneValues(r.Phones()))
	bd, ok := r.Birthday()
	require.True(t, ok)
	assert.Equal(t, "1990/01/01", bd.Value())
	_, ok = r.DaysToBirthday()
	assert.False(t, ok, "unparseable birthday has no countdown")
}

func TestAddressBook_Load_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		b := bookOf(t, newRecord(t, "Ann", ""))
		err := b.Load(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Equal(t, 1, b.Len())
	})

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "invalid json", file: "book.json", content: "{not json"},
		{name: "empty json", file: "book.json", content: ""},
		{name: "unknown json field", file: "book.json", content: `{"contacts":[],"version":2}`},
		{name: "wrong json type", file: "book.json", content: `{"contacts":{"name":"Ann"}}`},
		{name: "trailing json", file: "book.json", content: `{"contacts":[]} trailing garbage`},
		{name: "second json value", file: "book.json", content: `{"contacts":[]}{"contacts":[]}`},
		{name: "invalid yaml", file: "book.yaml", content: "contacts: [unclosed"},
		{name: "empty yaml", file: "book.yaml", content: ""},
		{name: "comment-only yaml", file: "book.yml", content: "# nothing here\n"},
		{name: "unknown yaml field", file: "book.yaml", content: "foo: bar\n"},
		{name: "second yaml document", file: "book.yaml", content: "contacts: []\n---\ncontacts: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bookOf(t, newRecord(t, "Ann", ""))
			err := b.Load(writeSnapshot(t, tt.file, tt.content))
			assert.ErrorIs(t, err, contact.ErrCorruptSnapshot)
			assert.Equal(t, []string{"Ann"}, names(b.Records()))
		})
	}
}

func TestAddressBook_Save_Error(t *testing.T) {
	// A regular file where a directory is expected.
	blocker := writeSnapshot(t, "blocker", "x")
	err := contact.NewAddressBook().Save(filepath.Join(blocker, "book.json"))
	assert.Error(t, err)
}
