// Package clients edits the two ordered client lists of the document.
// Entries are addressed by position; every index is checked against the
// list's length at the time of the call.
package clients

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yangpin97/cisco-client-portal/types"
)

// Kind selects one of the two lists.
type Kind string

const (
	OpenConnect Kind = "openConnect"
	Custom      Kind = "custom"
)

// DefaultIcon is stored when an entry is saved without an icon.
const DefaultIcon = "img/client-default.png"

var (
	ErrValidation       = errors.New("invalid client entry")
	ErrIndexOutOfRange  = errors.New("client index out of range")
	ErrInvalidDirection = errors.New("invalid move direction")
)

// ParseKind maps the request "type" field to a list. Anything but "custom"
// selects the openConnect list.
func ParseKind(s string) Kind {
	if s == string(Custom) {
		return Custom
	}
	return OpenConnect
}

// Field returns the document key of the list.
func (k Kind) Field() string {
	if k == Custom {
		return "customClients"
	}
	return "openConnectClients"
}

// List is one ordered sequence of client entries inside a document.
type List struct {
	entries *[]types.ClientEntry
}

// Of resolves kind to its list inside doc.
func Of(doc *types.Document, kind Kind) List {
	if kind == Custom {
		return List{entries: &doc.CustomClients}
	}
	return List{entries: &doc.OpenConnectClients}
}

func (l List) Len() int {
	return len(*l.entries)
}

// Entries returns a copy, never nil.
func (l List) Entries() []types.ClientEntry {
	out := make([]types.ClientEntry, len(*l.entries))
	copy(out, *l.entries)
	return out
}

func (l List) Append(entry types.ClientEntry) error {
	entry, err := prepare(entry)
	if err != nil {
		return err
	}
	*l.entries = append(*l.entries, entry)
	return nil
}

func (l List) Update(index int, entry types.ClientEntry) error {
	if err := l.check(index); err != nil {
		return err
	}
	entry, err := prepare(entry)
	if err != nil {
		return err
	}
	(*l.entries)[index] = entry
	return nil
}

func (l List) Remove(index int) error {
	if err := l.check(index); err != nil {
		return err
	}
	*l.entries = slices.Delete(*l.entries, index, index+1)
	return nil
}

// Move swaps the entry at index with its neighbour in direction (-1 or +1).
// Moves past either end are rejected rather than clamped.
func (l List) Move(index, direction int) error {
	if direction != -1 && direction != 1 {
		return fmt.Errorf("%w: want -1 or 1, got %d", ErrInvalidDirection, direction)
	}
	if err := l.check(index); err != nil {
		return err
	}
	target := index + direction
	if err := l.check(target); err != nil {
		return err
	}
	s := *l.entries
	s[index], s[target] = s[target], s[index]
	return nil
}

// ReplaceAll swaps in a caller-ordered list wholesale. Entries are trusted as sent.
func (l List) ReplaceAll(entries []types.ClientEntry) {
	out := make([]types.ClientEntry, len(entries))
	copy(out, entries)
	*l.entries = out
}

func (l List) check(index int) error {
	if index < 0 || index >= len(*l.entries) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(*l.entries))
	}
	return nil
}

func prepare(entry types.ClientEntry) (types.ClientEntry, error) {
	if entry.Name == "" {
		return entry, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if entry.URL == "" {
		return entry, fmt.Errorf("%w: url is required", ErrValidation)
	}
	if entry.Icon == "" {
		entry.Icon = DefaultIcon
	}
	return entry, nil
}

// Append adds entry at the end of the kind's list.
func Append(doc *types.Document, kind Kind, entry types.ClientEntry) error {
	return Of(doc, kind).Append(entry)
}

// Update replaces the entry at index.
func Update(doc *types.Document, kind Kind, index int, entry types.ClientEntry) error {
	return Of(doc, kind).Update(index, entry)
}

// Remove deletes the entry at index, shifting later entries down.
func Remove(doc *types.Document, kind Kind, index int) error {
	return Of(doc, kind).Remove(index)
}

// Move swaps the entry at index with the one at index+direction.
func Move(doc *types.Document, kind Kind, index, direction int) error {
	return Of(doc, kind).Move(index, direction)
}

// ReplaceAll replaces the kind's list with entries.
func ReplaceAll(doc *types.Document, kind Kind, entries []types.ClientEntry) {
	Of(doc, kind).ReplaceAll(entries)
}

// Entries returns a copy of the kind's list.
func Entries(doc *types.Document, kind Kind) []types.ClientEntry {
	return Of(doc, kind).Entries()
}
