package clients

import (
	"errors"
	"testing"

	"github.com/yangpin97/cisco-client-portal/types"
)

func names(entries []types.ClientEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func equalNames(t *testing.T, got []types.ClientEntry, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("names = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("names = %v, want %v", g, want)
		}
	}
}

func threeEntries() *types.Document {
	return &types.Document{
		OpenConnectClients: []types.ClientEntry{
			{Name: "A", URL: "https://a"},
			{Name: "B", URL: "https://b"},
			{Name: "C", URL: "https://c"},
		},
	}
}

func TestAppendToEmptyList(t *testing.T) {
	doc := &types.Document{}
	err := Append(doc, Custom, types.ClientEntry{Name: "X", URL: "https://x"})
	if err != nil {
		t.Fatal(err)
	}

	got := Entries(doc, Custom)
	if len(got) != 1 {
		t.Fatalf("custom = %+v", got)
	}
	if got[0].Icon != DefaultIcon {
		t.Errorf("icon = %q, want %q", got[0].Icon, DefaultIcon)
	}
	if len(doc.OpenConnectClients) != 0 {
		t.Errorf("openConnect touched: %+v", doc.OpenConnectClients)
	}
}

func TestAppendKeepsGivenIcon(t *testing.T) {
	doc := &types.Document{}
	if err := Append(doc, OpenConnect, types.ClientEntry{Name: "X", URL: "https://x", Icon: "img/x.png"}); err != nil {
		t.Fatal(err)
	}
	if doc.OpenConnectClients[0].Icon != "img/x.png" {
		t.Errorf("icon = %q", doc.OpenConnectClients[0].Icon)
	}
}

func TestAppendValidation(t *testing.T) {
	doc := &types.Document{}
	for _, entry := range []types.ClientEntry{
		{URL: "https://x"},
		{Name: "X"},
	} {
		if err := Append(doc, OpenConnect, entry); !errors.Is(err, ErrValidation) {
			t.Errorf("Append(%+v) = %v, want ErrValidation", entry, err)
		}
	}
	if len(doc.OpenConnectClients) != 0 {
		t.Errorf("invalid entries stored: %+v", doc.OpenConnectClients)
	}
}

func TestUpdate(t *testing.T) {
	doc := threeEntries()
	if err := Update(doc, OpenConnect, 1, types.ClientEntry{Name: "B2", URL: "https://b2"}); err != nil {
		t.Fatal(err)
	}
	equalNames(t, doc.OpenConnectClients, "A", "B2", "C")
	if doc.OpenConnectClients[1].Icon != DefaultIcon {
		t.Errorf("icon not defaulted on update: %+v", doc.OpenConnectClients[1])
	}
}

func TestUpdateChecksIndexBeforeValidation(t *testing.T) {
	doc := threeEntries()
	if err := Update(doc, OpenConnect, 3, types.ClientEntry{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := Update(doc, OpenConnect, 0, types.ClientEntry{Name: "A"}); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	equalNames(t, doc.OpenConnectClients, "A", "B", "C")
}

func TestRemove(t *testing.T) {
	doc := threeEntries()
	if err := Remove(doc, OpenConnect, 1); err != nil {
		t.Fatal(err)
	}
	equalNames(t, doc.OpenConnectClients, "A", "C")

	for _, idx := range []int{-1, 2} {
		if err := Remove(doc, OpenConnect, idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Remove(%d) = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	equalNames(t, doc.OpenConnectClients, "A", "C")
}

func TestMove(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		direction int
		wantErr   error
		want      []string
	}{
		{name: "first up is rejected", index: 0, direction: -1, wantErr: ErrIndexOutOfRange, want: []string{"A", "B", "C"}},
		{name: "last down is rejected", index: 2, direction: 1, wantErr: ErrIndexOutOfRange, want: []string{"A", "B", "C"}},
		{name: "index past end", index: 3, direction: -1, wantErr: ErrIndexOutOfRange, want: []string{"A", "B", "C"}},
		{name: "bad direction", index: 1, direction: 2, wantErr: ErrInvalidDirection, want: []string{"A", "B", "C"}},
		{name: "first down", index: 0, direction: 1, want: []string{"B", "A", "C"}},
		{name: "last up", index: 2, direction: -1, want: []string{"A", "C", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := threeEntries()
			err := Move(doc, OpenConnect, tt.index, tt.direction)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatal(err)
			}
			equalNames(t, doc.OpenConnectClients, tt.want...)
		})
	}
}

func TestReplaceAll(t *testing.T) {
	doc := threeEntries()
	incoming := []types.ClientEntry{{Name: "Z"}, {Name: "Y"}}
	ReplaceAll(doc, OpenConnect, incoming)
	equalNames(t, doc.OpenConnectClients, "Z", "Y")

	incoming[0].Name = "mutated"
	if doc.OpenConnectClients[0].Name != "Z" {
		t.Error("ReplaceAll kept a reference to the caller's slice")
	}
}

func TestListsAreIndependent(t *testing.T) {
	doc := threeEntries()
	if err := Remove(doc, Custom, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("custom list should be empty, got %v", err)
	}
	equalNames(t, doc.OpenConnectClients, "A", "B", "C")
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"custom":      Custom,
		"openConnect": OpenConnect,
		"":            OpenConnect,
		"other":       OpenConnect,
	}
	for in, want := range tests {
		if got := ParseKind(in); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", in, got, want)
		}
	}
	if Custom.Field() != "customClients" || OpenConnect.Field() != "openConnectClients" {
		t.Error("unexpected field names")
	}
}
