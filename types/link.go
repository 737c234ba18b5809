package types

import (
	"bytes"
	"slices"

	"github.com/bytedance/sonic"
)

// Link is a polymorphic URL value as found in older documents: either a single
// URL (a JSON string) or a set of named URLs (a JSON object of strings).
// Exactly one of URL / Named is meaningful; Named != nil marks the object form.
type Link struct {
	URL   string
	Named map[string]string
}

// URLLink returns the single-URL form.
func URLLink(u string) Link {
	return Link{URL: u}
}

// NamedLink returns the object form.
func NamedLink(named map[string]string) Link {
	if named == nil {
		named = map[string]string{}
	}
	return Link{Named: named}
}

// IsNamed reports whether the link holds named sub-URLs.
func (l Link) IsNamed() bool {
	return l.Named != nil
}

// Get returns the named URL for key, or "" when absent or in single-URL form.
func (l Link) Get(key string) string {
	if l.Named == nil {
		return ""
	}
	return l.Named[key]
}

// First collapses the link to one URL. For the object form "link1" wins,
// otherwise the first non-empty value in key order.
func (l Link) First() string {
	if l.Named == nil {
		return l.URL
	}
	if v := l.Named["link1"]; v != "" {
		return v
	}
	keys := make([]string, 0, len(l.Named))
	for k := range l.Named {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if v := l.Named[k]; v != "" {
			return v
		}
	}
	return ""
}

func (l Link) MarshalJSON() ([]byte, error) {
	if l.Named != nil {
		return sonic.ConfigStd.Marshal(l.Named)
	}
	return sonic.ConfigStd.Marshal(l.URL)
}

func (l *Link) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = Link{}
		return nil
	case data[0] == '{':
		var raw map[string]any
		if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
			return err
		}
		named := make(map[string]string, len(raw))
		for k, v := range raw {
			named[k] = scalarString(v)
		}
		*l = Link{Named: named}
		return nil
	case data[0] == '"':
		var s string
		if err := sonic.ConfigStd.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Link{URL: s}
		return nil
	default:
		// numbers and booleans written by hand-edited files
		var v any
		if err := sonic.ConfigStd.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = Link{URL: scalarString(v)}
		return nil
	}
}
