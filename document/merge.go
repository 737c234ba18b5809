package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/bytedance/sonic"

	"github.com/yangpin97/cisco-client-portal/types"
)

// Section names a top-level part of the document that accepts partial updates.
type Section string

const (
	SectionTexts     Section = "texts"
	SectionDownloads Section = "downloads"
	SectionManuals   Section = "manuals"
	SectionHeaderNav Section = "headerNav"
	SectionBanner    Section = "banner"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrInvalidSection = errors.New("invalid section value")
)

// MergeSection overlays partial onto one section of doc. Merging is shallow:
// each key in partial replaces that key's whole value, keys not in partial
// keep their current value. On error doc is not modified.
func MergeSection(doc *types.Document, section Section, partial map[string]json.RawMessage) error {
	switch section {
	case SectionTexts:
		v, err := mergeInto(doc.Texts, partial)
		if err != nil {
			return err
		}
		doc.Texts = v
	case SectionDownloads:
		v, err := mergeInto(doc.Downloads, partial)
		if err != nil {
			return err
		}
		doc.Downloads = v
	case SectionManuals:
		v, err := mergeInto(doc.Manuals, partial)
		if err != nil {
			return err
		}
		doc.Manuals = v
	case SectionHeaderNav:
		v, err := mergeInto(doc.HeaderNav, partial)
		if err != nil {
			return err
		}
		doc.HeaderNav = v
	case SectionBanner:
		v, err := mergeInto(doc.Banner, partial)
		if err != nil {
			return err
		}
		doc.Banner = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return nil
}

// mergeInto round-trips current through its JSON object form so the merge
// works on persisted keys, then decodes the result back into a fresh T.
func mergeInto[T any](current T, partial map[string]json.RawMessage) (T, error) {
	var out T
	body, err := sonic.ConfigStd.Marshal(current)
	if err != nil {
		return out, fmt.Errorf("encode section: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := sonic.ConfigStd.Unmarshal(body, &fields); err != nil {
		return out, fmt.Errorf("decode section: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, len(partial))
	}
	maps.Copy(fields, partial)

	merged, err := sonic.ConfigStd.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}
	if err := sonic.ConfigStd.Unmarshal(merged, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}
	return out, nil
}
