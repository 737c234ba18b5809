package types

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Document is the single configuration record behind the public page and the
// admin API. It is persisted as one JSON file.
type Document struct {
	Admin              Admin             `json:"admin"`
	Texts              Texts             `json:"texts"`
	Downloads          Downloads         `json:"downloads"`
	Manuals            Manuals           `json:"manuals"`
	QRCodes            map[string]string `json:"qrcodes"`
	HeaderNav          HeaderNav         `json:"headerNav"`
	Banner             Banner            `json:"banner"`
	OpenConnectClients []ClientEntry     `json:"openConnectClients"`
	CustomClients      []ClientEntry     `json:"customClients"`

	// Extra holds top-level keys written by other versions, kept verbatim.
	Extra map[string]json.RawMessage `json:"-"`
	// Recovered lists the sections that could not be decoded and were left
	// empty. It is never persisted.
	Recovered []string `json:"-"`
}

// PublicDocument is a Document without the admin section.
type PublicDocument struct {
	Texts              Texts             `json:"texts"`
	Downloads          Downloads         `json:"downloads"`
	Manuals            Manuals           `json:"manuals"`
	QRCodes            map[string]string `json:"qrcodes"`
	HeaderNav          HeaderNav         `json:"headerNav"`
	Banner             Banner            `json:"banner"`
	OpenConnectClients []ClientEntry     `json:"openConnectClients"`
	CustomClients      []ClientEntry     `json:"customClients"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Admin is the single admin credential pair. PasswordHash is always a bcrypt hash.
type Admin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// UnmarshalJSON also accepts the legacy "password" key, which held the hash
// in documents written by the first version.
func (a *Admin) UnmarshalJSON(data []byte) error {
	var aux struct {
		Username     flexString `json:"username"`
		PasswordHash flexString `json:"passwordHash"`
		Password     flexString `json:"password"`
	}
	if err := sonic.ConfigStd.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.Username = string(aux.Username)
	a.PasswordHash = string(aux.PasswordHash)
	if a.PasswordHash == "" {
		a.PasswordHash = string(aux.Password)
	}
	return nil
}

// Texts is the free-form display string section.
type Texts map[string]string

// UnmarshalJSON keeps non-string legacy values (e.g. headerBtn1Visible: false)
// as their string form instead of rejecting the whole document.
func (t *Texts) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*t = nil
		return nil
	}
	out := make(Texts, len(raw))
	for k, v := range raw {
		out[k] = scalarString(v)
	}
	*t = out
	return nil
}

// Downloads maps a platform to either one URL or named variant URLs
// (e.g. windows -> {amd, arm}, ios -> "https://...").
type Downloads map[string]Link

// NavButton is one header navigation button.
type NavButton struct {
	Text    string `json:"text"`
	URL     string `json:"url"`
	Visible bool   `json:"visible"`
}

// UnmarshalJSON defaults Visible to true when the key is missing or not
// a recognizable boolean ("false" as a string still hides the button).
func (b *NavButton) UnmarshalJSON(data []byte) error {
	var aux struct {
		Text    flexString `json:"text"`
		URL     flexString `json:"url"`
		Visible flexBool   `json:"visible"`
	}
	if err := sonic.ConfigStd.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.Text = string(aux.Text)
	b.URL = string(aux.URL)
	b.Visible = aux.Visible.or(true)
	return nil
}

// HeaderNav maps a button name (btn1, btn2, ...) to its settings.
// A nil HeaderNav means the section was absent from the persisted form.
type HeaderNav map[string]NavButton

// Banner is the optional promotional block.
type Banner struct {
	Visible bool   `json:"visible"`
	Image   string `json:"image"`
	Link    string `json:"link"`
	Text1   string `json:"text1"`
	Text2   string `json:"text2"`
	Text3   string `json:"text3"`
	Text4   string `json:"text4"`
}

func (b *Banner) UnmarshalJSON(data []byte) error {
	var aux struct {
		Visible flexBool   `json:"visible"`
		Image   flexString `json:"image"`
		Link    flexString `json:"link"`
		Text1   flexString `json:"text1"`
		Text2   flexString `json:"text2"`
		Text3   flexString `json:"text3"`
		Text4   flexString `json:"text4"`
	}
	if err := sonic.ConfigStd.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Banner{
		Visible: aux.Visible.or(false),
		Image:   string(aux.Image),
		Link:    string(aux.Link),
		Text1:   string(aux.Text1),
		Text2:   string(aux.Text2),
		Text3:   string(aux.Text3),
		Text4:   string(aux.Text4),
	}
	return nil
}

// ClientEntry describes one third-party or custom client. Its identity is its
// position in the owning list.
type ClientEntry struct {
	Name   string `json:"name"`
	OS     string `json:"os"`
	URL    string `json:"url"`
	Manual string `json:"manual"`
	Icon   string `json:"icon"`
	QRCode string `json:"qrCode"`
}

func (e *ClientEntry) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name   flexString `json:"name"`
		OS     flexString `json:"os"`
		URL    flexString `json:"url"`
		Manual flexString `json:"manual"`
		Icon   flexString `json:"icon"`
		QRCode flexString `json:"qrCode"`
	}
	if err := sonic.ConfigStd.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = ClientEntry{
		Name:   string(aux.Name),
		OS:     string(aux.OS),
		URL:    string(aux.URL),
		Manual: string(aux.Manual),
		Icon:   string(aux.Icon),
		QRCode: string(aux.QRCode),
	}
	return nil
}

type documentAlias Document

type publicDocumentAlias PublicDocument

// UnmarshalJSON decodes each section on its own. A section that still fails
// to decode is left empty and named in Recovered instead of failing the
// whole document; only a body that is not a JSON object is an error.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}
	var doc Document
	sections := []struct {
		key    string
		decode func([]byte) error
	}{
		{"admin", func(b []byte) error { return decodeSection(b, &doc.Admin) }},
		{"texts", func(b []byte) error { return decodeSection(b, &doc.Texts) }},
		{"downloads", func(b []byte) error { return decodeSection(b, &doc.Downloads) }},
		{"manuals", func(b []byte) error { return decodeSection(b, &doc.Manuals) }},
		{"qrcodes", func(b []byte) error {
			var m Texts
			if err := decodeSection(b, &m); err != nil {
				return err
			}
			doc.QRCodes = m
			return nil
		}},
		{"headerNav", func(b []byte) error { return decodeSection(b, &doc.HeaderNav) }},
		{"banner", func(b []byte) error { return decodeSection(b, &doc.Banner) }},
		{"openConnectClients", func(b []byte) error { return decodeSection(b, &doc.OpenConnectClients) }},
		{"customClients", func(b []byte) error { return decodeSection(b, &doc.CustomClients) }},
	}
	for _, sec := range sections {
		body, ok := raw[sec.key]
		if !ok {
			continue
		}
		delete(raw, sec.key)
		if err := sec.decode(body); err != nil {
			doc.Recovered = append(doc.Recovered, sec.key)
		}
	}
	if len(raw) > 0 {
		doc.Extra = raw
	}
	*d = doc
	return nil
}

// decodeSection leaves dst untouched when data does not decode.
func decodeSection[T any](data []byte, dst *T) error {
	var v T
	if err := sonic.ConfigStd.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	body, err := sonic.ConfigStd.Marshal(documentAlias(d))
	if err != nil {
		return nil, err
	}
	return withExtra(body, d.Extra)
}

func (p PublicDocument) MarshalJSON() ([]byte, error) {
	body, err := sonic.ConfigStd.Marshal(publicDocumentAlias(p))
	if err != nil {
		return nil, err
	}
	return withExtra(body, p.Extra)
}

func withExtra(body []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return body, nil
	}
	var merged map[string]json.RawMessage
	if err := sonic.ConfigStd.Unmarshal(body, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, known := merged[k]; !known {
			merged[k] = v
		}
	}
	return sonic.ConfigStd.Marshal(merged)
}
