package types

import (
	"github.com/bytedance/sonic"
)

// MacOSManual holds the two macOS manual links.
type MacOSManual struct {
	AppStore string `json:"appStore"`
	DMG      string `json:"dmg"`
}

// LinuxManual holds the two Linux manual links.
type LinuxManual struct {
	Server  string `json:"server"`
	Desktop string `json:"desktop"`
}

// AndroidManual holds the two Android manual links.
type AndroidManual struct {
	Latest string `json:"latest"`
	Old    string `json:"old"`
}

// Manuals is the canonical shape of the manuals section.
//
// Older documents stored windows as {link1} and macos/linux/android as plain
// strings; decoding folds every known shape into these fields, so callers
// never look at the raw form. Platforms without a canonical shape are kept
// in Other untouched.
type Manuals struct {
	Windows string
	MacOS   MacOSManual
	Linux   LinuxManual
	Android AndroidManual
	IOS     string
	Other   map[string]Link
}

const (
	manualWindows = "windows"
	manualMacOS   = "macos"
	manualLinux   = "linux"
	manualAndroid = "android"
	manualIOS     = "ios"
)

// ManualsFromLinks builds the canonical manuals from raw per-platform links.
// A string value moves into the primary field of two-field platforms and the
// secondary field stays empty.
func ManualsFromLinks(raw map[string]Link) Manuals {
	var m Manuals
	for platform, l := range raw {
		switch platform {
		case manualWindows:
			m.Windows = l.First()
		case manualIOS:
			m.IOS = l.First()
		case manualMacOS:
			if l.IsNamed() {
				m.MacOS = MacOSManual{AppStore: l.Get("appStore"), DMG: l.Get("dmg")}
			} else {
				m.MacOS = MacOSManual{DMG: l.URL}
			}
		case manualLinux:
			if l.IsNamed() {
				m.Linux = LinuxManual{Server: l.Get("server"), Desktop: l.Get("desktop")}
			} else {
				m.Linux = LinuxManual{Server: l.URL}
			}
		case manualAndroid:
			if l.IsNamed() {
				m.Android = AndroidManual{Latest: l.Get("latest"), Old: l.Get("old")}
			} else {
				m.Android = AndroidManual{Latest: l.URL}
			}
		default:
			if m.Other == nil {
				m.Other = make(map[string]Link)
			}
			m.Other[platform] = l
		}
	}
	return m
}

// Links returns the manuals in their persisted per-platform form.
func (m Manuals) Links() map[string]Link {
	out := make(map[string]Link, len(m.Other)+5)
	for k, v := range m.Other {
		out[k] = v
	}
	out[manualWindows] = URLLink(m.Windows)
	out[manualIOS] = URLLink(m.IOS)
	out[manualMacOS] = NamedLink(map[string]string{"appStore": m.MacOS.AppStore, "dmg": m.MacOS.DMG})
	out[manualLinux] = NamedLink(map[string]string{"server": m.Linux.Server, "desktop": m.Linux.Desktop})
	out[manualAndroid] = NamedLink(map[string]string{"latest": m.Android.Latest, "old": m.Android.Old})
	return out
}

func (m Manuals) MarshalJSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(m.Links())
}

func (m *Manuals) UnmarshalJSON(data []byte) error {
	var raw map[string]Link
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ManualsFromLinks(raw)
	return nil
}
