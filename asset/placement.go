// Package asset places uploaded images under the public asset directory and
// returns the web-relative path the document stores.
package asset

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/yangpin97/cisco-client-portal/tool"
)

const (
	DefaultQRSize = 256
	MaxQRSize     = 1024
)

var (
	ErrNoFileProvided = errors.New("no file uploaded")
	ErrUnknownChannel = errors.New("unknown qr code channel")
	ErrInvalidName    = errors.New("invalid file name")
	ErrFileTooLarge   = errors.New("file too large")
)

// Placement writes assets into dir; stored paths are prefixed with webPrefix.
type Placement struct {
	dir       string
	webPrefix string
	channels  []string
}

// New returns a Placement for dir. webPrefix is the path the public page
// reaches dir under, e.g. "img".
func New(dir, webPrefix string, channels []string) *Placement {
	return &Placement{
		dir:       dir,
		webPrefix: strings.Trim(webPrefix, "/"),
		channels:  slices.Clone(channels),
	}
}

// Channels lists the recognised QR channels.
func (p *Placement) Channels() []string {
	return slices.Clone(p.channels)
}

// IsChannel reports whether channel accepts QR uploads.
func (p *Placement) IsChannel(channel string) bool {
	return slices.Contains(p.channels, channel)
}

// StoreImage stores a generic upload under its original file name.
func (p *Placement) StoreImage(data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", ErrNoFileProvided
	}
	name, err := baseName(originalName)
	if err != nil {
		return "", err
	}
	return p.write(name, data)
}

// StoreQRCode stores the image as the single current QR code of channel.
func (p *Placement) StoreQRCode(data []byte, originalName, channel string) (string, error) {
	if len(data) == 0 {
		return "", ErrNoFileProvided
	}
	if !p.IsChannel(channel) {
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".png"
	}
	return p.write(qrFileName(channel, ext), data)
}

// GenerateQRCode renders content as a PNG QR code and stores it as channel's image.
func (p *Placement) GenerateQRCode(content, channel string, size int) (string, error) {
	if content == "" {
		return "", ErrNoFileProvided
	}
	if !p.IsChannel(channel) {
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
	png, err := EncodeQR(content, size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return p.write(qrFileName(channel, ".png"), png)
}

func (p *Placement) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	if err := tool.AtomicWriteFile(filepath.Join(p.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}
	tool.DefaultLogger.Infof("[Asset] Stored %s (%d bytes)", name, len(data))
	return path.Join(p.webPrefix, name), nil
}

func qrFileName(channel, ext string) string {
	return "qr-" + channel + ext
}

// baseName keeps the admin's file name but never lets it leave the asset dir.
func baseName(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

// QRSize clamps a requested edge length in pixels to [1, MaxQRSize];
// zero or less picks DefaultQRSize.
func QRSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

// EncodeQR renders content as a PNG QR code with medium error correction.
func EncodeQR(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, QRSize(size))
}
