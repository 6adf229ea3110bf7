// Package dataurl splits base64 data URLs ("data:image/png;base64,....")
// into their MIME type and payload. Bare base64 strings are accepted too and
// are assumed to be JPEG, which is what phone cameras hand the client.
package dataurl

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultMIME is assumed when the input carries no media type.
const DefaultMIME = "image/jpeg"

// Image is a parsed data URL. Data is still base64-encoded.
type Image struct {
	MIME string
	Data string
}

// IsDataURL reports whether s looks like a data URL rather than a link.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// Parse never fails: anything after the first comma is the payload, and the
// media type is whatever sits between "data:" and the first ';'.
func Parse(s string) Image {
	img := Image{MIME: DefaultMIME, Data: s}

	if i := strings.IndexByte(s, ','); i >= 0 {
		img.Data = s[i+1:]
	}
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		if j := strings.IndexByte(rest, ';'); j > 0 {
			img.MIME = rest[:j]
		}
	}
	return img
}

// Decode returns the raw bytes of the payload.
func (img Image) Decode() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return nil, fmt.Errorf("dataurl: decoding payload: %w", err)
	}
	return b, nil
}

// String rebuilds the data URL.
func (img Image) String() string {
	return "data:" + img.MIME + ";base64," + img.Data
}

// Extension picks a file extension for object keys.
func (img Image) Extension() string {
	switch img.MIME {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ".jpg"
	}
}
