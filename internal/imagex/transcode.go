// Package imagex normalizes uploaded images into a single lightweight
// lossy format before they reach object storage.
package imagex

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/disintegration/imaging"
)

// ContentType is the fixed output MIME type of Transcode.
const ContentType = "image/jpeg"

// quality is fixed so the same input always produces the same output.
const quality = 80

// ErrTranscode is wrapped by every decode/encode failure.
var ErrTranscode = errors.New("unsupported or corrupt image")

var allowed = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Allowed reports whether contentType is an accepted upload type.
func Allowed(contentType string) bool { return allowed[contentType] }

// Sniff returns the detected MIME type of raw.
func Sniff(raw []byte) string { return http.DetectContentType(raw) }

// Transcode re-encodes raw into a JPEG at fixed quality. Identical input
// bytes produce identical output bytes.
func Transcode(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscode, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscode, err)
	}
	return buf.Bytes(), nil
}
