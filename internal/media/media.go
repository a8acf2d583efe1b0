// Package media turns uploaded product photos into inline image references.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"go-boutique-store/internal/errs"

	"github.com/disintegration/imaging"
)

const (
	MaxUploadBytes = 2 << 20
	MaxWidth       = 800
	jpegQuality    = 82
)

// Normalize reads an uploaded image, shrinks it to MaxWidth when wider,
// and returns it as a JPEG data URI. Uploads over MaxUploadBytes are
// rejected before decoding.
func Normalize(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return "", errs.Invalid("image", errs.ErrImageTooLarge)
	}
	if len(raw) == 0 {
		return "", errs.Invalid("image", errs.ErrImageRequired)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", errs.Invalid("image", errs.ErrInvalidImage)
	}
	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
