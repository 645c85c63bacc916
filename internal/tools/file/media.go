// Package file provides tools that inspect files and process images.
// Input comes from a path on disk or base64 data; MIME types are detected
// from magic bytes, not file extensions.
package file

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"

	// Register additional image formats
	_ "golang.org/x/image/webp"
)

// Image limits
const (
	MaxDimension   = 8000       // Max output width or height in pixels
	MaxPixels      = 64_000_000 // Max decoded width*height
	DefaultQuality = 85         // JPEG quality when none is given
)

// DecodableMIMETypes are the image types image-resize can read
var DecodableMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// ImageData is an encoded image with its dimensions
type ImageData struct {
	Data     []byte // Encoded bytes
	MimeType string // e.g. "image/png"
	Width    int
	Height   int
}

// DetectMIME returns the MIME type from magic bytes
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

// loadInput reads exactly one of path or base64 data. data may be a data: URL.
func loadInput(path, data string) ([]byte, string, error) {
	path, data = strings.TrimSpace(path), strings.TrimSpace(data)
	switch {
	case path != "" && data != "":
		return nil, "", types.InvalidInput("give either path or data, not both")
	case path != "":
		b, err := toolkit.ReadFile(path)
		return b, path, err
	case data != "":
		if strings.HasPrefix(data, "data:") {
			if i := strings.Index(data, ","); i >= 0 {
				data = data[i+1:]
			}
		}
		b, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			if b, err = base64.RawStdEncoding.DecodeString(data); err != nil {
				return nil, "", types.WrapInput(err, "data is not valid base64")
			}
		}
		if len(b) > toolkit.MaxFileBytes {
			return nil, "", types.InvalidInput("data is too large (%d bytes, limit %d)", len(b), toolkit.MaxFileBytes)
		}
		return b, "", nil
	}
	return nil, "", types.InvalidInput("path or data is required")
}

// decodeImage decodes any registered image format, applying EXIF orientation
func decodeImage(data []byte) (image.Image, string, error) {
	mimeType := DetectMIME(data)
	if !DecodableMIMETypes[mimeType] {
		return nil, mimeType, types.InvalidInput("unsupported image type: %s", mimeType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, mimeType, types.WrapInput(err, "failed to read image header")
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxPixels {
		return nil, mimeType, types.InvalidInput("image is %dx%d, larger than the %d pixel limit", cfg.Width, cfg.Height, MaxPixels)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, mimeType, types.WrapInput(err, "failed to decode image")
	}
	return img, mimeType, nil
}

// encodeImage encodes img as png or jpeg
func encodeImage(img image.Image, format string, quality int) (*ImageData, error) {
	var buf bytes.Buffer
	var mimeType string
	var err error

	switch format {
	case "jpeg":
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
		mimeType = "image/jpeg"
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG)
		mimeType = "image/png"
	default:
		return nil, types.InvalidInput("unsupported output format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &ImageData{Data: buf.Bytes(), MimeType: mimeType, Width: b.Dx(), Height: b.Dy()}, nil
}
