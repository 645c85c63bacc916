package file

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// ResizeTool scales images
type ResizeTool struct {
	toolkit.Info
}

// NewResizeTool creates the image-resize tool
func NewResizeTool() *ResizeTool {
	return &ResizeTool{Info: toolkit.NewInfo(
		"image-resize", "Image Resizer",
		"Resize a JPEG, PNG, GIF, WebP, BMP or TIFF image and re-encode it as PNG or JPEG.",
		types.CategoryFiles, "image", "scale", "thumbnail", "shrink", "convert", "webp",
	)}
}

func (t *ResizeTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"path":    toolkit.String("Path of a local image"),
		"data":    toolkit.String("Image as base64 or a data: URL, instead of path"),
		"width":   toolkit.Integer("Target width in pixels; 0 keeps the aspect ratio from height"),
		"height":  toolkit.Integer("Target height in pixels; 0 keeps the aspect ratio from width"),
		"fit":     toolkit.Bool("Scale down to fit inside width x height, keeping the aspect ratio"),
		"format":  toolkit.Enum("Output format. Default: jpeg for JPEG input, otherwise png", "png", "jpeg"),
		"quality": toolkit.Integer("JPEG quality 1-100. Default: 85"),
	})
}

type resizeInput struct {
	Path    string `json:"path"`
	Data    string `json:"data"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Fit     bool   `json:"fit"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

func (t *ResizeTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params resizeInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	data, _, err := loadInput(params.Path, params.Data)
	if err != nil {
		return nil, err
	}
	img, srcMime, err := decodeImage(data)
	if err != nil {
		return nil, err
	}

	def := "png"
	if srcMime == "image/jpeg" {
		def = "jpeg"
	}
	format, err := toolkit.Mode(params.Format, def, "png", "jpeg", "jpg")
	if err != nil {
		return nil, err
	}
	if format == "jpg" {
		format = "jpeg"
	}
	quality := params.Quality
	if quality == 0 {
		quality = DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return nil, types.InvalidInput("quality must be between 1 and 100")
	}

	out, err := ResizeImage(img, params.Width, params.Height, params.Fit, format, quality)
	if err != nil {
		return nil, err
	}
	src := img.Bounds()
	L_debug("image-resize: resized", "from", fmt.Sprintf("%dx%d", src.Dx(), src.Dy()), "to", fmt.Sprintf("%dx%d", out.Width, out.Height), "bytes", len(out.Data))

	text := fmt.Sprintf("Resized %dx%d -> %dx%d %s (%d bytes)", src.Dx(), src.Dy(), out.Width, out.Height, out.MimeType, len(out.Data))
	return types.TextResult(text).
		Add(types.ImageBlock(out.Data, out.MimeType)).
		WithFields(map[string]any{"width": out.Width, "height": out.Height, "mimeType": out.MimeType}), nil
}

// ResizeImage scales img. With fit, the result fits inside width x height;
// otherwise a zero dimension is derived from the aspect ratio.
func ResizeImage(img image.Image, width, height int, fit bool, format string, quality int) (*ImageData, error) {
	if width < 0 || height < 0 || width > MaxDimension || height > MaxDimension {
		return nil, types.InvalidInput("width and height must be between 0 and %d", MaxDimension)
	}
	if width == 0 && height == 0 {
		return nil, types.InvalidInput("width or height is required")
	}
	var resized image.Image
	if fit {
		if width == 0 || height == 0 {
			return nil, types.InvalidInput("fit needs both width and height")
		}
		resized = imaging.Fit(img, width, height, imaging.Lanczos)
	} else {
		resized = imaging.Resize(img, width, height, imaging.Lanczos)
	}
	return encodeImage(resized, format, quality)
}
