package file

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// Info describes a file's content.
type Info struct {
	Name      string `json:"name,omitempty"`
	MimeType  string `json:"mimeType"`
	Extension string `json:"extension"`
	Size      int    `json:"size"`
	SizeHuman string `json:"sizeHuman"`
	MD5       string `json:"md5"`
	SHA256    string `json:"sha256"`
	Text      bool   `json:"text"`
	Lines     int    `json:"lines,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// InfoTool reports type, size and checksums of a file
type InfoTool struct {
	toolkit.Info
}

// NewInfoTool creates the file-info tool
func NewInfoTool() *InfoTool {
	return &InfoTool{Info: toolkit.NewInfo(
		"file-info", "File Inspector",
		"Detect a file's real type from its content and report size, checksums and image dimensions.",
		types.CategoryFiles, "mime", "magic bytes", "file type", "checksum", "md5", "sha256",
	)}
}

func (t *InfoTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"path": toolkit.String("Path of a local file (max 32 MiB)"),
		"data": toolkit.String("File content as base64 or a data: URL, instead of path"),
	})
}

type fileInput struct {
	Path string `json:"path"`
	Data string `json:"data"`
}

func (t *InfoTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params fileInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	data, name, err := loadInput(params.Path, params.Data)
	if err != nil {
		return nil, err
	}
	info := Inspect(data)
	if name != "" {
		info.Name = filepath.Base(name)
	}

	var sb strings.Builder
	if info.Name != "" {
		fmt.Fprintf(&sb, "Name:      %s\n", info.Name)
	}
	fmt.Fprintf(&sb, "Type:      %s", info.MimeType)
	if info.Extension != "" {
		fmt.Fprintf(&sb, " (%s)", info.Extension)
	}
	fmt.Fprintf(&sb, "\nSize:      %s (%s bytes)\n", info.SizeHuman, humanize.Comma(int64(info.Size)))
	if info.Width > 0 {
		fmt.Fprintf(&sb, "Image:     %dx%d px\n", info.Width, info.Height)
	}
	if info.Text {
		fmt.Fprintf(&sb, "Lines:     %d\n", info.Lines)
	}
	fmt.Fprintf(&sb, "MD5:       %s\nSHA-256:   %s", info.MD5, info.SHA256)
	return types.TextResult(sb.String()).WithFields(map[string]any{"file": info}), nil
}

// Inspect detects the MIME type and computes sizes and checksums of data.
func Inspect(data []byte) Info {
	mt := mimetype.Detect(data)
	md5sum := md5.Sum(data)
	shasum := sha256.Sum256(data)
	info := Info{
		MimeType:  mt.String(),
		Extension: mt.Extension(),
		Size:      len(data),
		SizeHuman: humanize.IBytes(uint64(len(data))),
		MD5:       hex.EncodeToString(md5sum[:]),
		SHA256:    hex.EncodeToString(shasum[:]),
	}
	if strings.HasPrefix(info.MimeType, "text/") && utf8.Valid(data) {
		info.Text = true
		info.Lines = bytes.Count(data, []byte("\n"))
		if len(data) > 0 && data[len(data)-1] != '\n' {
			info.Lines++
		}
	}
	if DecodableMIMETypes[info.MimeType] {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			info.Width, info.Height = cfg.Width, cfg.Height
		}
	}
	return info
}
