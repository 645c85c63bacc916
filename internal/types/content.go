// Package types provides shared types for tool metadata and tool results.
package types

import (
	"encoding/base64"
	"strings"
)

// ContentBlock represents a single block of a tool result.
type ContentBlock struct {
	Type string `json:"type"` // "text", "image", or "file"

	// Text content
	Text string `json:"text,omitempty"`

	// Binary payloads (image/file) travel base64 encoded
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Filename string `json:"filename,omitempty"` // suggested download name for file blocks
}

// ToolResult represents the structured result from a tool execution.
type ToolResult struct {
	Content []ContentBlock `json:"content"`

	// Fields holds machine-readable values alongside the human text,
	// e.g. {"emi": 1234.56} for the EMI calculator.
	Fields map[string]any `json:"fields,omitempty"`
}

// TextResult creates a ToolResult with a single text block.
func TextResult(text string) *ToolResult {
	return &ToolResult{
		Content: []ContentBlock{TextBlock(text)},
	}
}

// WithFields attaches structured values to the result and returns it.
func (r *ToolResult) WithFields(fields map[string]any) *ToolResult {
	if r.Fields == nil {
		r.Fields = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		r.Fields[k] = v
	}
	return r
}

// Add appends blocks to the result and returns it.
func (r *ToolResult) Add(blocks ...ContentBlock) *ToolResult {
	r.Content = append(r.Content, blocks...)
	return r
}

// TextBlock creates a text ContentBlock.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// ImageBlock creates an image ContentBlock from raw bytes.
func ImageBlock(data []byte, mimeType string) ContentBlock {
	return ContentBlock{
		Type:     "image",
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}

// FileBlock creates a downloadable file ContentBlock from raw bytes.
func FileBlock(data []byte, mimeType, filename string) ContentBlock {
	return ContentBlock{
		Type:     "file",
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
		Filename: filename,
	}
}

// Bytes decodes the payload of an image or file block.
func (b ContentBlock) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(b.Data)
}

// GetText returns the concatenated text from all text blocks.
func (r *ToolResult) GetText() string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, block := range r.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// HasMedia returns true if the result contains any image or file blocks.
func (r *ToolResult) HasMedia() bool {
	if r == nil {
		return false
	}
	for _, block := range r.Content {
		if block.Type == "image" || block.Type == "file" {
			return true
		}
	}
	return false
}
