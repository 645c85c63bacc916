package hash

import (
	"context"
	"crypto/hmac"
	"encoding/json"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

var hmacAlgorithms = []string{"sha1", "sha256", "sha384", "sha512"}

// HMACTool computes keyed message authentication codes
type HMACTool struct {
	toolkit.Info
}

// NewHMACTool creates the hmac tool
func NewHMACTool() *HMACTool {
	return &HMACTool{Info: toolkit.NewInfo(
		"hmac", "HMAC Generator",
		"Compute an HMAC of text with a secret key, e.g. to check webhook signatures.",
		types.CategoryCrypto, "mac", "signature", "webhook", "sha256",
	)}
}

func (t *HMACTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"text":      toolkit.String("Message"),
		"key":       toolkit.String("Secret key"),
		"algorithm": toolkit.Enum("Hash function. Default: sha256", hmacAlgorithms...),
		"encoding":  toolkit.Enum("Output encoding. Default: hex", "hex", "base64"),
	}, "text", "key")
}

type hmacInput struct {
	Text      string `json:"text"`
	Key       string `json:"key"`
	Algorithm string `json:"algorithm"`
	Encoding  string `json:"encoding"`
}

func (t *HMACTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params hmacInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	algo, err := toolkit.Mode(params.Algorithm, "sha256", hmacAlgorithms...)
	if err != nil {
		return nil, err
	}
	encoding, err := toolkit.Mode(params.Encoding, "hex", "hex", "base64")
	if err != nil {
		return nil, err
	}
	if params.Key == "" {
		return nil, types.InvalidInput("key is required")
	}

	mac := Encode(HMAC(algo, []byte(params.Key), []byte(params.Text)), encoding, false)
	return types.TextResult(mac).WithFields(map[string]any{"algorithm": algo, "hmac": mac}), nil
}

// HMAC computes the MAC of data under key with the named hash.
func HMAC(algo string, key, data []byte) []byte {
	m := hmac.New(constructors[algo], key)
	m.Write(data)
	return m.Sum(nil)
}
