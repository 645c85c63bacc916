// Package hash provides the crypto tools: message digests, HMAC and password hashing.
package hash

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	gohash "hash"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// Algorithms lists the supported digests in the order "all" reports them.
var Algorithms = []string{"md5", "sha1", "sha224", "sha256", "sha384", "sha512", "sha3-256", "sha3-512"}

var constructors = map[string]func() gohash.Hash{
	"md5":      md5.New,
	"sha1":     sha1.New,
	"sha224":   sha256.New224,
	"sha256":   sha256.New,
	"sha384":   sha512.New384,
	"sha512":   sha512.New,
	"sha3-256": func() gohash.Hash { return sha3.New256() },
	"sha3-512": func() gohash.Hash { return sha3.New512() },
}

// HashTool computes message digests
type HashTool struct {
	toolkit.Info
}

// NewHashTool creates the hash tool
func NewHashTool() *HashTool {
	return &HashTool{Info: toolkit.NewInfo(
		"hash", "Hash Generator",
		"Compute MD5, SHA-1, SHA-2 and SHA-3 digests of text or a file.",
		types.CategoryCrypto, "md5", "sha1", "sha256", "sha512", "sha3", "checksum", "digest",
	)}
}

func (t *HashTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"text":      toolkit.String("Text to hash"),
		"file":      toolkit.String("Path of a file to hash instead of text"),
		"algorithm": toolkit.Enum("Digest algorithm. Default: all", append(append([]string{}, Algorithms...), "all")...),
		"encoding":  toolkit.Enum("Output encoding. Default: hex", "hex", "base64"),
		"uppercase": toolkit.Bool("Upper-case hex output"),
	})
}

type hashInput struct {
	Text      string `json:"text"`
	File      string `json:"file"`
	Algorithm string `json:"algorithm"`
	Encoding  string `json:"encoding"`
	Uppercase bool   `json:"uppercase"`
}

func (t *HashTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params hashInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	algo, err := toolkit.Mode(params.Algorithm, "all", append(append([]string{}, Algorithms...), "all")...)
	if err != nil {
		return nil, err
	}
	encoding, err := toolkit.Mode(params.Encoding, "hex", "hex", "base64")
	if err != nil {
		return nil, err
	}

	data := []byte(params.Text)
	if params.File != "" {
		if data, err = toolkit.ReadFile(params.File); err != nil {
			return nil, err
		}
	}

	if algo != "all" {
		sum := Encode(Sum(algo, data), encoding, params.Uppercase)
		return types.TextResult(sum).WithFields(map[string]any{algo: sum}), nil
	}

	fields := make(map[string]any, len(Algorithms))
	var sb strings.Builder
	for _, a := range Algorithms {
		sum := Encode(Sum(a, data), encoding, params.Uppercase)
		fields[a] = sum
		fmt.Fprintf(&sb, "%-9s %s\n", a+":", sum)
	}
	return types.TextResult(strings.TrimRight(sb.String(), "\n")).WithFields(fields), nil
}

// Sum returns the digest of data. algo must be one of Algorithms.
func Sum(algo string, data []byte) []byte {
	h := constructors[algo]()
	h.Write(data)
	return h.Sum(nil)
}

// Encode renders a digest as hex or standard base64.
func Encode(sum []byte, encoding string, upper bool) string {
	if encoding == "base64" {
		return base64.StdEncoding.EncodeToString(sum)
	}
	out := hex.EncodeToString(sum)
	if upper {
		out = strings.ToUpper(out)
	}
	return out
}
