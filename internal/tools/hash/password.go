package hash

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// Argon2id parameters (OWASP recommendations)
const (
	argon2Time    = 3         // iterations
	argon2Memory  = 64 * 1024 // 64MB
	argon2Threads = 4
	argon2KeyLen  = 32
	argon2SaltLen = 16

	// limits for hashes supplied for verification
	maxArgon2Memory  = 256 * 1024 // 256MB
	maxArgon2Time    = 10
	maxArgon2Threads = 16
	maxArgon2KeyLen  = 128
	maxBcryptCost    = 16
)

// PasswordTool hashes and verifies passwords with bcrypt or Argon2id
type PasswordTool struct {
	toolkit.Info
}

// NewPasswordTool creates the password-hash tool
func NewPasswordTool() *PasswordTool {
	return &PasswordTool{Info: toolkit.NewInfo(
		"password-hash", "Password Hasher",
		"Hash a password with bcrypt or Argon2id, or verify a password against an existing hash.",
		types.CategoryCrypto, "bcrypt", "argon2", "argon2id", "verify", "kdf",
	)}
}

func (t *PasswordTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":      toolkit.Enum("Operation. Default: hash", "hash", "verify"),
		"password":  toolkit.String("Password"),
		"algorithm": toolkit.Enum("Algorithm for hashing. Default: bcrypt", "bcrypt", "argon2id"),
		"cost":      toolkit.Integer("bcrypt cost, 4-16. Default: 10"),
		"hash":      toolkit.String("Existing hash to verify against (bcrypt $2a$/$2b$/$2y$ or $argon2id$)"),
	}, "password")
}

type passwordInput struct {
	Mode      string `json:"mode"`
	Password  string `json:"password"`
	Algorithm string `json:"algorithm"`
	Cost      int    `json:"cost"`
	Hash      string `json:"hash"`
}

func (t *PasswordTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params passwordInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "hash", "hash", "verify")
	if err != nil {
		return nil, err
	}

	if mode == "verify" {
		ok, err := VerifyPassword(params.Password, params.Hash)
		if err != nil {
			return nil, err
		}
		msg := "Password does NOT match"
		if ok {
			msg = "Password matches"
		}
		return types.TextResult(msg).WithFields(map[string]any{"match": ok}), nil
	}

	algo, err := toolkit.Mode(params.Algorithm, "bcrypt", "bcrypt", "argon2id")
	if err != nil {
		return nil, err
	}
	var encoded string
	if algo == "bcrypt" {
		encoded, err = HashBcrypt(params.Password, params.Cost)
	} else {
		encoded, err = HashArgon2id(params.Password)
	}
	if err != nil {
		return nil, err
	}
	return types.TextResult(encoded).WithFields(map[string]any{"algorithm": algo, "hash": encoded}), nil
}

// HashBcrypt hashes with bcrypt. cost 0 selects bcrypt.DefaultCost.
func HashBcrypt(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > maxBcryptCost {
		return "", types.InvalidInput("bcrypt cost must be between %d and %d", bcrypt.MinCost, maxBcryptCost)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", types.InvalidInput("bcrypt accepts at most 72 bytes of password")
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// HashArgon2id creates an Argon2id hash in PHC string format
func HashArgon2id(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword checks password against a bcrypt or Argon2id hash.
// A malformed hash is an input error.
func VerifyPassword(password, encoded string) (bool, error) {
	encoded = strings.TrimSpace(encoded)
	switch {
	case encoded == "":
		return false, types.InvalidInput("hash is required for verify")
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		if cost, err := bcrypt.Cost([]byte(encoded)); err == nil && cost > maxBcryptCost {
			return false, types.InvalidInput("bcrypt cost %d exceeds %d", cost, maxBcryptCost)
		}
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, types.WrapInput(err, "invalid bcrypt hash")
		}
		return true, nil
	case strings.HasPrefix(encoded, "$argon2id$"):
		params, salt, hash, err := parseArgon2Hash(encoded)
		if err != nil {
			return false, types.WrapInput(err, "invalid argon2id hash")
		}
		computed := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, params.keyLen)
		return subtle.ConstantTimeCompare(hash, computed) == 1, nil
	}
	return false, types.InvalidInput("unrecognised hash format (expected $2a$, $2b$, $2y$ or $argon2id$)")
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// parseArgon2Hash parses an Argon2id encoded hash string
func parseArgon2Hash(encoded string) (*argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, nil, fmt.Errorf("expected 6 parts, got %d", len(parts))
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %s", parts[2])
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("unsupported version: %d", version)
	}

	params := &argon2Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid parameters: %s", parts[3])
	}
	if params.time == 0 || params.time > maxArgon2Time ||
		params.threads == 0 || params.threads > maxArgon2Threads ||
		params.memory > maxArgon2Memory {
		return nil, nil, nil, fmt.Errorf("parameters out of range (m<=%d, t<=%d, p<=%d): %s",
			maxArgon2Memory, maxArgon2Time, maxArgon2Threads, parts[3])
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(hash) == 0 || len(hash) > maxArgon2KeyLen {
		return nil, nil, nil, errors.New("hash length out of range")
	}
	params.keyLen = uint32(len(hash))

	return params, salt, hash, nil
}
