package encode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// JWTTool decodes JSON Web Tokens without verifying them
type JWTTool struct {
	toolkit.Info
	now func() time.Time
}

// NewJWTTool creates the jwt-decode tool
func NewJWTTool() *JWTTool {
	return &JWTTool{
		Info: toolkit.NewInfo(
			"jwt-decode", "JWT Decoder",
			"Decode the header and payload of a JSON Web Token. The signature is not verified.",
			types.CategoryEncoding, "jwt", "token", "bearer", "claims",
		),
		now: time.Now,
	}
}

func (t *JWTTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"token": toolkit.String("The encoded JWT (header.payload.signature); a leading 'Bearer ' is ignored"),
	}, "token")
}

type jwtInput struct {
	Token string `json:"token"`
}

// DecodedJWT is the readable form of a token.
type DecodedJWT struct {
	Header    map[string]any `json:"header"`
	Claims    map[string]any `json:"claims"`
	ExpiresAt string         `json:"expiresAt,omitempty"`
	IssuedAt  string         `json:"issuedAt,omitempty"`
	NotBefore string         `json:"notBefore,omitempty"`
	Expired   bool           `json:"expired"`
}

func (t *JWTTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params jwtInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	decoded, err := DecodeJWT(params.Token, t.now())
	if err != nil {
		return nil, err
	}

	header, _ := json.MarshalIndent(decoded.Header, "", "  ")
	claims, _ := json.MarshalIndent(decoded.Claims, "", "  ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Header:\n%s\n\nPayload:\n%s\n", header, claims)
	if decoded.IssuedAt != "" {
		fmt.Fprintf(&sb, "\nIssued at:  %s", decoded.IssuedAt)
	}
	if decoded.NotBefore != "" {
		fmt.Fprintf(&sb, "\nNot before: %s", decoded.NotBefore)
	}
	if decoded.ExpiresAt != "" {
		status := "valid"
		if decoded.Expired {
			status = "EXPIRED"
		}
		fmt.Fprintf(&sb, "\nExpires at: %s (%s)", decoded.ExpiresAt, status)
	}
	return types.TextResult(strings.TrimRight(sb.String(), "\n")).WithFields(map[string]any{"jwt": decoded}), nil
}

// DecodeJWT parses a token without signature verification and annotates its time claims.
func DecodeJWT(token string, now time.Time) (*DecodedJWT, error) {
	token = strings.TrimSpace(token)
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if strings.Count(token, ".") != 2 {
		return nil, types.InvalidInput("a JWT has three dot-separated parts")
	}

	claims := jwt.MapClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, types.WrapInput(err, "invalid JWT")
	}

	out := &DecodedJWT{Header: parsed.Header, Claims: claims}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.UTC().Format(time.RFC3339)
		out.Expired = now.After(exp.Time)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.UTC().Format(time.RFC3339)
	}
	if nbf, err := claims.GetNotBefore(); err == nil && nbf != nil {
		out.NotBefore = nbf.UTC().Format(time.RFC3339)
	}
	return out, nil
}
