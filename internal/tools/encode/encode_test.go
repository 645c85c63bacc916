package encode

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roelfdiedericks/devkit/internal/types"
)

func run(t *testing.T, tool interface {
	Execute(context.Context, json.RawMessage) (*types.ToolResult, error)
}, input string) (*types.ToolResult, error) {
	t.Helper()
	return tool.Execute(context.Background(), json.RawMessage(input))
}

func TestBase64RoundTripPrintableASCII(t *testing.T) {
	var sb strings.Builder
	for c := byte(0x20); c < 0x7F; c++ {
		sb.WriteByte(c)
	}
	all := sb.String()

	inputs := []string{"", "a", "ab", "abc", "Hello, World!", all}
	for i := 0; i < len(all); i += 7 {
		inputs = append(inputs, all[:i])
	}
	for _, in := range inputs {
		for _, urlSafe := range []bool{false, true} {
			enc := EncodeBase64([]byte(in), urlSafe)
			dec, err := DecodeBase64(enc)
			if err != nil {
				t.Fatalf("decode(encode(%q)) error: %v", in, err)
			}
			if string(dec) != in {
				t.Errorf("decode(encode(%q)) = %q (urlSafe=%v)", in, dec, urlSafe)
			}
		}
	}
}

func TestBase64Tool(t *testing.T) {
	tool := NewBase64Tool()

	res, err := run(t, tool, `{"text":"hello world"}`)
	if err != nil || res.GetText() != "aGVsbG8gd29ybGQ=" {
		t.Errorf("encode = %q, %v", res.GetText(), err)
	}

	res, err = run(t, tool, `{"mode":"decode","text":"aGVsbG8gd29ybGQ"}`)
	if err != nil || res.GetText() != "hello world" {
		t.Errorf("decode without padding = %q, %v", res.GetText(), err)
	}

	res, err = run(t, tool, `{"mode":"decode","text":"//8="}`)
	if err != nil || !res.HasMedia() {
		t.Errorf("binary decode should return a file block: %+v, %v", res, err)
	}

	if _, err := run(t, tool, `{"mode":"decode","text":"not base64!"}`); !types.IsInputError(err) {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestURLTool(t *testing.T) {
	tool := NewURLTool()
	tests := []struct {
		input string
		want  string
	}{
		{`{"text":"a b&c=d"}`, "a+b%26c%3Dd"},
		{`{"text":"a b/c","component":"path"}`, "a%20b%2Fc"},
		{`{"mode":"decode","text":"a+b%26c"}`, "a b&c"},
		{`{"mode":"decode","text":"a+b","component":"path"}`, "a+b"},
	}
	for _, tt := range tests {
		res, err := run(t, tool, tt.input)
		if err != nil {
			t.Errorf("%s: %v", tt.input, err)
			continue
		}
		if res.GetText() != tt.want {
			t.Errorf("%s = %q, want %q", tt.input, res.GetText(), tt.want)
		}
	}

	if _, err := run(t, tool, `{"mode":"decode","text":"%zz"}`); !types.IsInputError(err) {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestParseURL(t *testing.T) {
	p, err := ParseURL("https://user@example.com:8443/a/b?x=1&x=2&y=z#frag")
	if err != nil {
		t.Fatal(err)
	}
	if p.Scheme != "https" || p.Host != "example.com" || p.Port != "8443" || p.Path != "/a/b" || p.Fragment != "frag" || p.User != "user" {
		t.Errorf("unexpected parts %+v", p)
	}
	if len(p.Query["x"]) != 2 || p.Query["y"][0] != "z" {
		t.Errorf("query = %v", p.Query)
	}
	if _, err := ParseURL("/relative/path"); !types.IsInputError(err) {
		t.Errorf("relative URL should be rejected, got %v", err)
	}
}

func TestHTMLEntities(t *testing.T) {
	tool := NewHTMLEntitiesTool()
	res, err := run(t, tool, `{"text":"<a href=\"x\">Tom & Jerry</a>"}`)
	if err != nil {
		t.Fatal(err)
	}
	if want := "&lt;a href=&#34;x&#34;&gt;Tom &amp; Jerry&lt;/a&gt;"; res.GetText() != want {
		t.Errorf("encode = %q, want %q", res.GetText(), want)
	}

	res, _ = run(t, tool, `{"mode":"decode","text":"&lt;b&gt; &eacute; &#169;"}`)
	if res.GetText() != "<b> é ©" {
		t.Errorf("decode = %q", res.GetText())
	}

	if got := EscapeHTML("café", true); got != "caf&#233;" {
		t.Errorf("EscapeHTML nonASCII = %q", got)
	}
}

func TestHex(t *testing.T) {
	if got := EncodeHex([]byte("Hi!"), " ", false); got != "48 69 21" {
		t.Errorf("EncodeHex = %q", got)
	}
	if got := EncodeHex([]byte{0xab, 0xcd}, ":", true); got != "AB:CD" {
		t.Errorf("EncodeHex upper = %q", got)
	}
	if got := EncodeHex([]byte{0xab, 0xcd}, " x ", true); got != "AB x CD" {
		t.Errorf("EncodeHex upper keeps separator case = %q", got)
	}
	for _, in := range []string{"486921", "48 69 21", "0x48:69:21", "48-69-21"} {
		out, err := DecodeHex(in)
		if err != nil || string(out) != "Hi!" {
			t.Errorf("DecodeHex(%q) = %q, %v", in, out, err)
		}
	}
	if _, err := DecodeHex("4G"); !types.IsInputError(err) {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestDecodeJWT(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1234567890",
		"name": "Jane",
		"iat":  issued.Unix(),
		"exp":  issued.Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeJWT("Bearer "+token, issued.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("DecodeJWT: %v", err)
	}
	if decoded.Header["alg"] != "HS256" {
		t.Errorf("alg = %v", decoded.Header["alg"])
	}
	if decoded.Claims["name"] != "Jane" {
		t.Errorf("name claim = %v", decoded.Claims["name"])
	}
	if decoded.Expired {
		t.Error("token should not be expired yet")
	}
	if decoded.ExpiresAt != "2024-01-01T01:00:00Z" || decoded.IssuedAt != "2024-01-01T00:00:00Z" {
		t.Errorf("times = %q / %q", decoded.ExpiresAt, decoded.IssuedAt)
	}

	later, _ := DecodeJWT(token, issued.Add(2*time.Hour))
	if !later.Expired {
		t.Error("token should be expired")
	}

	for _, bad := range []string{"abc", "a.b.c", ""} {
		if _, err := DecodeJWT(bad, issued); !types.IsInputError(err) {
			t.Errorf("DecodeJWT(%q) expected InputError, got %v", bad, err)
		}
	}
}
