package hash

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roelfdiedericks/devkit/internal/types"
)

func TestSum(t *testing.T) {
	tests := []struct {
		algo string
		want string
	}{
		{"md5", "900150983cd24fb0d6963f7d28e17f72"},
		{"sha1", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha224", "23097d223405d8228642a477bda255b32aadbce4bda0b3f7e36c9da7"},
		{"sha256", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"sha3-256", "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
	}
	for _, tt := range tests {
		if got := Encode(Sum(tt.algo, []byte("abc")), "hex", false); got != tt.want {
			t.Errorf("%s(abc) = %s, want %s", tt.algo, got, tt.want)
		}
	}

	if got := Encode(Sum("md5", []byte("abc")), "base64", false); got != "kAFQmDzST7DWlj99KOF/cg==" {
		t.Errorf("md5 base64 = %s", got)
	}
}

func TestHashToolAll(t *testing.T) {
	res, err := NewHashTool().Execute(context.Background(), json.RawMessage(`{"text":"abc","uppercase":true}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Fields) != len(Algorithms) {
		t.Errorf("fields = %v", res.Fields)
	}
	if res.Fields["md5"] != "900150983CD24FB0D6963F7D28E17F72" {
		t.Errorf("md5 = %v", res.Fields["md5"])
	}
	if !strings.HasPrefix(res.GetText(), "md5:") {
		t.Errorf("text = %q", res.GetText())
	}
}

func TestHashToolFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}
	tool := NewHashTool()
	res, err := tool.Execute(context.Background(), json.RawMessage(`{"algorithm":"sha1","file":`+quote(path)+`}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.GetText() != "a9993e364706816aba3e25717850c26c9cd0d89d" {
		t.Errorf("file sha1 = %q", res.GetText())
	}

	_, err = tool.Execute(context.Background(), json.RawMessage(`{"file":"/does/not/exist"}`))
	if !types.IsInputError(err) {
		t.Errorf("missing file should be an InputError, got %v", err)
	}
	_, err = tool.Execute(context.Background(), json.RawMessage(`{"text":"x","algorithm":"crc32"}`))
	if !types.IsInputError(err) {
		t.Errorf("unknown algorithm should be an InputError, got %v", err)
	}
}

func TestHMAC(t *testing.T) {
	// RFC 4231 test case 2
	got := Encode(HMAC("sha256", []byte("Jefe"), []byte("what do ya want for nothing?")), "hex", false)
	if got != "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843" {
		t.Errorf("HMAC-SHA256 = %s", got)
	}

	_, err := NewHMACTool().Execute(context.Background(), json.RawMessage(`{"text":"x","key":""}`))
	if !types.IsInputError(err) {
		t.Errorf("empty key should be rejected, got %v", err)
	}
}

func TestPasswordHashBcrypt(t *testing.T) {
	hash, err := HashBcrypt("s3cret", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Errorf("hash = %s", hash)
	}
	if ok, err := VerifyPassword("s3cret", hash); err != nil || !ok {
		t.Errorf("verify correct password = %v, %v", ok, err)
	}
	if ok, err := VerifyPassword("wrong", hash); err != nil || ok {
		t.Errorf("verify wrong password = %v, %v", ok, err)
	}
	if _, err := HashBcrypt("x", 40); !types.IsInputError(err) {
		t.Errorf("cost 40 should be rejected, got %v", err)
	}
}

func TestPasswordHashArgon2id(t *testing.T) {
	hash, err := HashArgon2id("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=4$") {
		t.Errorf("hash = %s", hash)
	}
	if ok, err := VerifyPassword("s3cret", hash); err != nil || !ok {
		t.Errorf("verify correct password = %v, %v", ok, err)
	}
	if ok, _ := VerifyPassword("other", hash); ok {
		t.Error("wrong password verified")
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, bad := range []string{"", "plaintext", "$argon2id$v=19$bad", "$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA"} {
		if _, err := VerifyPassword("x", bad); !types.IsInputError(err) {
			t.Errorf("VerifyPassword(%q) expected InputError, got %v", bad, err)
		}
	}
}

func TestVerifyRejectsCostlyArgon2Params(t *testing.T) {
	tests := []struct {
		name   string
		params string
	}{
		{"memory", "m=4194304,t=1,p=1"},
		{"iterations", "m=1024,t=4000000000,p=1"},
		{"threads", "m=1024,t=1,p=255"},
		{"zero iterations", "m=1024,t=0,p=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := "$argon2id$v=19$" + tt.params + "$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNo"
			if _, err := VerifyPassword("x", encoded); !types.IsInputError(err) {
				t.Errorf("expected InputError, got %v", err)
			}
		})
	}

	// a valid-looking bcrypt hash at cost 31
	costly := "$2a$31$" + strings.Repeat("a", 53)
	if _, err := VerifyPassword("x", costly); !types.IsInputError(err) {
		t.Errorf("bcrypt cost 31: expected InputError, got %v", err)
	}
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
