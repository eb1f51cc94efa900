package passhash

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h := New(1000)

	enc, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(enc, "pbkdf2_sha256$1000$") {
		t.Fatalf("unexpected encoding %q", enc)
	}

	ok, err := h.Verify("s3cret-pass", enc)
	if err != nil || !ok {
		t.Fatalf("Verify(correct) = %v, %v", ok, err)
	}
	ok, err = h.Verify("wrong", enc)
	if err != nil || ok {
		t.Fatalf("Verify(wrong) = %v, %v", ok, err)
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := HashPasswordWithIters("same", 10)
	b, _ := HashPasswordWithIters("same", 10)
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyMalformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    error
	}{
		{"other scheme", "bcrypt$abc", ErrUnsupported},
		{"missing parts", "pbkdf2_sha256$10$abc", ErrMalformedHash},
		{"bad iterations", "pbkdf2_sha256$x$YWJj$YWJj", ErrMalformedHash},
		{"bad salt", "pbkdf2_sha256$10$!!$YWJj", ErrMalformedHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyPassword("pw", tt.encoded)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
