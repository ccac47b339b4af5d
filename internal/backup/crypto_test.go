package backup

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt1) != saltSize {
		t.Errorf("salt length = %d, want %d", len(salt1), saltSize)
	}

	salt2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt 2: %v", err)
	}
	if bytes.Equal(salt1, salt2) {
		t.Error("two salts should not be equal")
	}
}

func TestDeriveKey(t *testing.T) {
	salt := []byte("1234567890abcdef")

	key1 := DeriveKey("mypassphrase", salt)
	key2 := DeriveKey("mypassphrase", salt)
	if !bytes.Equal(key1, key2) {
		t.Error("same passphrase+salt should produce same key")
	}
	if len(key1) != keySize {
		t.Errorf("key length = %d, want %d", len(key1), keySize)
	}
	if bytes.Equal(key1, DeriveKey("other", salt)) {
		t.Error("different passphrases should produce different keys")
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	plaintext := []byte(`[{"id":1,"title":"New Note"}]`)

	sealed, err := Seal(plaintext, "correct horse")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("New Note")) {
		t.Error("sealed output contains plaintext")
	}
	if len(sealed) < saltSize+nonceSize+len(plaintext) {
		t.Errorf("sealed length %d too short", len(sealed))
	}

	got, err := Open(sealed, "correct horse")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("open = %q, want %q", got, plaintext)
	}
}

func TestOpenFailures(t *testing.T) {
	sealed, err := Seal([]byte("secret"), "right")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if _, err := Open(sealed, "wrong"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("wrong passphrase: err = %v, want ErrDecrypt", err)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff
	if _, err := Open(tampered, "right"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("tampered: err = %v, want ErrDecrypt", err)
	}

	if _, err := Open([]byte("short"), "right"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("short input: err = %v, want ErrDecrypt", err)
	}

	if _, err := Seal([]byte("x"), ""); !errors.Is(err, ErrNoPassphrase) {
		t.Errorf("empty passphrase: err = %v, want ErrNoPassphrase", err)
	}
}
