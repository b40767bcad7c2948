package secrets

import (
	"testing"
)

func TestEncryptor_RoundTrip(t *testing.T) {
	// Generate a test key (32 bytes)
	key := []byte("01234567890123456789012345678901")

	encryptor, err := NewEncryptor(key)
	if err != nil {
		t.Fatalf("NewEncryptor: %v", err)
	}

	type testSecrets struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		APIKey       string `json:"api_key"`
	}

	original := testSecrets{
		AccessToken:  "freee-access-123",
		RefreshToken: "freee-refresh-789",
		APIKey:       "client-secret",
	}

	// Encrypt
	blob, err := encryptor.Encrypt(original)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Verify blob format
	if len(blob) < 1+nonceSize {
		t.Fatalf("blob too short: %d bytes", len(blob))
	}
	if blob[0] != secretVersion {
		t.Errorf("version byte: got %d, want %d", blob[0], secretVersion)
	}

	// Decrypt
	var decrypted testSecrets
	if err := encryptor.Decrypt(blob, &decrypted); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	// Verify
	if decrypted.AccessToken != original.AccessToken {
		t.Errorf("AccessToken: got %q, want %q", decrypted.AccessToken, original.AccessToken)
	}
	if decrypted.RefreshToken != original.RefreshToken {
		t.Errorf("RefreshToken: got %q, want %q", decrypted.RefreshToken, original.RefreshToken)
	}
	if decrypted.APIKey != original.APIKey {
		t.Errorf("APIKey: got %q, want %q", decrypted.APIKey, original.APIKey)
	}
}

func TestEncryptor_InvalidKeySize(t *testing.T) {
	tests := []struct {
		name    string
		keySize int
	}{
		{"too short", 16},
		{"too long", 64},
		{"empty", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := make([]byte, tt.keySize)
			_, err := NewEncryptor(key)
			if err == nil {
				t.Error("expected error for invalid key size")
			}
		})
	}
}

func TestEncryptor_DecryptInvalidBlob(t *testing.T) {
	key := []byte("01234567890123456789012345678901")
	encryptor, _ := NewEncryptor(key)

	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", []byte{}},
		{"too short", []byte{0x01, 0x02}},
		{"wrong version", append([]byte{0x99}, make([]byte, 100)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result string
			err := encryptor.Decrypt(tt.blob, &result)
			if err == nil {
				t.Error("expected error for invalid blob")
			}
		})
	}
}

func TestEncryptor_WrongKey(t *testing.T) {
	key1 := []byte("01234567890123456789012345678901")
	key2 := []byte("10987654321098765432109876543210")

	enc1, _ := NewEncryptor(key1)
	enc2, _ := NewEncryptor(key2)

	// Encrypt with key1
	blob, err := enc1.Encrypt("secret data")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Try to decrypt with key2
	var result string
	err = enc2.Decrypt(blob, &result)
	if err == nil {
		t.Error("expected error when decrypting with wrong key")
	}
}

func TestEncryptor_UniqueNonce(t *testing.T) {
	key := []byte("01234567890123456789012345678901")
	encryptor, _ := NewEncryptor(key)

	// Encrypt the same value multiple times
	blobs := make([][]byte, 10)
	for i := range blobs {
		blob, err := encryptor.Encrypt("same value")
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
		blobs[i] = blob
	}

	// Verify all nonces are unique
	nonces := make(map[string]bool)
	for i, blob := range blobs {
		nonce := string(blob[1 : 1+nonceSize])
		if nonces[nonce] {
			t.Errorf("duplicate nonce at index %d", i)
		}
		nonces[nonce] = true
	}
}

func TestNewEncryptorFromPassphrase(t *testing.T) {
	enc1, err := NewEncryptorFromPassphrase("correct horse battery staple")
	if err != nil {
		t.Fatalf("NewEncryptorFromPassphrase: %v", err)
	}
	enc2, err := NewEncryptorFromPassphrase("correct horse battery staple")
	if err != nil {
		t.Fatalf("NewEncryptorFromPassphrase: %v", err)
	}
	other, err := NewEncryptorFromPassphrase("another passphrase")
	if err != nil {
		t.Fatalf("NewEncryptorFromPassphrase: %v", err)
	}

	blob, err := enc1.Encrypt("secret data")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var got string
	if err := enc2.Decrypt(blob, &got); err != nil {
		t.Fatalf("same passphrase should derive the same key: %v", err)
	}
	if got != "secret data" {
		t.Errorf("got %q, want %q", got, "secret data")
	}

	if err := other.Decrypt(blob, &got); err == nil {
		t.Error("expected error when decrypting with a different passphrase")
	}

	if _, err := NewEncryptorFromPassphrase(""); err != ErrEmptyPassphrase {
		t.Errorf("expected ErrEmptyPassphrase, got %v", err)
	}
}
