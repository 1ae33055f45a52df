// Package vault encrypts and decrypts stored credentials with AES-256-CBC.
// Envelopes look like "ivHex:ciphertextHex"; the ':' separator can never
// appear inside the hex halves. The vault holds no storage of its own.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultPassphrase is the built-in developer fallback used when no
// SMS_ENCRYPTION_KEY is configured. It is NOT a secret: every deployment
// that cares about the stored password must supply its own passphrase.
// cmd/preflight refuses to pass while this default is in effect.
const DefaultPassphrase = "ossf-scada-default-key-change-in-production"

type Vault struct {
	key []byte // 32 bytes, AES-256
}

// New derives the cipher key by hashing the passphrase. An empty passphrase
// falls back to DefaultPassphrase.
func New(passphrase string) *Vault {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	sum := sha256.Sum256([]byte(passphrase))
	return &Vault{key: sum[:]}
}

// Encrypt seals plaintext under a fresh random IV and returns the envelope.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}
	padded := pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ct), nil
}

// Decrypt opens an envelope. Malformed input (empty string, missing
// separator, bad hex, wrong length, bad padding) yields "" rather than an
// error; callers treat "" as "not configured", never as a valid secret.
func (v *Vault) Decrypt(envelope string) string {
	ivHex, ctHex, ok := strings.Cut(envelope, ":")
	if !ok {
		return ""
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return ""
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return ""
	}
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return ""
	}
	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)
	out, ok := unpad(pt, aes.BlockSize)
	if !ok {
		return ""
	}
	return string(out)
}

// PKCS#7 padding, as produced by the legacy tooling that wrote existing
// envelopes.
func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, false
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
