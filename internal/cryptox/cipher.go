// Package cryptox implements at-rest encryption for uploaded documents.
//
// Blobs are AES-256-GCM with a 16-byte IV and laid out as
//
//	IV(16) || Tag(16) || Ciphertext(N)
//
// so an encrypted blob is always exactly 32 bytes longer than its plaintext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/poshtyar/internal/common"
)

const (
	KeySize   = 32
	IVSize    = 16
	TagSize   = 16
	Overhead  = IVSize + TagSize
	keyHexLen = KeySize * 2
)

var (
	ErrInvalidKey           = errors.New("encryption key must be 64 hex characters")
	ErrInvalidInput         = errors.New("nothing to encrypt")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// randReader is the IV source; tests replace it.
var randReader io.Reader = rand.Reader

// FileCipher encrypts and decrypts whole files with a fixed process-wide key.
// It is safe for concurrent use.
type FileCipher struct {
	aead cipher.AEAD
}

// NewFileCipher parses a 64-character hex key and prepares the AEAD.
func NewFileCipher(hexKey string) (*FileCipher, error) {
	if len(hexKey) != keyHexLen {
		return nil, ErrInvalidKey
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrInvalidKey
	}
	defer common.WipeByteArray(key)
	return newFileCipher(key)
}

func newFileCipher(key []byte) (*FileCipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return &FileCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random IV.
func (c *FileCipher) Encrypt(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrInvalidInput
	}

	out := make([]byte, Overhead+len(plaintext))
	iv := out[:IVSize]
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return nil, fmt.Errorf("read iv: %w", err)
	}

	// Seal appends ciphertext||tag; the stored layout puts the tag first.
	sealed := c.aead.Seal(nil, iv, plaintext, nil)
	n := len(plaintext)
	copy(out[IVSize:Overhead], sealed[n:])
	copy(out[Overhead:], sealed[:n])

	return out, nil
}

// EncryptReader reads r to EOF and encrypts the result.
func (c *FileCipher) EncryptReader(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return c.Encrypt(data)
}

// Decrypt opens a blob produced by Encrypt. Any tampering, truncation or key
// mismatch yields ErrAuthenticationFailed and no plaintext.
func (c *FileCipher) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < Overhead {
		return nil, ErrAuthenticationFailed
	}

	iv := blob[:IVSize]
	tag := blob[IVSize:Overhead]
	ct := blob[Overhead:]

	sealed := make([]byte, 0, len(ct)+TagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
