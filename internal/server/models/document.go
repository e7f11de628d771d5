package models

import "time"

// Document is the metadata of an encrypted upload. The ciphertext lives in
// blob storage under StorageKey.
type Document struct {
	ID           string
	UserID       string
	StorageKey   string
	OriginalName string
	ContentType  string
	Size         int64
	CreatedAt    time.Time
}
