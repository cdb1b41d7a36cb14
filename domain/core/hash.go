// Package core holds the small value types shared across the application.
package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// FileIdentity identifies an uploaded file by name plus content hash.
// Two uploads with the same identity parse to the same workbook, which is
// what the loader cache keys on.
type FileIdentity string

// NewFileIdentity derives the identity of an upload from its name and bytes.
func NewFileIdentity(name string, content []byte) FileIdentity {
	sum := sha256.New()
	sum.Write([]byte(name))
	sum.Write([]byte{0})
	sum.Write(content)
	return FileIdentity(hex.EncodeToString(sum.Sum(nil)))
}

// String returns the hex form of the identity.
func (f FileIdentity) String() string { return string(f) }

// IsEmpty reports whether no upload has been identified yet.
func (f FileIdentity) IsEmpty() bool { return f == "" }
