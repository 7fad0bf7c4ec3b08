package moderation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

var ErrMissingSecret = errors.New("device hash secret is not configured")

// DeviceHasher derives a stable, salted, one-way hash from a caller's device
// fingerprint. The hash is the pseudonymous identity for unauthenticated
// callers; the secret never leaves the server.
type DeviceHasher struct {
	key []byte
}

// NewDeviceHasher expands the configured secret into a 32-byte HMAC key.
// An empty secret is a configuration error: hashing without it would produce
// guessable identities, so construction fails instead of degrading.
func NewDeviceHasher(secret string) (*DeviceHasher, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("whattheygot/device-id"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}

	return &DeviceHasher{key: key}, nil
}

// Hash returns the hex-encoded HMAC-SHA256 of the raw fingerprint. Pure
// function of (rawID, secret): the same input always yields the same hash.
func (h *DeviceHasher) Hash(rawDeviceID string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(rawDeviceID))
	return hex.EncodeToString(mac.Sum(nil))
}
