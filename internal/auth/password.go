// Package auth holds the credential primitives: argon2id password hashing and
// HS256 session tokens.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// argon2id work factors (library defaults).
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives an argon2id hash over a fresh random salt and returns
// it in the standard encoded form:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<b64 salt>$<b64 digest>
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest))

	return encoded, nil
}

// VerifyPassword re-derives the digest from the candidate password using the
// salt and parameters stored in encoded, and compares in constant time.
func VerifyPassword(encoded, password string) (bool, error) {
	salt, digest, params, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(digest)))

	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decodeHash(encoded string) ([]byte, []byte, argonParams, error) {
	var p argonParams

	var version int
	var saltB64, digestB64 string
	n, err := fmt.Sscanf(encoded, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		&version, &p.memory, &p.time, &p.threads, &saltB64)
	if err != nil || n != 5 {
		return nil, nil, p, ErrMalformedHash
	}
	if version != argon2.Version {
		return nil, nil, p, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	// Sscanf consumes through the end of the string; split the trailing
	// salt$digest pair manually.
	for i := 0; i < len(saltB64); i++ {
		if saltB64[i] == '$' {
			digestB64 = saltB64[i+1:]
			saltB64 = saltB64[:i]
			break
		}
	}
	if digestB64 == "" {
		return nil, nil, p, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, nil, p, ErrMalformedHash
	}
	digest, err := base64.RawStdEncoding.DecodeString(digestB64)
	if err != nil {
		return nil, nil, p, ErrMalformedHash
	}

	return salt, digest, p, nil
}
