// Package credentials handles password hashing and password-based
// authentication.
package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Hasher is the one-way credential hashing contract. Implementations
// embed the salt and algorithm tag in the digest so verification needs
// no extra storage and algorithms can be migrated by re-hashing on the
// next successful login.
type Hasher interface {
	Hash(secret string) (string, error)

	// Verify reports whether secret matches digest. Malformed or
	// foreign-algorithm digests verify as false, never as an error, so
	// callers treat wrong passwords and corrupt digests uniformly.
	Verify(secret, digest string) bool
}

// Argon2Params tunes the argon2id hasher.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLen:     16,
		KeyLen:      32,
	}
}

// Argon2Hasher produces PHC-style argon2id digests:
// argon2id$v=19$m=65536,t=3,p=4$<salt_b64>$<hash_b64>
type Argon2Hasher struct {
	params Argon2Params
}

var _ Hasher = (*Argon2Hasher)(nil)

func NewArgon2Hasher(p Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: p}
}

func (h *Argon2Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("credentials: empty secret")
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("credentials: salt generation failed: %w", err)
	}

	key := argon2.IDKey(
		[]byte(secret),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLen,
	)

	enc := base64.RawStdEncoding
	return fmt.Sprintf(
		"argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		enc.EncodeToString(salt),
		enc.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(secret, digest string) bool {
	if secret == "" || digest == "" {
		return false
	}

	p, salt, want, err := parseDigest(digest)
	if err != nil {
		return false
	}

	got := argon2.IDKey(
		[]byte(secret),
		salt,
		p.Iterations,
		p.Memory,
		p.Parallelism,
		uint32(len(want)),
	)

	return subtle.ConstantTimeCompare(got, want) == 1
}

func parseDigest(s string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(s, "$")
	if len(parts) != 5 {
		return Argon2Params{}, nil, nil, errors.New("credentials: malformed digest")
	}
	if parts[0] != "argon2id" {
		return Argon2Params{}, nil, nil, errors.New("credentials: unknown algorithm tag")
	}

	ver, err := strconv.Atoi(strings.TrimPrefix(parts[1], "v="))
	if err != nil || ver != argon2.Version {
		return Argon2Params{}, nil, nil, errors.New("credentials: unsupported argon2 version")
	}

	var p Argon2Params
	for _, kv := range strings.Split(parts[2], ",") {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 {
			return Argon2Params{}, nil, nil, errors.New("credentials: malformed parameters")
		}
		n, err := strconv.ParseUint(pair[1], 10, 32)
		if err != nil {
			return Argon2Params{}, nil, nil, errors.New("credentials: malformed parameters")
		}
		switch pair[0] {
		case "m":
			p.Memory = uint32(n)
		case "t":
			p.Iterations = uint32(n)
		case "p":
			if n > 255 {
				return Argon2Params{}, nil, nil, errors.New("credentials: malformed parameters")
			}
			p.Parallelism = uint8(n)
		default:
			return Argon2Params{}, nil, nil, errors.New("credentials: unknown parameter")
		}
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[3])
	if err != nil {
		return Argon2Params{}, nil, nil, errors.New("credentials: malformed salt")
	}
	key, err := enc.DecodeString(parts[4])
	if err != nil || len(key) < 16 {
		return Argon2Params{}, nil, nil, errors.New("credentials: malformed hash")
	}
	return p, salt, key, nil
}
