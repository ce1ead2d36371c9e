// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ArgonParams describe one argon2id configuration. Encoded hashes carry
// their own params so older hashes keep verifying after a change here.
type ArgonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

var DefaultArgonParams = ArgonParams{
	Memory:  64 * 1024,
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

var ErrInvalidHash = errors.New("invalid password hash")

func HashPassword(password string) (string, error) {
	return hashWithParams(password, DefaultArgonParams)
}

func hashWithParams(password string, p ArgonParams) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Time,
		p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks password against encodedHash. When the hash is
// valid but was produced with params other than DefaultArgonParams the
// second return value is a fresh hash the caller should persist.
func VerifyPassword(password, encodedHash string) (bool, string, error) {
	params, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, "", err
	}

	other := argon2.IDKey(
		[]byte(password),
		salt,
		params.Time,
		params.Memory,
		params.Threads,
		params.KeyLen,
	)

	if subtle.ConstantTimeCompare(key, other) != 1 {
		return false, "", nil
	}

	if params == DefaultArgonParams {
		return true, "", nil
	}

	upgraded, hashErr := HashPassword(password)
	if hashErr != nil {
		//nolint:nilerr // the password matched; a failed upgrade is not fatal
		return true, "", nil
	}
	return true, upgraded, nil
}

var dummyHash string

func init() {
	hash, err := HashPassword("timing-equalizer-not-a-real-password")
	if err != nil {
		panic(fmt.Sprintf("security: generate dummy hash: %v", err))
	}
	dummyHash = hash
}

// VerifyPasswordTimingSafe spends the same argon2 work whether or not a
// stored hash exists, so login latency does not reveal unknown accounts.
// A nil or empty encodedHash always reports false.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	if encodedHash == nil || *encodedHash == "" {
		//nolint:errcheck // result intentionally discarded
		_, _, _ = VerifyPassword(password, dummyHash)
		return false, "", nil
	}

	return VerifyPassword(password, *encodedHash)
}

func decodeHash(encodedHash string) (ArgonParams, []byte, []byte, error) {
	var p ArgonParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: version: %w", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: incompatible version %d", ErrInvalidHash, version)
	}

	if _, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&p.Memory,
		&p.Time,
		&p.Threads,
	); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params: %w", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %w", ErrInvalidHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: key: %w", ErrInvalidHash, err)
	}

	//nolint:gosec // G115: salt and key are a few dozen bytes
	p.SaltLen, p.KeyLen = uint32(len(salt)), uint32(len(key))

	return p, salt, key, nil
}
