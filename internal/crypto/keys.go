package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// KeyLen - длина ключа шифрования в байтах (AES-256)
	KeyLen = 32
)

const saltContext = "gophtask/version-key/v1:"

// IdentitySalt returns the salt used to derive the encryption key of an
// identity. It must be the same on every replica, so it is computed from the
// identity instead of being generated.
func IdentitySalt(identity string) []byte {
	sum := sha256.Sum256([]byte(saltContext + identity))
	return sum[:]
}

// DeriveKey derives the AES-256 key that encrypts an identity's versions.
// Replicas sharing identity and passphrase derive the same key.
func DeriveKey(passphrase, identity string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if identity == "" {
		return nil, fmt.Errorf("identity cannot be empty")
	}

	key := argon2.IDKey([]byte(passphrase), IdentitySalt(identity), Argon2Time, Argon2Memory, Argon2Threads, KeyLen)
	return key, nil
}
