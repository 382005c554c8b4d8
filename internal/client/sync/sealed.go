package sync

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iudanet/gophtask/internal/client/taskdb"
	"github.com/iudanet/gophtask/internal/crypto"
)

// SealedServer encrypts versions before they leave the replica and decrypts
// them on the way back, so the server only ever stores ciphertext.
//
// The identity and version number are authenticated with each blob: a server
// that returns a version under the wrong number fails decryption, and the
// error wraps taskdb.ErrUnreadableVersion.
type SealedServer struct {
	inner taskdb.Server
	key   []byte
}

var _ taskdb.Server = (*SealedServer)(nil)

// NewSealedServer wraps inner with AES-256-GCM using key
func NewSealedServer(inner taskdb.Server, key []byte) *SealedServer {
	return &SealedServer{inner: inner, key: key}
}

// GetVersions получает версии и расшифровывает их
func (s *SealedServer) GetVersions(ctx context.Context, identity string, after uint64) ([][]byte, error) {
	sealed, err := s.inner.GetVersions(ctx, identity, after)
	if err != nil {
		return nil, err
	}

	versions := make([][]byte, 0, len(sealed))
	for i, blob := range sealed {
		version := after + uint64(i) + 1
		plain, err := crypto.Decrypt(blob, s.key, additionalData(identity, version))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open version %d: %w", taskdb.ErrUnreadableVersion, version, err)
		}
		versions = append(versions, plain)
	}

	return versions, nil
}

// AddVersion шифрует версию и отправляет ее на сервер
func (s *SealedServer) AddVersion(ctx context.Context, identity string, version uint64, data []byte) (taskdb.AddVersionResult, error) {
	sealed, err := crypto.Encrypt(data, s.key, additionalData(identity, version))
	if err != nil {
		return taskdb.VersionConflict, fmt.Errorf("failed to seal version %d: %w", version, err)
	}
	return s.inner.AddVersion(ctx, identity, version, sealed)
}

func additionalData(identity string, version uint64) []byte {
	return []byte(identity + "/" + strconv.FormatUint(version, 10))
}
