package keyvalue

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/anantaclub/ananta/internal/cryptox"
)

// SaltKey stores the hex salt used to derive the sealing key. It is the only
// value a SealedRepository keeps in clear text.
const SaltKey = "__sealing_salt"

var ErrSealedValue = errors.New("sealed value cannot be opened")

// SealedRepository encrypts every value before handing it to the inner
// repository.
type SealedRepository struct {
	inner Repository
	salt  string
	key   []byte
}

// NewSealedRepository loads the salt from inner (creating it on first use)
// and derives the sealing key from secret.
func NewSealedRepository(ctx context.Context, inner Repository, secret []byte) (*SealedRepository, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty sealing secret")
	}

	saltHex, ok, err := inner.Get(ctx, SaltKey)
	if err != nil {
		return nil, err
	}
	var salt []byte
	if ok {
		salt, err = hex.DecodeString(saltHex)
		if err != nil {
			return nil, fmt.Errorf("decode sealing salt: %w", err)
		}
	} else {
		salt, err = cryptox.NewSalt()
		if err != nil {
			return nil, err
		}
		saltHex = hex.EncodeToString(salt)
		if err := inner.Set(ctx, SaltKey, saltHex); err != nil {
			return nil, err
		}
	}

	return &SealedRepository{inner: inner, salt: saltHex, key: cryptox.DeriveKey(secret, salt)}, nil
}

func (r *SealedRepository) seal(value string) (string, error) {
	sealed, err := cryptox.Seal([]byte(value), r.key)
	if err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

func (r *SealedRepository) open(key, stored string) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%w: keyvalue[%s]: %v", ErrSealedValue, key, err)
	}
	plain, err := cryptox.Open(raw, r.key)
	if err != nil {
		return "", fmt.Errorf("%w: keyvalue[%s]: %v", ErrSealedValue, key, err)
	}
	return string(plain), nil
}

func (r *SealedRepository) Get(ctx context.Context, key string) (string, bool, error) {
	stored, ok, err := r.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	value, err := r.open(key, stored)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *SealedRepository) Set(ctx context.Context, key string, value string) error {
	sealed, err := r.seal(value)
	if err != nil {
		return err
	}
	return r.inner.Set(ctx, key, sealed)
}

func (r *SealedRepository) MultiSet(ctx context.Context, pairs ...Pair) error {
	sealedPairs := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		sealed, err := r.seal(p.Value)
		if err != nil {
			return err
		}
		sealedPairs = append(sealedPairs, Pair{Key: p.Key, Value: sealed})
	}
	return r.inner.MultiSet(ctx, sealedPairs...)
}

func (r *SealedRepository) Remove(ctx context.Context, key string) error {
	return r.inner.Remove(ctx, key)
}

func (r *SealedRepository) MultiRemove(ctx context.Context, keys ...string) error {
	return r.inner.MultiRemove(ctx, keys...)
}

func (r *SealedRepository) List(ctx context.Context) (map[string]string, error) {
	all, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(all))
	for k, stored := range all {
		if k == SaltKey {
			continue
		}
		value, err := r.open(k, stored)
		if err != nil {
			return nil, err
		}
		result[k] = value
	}
	return result, nil
}

// Clear wipes every value and writes the salt back so existing keys stay
// derivable.
func (r *SealedRepository) Clear(ctx context.Context) error {
	if err := r.inner.Clear(ctx); err != nil {
		return err
	}
	return r.inner.Set(ctx, SaltKey, r.salt)
}
