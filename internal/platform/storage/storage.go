// Package storage is the persistence boundary of the storefront: a small
// string-keyed store holding the JSON documents for users, cart and orders.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Persisted document keys.
const (
	KeyCurrentUser = "user"
	KeyUsers       = "users"
	KeyCart        = "cart"
	KeyOrders      = "orders"
)

var ErrCorruptValue = errors.New("stored value is not valid JSON")

type Storage interface {
	// Get returns found == false and a nil error when key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// LoadJSON decodes the value under key into dst. When the key is absent dst is
// left untouched so callers can pre-fill their defaults.
func LoadJSON(ctx context.Context, s Storage, key string, dst interface{}) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("%w: key %q: %v", ErrCorruptValue, key, err)
	}
	return true, nil
}

func SaveJSON(ctx context.Context, s Storage, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := s.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func namespaced(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}
