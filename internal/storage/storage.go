// Package storage defines the durable key/value contract the cart persists
// through, plus helpers shared by its backends.
package storage

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for keys a backend cannot store.
var ErrInvalidKey = errors.New("storage: invalid key")

// ErrCorrupt is returned by Get when the stored entry exists but cannot be
// read back. Removing the key clears it.
var ErrCorrupt = errors.New("storage: corrupt entry")

// Storage is a string key/value store. Get reports a missing key with
// ok == false and a nil error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks s if it implements Pinger and succeeds otherwise.
func Ping(ctx context.Context, s Storage) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

type prefixed struct {
	Storage
	prefix string
}

// Prefixed namespaces every key of s under prefix + ":".
func Prefixed(s Storage, prefix string) Storage {
	return &prefixed{Storage: s, prefix: prefix + ":"}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.Storage.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	return p.Storage.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Remove(ctx context.Context, key string) error {
	return p.Storage.Remove(ctx, p.prefix+key)
}

func (p *prefixed) Ping(ctx context.Context) error {
	return Ping(ctx, p.Storage)
}
