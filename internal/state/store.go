package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/didyoueat/didyoueat/internal/crypto"
	apperrors "github.com/didyoueat/didyoueat/internal/errors"
	"github.com/didyoueat/didyoueat/internal/logging"
)

// Store loads and saves the state blob.
//
// Load never fails: a missing, unreadable, or unparsable blob yields Default().
// Read is the same lookup with the failure reported; a missing blob is
// Default() and no error. Save reports errors but callers treat them as
// advisory.
type Store interface {
	Load(ctx context.Context) State
	Read(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
	Reset(ctx context.Context) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options configures Open.
type Options struct {
	Backend    string
	Dir        string
	Passphrase string // empty stores plaintext JSON
}

// Open returns the store for the configured backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(filepath.Join(opts.Dir, "state.json"), opts.Passphrase), nil
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(opts.Dir, "state.db"), opts.Passphrase)
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownStore, opts.Backend)
}

// errNoPassphrase is returned when a sealed blob is read without a passphrase.
var errNoPassphrase = errors.New("state is sealed but no passphrase is configured")

// encode renders s as JSON, sealed when passphrase is set.
func encode(s State, passphrase string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if passphrase != "" {
		data, err = crypto.SealJSON(s, passphrase)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// decode parses a raw blob, opening it first when sealed. On failure it
// returns Default() and the reason.
func decode(raw []byte, passphrase string) (State, error) {
	var s State
	if crypto.IsSealed(raw) {
		if passphrase == "" {
			return Default(), errNoPassphrase
		}
		if err := crypto.OpenJSON(raw, passphrase, &s); err != nil {
			return Default(), err
		}
	} else if err := json.Unmarshal(raw, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse state: %w", err)
	}
	s.normalize()
	return s, nil
}

// loadOrDefault adapts Read to Load, logging the fallback.
func loadOrDefault(st State, err error, source string) State {
	if err != nil {
		logging.Warn("Stored state unreadable, starting from defaults",
			logging.String("source", source), logging.Err(err))
	}
	return st
}
