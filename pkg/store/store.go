// Package store implements the concurrent file store. It owns the
// on-disk managed directory and the in-memory catalog together, behind a
// single reader-writer lock, so the catalog<->directory invariant can
// never be observed broken.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	otel "github.com/mutablelogic/go-client/pkg/otel"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
)

// Store is the file store: on-disk bytes plus the authoritative in-memory
// catalog, one reader-writer lock over both.
type Store struct {
	opts
	catalog *Catalog
}

// New opens (or initializes) a store rooted at the directory and metadata
// path given by opts, loading any previously flushed catalog.
func New(ctx context.Context, opt ...Opt) (*Store, error) {
	o, err := applyOpts(opt)
	if err != nil {
		return nil, err
	}
	if o.dir == "" {
		return nil, ferrors.ConfigError("store: WithDir is required")
	}
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return nil, ferrors.ConfigError(fmt.Sprintf("store: cannot create managed directory: %v", err))
	}

	cat := NewCatalog()
	if o.metadataPath != "" {
		cat, err = LoadCatalog(o.metadataPath, o.keys, o.codec)
		if err != nil {
			return nil, ferrors.ConfigError(fmt.Sprintf("store: cannot load metadata: %v", err))
		}
	}

	return &Store{opts: o, catalog: cat}, nil
}

func (s *Store) span(ctx context.Context, op string) (context.Context, func(error)) {
	if s.tracer == nil {
		return ctx, func(error) {}
	}
	return otel.StartSpan(s.tracer, ctx, "store."+op)
}

func (s *Store) warnf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(context.Background(), "WARN "+format, args...)
	}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

////////////////////////////////////////////////////////////////////////////////
// ADD

// Add creates name on disk with the given bytes, assigns the next catalog
// id, and returns it. On a write failure the partially-created file is
// rolled back; if the rollback itself fails, a warning is logged and the
// caller gets a 500 with the operator expected to reconcile manually.
func (s *Store) Add(ctx context.Context, name string, body []byte) (int64, error) {
	_, end := s.span(ctx, "Add")
	var err error
	defer func() { end(err) }()

	s.catalog.Lock()
	defer s.catalog.Unlock()

	if s.catalog.NameExists(name) {
		err = ferrors.StoreError(400, fmt.Sprintf("%q already exists", name))
		return 0, err
	}

	f, createErr := os.OpenFile(s.path(name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if createErr != nil {
		err = ferrors.StoreError(400, fmt.Sprintf("%q already exists on disk", name))
		return 0, err
	}

	if _, writeErr := f.Write(body); writeErr != nil {
		_ = f.Close()
		if rmErr := os.Remove(s.path(name)); rmErr != nil {
			s.warnf("add %q: write failed (%v) and rollback failed (%v); manual cleanup required", name, writeErr, rmErr)
			err = ferrors.StoreError(500, "write failed and rollback failed, manual cleanup required")
			return 0, err
		}
		err = ferrors.StoreError(500, fmt.Sprintf("write failed: %v", writeErr))
		return 0, err
	}
	if closeErr := f.Close(); closeErr != nil {
		err = ferrors.StoreError(500, fmt.Sprintf("close failed: %v", closeErr))
		return 0, err
	}

	id := s.catalog.NextID()
	s.catalog.Put(newEntry(id, name, int64(len(body)), time.Now()))
	return id, nil
}

////////////////////////////////////////////////////////////////////////////////
// GET / VIEW / LIST

// Get resolves identifier to a name and returns its bytes.
func (s *Store) Get(ctx context.Context, identifier Identifier) ([]byte, string, error) {
	_, end := s.span(ctx, "Get")
	var err error
	defer func() { end(err) }()

	s.catalog.RLock()
	defer s.catalog.RUnlock()

	name, rerr := s.resolveName(identifier)
	if rerr != nil {
		err = rerr
		return nil, "", err
	}

	body, rerr := os.ReadFile(s.path(name))
	if os.IsNotExist(rerr) {
		err = ferrors.StoreError(404, fmt.Sprintf("%q not found", name))
		return nil, "", err
	}
	if rerr != nil {
		err = ferrors.StoreError(500, fmt.Sprintf("read failed: %v", rerr))
		return nil, "", err
	}
	if len(body) == 0 {
		err = ferrors.StoreError(500, fmt.Sprintf("%q is empty on disk", name))
		return nil, "", err
	}
	return body, name, nil
}

// View resolves identifier to its catalog entry.
func (s *Store) View(ctx context.Context, identifier Identifier) (*Entry, error) {
	_, end := s.span(ctx, "View")
	var err error
	defer func() { end(err) }()

	s.catalog.RLock()
	defer s.catalog.RUnlock()

	e, ferr := s.lookup(identifier)
	if ferr != nil {
		err = ferr
		return nil, err
	}
	return e, nil
}

// List returns entries matching query. The sentinel "all" returns every
// entry; otherwise an entry matches when its name contains query, or query
// contains the entry's id as a decimal string (the second disjunct is
// intentionally asymmetric). Results are
// sorted ascending by id.
func (s *Store) List(ctx context.Context, query string) ([]*Entry, error) {
	_, end := s.span(ctx, "List")
	defer end(nil)

	s.catalog.RLock()
	defer s.catalog.RUnlock()

	all := s.catalog.All()
	if query == "all" {
		return all, nil
	}

	result := make([]*Entry, 0, len(all))
	for _, e := range all {
		idStr := strconv.FormatInt(e.ID, 10)
		if strings.Contains(e.Name, query) || strings.Contains(query, idStr) {
			result = append(result, e)
		}
	}
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////
// OVERRIDE / RENAME / DELETE

// Override replaces identifier's bytes in place without renaming it,
// refreshing its size and updated-time.
func (s *Store) Override(ctx context.Context, identifier Identifier, body []byte) (*Entry, error) {
	_, end := s.span(ctx, "Override")
	var err error
	defer func() { end(err) }()

	s.catalog.Lock()
	defer s.catalog.Unlock()

	e, ferr := s.lookup(identifier)
	if ferr != nil {
		err = ferr
		return nil, err
	}

	if werr := os.WriteFile(s.path(e.Name), body, 0o644); werr != nil {
		err = ferrors.StoreError(500, fmt.Sprintf("write failed: %v", werr))
		return nil, err
	}

	e.Size = sizeString(int64(len(body)))
	e.rawBytes = int64(len(body))
	e.TimeUpdated = formatTime(time.Now())
	s.catalog.Put(e)
	return e, nil
}

// Rename renames identifier's file to newName, failing if newName already
// exists on disk. File-type equality is enforced by the caller (the
// handler), not the store.
func (s *Store) Rename(ctx context.Context, identifier Identifier, newName string) (*Entry, error) {
	_, end := s.span(ctx, "Rename")
	var err error
	defer func() { end(err) }()

	s.catalog.Lock()
	defer s.catalog.Unlock()

	e, ferr := s.lookup(identifier)
	if ferr != nil {
		err = ferr
		return nil, err
	}
	if _, statErr := os.Stat(s.path(newName)); statErr == nil {
		err = ferrors.StoreError(400, fmt.Sprintf("%q already exists", newName))
		return nil, err
	}

	if rerr := os.Rename(s.path(e.Name), s.path(newName)); rerr != nil {
		err = ferrors.StoreError(500, fmt.Sprintf("rename failed: %v", rerr))
		return nil, err
	}

	e.Name = newName
	e.TimeUpdated = formatTime(time.Now())
	s.catalog.Put(e)
	return e, nil
}

// Delete removes identifier's file from disk and its catalog entry. The
// id counter is never decremented.
func (s *Store) Delete(ctx context.Context, identifier Identifier) (*Entry, error) {
	_, end := s.span(ctx, "Delete")
	var err error
	defer func() { end(err) }()

	s.catalog.Lock()
	defer s.catalog.Unlock()

	e, ferr := s.lookup(identifier)
	if ferr != nil {
		err = ferr
		return nil, err
	}
	if rerr := os.Remove(s.path(e.Name)); rerr != nil && !os.IsNotExist(rerr) {
		err = ferrors.StoreError(500, fmt.Sprintf("delete failed: %v", rerr))
		return nil, err
	}
	s.catalog.Delete(e.ID)
	return e, nil
}

// TotalSize reports the combined size of every live entry as a
// human-friendly string (e.g. "4.2 MB"), for the admin console's .status
// command. This is the one place the catalog's size is rendered for
// operators rather than for the wire format, so it uses humanize.Bytes
// instead of the fixed "<kb> kb (<bytes> bytes)" shape used in Entry.Size.
func (s *Store) TotalSize() string {
	s.catalog.RLock()
	defer s.catalog.RUnlock()
	return humanize.Bytes(uint64(s.catalog.TotalBytes()))
}

////////////////////////////////////////////////////////////////////////////////
// FLUSH

// Flush serializes the catalog to the configured metadata path. This is
// the only durability point; mutations are otherwise in-memory only.
func (s *Store) Flush(ctx context.Context) error {
	_, end := s.span(ctx, "Flush")
	var err error
	defer func() { end(err) }()

	if s.metadataPath == "" {
		return nil
	}
	err = s.catalog.Flush(s.metadataPath, s.keys, s.codec)
	return err
}

////////////////////////////////////////////////////////////////////////////////
// IDENTIFIER RESOLUTION

// Identifier is either a numeric file id or a file name.
type Identifier struct {
	ID    int64
	Name  string
	UseID bool
}

// ByID builds a numeric identifier.
func ByID(id int64) Identifier { return Identifier{ID: id, UseID: true} }

// ByName builds a name identifier.
func ByName(name string) Identifier { return Identifier{Name: name} }

// lookup resolves identifier to its catalog entry. Caller must hold the
// catalog lock (read or write).
func (s *Store) lookup(identifier Identifier) (*Entry, error) {
	if identifier.UseID {
		e, ok := s.catalog.ByID(identifier.ID)
		if !ok {
			return nil, ferrors.StoreError(404, fmt.Sprintf("id %d not found", identifier.ID))
		}
		return e, nil
	}
	e, ok := s.catalog.ByName(identifier.Name)
	if !ok {
		return nil, ferrors.StoreError(404, fmt.Sprintf("%q not found", identifier.Name))
	}
	return e, nil
}

// resolveName resolves identifier to a concrete file name without
// requiring a catalog entry to exist for name-based identifiers (Get
// allows downloading by name even across restarts where the file exists
// without a catalog entry — a documented non-invariant).
func (s *Store) resolveName(identifier Identifier) (string, error) {
	if !identifier.UseID {
		return identifier.Name, nil
	}
	e, ok := s.catalog.ByID(identifier.ID)
	if !ok {
		return "", ferrors.StoreError(404, fmt.Sprintf("id %d not found", identifier.ID))
	}
	return e.Name, nil
}

