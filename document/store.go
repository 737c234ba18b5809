// Package document owns the configuration document: loading with schema
// migration, partial section merges, and atomic persistence.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/yangpin97/cisco-client-portal/credential"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

var (
	ErrPersist    = errors.New("failed to save document")
	ErrUnreadable = errors.New("document on disk is unreadable")
)

// Store reads the document from disk on every Load and rewrites it whole on
// every Persist. Mutations should go through Update, which serializes
// read-modify-write cycles so two admin requests cannot drop each other's
// change.
type Store struct {
	path     string
	seedPath string
	metrics  *tool.Metrics
	onChange []func()

	mu     sync.Mutex // held across read-modify-write and every write
	seedMu sync.Mutex
}

type Option func(*Store)

// WithSeedFile copies path into place when the data file does not exist yet.
func WithSeedFile(path string) Option {
	return func(s *Store) {
		s.seedPath = path
	}
}

func WithMetrics(m *tool.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New returns a Store backed by the JSON file at path.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// OnChange registers fn to run after each successful write, once the write
// lock is released. Register hooks before the store is shared between
// goroutines.
func (s *Store) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

// Load returns the current document, normalized to the current schema.
// It never fails: unreadable data is logged and the built-in default is returned.
func (s *Store) Load() *types.Document {
	doc, err := s.read()
	if err != nil {
		tool.DefaultLogger.Errorf("[Store] %v, serving built-in defaults", err)
		s.metrics.ReadFellBack()
		return HardcodedDefault()
	}
	return doc
}

// Persist writes doc over the data file. The previous file stays in place
// until the new one is complete.
func (s *Store) Persist(doc *types.Document) error {
	s.mu.Lock()
	err := s.persistLocked(doc)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.changed()
	return nil
}

// Update loads the document, applies fn and persists the result while
// holding the write lock. If fn fails nothing is written. An unreadable data
// file is never replaced: Update fails with ErrUnreadable until it is fixed
// or removed.
func (s *Store) Update(fn func(doc *types.Document) error) (*types.Document, error) {
	doc, err := s.update(fn)
	if err != nil {
		return nil, err
	}
	s.changed()
	return doc, nil
}

func (s *Store) update(fn func(doc *types.Document) error) (*types.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		tool.DefaultLogger.Errorf("[Store] Refusing to save: %v", err)
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if len(doc.Recovered) > 0 {
		if err := s.keepRecovered(); err != nil {
			s.metrics.PersistFailed()
			return nil, fmt.Errorf("%w: %w", ErrPersist, err)
		}
	}
	if err := s.persistLocked(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// read is Load without the fallback.
func (s *Store) read() (*types.Document, error) {
	if err := s.ensureSeeded(); err != nil {
		tool.DefaultLogger.Errorf("[Store] Failed to initialize %s: %v", s.path, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	doc, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrUnreadable, s.path, err)
	}
	if len(doc.Recovered) > 0 {
		tool.DefaultLogger.Warnf("[Store] Unreadable sections %v in %s, serving their defaults", doc.Recovered, s.path)
		s.metrics.ReadFellBack()
	}
	Normalize(doc)
	return doc, nil
}

// keepRecovered copies the data file aside before a save drops the sections
// that failed to decode.
func (s *Store) keepRecovered() error {
	prev, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if err := tool.AtomicWriteFile(s.path+".recovered", prev, 0o600); err != nil {
		return err
	}
	tool.DefaultLogger.Warnf("[Store] Original saved as %s.recovered", s.path)
	return nil
}

func (s *Store) persistLocked(doc *types.Document) error {
	if err := s.write(doc); err != nil {
		s.metrics.PersistFailed()
		tool.DefaultLogger.Errorf("[Store] Failed to save %s: %v", s.path, err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.metrics.SetClientEntries("openConnect", len(doc.OpenConnectClients))
	s.metrics.SetClientEntries("custom", len(doc.CustomClients))
	return nil
}

func (s *Store) changed() {
	for _, fn := range s.onChange {
		fn()
	}
}

func (s *Store) write(doc *types.Document) error {
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	// keep one previous copy around for manual recovery
	if prev, err := os.ReadFile(s.path); err == nil && len(prev) > 0 {
		if err := tool.AtomicWriteFile(s.path+".bak", prev, 0o600); err != nil {
			tool.DefaultLogger.Warnf("[Store] Failed to back up %s: %v", s.path, err)
		}
	}
	return tool.AtomicWriteFile(s.path, data, 0o600)
}

func (s *Store) ensureSeeded() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	doc, source := s.seedDocument()
	Normalize(doc)
	if err := s.write(doc); err != nil {
		return err
	}
	tool.DefaultLogger.Infof("[Store] Initialized %s from %s", s.path, source)
	if credential.Verify(doc.Admin, DefaultAdminUsername, DefaultAdminPassword) {
		tool.DefaultLogger.Warnf("[Store] Default admin credentials are active, change them from the admin page")
	}
	return nil
}

func (s *Store) seedDocument() (*types.Document, string) {
	if s.seedPath != "" {
		doc, err := decodeFile(s.seedPath)
		if err == nil {
			return doc, s.seedPath
		}
		tool.DefaultLogger.Warnf("[Store] Ignoring seed %s: %v", s.seedPath, err)
	}
	doc, err := decode(packagedDefault)
	if err == nil {
		return doc, "packaged default"
	}
	tool.DefaultLogger.Warnf("[Store] Packaged default unusable: %v", err)
	return HardcodedDefault(), "hardcoded default"
}

func decodeFile(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*types.Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty document")
	}
	doc := &types.Document{}
	if err := sonic.ConfigStd.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
