package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no corpus is stored under a name.
var ErrNotFound = errors.New("corpus not found")

// Corpus is a named, ordered set of documents.
type Corpus struct {
	Name      string    `json:"name"`
	Documents []string  `json:"documents"`
	Sources   []string  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CorpusStorage defines the interface for persisting corpora
type CorpusStorage interface {
	Save(corpus *Corpus) error
	Get(name string) (*Corpus, error)
	List() ([]string, error)
	Close() error
}

// FileStorage implements CorpusStorage using the local file system
type FileStorage struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStorage creates a new file-based storage
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{
		baseDir: baseDir,
	}, nil
}

// Save writes the corpus to a JSON file, replacing any corpus of the same name
func (fs *FileStorage) Save(corpus *Corpus) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path := filepath.Join(fs.baseDir, safeFilename(corpus.Name))

	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Get reads a corpus from disk
func (fs *FileStorage) Get(name string) (*Corpus, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	path := filepath.Join(fs.baseDir, safeFilename(name))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("failed to unmarshal corpus: %w", err)
	}
	if corpus.Name != name {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return &corpus, nil
}

// List returns the names of all stored corpora, sorted
func (fs *FileStorage) List() ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(fs.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var corpus Corpus
		if err := json.Unmarshal(data, &corpus); err != nil {
			continue
		}
		names = append(names, corpus.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for file storage
func (fs *FileStorage) Close() error {
	return nil
}

// safeFilename converts a corpus name to a readable, collision-free filename:
// a sanitized prefix followed by a hash of the full name.
func safeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	safe := b.String()
	if len(safe) > 64 {
		safe = safe[:64]
	}
	sum := sha256.Sum256([]byte(name))
	return safe + "-" + hex.EncodeToString(sum[:8]) + ".json"
}
