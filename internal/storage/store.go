package storage

import (
	"os"
	"sync"

	json "github.com/goccy/go-json"

	"kudosd/internal/structures"
)

// Well-known document keys.
const (
	KeySettings     = "settings"
	KeyDailyCounter = "dailyCounter"
)

// StoreInterface is the abstract key-value document store consumed by the
// service layer. Get and Set carry no read-modify-write atomicity; callers
// own the consistency discipline (whole-document last-write-wins).
type StoreInterface interface {
	Get(key string) (json.RawMessage, bool, error)
	Set(key string, value any) error
}

// FileStore keeps the canonical document map in memory and persists it to a
// single zstd-compressed JSON file. Writes mark the store dirty; Persist is
// driven by the maintenance scheduler and at shutdown.
type FileStore struct {
	mu         sync.RWMutex
	data       map[string]json.RawMessage
	dirty      bool
	path       string
	compressor CompressorInterface
}

func NewStore(conf *structures.Config, compressor CompressorInterface) *FileStore {
	return NewFileStore(conf.Persistence.FilePath, compressor)
}

func NewFileStore(path string, compressor CompressorInterface) *FileStore {
	return &FileStore{
		data:       make(map[string]json.RawMessage),
		path:       path,
		compressor: compressor,
	}
}

func (s *FileStore) Get(key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok, nil
}

func (s *FileStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	s.dirty = true
	return nil
}

// Load reads the backing file into memory. A missing file is not an error;
// the store starts empty and defaults apply downstream.
func (s *FileStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := s.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var docs map[string]json.RawMessage
	if err := json.Unmarshal(decompressed, &docs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = docs
	return nil
}

// Persist writes the document map to disk via tmp-write and rename so a
// crash mid-write never corrupts the previous snapshot. No-op when clean.
// The dirty flag is cleared only once the rename lands; a failed flush
// leaves the store dirty so the next tick retries.
func (s *FileStore) Persist() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	jsonData, err := json.Marshal(s.data)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.dirty = false
	s.mu.Unlock()

	if err := s.writeSnapshot(jsonData); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *FileStore) writeSnapshot(jsonData []byte) error {
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}
