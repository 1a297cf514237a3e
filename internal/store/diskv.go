package store

import (
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv stores each record as a file under <dir>/records.
type Diskv struct {
	d *diskv.Diskv
}

// NewDiskv creates a diskv-backed store rooted at dir
func NewDiskv(dir string) *Diskv {
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:     filepath.Join(dir, "records"),
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (s *Diskv) Get(key string) ([]byte, bool, error) {
	if !s.d.Has(key) {
		return nil, false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *Diskv) Put(key string, value []byte) error {
	return s.d.Write(key, value)
}

func (s *Diskv) Close() error { return nil }
