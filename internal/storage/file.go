package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps all keys in a single JSON object on disk.
// The whole file is rewritten after every mutation.
type FileKV struct {
	path  string
	mu    sync.Mutex
	items map[string]string
}

// OpenFileKV loads path, treating a missing file as an empty store.
func OpenFileKV(path string) (*FileKV, error) {
	kv := &FileKV{path: path, items: make(map[string]string)}
	if err := kv.load(); err != nil {
		return nil, err
	}
	return kv, nil
}

func (kv *FileKV) load() error {
	f, err := os.Open(kv.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&kv.items); err != nil {
		return fmt.Errorf("decode store %s: %w", kv.path, err)
	}
	if kv.items == nil {
		kv.items = make(map[string]string)
	}
	return nil
}

// save must be called with mu held.
func (kv *FileKV) save() error {
	if dir := filepath.Dir(kv.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	b, err := json.Marshal(kv.items)
	if err != nil {
		return err
	}
	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return os.Rename(tmp, kv.path)
}

func (kv *FileKV) Get(_ context.Context, keys ...string) (map[string]string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := kv.items[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (kv *FileKV) Set(_ context.Context, items map[string]string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	for k, v := range items {
		kv.items[k] = v
	}
	return kv.save()
}

func (kv *FileKV) Remove(_ context.Context, keys ...string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	changed := false
	for _, k := range keys {
		if _, ok := kv.items[k]; ok {
			delete(kv.items, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return kv.save()
}
