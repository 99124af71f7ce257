// Package store provides Store implementations for the current thread id.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	"github.com/gofrs/flock"
)

// Memory holds the thread id in process memory. The zero value is usable.
// It is the in-tab analog: the id lives exactly as long as the run.
type Memory struct {
	mu sync.Mutex
	id string
}

// Load returns the stored thread id, or "" when none was saved.
func (m *Memory) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

// Save replaces the stored thread id.
func (m *Memory) Save(threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = threadID
	return nil
}

// Clear removes the stored thread id.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = ""
	return nil
}

// File persists the thread id to a state file so a later run can resume the
// conversation. Writes are atomic (temp file + rename) and every operation
// holds a sidecar file lock, so concurrent runs never interleave. The lock
// lives next to the state file because the rename would otherwise swap the
// locked inode out from under a second process.
type File struct {
	path string
	lock *flock.Flock
}

// NewFile creates a File store backed by the state file at path.
func NewFile(path string) *File {
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Load returns the persisted thread id. An absent state file is ("", nil).
func (f *File) Load() (string, error) {
	if err := f.lock.RLock(); err != nil {
		return "", fmt.Errorf("store: acquire lock: %w", err)
	}
	defer f.lock.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("store: read state file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the thread id to the state file, creating parent directories
// as needed.
func (f *File) Save(threadID string) error {
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("store: acquire lock: %w", err)
	}
	defer f.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("store: create directories: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(threadID+"\n"), 0o600); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("store: rename temp file: %w", err)
	}
	return nil
}

// Clear removes the state file. Clearing an absent file is not an error.
func (f *File) Clear() error {
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("store: acquire lock: %w", err)
	}
	defer f.lock.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: remove state file: %w", err)
	}
	return nil
}

// DefaultPath returns the conventional state file location,
// ~/.hands-chatbot/thread_id.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: home directory: %w", err)
	}
	return filepath.Join(home, ".hands-chatbot", "thread_id"), nil
}

// Interface compliance checks.
var (
	_ chatbot.Store = (*Memory)(nil)
	_ chatbot.Store = (*File)(nil)
)
