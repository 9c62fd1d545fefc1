package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fileExt = ".sess"

// FileStore implements Store with one file per session under a save path.
// Tokens are hashed into file names so a token supplied by the client never
// reaches the filesystem as a path component.
type FileStore struct {
	dir   string
	codec Codec
}

// NewFileStore creates a file-backed session store rooted at dir, creating
// the directory if needed.
func NewFileStore(dir string, codec Codec) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty save path", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session: create save path: %w", err)
	}
	return &FileStore{dir: dir, codec: codec}, nil
}

func (f *FileStore) path(token string) string {
	sum := sha256.Sum256([]byte(token))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+fileExt)
}

// Create stores a new session
func (f *FileStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	return f.write(session)
}

// Get retrieves a session by token
func (f *FileStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := os.ReadFile(f.path(token))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session: read blob: %w", err)
	}

	var session Session
	if err := f.codec.Unmarshal(data, &session); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	if session.IsExpired() {
		_ = os.Remove(f.path(token))
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Update replaces the stored session snapshot
func (f *FileStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	if _, err := os.Stat(f.path(session.Token)); errors.Is(err, fs.ErrNotExist) {
		return ErrSessionNotFound
	}
	return f.write(session)
}

// Delete removes a session by token
func (f *FileStore) Delete(ctx context.Context, token string) error {
	err := os.Remove(f.path(token))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove blob: %w", err)
	}
	return nil
}

// DeleteExpired removes all expired session files under the save path.
func (f *FileStore) DeleteExpired(ctx context.Context) error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("session: scan save path: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}
		path := filepath.Join(f.dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var session Session
		if err := f.codec.Unmarshal(data, &session); err != nil {
			// Undecodable blobs are garbage either way
			_ = os.Remove(path)
			continue
		}
		if session.IsExpired() {
			_ = os.Remove(path)
		}
	}

	return nil
}

// write serializes through a temp file so readers never observe a torn blob.
func (f *FileStore) write(session *Session) error {
	data, err := f.codec.Marshal(session)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	path := f.path(session.Token)
	tmp, err := os.CreateTemp(f.dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("session: write blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("session: write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("session: write blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("session: write blob: %w", err)
	}
	return nil
}
