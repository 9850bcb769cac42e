// Package storage keeps uploaded binaries in a single flat directory on
// local disk and tracks per-request staging so files written for a rejected
// request never outlive it.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store is the local-disk file store. All files live directly under root;
// there are no subdirectories and no content-hash dedup.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Stage writes the uploaded file under a collision-resistant name of the
// form <nanos><random hex>-<sanitized original name> and returns that name.
func (s *Store) Stage(file *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d%s-%s", time.Now().UnixNano(), randomHex(10), sanitizeName(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	return name, nil
}

// Resolve returns the absolute path of a stored name. The name is reduced
// to its base so a crafted filename cannot escape the upload root.
func (s *Store) Resolve(name string) string {
	return filepath.Join(s.root, filepath.Base(name))
}

// Discard deletes a stored file. A file that is already absent counts as
// success; the check-then-delete race resolves the same way.
func (s *Store) Discard(name string) error {
	path := s.Resolve(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// StoredName extracts the stored file name from a "<host>/uploads/<name>"
// reference as persisted on records.
func StoredName(fileURL string) string {
	parts := strings.Split(fileURL, "/")
	return parts[len(parts)-1]
}

// AllowedImageType reports whether the upload's declared content type is one
// of the accepted image formats.
func AllowedImageType(file *multipart.FileHeader) bool {
	switch file.Header.Get("Content-Type") {
	case "image/png", "image/jpg", "image/jpeg":
		return true
	}
	return false
}

func sanitizeName(original string) string {
	name := strings.ToLower(filepath.Base(original))
	return strings.ReplaceAll(name, " ", "-")
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
