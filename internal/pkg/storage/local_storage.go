package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".pdf":  true,
}

// IFileStorage saves uploads and returns the public URL they are served from.
type IFileStorage interface {
	Save(folder, originalName string, r io.Reader) (string, error)
	Remove(publicURL string) error
}

// LocalStorage writes under baseDir; fiber serves baseDir at publicURL.
type LocalStorage struct {
	baseDir   string
	publicURL string
}

func NewLocalStorage(baseDir, publicURL string) *LocalStorage {
	return &LocalStorage{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *LocalStorage) Save(folder, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.NewString()[:8], ext)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}

	return path.Join(s.publicURL, folder, name), nil
}

// Remove deletes a file previously returned by Save. Unknown URLs are ignored.
func (s *LocalStorage) Remove(publicURL string) error {
	rel := strings.TrimPrefix(publicURL, s.publicURL+"/")
	if rel == publicURL || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
