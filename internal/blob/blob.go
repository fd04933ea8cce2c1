// Package blob stores complaint attachments. Uploads are best effort and
// independent of the database transaction: a failed upload drops the
// attachment from the complaint, it never blocks the submission.
package blob

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Uploader is the attachment-store boundary. The local-disk implementation
// below is the default; an object-storage client can replace it without
// touching the workflow engine.
type Uploader interface {
	Upload(name string, r io.Reader) (string, error)
	Remove(url string) error
}

// LocalStore keeps attachments on the local filesystem under Dir and serves
// them under BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: baseURL}, nil
}

// Upload writes the file under a uuid-prefixed name and returns its URL.
func (s *LocalStore) Upload(name string, r io.Reader) (string, error) {
	fileName := uuid.New().String() + "_" + filepath.Base(name)
	dst, err := os.Create(filepath.Join(s.Dir, fileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		// Don't leave a truncated file behind.
		os.Remove(dst.Name())
		return "", err
	}
	return s.BaseURL + "/" + fileName, nil
}

// Remove deletes a previously uploaded file. Missing files are not an error:
// the record and the blob are allowed to drift at this boundary.
func (s *LocalStore) Remove(url string) error {
	fileName := filepath.Base(url)
	if err := os.Remove(filepath.Join(s.Dir, fileName)); err != nil && !os.IsNotExist(err) {
		log.Printf("ERROR: Failed to remove attachment %s: %v", fileName, err)
		return err
	}
	return nil
}
