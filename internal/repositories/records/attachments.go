package records

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/receiptvault/internal/filex"
)

// AttachmentStore keeps one binary blob per record as a plain file under
// <dataDir>/attachments, named <record-id><ext>.
type AttachmentStore struct {
	dir string
}

// NewAttachmentStore returns a store rooted at dataDir/attachments.
func NewAttachmentStore(dataDir string) *AttachmentStore {
	return &AttachmentStore{dir: filepath.Join(dataDir, "attachments")}
}

// Dir returns the attachment directory path.
func (s *AttachmentStore) Dir() string { return s.dir }

// Save copies the file at src into the store for the given record and
// returns the stored file's path, which becomes the record's ImageURI.
func (s *AttachmentStore) Save(id, ext, src string) (string, error) {
	if _, err := filex.EnsureDir(s.dir); err != nil {
		return "", err
	}
	dst := filepath.Join(s.dir, id+ext)
	if err := filex.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("store attachment for %s: %w", id, err)
	}
	return dst, nil
}

// Delete removes the stored attachment referenced by uri. A missing file
// is not an error; an empty uri is a no-op.
func (s *AttachmentStore) Delete(uri string) error {
	if uri == "" {
		return nil
	}
	if err := os.Remove(uri); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}

// Count returns the number of stored attachment files.
func (s *AttachmentStore) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			n++
		}
	}
	return n, nil
}

// TotalBytes returns the combined size of all stored attachments.
func (s *AttachmentStore) TotalBytes() (int64, error) {
	return filex.DirSize(s.dir)
}
