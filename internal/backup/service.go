// Package backup implements export and import of the local receipt store
// as a single password-protected zip archive.
//
// Archive layout:
//
//	<name>.zip
//	├── metadata.enc      base64(nonce||AES-GCM ciphertext) of the metadata JSON
//	├── salt.txt          hex key-derivation salt, freshly generated per export
//	└── attachments/
//	    └── <record-id>.<ext>
//
// The ciphertext and salt are only meaningful together; an archive missing
// either entry is rejected before any decryption attempt.
package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/receiptvault/internal/filex"
	"github.com/dmitrijs2005/receiptvault/internal/logging"
	"github.com/dmitrijs2005/receiptvault/internal/repositories/records"
)

const (
	metadataEntry  = "metadata.enc"
	saltEntry      = "salt.txt"
	attachmentsDir = "attachments"
)

// Strategy selects how import reconciles a record whose id already exists
// locally.
type Strategy string

const (
	// StrategySkip leaves the existing record untouched.
	StrategySkip Strategy = "skip"
	// StrategyReplace deletes the existing record and inserts the
	// archived one as new.
	StrategyReplace Strategy = "replace"
	// StrategyMerge updates the existing record in place.
	StrategyMerge Strategy = "merge"
)

// ParseStrategy validates a user-supplied strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySkip, StrategyReplace, StrategyMerge:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown conflict strategy %q", s)
	}
}

// StorageInfo is a read-only summary of locally stored data.
// AttachmentBytes is the attachments' share of TotalBytes.
type StorageInfo struct {
	TotalBytes      int64 `json:"totalBytes"`
	AttachmentBytes int64 `json:"attachmentBytes"`
	AttachmentCount int   `json:"attachmentCount"`
	RecordCount     int   `json:"recordCount"`
}

// Service orchestrates export and import against the local record store.
// Export reads the store; import mutates it record by record. The two must
// not run concurrently against the same store.
type Service struct {
	repo        records.Repository
	attachments *records.AttachmentStore
	dataDir     string
	exportDir   string
	iterations  int
	log         logging.Logger

	now func() time.Time // test seam
}

// NewService wires a backup service. iterations is the password derivation
// work factor; pass 0 for the default.
func NewService(repo records.Repository, attachments *records.AttachmentStore,
	dataDir, exportDir string, iterations int, log logging.Logger) *Service {
	return &Service{
		repo:        repo,
		attachments: attachments,
		dataDir:     dataDir,
		exportDir:   exportDir,
		iterations:  iterations,
		log:         log,
		now:         time.Now,
	}
}

// GetStorageInfo reports how much data the store currently holds. It never
// mutates anything.
func (s *Service) GetStorageInfo(ctx context.Context) (*StorageInfo, error) {
	recordCount, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	attachmentCount, err := s.attachments.Count()
	if err != nil {
		return nil, fmt.Errorf("count attachments: %w", err)
	}

	attachmentBytes, err := s.attachments.TotalBytes()
	if err != nil {
		return nil, fmt.Errorf("measure attachments: %w", err)
	}

	totalBytes, err := filex.DirSize(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("measure data dir: %w", err)
	}

	return &StorageInfo{
		TotalBytes:      totalBytes,
		AttachmentBytes: attachmentBytes,
		AttachmentCount: attachmentCount,
		RecordCount:     recordCount,
	}, nil
}
