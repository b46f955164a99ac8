package backup

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/receiptvault/internal/common"
	"github.com/dmitrijs2005/receiptvault/internal/cryptox"
	"github.com/dmitrijs2005/receiptvault/internal/filex"
	"github.com/dmitrijs2005/receiptvault/internal/models"
)

// ExportData bundles every record and attachment into one encrypted zip
// archive and returns its path. Exporting an empty store fails with
// common.ErrNothingToExport. Any I/O error aborts the whole export; the
// staging area is removed on every exit path and no partial archive is
// left at the final output location.
func (s *Service) ExportData(ctx context.Context, password string) (string, error) {
	allRecords, err := s.repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list records: %w", err)
	}
	if len(allRecords) == 0 {
		return "", common.ErrNothingToExport
	}

	staging, err := filex.MakeStagingDir("export")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(staging)

	if err := s.stageEncryptedMetadata(allRecords, password, staging); err != nil {
		return "", err
	}

	if err := s.stageAttachments(allRecords, staging); err != nil {
		return "", err
	}

	if _, err := filex.EnsureDir(s.exportDir); err != nil {
		return "", err
	}

	name := fmt.Sprintf("receipts-backup-%s.zip", s.now().Format("20060102-150405"))
	out := filepath.Join(s.exportDir, name)

	// Pack next to the final path and rename, so a failed run never
	// leaves a partial archive under the final name.
	tmp := out + ".partial"
	if err := compressDir(staging, tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, out); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("finalize archive: %w", err)
	}

	size, err := filex.FileSize(out)
	if err != nil {
		return "", fmt.Errorf("stat archive: %w", err)
	}

	s.log.Info(ctx, "export finished", "path", out, "records", len(allRecords), "bytes", size)
	return out, nil
}

// stageEncryptedMetadata serializes the records, encrypts them with a key
// derived from the password and a fresh random salt, and writes the two
// payload entries. The salt is never reused between exports.
func (s *Service) stageEncryptedMetadata(allRecords []models.Record, password, staging string) error {
	metadata := models.NewArchiveMetadata(allRecords, s.now())
	plaintext, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("serialize metadata: %w", err)
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey([]byte(password), salt, s.iterations)
	defer common.WipeByteArray(key)

	encoded, err := cryptox.EncryptPayload(plaintext, key)
	if err != nil {
		return fmt.Errorf("encrypt metadata: %w", err)
	}

	if err := os.WriteFile(filepath.Join(staging, metadataEntry), []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", metadataEntry, err)
	}
	if err := os.WriteFile(filepath.Join(staging, saltEntry), []byte(hex.EncodeToString(salt)), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", saltEntry, err)
	}
	return nil
}

func (s *Service) stageAttachments(allRecords []models.Record, staging string) error {
	dir, err := filex.EnsureSubDir(staging, attachmentsDir)
	if err != nil {
		return err
	}

	for _, rec := range allRecords {
		if !rec.HasAttachment() {
			continue
		}
		dst := filepath.Join(dir, rec.ID+rec.AttachmentExt())
		if err := filex.CopyFile(rec.ImageURI, dst); err != nil {
			return fmt.Errorf("stage attachment for %s: %w", rec.ID, err)
		}
	}
	return nil
}
