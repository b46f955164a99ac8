package backup

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/receiptvault/internal/common"
	"github.com/dmitrijs2005/receiptvault/internal/cryptox"
	"github.com/dmitrijs2005/receiptvault/internal/filex"
	"github.com/dmitrijs2005/receiptvault/internal/models"
)

// ImportData restores records from an archive produced by ExportData,
// reconciling each against the local store under the given strategy.
//
// Structural problems (missing payload entries) and a wrong password both
// abort the whole operation; the former before any decryption is even
// attempted. Per-record failures never abort the batch: they are recorded
// in the result and the remaining records are still processed. Staging
// data is removed on every exit path.
func (s *Service) ImportData(ctx context.Context, archivePath, password string, strategy Strategy) (*models.ImportResult, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}

	staging, err := filex.MakeStagingDir("import")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	if err := extractArchive(archivePath, staging); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrArchiveInvalid, err)
	}

	metadata, warnings, err := s.decryptMetadata(staging, password)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{}
	for _, w := range warnings {
		s.log.Warn(ctx, "archive validation warning", "warning", w)
		result.AddError("warning: %s", w)
	}

	for i := range metadata.Records {
		s.importRecord(ctx, &metadata.Records[i], staging, strategy, result)
	}

	result.Success = true
	s.log.Info(ctx, "import finished",
		"imported", result.Imported, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}

// decryptMetadata enforces the structural contract (both payload entries
// present) before deriving any key, then decrypts and parses the metadata.
// A failed authentication and unparseable plaintext are reported as the
// same ambiguous condition: the caller cannot tell a wrong password from a
// corrupted archive, and neither can we.
func (s *Service) decryptMetadata(staging, password string) (*models.ArchiveMetadata, []string, error) {
	ciphertext, err := os.ReadFile(filepath.Join(staging, metadataEntry))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no %s entry", common.ErrArchiveInvalid, metadataEntry)
	}
	saltHex, err := os.ReadFile(filepath.Join(staging, saltEntry))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no %s entry", common.ErrArchiveInvalid, saltEntry)
	}

	salt, err := hex.DecodeString(strings.TrimSpace(string(saltHex)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: malformed salt", common.ErrArchiveInvalid)
	}

	key := cryptox.DeriveKey([]byte(password), salt, s.iterations)
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.DecryptPayload(strings.TrimSpace(string(ciphertext)), key)
	if err != nil {
		return nil, nil, common.ErrWrongPasswordOrCorrupt
	}

	var metadata models.ArchiveMetadata
	if err := json.Unmarshal(plaintext, &metadata); err != nil {
		return nil, nil, common.ErrWrongPasswordOrCorrupt
	}

	warnings, err := metadata.Validate()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrArchiveInvalid, err)
	}
	return &metadata, warnings, nil
}

// importRecord reconciles one decoded record. Terminal outcomes:
// skipped, inserted, updated or failed; a failure is recorded and counted
// as skipped without touching the rest of the batch.
func (s *Service) importRecord(ctx context.Context, rec *models.Record, staging string, strategy Strategy, result *models.ImportResult) {
	fail := func(err error) {
		result.Skipped++
		result.AddError("record %s: %v", rec.ID, err)
		s.log.Warn(ctx, "record import failed", "id", rec.ID, "error", err)
	}

	if err := rec.Validate(); err != nil {
		fail(err)
		return
	}

	existing, err := s.repo.GetByID(ctx, rec.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		fail(err)
		return
	}

	if existing != nil && strategy == StrategySkip {
		result.Skipped++
		return
	}

	// Stage the attachment into the store before any record write, so a
	// missing attachment fails the record without mutating the store.
	originalURI := rec.ImageURI
	if rec.HasAttachment() {
		src := filepath.Join(staging, attachmentsDir, rec.ID+rec.AttachmentExt())
		uri, err := s.attachments.Save(rec.ID, rec.AttachmentExt(), src)
		if err != nil {
			fail(fmt.Errorf("attachment missing from archive: %w", err))
			return
		}
		rec.ImageURI = uri
	}

	switch {
	case existing == nil:
		err = s.repo.Insert(ctx, rec)
	case strategy == StrategyReplace:
		if existing.ImageURI != rec.ImageURI {
			err = s.attachments.Delete(existing.ImageURI)
		}
		if err == nil {
			err = s.repo.Replace(ctx, rec)
		}
	default: // StrategyMerge
		if existing.ImageURI != rec.ImageURI {
			err = s.attachments.Delete(existing.ImageURI)
		}
		if err == nil {
			err = s.repo.Update(ctx, rec)
		}
	}
	if err != nil {
		// best effort: do not leave an orphaned attachment behind
		if rec.HasAttachment() && rec.ImageURI != originalURI && existing == nil {
			_ = s.attachments.Delete(rec.ImageURI)
		}
		fail(err)
		return
	}

	result.Imported++
}
