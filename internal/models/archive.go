package models

import (
	"fmt"
	"time"
)

// FormatVersion is written into every archive's metadata so future readers
// can keep the format backward-readable.
const FormatVersion = "1.0.0"

// ArchiveMetadata is the decrypted payload of a backup archive.
type ArchiveMetadata struct {
	Version string `json:"version"`

	// ExportDate is when the archive was produced.
	ExportDate time.Time `json:"exportDate"`

	// RecordCount is a sanity cross-check, not ground truth; a mismatch
	// with len(Records) is a warning, not a fatal condition.
	RecordCount int `json:"recordCount"`

	Records []Record `json:"records"`
}

// NewArchiveMetadata builds metadata for the given records with the current
// format version and export timestamp.
func NewArchiveMetadata(records []Record, now time.Time) *ArchiveMetadata {
	return &ArchiveMetadata{
		Version:     FormatVersion,
		ExportDate:  now.UTC(),
		RecordCount: len(records),
		Records:     records,
	}
}

// Validate rejects structurally malformed metadata and returns a list of
// non-fatal warnings (currently only a record-count mismatch).
func (m *ArchiveMetadata) Validate() (warnings []string, err error) {
	if m.Version == "" {
		return nil, fmt.Errorf("metadata has no format version")
	}
	if m.Records == nil {
		return nil, fmt.Errorf("metadata has no record list")
	}
	if m.RecordCount != len(m.Records) {
		warnings = append(warnings,
			fmt.Sprintf("declared record count %d does not match %d records present", m.RecordCount, len(m.Records)))
	}
	return warnings, nil
}
