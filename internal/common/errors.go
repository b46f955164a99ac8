// Package common defines shared constants and sentinel errors used across
// ReceiptVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Backup/restore errors surfaced to the user.
	ErrNothingToExport        = errors.New("nothing to export")
	ErrArchiveInvalid         = errors.New("archive is missing required entries")
	ErrWrongPasswordOrCorrupt = errors.New("incorrect password or corrupted backup")

	// Validation / record-specific errors.
	ErrorIncorrectRecord = errors.New("incorrect record")
)
