// Package records implements the local record store: a sqlite-backed
// repository over receipt records plus file-based attachment storage. The
// backup subsystem consumes it through the Repository interface only.
package records

import (
	"context"

	"github.com/dmitrijs2005/receiptvault/internal/models"
)

// Repository is the record-store surface the rest of the application
// depends on. Implementations must return common.ErrorNotFound for lookups
// of absent identifiers.
type Repository interface {
	// List returns all records ordered by purchase date, newest first.
	List(ctx context.Context) ([]models.Record, error)

	// GetByID returns a single record.
	GetByID(ctx context.Context, id string) (*models.Record, error)

	// Insert stores a new record with revision 1.
	Insert(ctx context.Context, r *models.Record) error

	// Update replaces an existing record's fields in place and increments
	// its revision. The record must already exist.
	Update(ctx context.Context, r *models.Record) error

	// Replace removes any existing record with the same id and inserts r
	// as new, atomically. The revision restarts at 1.
	Replace(ctx context.Context, r *models.Record) error

	// DeleteByID removes a record.
	DeleteByID(ctx context.Context, id string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Revision returns the record's internal revision counter. Inserts
	// start at 1; each in-place update increments it.
	Revision(ctx context.Context, id string) (int64, error)
}

// Sealer protects sensitive columns at rest with the device's implicit
// (passwordless) encryption. keystore.Manager satisfies this.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}
