// Package models defines the data types shared by the record store and the
// backup subsystem: receipt records, archive metadata and import results.
package models

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/receiptvault/internal/common"
)

// Record is one receipt's extracted data. The record store owns the
// canonical copy; the backup layer only ever holds transient copies.
type Record struct {
	// ID is a globally unique identifier for the record.
	ID string `json:"id"`

	// StoreName is the merchant the receipt came from.
	StoreName string `json:"storeName"`

	// Date is the purchase date printed on the receipt.
	Date time.Time `json:"date"`

	// TotalAmount is the receipt total in minor currency units (cents).
	// Never a float.
	TotalAmount int64 `json:"totalAmount"`

	// Tags is an ordered set of free-text labels.
	Tags []string `json:"tags"`

	// Notes is optional free-text entered by the user.
	Notes *string `json:"notes"`

	// OCRText is the raw text extracted from the photographed receipt.
	OCRText string `json:"ocrText"`

	// ImageURI references the record's single attachment, or is empty
	// when the record has none.
	ImageURI string `json:"imageUri"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the record invariants: a non-empty id and a non-negative
// integer amount.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty id", common.ErrorIncorrectRecord)
	}
	if r.TotalAmount < 0 {
		return fmt.Errorf("%w: negative amount %d", common.ErrorIncorrectRecord, r.TotalAmount)
	}
	return nil
}

// HasAttachment reports whether the record references a binary attachment.
func (r *Record) HasAttachment() bool {
	return r.ImageURI != ""
}

// AttachmentExt returns the attachment's file extension (including the
// dot), or ".jpg" when the source URI carries none. Archive entries are
// named <id><ext> so the original extension survives a round trip.
func (r *Record) AttachmentExt() string {
	ext := filepath.Ext(r.ImageURI)
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
