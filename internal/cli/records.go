package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/receiptvault/internal/models"
)

func (a *App) add(ctx context.Context) {

	storeName, err := GetSimpleText(a.reader, "Store name", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}

	date, err := GetDate(a.reader, "Purchase date", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	amountS, err := GetSimpleText(a.reader, "Total amount (e.g. 12.34)", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}
	amount, err := ParseAmountCents(amountS)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	tags, err := GetTags(a.reader, "Tags", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}

	notesS, err := GetSimpleText(a.reader, "Notes (optional)", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}
	var notes *string
	if notesS != "" {
		notes = &notesS
	}

	imagePath, err := GetSimpleText(a.reader, "Receipt photo path (optional)", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}

	now := time.Now().UTC()
	rec := &models.Record{
		ID:          uuid.NewString(),
		StoreName:   storeName,
		Date:        date,
		TotalAmount: amount,
		Tags:        tags,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if imagePath != "" {
		ext := filepath.Ext(imagePath)
		if ext == "" {
			ext = ".jpg"
		}
		uri, err := a.attachments.Save(rec.ID, ext, imagePath)
		if err != nil {
			fmt.Fprintf(a.out, "Cannot store attachment: %v\n", err)
			return
		}
		rec.ImageURI = uri
	}

	if err := a.repo.Insert(ctx, rec); err != nil {
		a.log.Error(ctx, "error saving record", "error", err)
		_ = a.attachments.Delete(rec.ImageURI)
		return
	}

	fmt.Fprintf(a.out, "Saved record %s\n", rec.ID)
}

func (a *App) list(ctx context.Context) {
	all, err := a.repo.List(ctx)
	if err != nil {
		a.log.Error(ctx, "error listing records", "error", err)
		return
	}

	if len(all) == 0 {
		fmt.Fprintln(a.out, "No records yet")
		return
	}

	for _, rec := range all {
		fmt.Fprintf(a.out, "%s  %s  %-24s %8s\n",
			rec.ID, rec.Date.Format("2006-01-02"), rec.StoreName, formatCents(rec.TotalAmount))
	}
}

func (a *App) show(ctx context.Context) {

	id, err := GetSimpleText(a.reader, "Enter record id to show", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}

	rec, err := a.repo.GetByID(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Store:    %s\n", rec.StoreName)
	fmt.Fprintf(a.out, "Date:     %s\n", rec.Date.Format("2006-01-02"))
	fmt.Fprintf(a.out, "Total:    %s\n", formatCents(rec.TotalAmount))
	if len(rec.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags:     %v\n", rec.Tags)
	}
	if rec.Notes != nil {
		fmt.Fprintf(a.out, "Notes:    %s\n", *rec.Notes)
	}
	if rec.HasAttachment() {
		fmt.Fprintf(a.out, "Photo:    %s\n", rec.ImageURI)
	}
	if rec.OCRText != "" {
		fmt.Fprintf(a.out, "OCR text:\n%s\n", rec.OCRText)
	}
}

func (a *App) delete(ctx context.Context) {

	id, err := GetSimpleText(a.reader, "Enter record id to delete", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}

	rec, err := a.repo.GetByID(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return
	}

	if err := a.repo.DeleteByID(ctx, id); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return
	}
	if err := a.attachments.Delete(rec.ImageURI); err != nil {
		a.log.Warn(ctx, "error deleting attachment", "error", err)
	}

	fmt.Fprintf(a.out, "Deleted record %s\n", id)
}

func formatCents(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
