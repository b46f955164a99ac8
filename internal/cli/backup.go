package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/receiptvault/internal/backup"
	"github.com/dmitrijs2005/receiptvault/internal/common"
	"github.com/dmitrijs2005/receiptvault/internal/filex"
)

func (a *App) export(ctx context.Context) {

	pw, err := GetPassword("Export password", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}
	defer common.WipeByteArray(pw)

	confirm, err := GetPassword("Repeat password", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}
	defer common.WipeByteArray(confirm)

	if len(pw) == 0 || !bytes.Equal(pw, confirm) {
		fmt.Fprintln(a.out, "Passwords are empty or do not match")
		return
	}

	path, err := a.backup.ExportData(ctx, string(pw))
	if errors.Is(err, common.ErrNothingToExport) {
		fmt.Fprintln(a.out, "There are no records to export yet")
		return
	}
	if err != nil {
		fmt.Fprintf(a.out, "Export failed: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Backup written to %s\n", path)
	if size, err := filex.FileSize(path); err == nil {
		fmt.Fprintf(a.out, "Archive size: %d bytes\n", size)
	}
}

func (a *App) importArchive(ctx context.Context) {

	path, err := GetSimpleText(a.reader, "Archive path", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}

	strategyS, err := GetSimpleText(a.reader, "Conflict strategy (merge/replace/skip)", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}
	strategy, err := backup.ParseStrategy(strategyS)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	pw, err := GetPassword("Archive password", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}
	defer common.WipeByteArray(pw)

	result, err := a.backup.ImportData(ctx, path, string(pw), strategy)
	switch {
	case errors.Is(err, common.ErrWrongPasswordOrCorrupt):
		fmt.Fprintln(a.out, "Incorrect password or corrupted backup")
		return
	case errors.Is(err, common.ErrArchiveInvalid):
		fmt.Fprintf(a.out, "This file is not a valid backup archive: %v\n", err)
		return
	case err != nil:
		fmt.Fprintf(a.out, "Import failed: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Import finished: %s\n", result)
	if msg := result.DisplayErrors(10); msg != "" {
		fmt.Fprintln(a.out, msg)
	}
}

func (a *App) info(ctx context.Context) {

	info, err := a.backup.GetStorageInfo(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Records:      %d\n", info.RecordCount)
	fmt.Fprintf(a.out, "Attachments:  %d (%d bytes)\n", info.AttachmentCount, info.AttachmentBytes)
	fmt.Fprintf(a.out, "Storage used: %d bytes\n", info.TotalBytes)
	if !a.keys.HardwareBacked() {
		fmt.Fprintln(a.out, "Device secrets: file-backed (no platform secure storage)")
	}
}

func (a *App) reset(ctx context.Context) {

	answer, err := GetSimpleText(a.reader,
		"This deletes the device keys; locally sealed data becomes unreadable. Type 'yes' to continue", a.out)
	if err != nil {
		a.log.Error(ctx, "input error", "error", err)
		return
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}

	if err := a.keys.Clear(); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Device keys cleared")
}
