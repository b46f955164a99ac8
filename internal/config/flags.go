package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/receiptvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory (records database, attachments, secrets)
//	-e string   directory where backup archives are written
//	-k int      password key-derivation iterations
//	-t int      sqlite busy timeout in seconds
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-e", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "export directory")
	fs.IntVar(&cfg.KDFIterations, "k", cfg.KDFIterations, "key derivation iterations")
	busyTimeout := fs.Int("t", int(cfg.DBBusyTimeout.Seconds()), "database busy timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DBBusyTimeout = time.Duration(*busyTimeout) * time.Second
}
