// Package flagx lets several components parse command-line flags from the
// same os.Args without tripping over each other's definitions. The config
// package reads -d/-e/-k/-t, while the JSON overlay reads -c/-config; each
// first narrows the argument list down to its own flags and then parses
// only those.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to the given flags,
// with flag order preserved.
//
// Both invocation forms are recognized:
//
//	-d data                 flag with the value as the next argument
//	-config=vault.json      flag and value joined with '='
//
// A flag in the first form consumes the following argument as its value
// unless that argument itself starts with '-'. Anything not named in flags
// (including positional arguments) is dropped.
func FilterArgs(args []string, flags []string) []string {
	known := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		known[f] = struct{}{}
	}

	// empty, not nil, so the result always feeds FlagSet.Parse safely
	kept := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, joined := strings.Cut(arg, "="); joined && strings.HasPrefix(arg, "-") {
			if _, ok := known[name]; ok {
				kept = append(kept, arg)
			}
			continue
		}

		if _, ok := known[arg]; ok {
			kept = append(kept, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				kept = append(kept, args[i+1])
				i++
			}
		}
	}

	return kept
}

// JsonConfigFlags returns the config file path given via -c or -config, or
// an empty string when neither is present. Only those two flags are looked
// at; the data-dir and tuning flags handled elsewhere pass through
// untouched.
func JsonConfigFlags() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return path
}
