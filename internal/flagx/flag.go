// Package flagx lets several independent FlagSets share one command line.
// Each config loader keeps only the flags it owns and parses those, so
// flags meant for another loader never trigger "flag provided but not
// defined" errors.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Filter returns the subset of args that belong to the named flags, keeping
// their values. Names are given without dashes; "-name" and "--name" are
// treated alike, as are the "-name value" and "-name=value" forms.
//
// A value is only consumed from the following argument when it does not
// itself start with a dash.
func Filter(args []string, names ...string) []string {
	owned := make(map[string]struct{}, len(names))
	for _, n := range names {
		owned[strings.TrimLeft(n, "-")] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if _, ok := owned[name]; !ok {
			continue
		}

		out = append(out, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath extracts the JSON config file path given with -c or -config.
// It returns "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-path", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Filter(args, "c", "config"))

	return path
}
