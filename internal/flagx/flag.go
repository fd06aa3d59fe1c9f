// Package flagx helps the layered config loaders share os.Args: each loader
// filters out only the flags it owns before handing them to its own FlagSet,
// so the JSON loader's -c/-config and the server loader's flags can coexist
// on one command line.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs picks the allowed flags, with their values, out of args.
// Both the "-f value" and the "-f=value"/"--flag=value" forms are kept;
// everything else, including positional arguments, is dropped.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, name := range allowedFlags {
		allowed[name] = true
	}

	kept := []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		// combined "-f=value" form travels as one token
		if name, _, hasValue := strings.Cut(arg, "="); hasValue {
			if allowed[name] {
				kept = append(kept, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		kept = append(kept, arg)

		// the next token is this flag's value unless it is another flag
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			kept = append(kept, args[i])
		}
	}

	return kept
}

// JsonConfigFlags returns the config file path given via -c or -config, or
// an empty string. Parsing a filtered copy of os.Args keeps the loaders'
// flag sets independent of each other.
func JsonConfigFlags() string {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	var path string
	fs := flag.NewFlagSet("jsonconfig", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (shorthand)")
	_ = fs.Parse(args)

	return path
}
