// hdrctl inspects, extracts from, and patches encoded sample headers.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/avpack/framehdr/internal/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: hdrctl [flags] <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  inspect <input>                     decode and print every header field")
	fmt.Fprintln(os.Stderr, "  extract <field> <input>             print one field: sample_size, encoding, id, pts")
	fmt.Fprintln(os.Stderr, "  patch <file> <field>=<value> [...]  rewrite header fields in place")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "<input> is a file holding an encoded header, optionally followed by its")
	fmt.Fprintln(os.Stderr, "payload; with -hex it is the header bytes spelled as hex instead.")
	fmt.Fprintln(os.Stderr, "patch writes the file back only after every field patch has succeeded;")
	fmt.Fprintln(os.Stderr, "id and pts accept a decimal value or \"none\" to clear the field.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "output preference file (TOML)")
	hexInput := flag.Bool("hex", false, "treat <input> as hex bytes rather than a file path")
	jsonOut := flag.Bool("json", false, "emit JSON instead of the text table")
	flag.Usage = usage
	flag.Parse()

	logger := logging.InitRuntime("hdrctl")

	opts, err := loadOutputConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hdrctl: %v\n", err)
		os.Exit(1)
	}
	if *jsonOut {
		opts.Format = formatJSON
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "inspect":
		err = runInspect(args[1:], *hexInput, opts)
	case "extract":
		err = runExtract(args[1:], *hexInput)
	case "patch":
		if *hexInput {
			err = fmt.Errorf("patch rewrites a file and cannot take -hex input")
		} else {
			err = runPatch(args[1:], logger)
		}
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "hdrctl: %v\n", err)
		os.Exit(1)
	}
}
