package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mna/mainer"

	"github.com/n2tgo/toolchain/internal/diag"
	"github.com/n2tgo/toolchain/lang/vm/parser"
	"github.com/n2tgo/toolchain/lang/vm/translator"
)

const vmtranslateBin = "vmtranslate"

var vmtranslateUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Translates VM code into Hack assembly. <path> is a single .vm file (no
bootstrap emitted) or a directory (bootstrap emitted, Sys.init called,
files processed in alphabetical order).

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --dump-ir                 Print each parsed command before
                                 translating it.
`, vmtranslateBin)

// VMTranslateCmd is the VM translator's CLI driver.
type VMTranslateCmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	DumpIR  bool `flag:"dump-ir"`

	args []string
}

func (c *VMTranslateCmd) SetArgs(args []string)          { c.args = args }
func (c *VMTranslateCmd) SetFlags(flags map[string]bool) {}

func (c *VMTranslateCmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("expected exactly one input path, got %d", len(c.args))
	}
	return nil
}

func (c *VMTranslateCmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: vmtranslateBin + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, vmtranslateUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, vmtranslateUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", vmtranslateBin, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	return Report(stdio, c.run(c.args[0], stdio))
}

func (c *VMTranslateCmd) run(path string, stdio mainer.Stdio) error {
	if c.DumpIR {
		if err := dumpVMIR(path, stdio); err != nil {
			return err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return diag.New(diag.IoError, path, 0, "cannot stat path: %s", err)
	}
	if info.IsDir() {
		_, err = translator.TranslateDir(path)
	} else {
		if filepath.Ext(path) != ".vm" {
			return diag.New(diag.ArgumentError, path, 0, "expected a .vm file")
		}
		_, err = translator.TranslateFile(path)
	}
	return err
}

// dumpVMIR prints one line per parsed command, before any code is
// generated, for diagnosing a stuck translation.
func dumpVMIR(path string, stdio mainer.Stdio) error {
	info, err := os.Stat(path)
	if err != nil {
		return diag.New(diag.IoError, path, 0, "cannot stat path: %s", err)
	}
	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return diag.New(diag.IoError, path, 0, "cannot read directory: %s", err)
		}
		files = files[:0]
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".vm") {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
	} else if filepath.Ext(path) != ".vm" {
		return diag.New(diag.ArgumentError, path, 0, "expected a .vm file")
	}

	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return diag.New(diag.IoError, f, 0, "cannot read file: %s", err)
		}
		for i, raw := range strings.Split(string(src), "\n") {
			text := parser.StripComment(raw)
			if text == "" {
				continue
			}
			cmd, err := parser.ParseLine(f, i+1, text)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdio.Stdout, "%s:%d: %v\n", f, i+1, cmd)
		}
	}
	return nil
}
