package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/n2tgo/toolchain/internal/diag"
	"github.com/n2tgo/toolchain/lang/hack/assembler"
)

const hackasmBin = "hackasm"

var hackasmUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Assembles one Hack .asm file into a .hack machine-code file of the same
name alongside it.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --dump-symbols            Print the resolved symbol table after
                                 assembling (name, address).
`, hackasmBin)

// HackasmCmd is the assembler's CLI driver.
type HackasmCmd struct {
	BuildVersion string
	BuildDate    string

	Help        bool `flag:"h,help"`
	Version     bool `flag:"v,version"`
	DumpSymbols bool `flag:"dump-symbols"`

	args []string
}

func (c *HackasmCmd) SetArgs(args []string)          { c.args = args }
func (c *HackasmCmd) SetFlags(flags map[string]bool) {}

func (c *HackasmCmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("expected exactly one input path, got %d", len(c.args))
	}
	return nil
}

func (c *HackasmCmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: hackasmBin + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, hackasmUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, hackasmUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", hackasmBin, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	return Report(stdio, c.run(c.args[0], stdio))
}

func (c *HackasmCmd) run(path string, stdio mainer.Stdio) error {
	if filepath.Ext(path) != ".asm" {
		return diag.New(diag.ArgumentError, path, 0, "expected a .asm file")
	}
	_, table, err := assembler.AssembleFileWithSymbols(path)
	if err != nil {
		return err
	}
	if c.DumpSymbols {
		for _, entry := range table {
			fmt.Fprintf(stdio.Stdout, "%s -> %d\n", entry.Name, entry.Address)
		}
	}
	return nil
}
