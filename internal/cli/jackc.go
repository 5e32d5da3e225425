package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mna/mainer"

	"github.com/n2tgo/toolchain/internal/diag"
	"github.com/n2tgo/toolchain/lang/jack/compiler"
	"github.com/n2tgo/toolchain/lang/jack/stdlib"
	"github.com/n2tgo/toolchain/lang/jack/typecheck"
)

const jackcBin = "jackc"

var jackcUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiles Jack source into VM code. <path> is a single .jack file or a
directory; every .jack file in a directory is compiled to a .vm file of
the same name alongside it.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --stdlib                  Pre-register the OS class ABI so calls into
                                 Math/String/Array/Output/Screen/Keyboard/
                                 Memory/Sys resolve without their sources.
       --typecheck                Run the lightweight type-checking pass
                                 before compiling and stop on its first
                                 complaint.
`, jackcBin)

// JackcCmd is the Jack compiler's CLI driver.
type JackcCmd struct {
	BuildVersion string
	BuildDate    string

	Help      bool `flag:"h,help"`
	Version   bool `flag:"v,version"`
	Stdlib    bool `flag:"stdlib"`
	Typecheck bool `flag:"typecheck"`

	args []string
}

func (c *JackcCmd) SetArgs(args []string)          { c.args = args }
func (c *JackcCmd) SetFlags(flags map[string]bool) {}

func (c *JackcCmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("expected exactly one input path, got %d", len(c.args))
	}
	return nil
}

// Main is the entry point a thin cmd/jackc/main.go calls.
func (c *JackcCmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: jackcBin + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, jackcUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, jackcUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", jackcBin, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	return Report(stdio, c.run(c.args[0]))
}

func (c *JackcCmd) run(path string) error {
	files, err := jackFiles(path)
	if err != nil {
		return err
	}

	knownClasses := map[string]bool{}
	for name := range files {
		knownClasses[name] = true
	}
	if c.Stdlib {
		for name := range stdlib.ABI {
			knownClasses[name] = true
		}
	}

	classNames := make([]string, 0, len(files))
	for name := range files {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)

	for _, className := range classNames {
		srcPath := files[className]
		src, err := os.ReadFile(srcPath)
		if err != nil {
			return diag.New(diag.IoError, srcPath, 0, "cannot read file: %s", err)
		}
		if c.Typecheck {
			others := map[string]bool{}
			for name := range knownClasses {
				if name != className {
					others[name] = true
				}
			}
			if err := typecheck.New(className, others).Check(srcPath, src); err != nil {
				return diag.New(diag.SemanticError, srcPath, 0, "%s", err)
			}
		}

		outPath := strings.TrimSuffix(srcPath, ".jack") + ".vm"
		out, err := os.Create(outPath)
		if err != nil {
			return diag.New(diag.IoError, outPath, 0, "cannot create output file: %s", err)
		}
		err = compiler.CompileClass(srcPath, src, out)
		out.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// jackFiles resolves path to a map of class name -> source file path: a
// single .jack file yields one entry, a directory yields one entry per
// .jack file directly inside it.
func jackFiles(path string) (map[string]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, diag.New(diag.IoError, path, 0, "cannot stat path: %s", err)
	}

	files := map[string]string{}
	if !info.IsDir() {
		if filepath.Ext(path) != ".jack" {
			return nil, diag.New(diag.ArgumentError, path, 0, "expected a .jack file")
		}
		files[strings.TrimSuffix(filepath.Base(path), ".jack")] = path
		return files, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, diag.New(diag.IoError, path, 0, "cannot read directory: %s", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jack" {
			continue
		}
		full := filepath.Join(path, e.Name())
		files[strings.TrimSuffix(e.Name(), ".jack")] = full
	}
	if len(files) == 0 {
		return nil, diag.New(diag.ArgumentError, path, 0, "no .jack files found")
	}
	return files, nil
}
