// Package translator is the VM translator's driver: it decides whether the
// input is a single file or a directory, orders multi-file input
// alphabetically for reproducible output (the specification's redesign of
// the original's OS-dependent directory iteration), and drives the parser
// and code writer over each source file.
package translator

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/n2tgo/toolchain/internal/diag"
	"github.com/n2tgo/toolchain/lang/vm/codewriter"
	"github.com/n2tgo/toolchain/lang/vm/parser"
	"github.com/n2tgo/toolchain/lang/vm/types"
)

// TranslateFile translates a single freestanding .vm file to a .asm file
// of the same name alongside it. No bootstrap is emitted, so the output
// can be run directly against a test fixture that supplies its own
// initial SP.
func TranslateFile(path string) (string, error) {
	outputPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".asm"
	return outputPath, translate([]string{path}, outputPath, false)
}

// TranslateDir translates every .vm file in dir (sorted alphabetically for
// deterministic output) into a single dir/Dir.asm, prefixed with the
// bootstrap sequence and a call to Sys.init 0.
func TranslateDir(dir string) (string, error) {
	files, err := discoverVMFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", diag.New(diag.ArgumentError, dir, 0, "no .vm files found in directory")
	}
	name := filepath.Base(filepath.Clean(dir))
	outputPath := filepath.Join(dir, name+".asm")
	return outputPath, translate(files, outputPath, true)
}

func translate(files []string, outputPath string, bootstrap bool) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return diag.New(diag.IoError, outputPath, 0, "cannot create output file: %s", err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	cw := codewriter.New(bw)

	if bootstrap {
		cw.WriteBootstrap()
	}

	for _, f := range files {
		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		cw.SetFileStem(stem)
		if err := translateFile(f, cw); err != nil {
			return err
		}
	}

	if err := cw.Flush(); err != nil {
		return diag.New(diag.IoError, outputPath, 0, "write failed: %s", err)
	}
	return bw.Flush()
}

// discoverVMFiles returns the .vm files in dir, sorted alphabetically by
// filename for deterministic output ordering.
func discoverVMFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, diag.New(diag.IoError, dir, 0, "cannot read directory: %s", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".vm") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func translateFile(path string, cw *codewriter.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return diag.New(diag.IoError, path, 0, "cannot read file: %s", err)
	}
	for i, raw := range strings.Split(string(src), "\n") {
		lineNo := i + 1
		text := parser.StripComment(raw)
		if text == "" {
			continue
		}
		cmd, err := parser.ParseLine(path, lineNo, text)
		if err != nil {
			return err
		}
		if err := emit(cw, cmd, path); err != nil {
			return err
		}
	}
	return nil
}

func emit(cw *codewriter.Writer, cmd types.Command, file string) error {
	var err error
	switch cmd.Kind {
	case types.Arithmetic:
		err = cw.WriteArithmetic(cmd.Op)
	case types.Push:
		err = cw.WritePush(cmd.Segment, cmd.Index)
	case types.Pop:
		err = cw.WritePop(cmd.Segment, cmd.Index)
	case types.Label:
		cw.WriteLabel(cmd.Label)
	case types.Goto:
		cw.WriteGoto(cmd.Label)
	case types.IfGoto:
		cw.WriteIf(cmd.Label)
	case types.Function:
		cw.WriteFunction(cmd.Name, cmd.NArgs)
	case types.Call:
		cw.WriteCall(cmd.Name, cmd.NArgs)
	case types.Return:
		cw.WriteReturn()
	}
	if err != nil {
		return diag.New(diag.EncodingError, file, cmd.Line, "%s", err)
	}
	return nil
}
