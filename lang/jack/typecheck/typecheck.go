// Package typecheck implements the optional, lightweight type-checking
// pass enabled by the Jack compiler CLI's --typecheck flag. It is not full
// Jack type inference: it only confirms that identifiers used as the
// receiver of a variable-qualified call resolve to a declared variable of
// a known class type, and that every assignment target in a let statement
// was itself declared. Both checks run over a single class's token stream,
// independent of (and never consulted by) the single-pass compiler's own
// code generation.
package typecheck

import (
	"fmt"

	"github.com/n2tgo/toolchain/lang/jack/scanner"
	"github.com/n2tgo/toolchain/lang/jack/token"
)

var primitiveTypes = map[string]bool{"int": true, "char": true, "boolean": true, "void": true}

// Checker walks one class's tokens collecting declarations, then verifies
// call receivers and assignment targets against them.
type Checker struct {
	className    string
	knownClasses map[string]bool // other classes in the translation unit, plus any stdlib ABI classes
	vars         map[string]string // variable name -> declared type, class+subroutine scope flattened
}

// New returns a Checker for one class. knownClasses should contain every
// other class name visible to the compilation (sibling translation units
// and, when --stdlib is set, the OS class names).
func New(className string, knownClasses map[string]bool) *Checker {
	return &Checker{className: className, knownClasses: knownClasses, vars: map[string]string{}}
}

// Check tokenizes src and runs both passes, returning the first problem
// found or nil.
func (c *Checker) Check(file string, src []byte) error {
	toks, err := tokenize(file, src)
	if err != nil {
		return err
	}
	c.collectDeclarations(toks)
	return c.checkUses(file, toks)
}

func tokenize(file string, src []byte) ([]token.Token, error) {
	sc, err := scanner.New(file, src)
	if err != nil {
		return nil, err
	}
	var toks []token.Token
	for {
		tok := sc.Peek()
		if tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
		if err := sc.Advance(); err != nil {
			return nil, err
		}
	}
	return toks, nil
}

func isSym(t token.Token, s string) bool { return t.Kind == token.SYMBOL && t.Text == s }
func isKw(t token.Token, s string) bool  { return t.Kind == token.KEYWORD && t.Text == s }

// collectDeclarations scans for "<type> <name>" pairs introduced by field,
// static, var and parameter declarations. It intentionally ignores scoping
// precision (class vs. subroutine) since the only thing this checker needs
// is "was this name ever declared, and with what type".
func (c *Checker) collectDeclarations(toks []token.Token) {
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case isKw(t, "static"), isKw(t, "field"), isKw(t, "var"):
			c.collectVarDecList(toks, i+1)
		case isKw(t, "function"), isKw(t, "method"), isKw(t, "constructor"):
			c.collectParamList(toks, i)
		}
	}
}

// collectVarDecList records every "<type> <name> (, <name>)* ;" starting
// at idx (the token right after static/field/var).
func (c *Checker) collectVarDecList(toks []token.Token, idx int) {
	if idx >= len(toks) {
		return
	}
	typ := toks[idx].Text
	i := idx + 1
	for i < len(toks) && toks[i].Kind == token.IDENTIFIER {
		c.vars[toks[i].Text] = typ
		i++
		if i < len(toks) && isSym(toks[i], ",") {
			i++
			continue
		}
		break
	}
}

// collectParamList finds the "(" after a subroutine header and records
// each "<type> <name>" pair inside it.
func (c *Checker) collectParamList(toks []token.Token, subIdx int) {
	i := subIdx
	for i < len(toks) && !isSym(toks[i], "(") {
		i++
	}
	if i >= len(toks) {
		return
	}
	i++
	for i < len(toks) && !isSym(toks[i], ")") {
		if toks[i].Kind == token.KEYWORD || toks[i].Kind == token.IDENTIFIER {
			typ := toks[i].Text
			if i+1 < len(toks) && toks[i+1].Kind == token.IDENTIFIER {
				c.vars[toks[i+1].Text] = typ
				i += 2
				if i < len(toks) && isSym(toks[i], ",") {
					i++
				}
				continue
			}
		}
		i++
	}
}

// checkUses looks for "ident . ident (" patterns (qualified calls) and
// "let ident" patterns (assignment targets), validating each receiver
// against the declarations collected above.
func (c *Checker) checkUses(file string, toks []token.Token) error {
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if isKw(t, "let") && i+1 < len(toks) && toks[i+1].Kind == token.IDENTIFIER {
			name := toks[i+1].Text
			if _, ok := c.vars[name]; !ok {
				return fmt.Errorf("%s: let target %q has no declared type", file, name)
			}
		}
		if t.Kind == token.IDENTIFIER && i+2 < len(toks) && isSym(toks[i+1], ".") && toks[i+2].Kind == token.IDENTIFIER {
			if err := c.checkQualifiedReceiver(file, t.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Checker) checkQualifiedReceiver(file, receiver string) error {
	if typ, ok := c.vars[receiver]; ok {
		if primitiveTypes[typ] {
			return fmt.Errorf("%s: variable %q has primitive type %q, cannot be used as a method receiver", file, receiver, typ)
		}
		if typ != c.className && !c.knownClasses[typ] {
			return fmt.Errorf("%s: variable %q has unknown class type %q", file, receiver, typ)
		}
		return nil
	}
	// Not a declared variable: must be a static reference to a known class.
	if receiver == c.className || c.knownClasses[receiver] {
		return nil
	}
	return fmt.Errorf("%s: %q is neither a declared variable nor a known class", file, receiver)
}
