package compiler

import (
	"github.com/n2tgo/toolchain/lang/jack/scanner"
	"github.com/n2tgo/toolchain/lang/jack/token"
	"github.com/n2tgo/toolchain/lang/jack/vmwriter"
)

var binaryOps = map[string]vmwriter.Op{
	"+": vmwriter.Add,
	"-": vmwriter.Sub,
	"*": vmwriter.Mul,
	"/": vmwriter.Div,
	"&": vmwriter.And,
	"|": vmwriter.Or,
	"<": vmwriter.Lt,
	">": vmwriter.Gt,
	"=": vmwriter.Eq,
}

// expression := term (op term)*
func (c *Compiler) compileExpression() error {
	if err := c.compileTerm(); err != nil {
		return err
	}
	for {
		t := c.cur()
		op, ok := binaryOps[t.Text]
		if t.Kind != token.SYMBOL || !ok {
			return nil
		}
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.compileTerm(); err != nil {
			return err
		}
		c.vw.WriteArithmetic(op)
	}
}

// term := intConst | strConst | keywordConst | varRef | arrayRef
//      | subroutineCall | "(" expression ")" | unaryOp term
func (c *Compiler) compileTerm() error {
	t := c.cur()
	switch t.Kind {
	case token.INT_CONST:
		c.vw.WritePush(vmwriter.Constant, t.Int)
		return c.advance()

	case token.STRING_CONST:
		c.vw.WriteStringConstant(t.Text)
		return c.advance()

	case token.KEYWORD:
		switch t.Text {
		case "true":
			c.vw.WritePush(vmwriter.Constant, 0)
			c.vw.WriteArithmetic(vmwriter.Not)
			return c.advance()
		case "false", "null":
			c.vw.WritePush(vmwriter.Constant, 0)
			return c.advance()
		case "this":
			c.vw.WritePush(vmwriter.Pointer, 0)
			return c.advance()
		default:
			return c.errf("unexpected keyword %q in expression", t.Text)
		}

	case token.SYMBOL:
		switch t.Text {
		case "(":
			if err := c.advance(); err != nil {
				return err
			}
			if err := c.compileExpression(); err != nil {
				return err
			}
			return c.expectSymbol(")")
		case "-":
			if err := c.advance(); err != nil {
				return err
			}
			if err := c.compileTerm(); err != nil {
				return err
			}
			c.vw.WriteArithmetic(vmwriter.Neg)
			return nil
		case "~":
			if err := c.advance(); err != nil {
				return err
			}
			if err := c.compileTerm(); err != nil {
				return err
			}
			c.vw.WriteArithmetic(vmwriter.Not)
			return nil
		default:
			return c.errf("unexpected symbol %q in expression", t.Text)
		}

	case token.IDENTIFIER:
		return c.compileIdentifierTerm()

	default:
		return c.errf("expected an expression, found %s", scanner.Describe(t))
	}
}

// compileIdentifierTerm handles the four identifier-led term productions:
// varRef, arrayRef, and the two subroutineCall forms. One token of
// lookahead past the identifier distinguishes them.
func (c *Compiler) compileIdentifierTerm() error {
	name, err := c.expectIdentifier()
	if err != nil {
		return err
	}

	switch {
	case c.atSymbol("["):
		entry, ok := c.syms.Lookup(name)
		if !ok {
			return c.semErrf("undeclared identifier %q", name)
		}
		if err := c.advance(); err != nil {
			return err
		}
		c.pushSymbol(entry)
		if err := c.compileExpression(); err != nil {
			return err
		}
		if err := c.expectSymbol("]"); err != nil {
			return err
		}
		c.vw.WriteArithmetic(vmwriter.Add)
		c.vw.WritePop(vmwriter.Pointer, 1)
		c.vw.WritePush(vmwriter.That, 0)
		return nil

	case c.atSymbol("("):
		// Bare call: implicit `this` receiver.
		c.vw.WritePush(vmwriter.Pointer, 0)
		return c.compileCallArgs(c.className+"."+name, 1)

	case c.atSymbol("."):
		if err := c.advance(); err != nil {
			return err
		}
		member, err := c.expectIdentifier()
		if err != nil {
			return err
		}
		if entry, ok := c.syms.Lookup(name); ok {
			c.pushSymbol(entry)
			return c.compileCallArgs(entry.Type+"."+member, 1)
		}
		// Not a known variable: treat name as a class name (static call).
		return c.compileCallArgs(name+"."+member, 0)

	default:
		entry, ok := c.syms.Lookup(name)
		if !ok {
			return c.semErrf("undeclared identifier %q", name)
		}
		c.pushSymbol(entry)
		return nil
	}
}

// subroutineCall := ident "(" exprList ")" | (ident|thisClass) "." ident "(" exprList ")"
//
// compileSubroutineCall is used directly by do-statements, which always
// start at an identifier and have not yet consumed anything.
func (c *Compiler) compileSubroutineCall() error {
	return c.compileIdentifierTerm()
}

// compileCallArgs parses "(" exprList ")" and emits a call to name with
// nArgs = len(exprList) + extraArgs. The caller has already pushed
// extraArgs values (0 or 1, the receiver) before calling this.
func (c *Compiler) compileCallArgs(name string, extraArgs int) error {
	if err := c.expectSymbol("("); err != nil {
		return err
	}
	n, err := c.compileExpressionList()
	if err != nil {
		return err
	}
	if err := c.expectSymbol(")"); err != nil {
		return err
	}
	c.vw.WriteCall(name, n+extraArgs)
	return nil
}

// exprList := (expression ("," expression)*)?
func (c *Compiler) compileExpressionList() (int, error) {
	if c.atSymbol(")") {
		return 0, nil
	}
	n := 0
	for {
		if err := c.compileExpression(); err != nil {
			return 0, err
		}
		n++
		if !c.atSymbol(",") {
			return n, nil
		}
		if err := c.advance(); err != nil {
			return 0, err
		}
	}
}
