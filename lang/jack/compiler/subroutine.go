package compiler

import (
	"github.com/n2tgo/toolchain/lang/jack/symbol"
	"github.com/n2tgo/toolchain/lang/jack/vmwriter"
)

// subroutineDec := ("constructor"|"function"|"method") ("void"|type)
//                  ident "(" paramList ")" subroutineBody
func (c *Compiler) compileSubroutine() error {
	kind := c.cur().Text // constructor | function | method
	if err := c.advance(); err != nil {
		return err
	}

	// return type: "void" or a type; only consumed, never checked against
	// usage, since the grammar does not require it.
	if c.atKeyword("void") {
		if err := c.advance(); err != nil {
			return err
		}
	} else if _, err := c.compileType(); err != nil {
		return err
	}

	name, err := c.expectIdentifier()
	if err != nil {
		return err
	}

	c.syms.StartSubroutine()
	c.labelSeq = 0

	if kind == "method" {
		// Implicit `this` occupies argument 0; declared so lookups of a
		// bare `this`-typed receiver resolve, though the compiler reads
		// pointer 0 directly rather than through this symbol.
		c.syms.Declare("this", c.className, symbol.Argument)
	}

	if err := c.expectSymbol("("); err != nil {
		return err
	}
	if err := c.compileParameterList(); err != nil {
		return err
	}
	if err := c.expectSymbol(")"); err != nil {
		return err
	}

	return c.compileSubroutineBody(kind, name)
}

// paramList := ( type ident ("," type ident)* )?
func (c *Compiler) compileParameterList() error {
	if c.atSymbol(")") {
		return nil
	}
	for {
		typ, err := c.compileType()
		if err != nil {
			return err
		}
		name, err := c.expectIdentifier()
		if err != nil {
			return err
		}
		c.syms.Declare(name, typ, symbol.Argument)
		if !c.atSymbol(",") {
			return nil
		}
		if err := c.advance(); err != nil {
			return err
		}
	}
}

// subroutineBody := "{" varDec* statements "}"
func (c *Compiler) compileSubroutineBody(kind, name string) error {
	if err := c.expectSymbol("{"); err != nil {
		return err
	}
	for c.atKeyword("var") {
		if err := c.compileVarDec(); err != nil {
			return err
		}
	}

	c.vw.WriteFunction(c.className+"."+name, c.syms.Count(symbol.Var))

	switch kind {
	case "constructor":
		c.vw.WritePush(vmwriter.Constant, c.syms.Count(symbol.Field))
		c.vw.WriteCall("Memory.alloc", 1)
		c.vw.WritePop(vmwriter.Pointer, 0)
	case "method":
		c.vw.WritePush(vmwriter.Argument, 0)
		c.vw.WritePop(vmwriter.Pointer, 0)
	}

	if err := c.compileStatements(); err != nil {
		return err
	}
	return c.expectSymbol("}")
}

// varDec := "var" type ident ("," ident)* ";"
func (c *Compiler) compileVarDec() error {
	if err := c.advance(); err != nil { // "var"
		return err
	}
	typ, err := c.compileType()
	if err != nil {
		return err
	}
	for {
		name, err := c.expectIdentifier()
		if err != nil {
			return err
		}
		c.syms.Declare(name, typ, symbol.Var)
		if !c.atSymbol(",") {
			break
		}
		if err := c.advance(); err != nil {
			return err
		}
	}
	return c.expectSymbol(";")
}

// statements := statement*
func (c *Compiler) compileStatements() error {
	for c.atKeyword("let", "if", "while", "do", "return") {
		if err := c.compileStatement(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStatement() error {
	switch c.cur().Text {
	case "let":
		return c.compileLet()
	case "if":
		return c.compileIf()
	case "while":
		return c.compileWhile()
	case "do":
		return c.compileDo()
	case "return":
		return c.compileReturn()
	default:
		return c.errf("expected a statement, found %s", c.cur().Text)
	}
}

// letStmt := "let" ident ("[" expression "]")? "=" expression ";"
func (c *Compiler) compileLet() error {
	if err := c.advance(); err != nil { // "let"
		return err
	}
	name, err := c.expectIdentifier()
	if err != nil {
		return err
	}
	entry, ok := c.syms.Lookup(name)
	if !ok {
		return c.semErrf("undeclared identifier %q", name)
	}

	if c.atSymbol("[") {
		if err := c.advance(); err != nil {
			return err
		}
		c.pushSymbol(entry)
		if err := c.compileExpression(); err != nil { // index
			return err
		}
		if err := c.expectSymbol("]"); err != nil {
			return err
		}
		c.vw.WriteArithmetic(vmwriter.Add)

		if err := c.expectSymbol("="); err != nil {
			return err
		}
		if err := c.compileExpression(); err != nil { // rhs
			return err
		}
		if err := c.expectSymbol(";"); err != nil {
			return err
		}

		c.vw.WritePop(vmwriter.Temp, 0)
		c.vw.WritePop(vmwriter.Pointer, 1)
		c.vw.WritePush(vmwriter.Temp, 0)
		c.vw.WritePop(vmwriter.That, 0)
		return nil
	}

	if err := c.expectSymbol("="); err != nil {
		return err
	}
	if err := c.compileExpression(); err != nil {
		return err
	}
	if err := c.expectSymbol(";"); err != nil {
		return err
	}
	c.popSymbol(entry)
	return nil
}

// ifStmt := "if" "(" expression ")" "{" statements "}" ("else" "{" statements "}")?
func (c *Compiler) compileIf() error {
	if err := c.advance(); err != nil { // "if"
		return err
	}
	if err := c.expectSymbol("("); err != nil {
		return err
	}
	if err := c.compileExpression(); err != nil {
		return err
	}
	if err := c.expectSymbol(")"); err != nil {
		return err
	}

	lFalse := c.newLabel("IF_FALSE")
	lEnd := c.newLabel("IF_END")

	c.vw.WriteArithmetic(vmwriter.Not)
	c.vw.WriteIf(lFalse)

	if err := c.expectSymbol("{"); err != nil {
		return err
	}
	if err := c.compileStatements(); err != nil {
		return err
	}
	if err := c.expectSymbol("}"); err != nil {
		return err
	}

	hasElse := c.atKeyword("else")
	if hasElse {
		c.vw.WriteGoto(lEnd)
	}
	c.vw.WriteLabel(lFalse)

	if hasElse {
		if err := c.advance(); err != nil { // "else"
			return err
		}
		if err := c.expectSymbol("{"); err != nil {
			return err
		}
		if err := c.compileStatements(); err != nil {
			return err
		}
		if err := c.expectSymbol("}"); err != nil {
			return err
		}
		c.vw.WriteLabel(lEnd)
	}
	return nil
}

// whileStmt := "while" "(" expression ")" "{" statements "}"
func (c *Compiler) compileWhile() error {
	if err := c.advance(); err != nil { // "while"
		return err
	}
	lTop := c.newLabel("WHILE_EXP")
	lEnd := c.newLabel("WHILE_END")

	c.vw.WriteLabel(lTop)

	if err := c.expectSymbol("("); err != nil {
		return err
	}
	if err := c.compileExpression(); err != nil {
		return err
	}
	if err := c.expectSymbol(")"); err != nil {
		return err
	}

	c.vw.WriteArithmetic(vmwriter.Not)
	c.vw.WriteIf(lEnd)

	if err := c.expectSymbol("{"); err != nil {
		return err
	}
	if err := c.compileStatements(); err != nil {
		return err
	}
	if err := c.expectSymbol("}"); err != nil {
		return err
	}

	c.vw.WriteGoto(lTop)
	c.vw.WriteLabel(lEnd)
	return nil
}

// doStmt := "do" subroutineCall ";"
func (c *Compiler) compileDo() error {
	if err := c.advance(); err != nil { // "do"
		return err
	}
	if err := c.compileSubroutineCall(); err != nil {
		return err
	}
	if err := c.expectSymbol(";"); err != nil {
		return err
	}
	// Every subroutine call leaves exactly one value on the stack; a do
	// statement always discards it.
	c.vw.WritePop(vmwriter.Temp, 0)
	return nil
}

// returnStmt := "return" expression? ";"
func (c *Compiler) compileReturn() error {
	if err := c.advance(); err != nil { // "return"
		return err
	}
	if c.atSymbol(";") {
		c.vw.WritePush(vmwriter.Constant, 0)
	} else {
		if err := c.compileExpression(); err != nil {
			return err
		}
	}
	if err := c.expectSymbol(";"); err != nil {
		return err
	}
	c.vw.WriteReturn()
	return nil
}

// pushSymbol/popSymbol emit a push/pop against the VM segment and index an
// already-resolved symbol table Entry lives at.
func (c *Compiler) pushSymbol(e symbol.Entry) {
	c.vw.WritePush(vmwriter.Segment(e.Kind.Segment()), e.Index)
}

func (c *Compiler) popSymbol(e symbol.Entry) {
	c.vw.WritePop(vmwriter.Segment(e.Kind.Segment()), e.Index)
}
