// Package stdlib pre-registers the subroutine signatures of the eight Jack
// OS classes, grounded on the its-hmny reference CLI's jack.StandardLibraryABI
// map. It lets --stdlib mode resolve calls into Math, String, Array, Output,
// Screen, Keyboard, Memory and Sys without requiring their sources to be
// present in the translation unit; the OS implementations themselves are out
// of scope.
package stdlib

// ABI maps each OS class name to the set of subroutine names it exports.
// Only names are needed: the compiler never checks argument arity against
// a stdlib signature, it only needs to know the class/subroutine pair
// exists so a qualified call to it doesn't look like an undeclared symbol.
var ABI = map[string]map[string]bool{
	"Math": set("abs", "multiply", "divide", "min", "max", "sqrt"),
	"String": set(
		"new", "dispose", "length", "charAt", "setCharAt", "appendChar",
		"eraseLastChar", "intValue", "setInt", "backSpace", "doubleQuote", "newLine",
	),
	"Array":   set("new", "dispose"),
	"Output":  set("moveCursor", "printChar", "printString", "printInt", "println", "backSpace"),
	"Screen":  set("clearScreen", "setColor", "drawPixel", "drawLine", "drawRectangle", "drawCircle"),
	"Keyboard": set(
		"keyPressed", "readChar", "readLine", "readInt",
	),
	"Memory": set("peek", "poke", "alloc", "deAlloc"),
	"Sys":    set("halt", "error", "wait", "init"),
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Has reports whether class.member names a known OS subroutine.
func Has(class, member string) bool {
	members, ok := ABI[class]
	if !ok {
		return false
	}
	return members[member]
}

// IsClass reports whether name is one of the eight OS class names.
func IsClass(name string) bool {
	_, ok := ABI[name]
	return ok
}
