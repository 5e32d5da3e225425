package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n2tgo/toolchain/lang/vm/parser"
	"github.com/n2tgo/toolchain/lang/vm/types"
)

func TestParsePushCommand(t *testing.T) {
	cmd, err := parser.ParseLine("t.vm", 1, "push constant 7")
	require.NoError(t, err)
	require.Equal(t, types.Push, cmd.Kind)
	require.Equal(t, types.SegConstant, cmd.Segment)
	require.Equal(t, 7, cmd.Index)
}

func TestParseArithmeticCommand(t *testing.T) {
	cmd, err := parser.ParseLine("t.vm", 1, "add")
	require.NoError(t, err)
	require.Equal(t, types.Arithmetic, cmd.Kind)
	require.Equal(t, "add", cmd.Op)
}

func TestParseLabelGotoIfGoto(t *testing.T) {
	for _, tc := range []struct {
		text string
		kind types.Kind
	}{
		{"label LOOP", types.Label},
		{"goto LOOP", types.Goto},
		{"if-goto LOOP", types.IfGoto},
	} {
		cmd, err := parser.ParseLine("t.vm", 1, tc.text)
		require.NoError(t, err, tc.text)
		require.Equal(t, tc.kind, cmd.Kind, tc.text)
		require.Equal(t, "LOOP", cmd.Label, tc.text)
	}
}

func TestParseFunctionAndCall(t *testing.T) {
	fn, err := parser.ParseLine("t.vm", 1, "function Main.main 2")
	require.NoError(t, err)
	require.Equal(t, types.Function, fn.Kind)
	require.Equal(t, "Main.main", fn.Name)
	require.Equal(t, 2, fn.NArgs)

	call, err := parser.ParseLine("t.vm", 2, "call Main.main 0")
	require.NoError(t, err)
	require.Equal(t, types.Call, call.Kind)
	require.Equal(t, "Main.main", call.Name)
	require.Equal(t, 0, call.NArgs)
}

func TestParseReturn(t *testing.T) {
	cmd, err := parser.ParseLine("t.vm", 1, "return")
	require.NoError(t, err)
	require.Equal(t, types.Return, cmd.Kind)
}

func TestParseMalformedCommand(t *testing.T) {
	_, err := parser.ParseLine("t.vm", 1, "push constant")
	require.Error(t, err)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := parser.ParseLine("t.vm", 1, "add garbage")
	require.Error(t, err)
}

func TestStripComment(t *testing.T) {
	cases := map[string]string{
		"push constant 7 // comment": "push constant 7",
		"   add   ":                  "add",
		"// only a comment":          "",
		"":                           "",
	}
	for in, want := range cases {
		require.Equal(t, want, parser.StripComment(in), "StripComment(%q)", in)
	}
}
