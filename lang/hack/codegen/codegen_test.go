package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n2tgo/toolchain/lang/hack/codegen"
)

func TestEncodeADirectAddress(t *testing.T) {
	got, err := codegen.EncodeA(3)
	require.NoError(t, err)
	require.Equal(t, "0000000000000011", got)
}

func TestEncodeARejectsOutOfRange(t *testing.T) {
	_, err := codegen.EncodeA(0x8000)
	require.Error(t, err)
}

func TestEncodeCDestEqualsDPlusA(t *testing.T) {
	got, err := codegen.EncodeC("D", "D+A", "")
	require.NoError(t, err)
	require.Equal(t, "1110000010010000", got)
}

func TestEncodeCComputeOnly(t *testing.T) {
	got, err := codegen.EncodeC("", "0", "")
	require.NoError(t, err)
	require.Equal(t, "1110101010000000", got)
}

func TestEncodeCUnconditionalJump(t *testing.T) {
	got, err := codegen.EncodeC("", "0", "JMP")
	require.NoError(t, err)
	require.Equal(t, "1110101010000111", got)
}

func TestEncodeCRejectsUnknownComp(t *testing.T) {
	_, err := codegen.EncodeC("", "D%A", "")
	require.Error(t, err)
}

func TestBuiltInTableCoversVMSegments(t *testing.T) {
	want := map[string]uint16{
		"SP": 0, "LCL": 1, "ARG": 2, "THIS": 3, "THAT": 4,
		"SCREEN": 16384, "KBD": 24576,
	}
	for name, w := range want {
		require.Equal(t, w, codegen.BuiltInTable[name], "symbol %s", name)
	}
}
