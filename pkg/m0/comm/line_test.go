package comm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected string
	}{
		{"no args", Encode(CmdGetVersion, 0, 0), "GET_VERSION;0;0"},
		{"selector only", Encode(CmdMotorsState, 0, 5), "MOTORS_STATE;0;5"},
		{"args", Encode(CmdMotorsMove, 2, 5, "100", "-50"), "MOTORS_MOVE;2;5;100;-50"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.line)
		})
	}
}

func TestFields(t *testing.T) {
	require.Equal(t, []string{"0", "0", "1"}, Fields("0;0;1"))
	require.Equal(t, []string{"0", "0", "1"}, Fields("0;0;1;"))
	require.Empty(t, Fields(""))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42;0;1;")
	require.NoError(t, err)
	require.Equal(t, CommandSeq(42), id)

	id, err = ParseID("7")
	require.NoError(t, err)
	require.Equal(t, CommandSeq(7), id)

	_, err = ParseID("x;0;")
	require.Error(t, err)
}

func TestCommandSeqNext(t *testing.T) {
	require.Equal(t, CommandSeq(1), CommandSeq(0).Next())
	require.Equal(t, CommandSeq(0), (MaxCommandSeq - 1).Next())
	require.True(t, CommandSeq(999999).IsValid())
	require.False(t, MaxCommandSeq.IsValid())
}

func TestSelect(t *testing.T) {
	sel, err := Select(0, 2)
	require.NoError(t, err)
	require.Equal(t, Selector(5), sel)
	require.True(t, sel.Has(0))
	require.False(t, sel.Has(1))
	require.True(t, sel.Has(2))
	require.Equal(t, []int{0, 2}, sel.Indices())

	sel, err = Select()
	require.NoError(t, err)
	require.Equal(t, Selector(0), sel)
	require.Empty(t, sel.Indices())

	_, err = Select(32)
	require.Error(t, err)
	require.IsType(t, &SelectorError{}, err)
	_, err = Select(-1)
	require.Error(t, err)
}
