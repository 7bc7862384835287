package literals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roboblocks-go/errcode"
	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"
)

func num(v string) *types.Block {
	return &types.Block{Type: "math_number", Fields: map[string]string{"NUM": v}}
}

func op(name string, a, b *types.Block) *types.Block {
	in := map[string]*types.Block{}
	if a != nil {
		in["A"] = a
	}
	if b != nil {
		in["B"] = b
	}
	return &types.Block{Type: "math_arithmetic", Fields: map[string]string{"OP": name}, Inputs: in}
}

func expr(t *testing.T, b *types.Block) (string, core.Order, error) {
	t.Helper()
	uno, ok := boards.Lookup("uno")
	require.True(t, ok)
	return core.NewPass(uno).Expr(b)
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		order core.Order
	}{
		{"0", "0", core.OrderAtomic},
		{"42", "42", core.OrderAtomic},
		{"1.50", "1.5", core.OrderAtomic},
		{"-5", "-5", core.OrderUnaryPrefix},
		{" 7 ", "7", core.OrderAtomic},
		{"1e21", "1e+21", core.OrderAtomic},
		{"1.5e300", "1.5e+300", core.OrderAtomic},
		{"0.0000001", "1e-7", core.OrderAtomic},
		{"-0.00000025", "-2.5e-7", core.OrderUnaryPrefix},
		{"0.000001", "0.000001", core.OrderAtomic},
		{"-0", "0", core.OrderAtomic},
		{"Infinity", "INFINITY", core.OrderAtomic},
		{"-Infinity", "-INFINITY", core.OrderUnaryPrefix},
	}
	for _, tc := range cases {
		code, order, err := expr(t, num(tc.in))
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, code, tc.in)
		assert.Equal(t, tc.order, order, tc.in)
	}

	_, _, err := expr(t, num("ten"))
	assert.Equal(t, errcode.InvalidField, errcode.Of(err))

	code, _, err := expr(t, &types.Block{Type: "math_number"})
	require.NoError(t, err)
	assert.Equal(t, "0", code)
}

func TestArithmeticPrecedence(t *testing.T) {
	cases := []struct {
		name string
		b    *types.Block
		want string
	}{
		{"sum", op("ADD", num("1"), num("2")), "1 + 2"},
		{"product of sum", op("MULTIPLY", op("ADD", num("1"), num("2")), num("3")), "(1 + 2) * 3"},
		{"sum of product", op("ADD", op("MULTIPLY", num("1"), num("2")), num("3")), "1 * 2 + 3"},
		{"nested minus", op("MINUS", num("1"), op("MINUS", num("2"), num("3"))), "1 - (2 - 3)"},
		{"negative operand", op("MULTIPLY", num("-1"), num("2")), "-1 * 2"},
		{"power", op("POWER", num("2"), op("ADD", num("3"), num("4"))), "pow(2, 3 + 4)"},
		{"missing operands", op("DIVIDE", nil, nil), "0 / 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, err := expr(t, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `""`, Quote(""))
	assert.Equal(t, `"a\"b\\c\n"`, Quote("a\"b\\c\n"))

	code, _, err := expr(t, &types.Block{Type: "text"})
	require.NoError(t, err)
	assert.Equal(t, `""`, code)
}

func TestBoolean(t *testing.T) {
	code, _, err := expr(t, &types.Block{Type: "logic_boolean", Fields: map[string]string{"BOOL": "FALSE"}})
	require.NoError(t, err)
	assert.Equal(t, "false", code)

	_, _, err = expr(t, &types.Block{Type: "logic_boolean", Fields: map[string]string{"BOOL": "maybe"}})
	assert.Equal(t, errcode.InvalidField, errcode.Of(err))
}
