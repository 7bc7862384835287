// Package literals provides the basic value blocks the module blocks are fed
// with: numbers, arithmetic, text and booleans.
package literals

import (
	"math"
	"strconv"
	"strings"

	"roboblocks-go/errcode"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"
)

const hue = 230

func init() {
	core.RegisterBlock(core.Definition{
		Type:    "math_number",
		Fields:  []core.Field{{Name: "NUM", Kind: core.FieldText, Default: "0"}},
		Output:  types.KindNumber,
		Tooltip: "A number.",
		Hue:     hue,
		Expr:    number,
	})
	core.RegisterBlock(core.Definition{
		Type: "math_arithmetic",
		Fields: []core.Field{{
			Name: "OP",
			Options: [][2]string{
				{"+", "ADD"}, {"-", "MINUS"}, {"×", "MULTIPLY"}, {"÷", "DIVIDE"}, {"^", "POWER"},
			},
			Default: "ADD",
		}},
		Inputs: []core.Input{
			{Name: "A", Check: types.KindNumber},
			{Name: "B", Check: types.KindNumber},
		},
		Output:  types.KindNumber,
		Tooltip: "Return the sum, difference, product, quotient or power of two numbers.",
		Hue:     hue,
		Expr:    arithmetic,
	})
	core.RegisterBlock(core.Definition{
		Type:    "text",
		Fields:  []core.Field{{Name: "TEXT", Kind: core.FieldText}},
		Output:  types.KindText,
		Tooltip: "A letter, word, or line of text.",
		Hue:     160,
		Expr: func(g *core.Gen) (string, core.Order, error) {
			return Quote(g.Field("TEXT")), core.OrderAtomic, nil
		},
	})
	core.RegisterBlock(core.Definition{
		Type: "logic_boolean",
		Fields: []core.Field{{
			Name:    "BOOL",
			Options: [][2]string{{"true", "TRUE"}, {"false", "FALSE"}},
			Default: "TRUE",
		}},
		Output:  types.KindBoolean,
		Tooltip: "Returns either true or false.",
		Hue:     210,
		Expr: func(g *core.Gen) (string, core.Order, error) {
			if g.Field("BOOL") == "TRUE" {
				return "true", core.OrderAtomic, nil
			}
			return "false", core.OrderAtomic, nil
		},
	})
}

func number(g *core.Gen) (string, core.Order, error) {
	raw := strings.TrimSpace(g.Field("NUM"))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !math.IsInf(v, 0) {
		return "", core.OrderNone, errcode.Wrap(errcode.InvalidField, g.Type(), "NUM="+raw, err)
	}
	var code string
	switch {
	case math.IsInf(v, 1):
		code = "INFINITY"
	case math.IsInf(v, -1):
		code = "-INFINITY"
	default:
		code = formatNumber(v)
	}
	if v < 0 {
		return code, core.OrderUnaryPrefix, nil
	}
	return code, core.OrderAtomic, nil
}

// formatNumber prints the shortest decimal that round-trips, switching to
// exponent form for very large or very small magnitudes. Exponents carry no
// leading zeros (1e-7, 1e+21) and negative zero prints as 0.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if a := math.Abs(v); a >= 1e21 || a < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		i := strings.IndexByte(s, 'e')
		exp := strings.TrimLeft(s[i+2:], "0")
		return s[:i+2] + exp
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var operators = map[string]struct {
	op    string
	order core.Order
}{
	"ADD":      {" + ", core.OrderAdditive},
	"MINUS":    {" - ", core.OrderAdditive},
	"MULTIPLY": {" * ", core.OrderMultiplicative},
	"DIVIDE":   {" / ", core.OrderMultiplicative},
}

func arithmetic(g *core.Gen) (string, core.Order, error) {
	opName := g.Field("OP")
	if opName == "POWER" {
		a, b, err := operands(g, core.OrderNone)
		if err != nil {
			return "", core.OrderNone, err
		}
		return "pow(" + a + ", " + b + ")", core.OrderUnaryPostfix, nil
	}
	op := operators[opName]
	a, b, err := operands(g, op.order)
	if err != nil {
		return "", core.OrderNone, err
	}
	return a + op.op + b, op.order, nil
}

func operands(g *core.Gen, order core.Order) (string, string, error) {
	a, err := g.ValueOr("A", order, "0")
	if err != nil {
		return "", "", err
	}
	b, err := g.ValueOr("B", order, "0")
	return a, b, err
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// Quote renders s as a C string literal.
func Quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
