package core

// Order is the operator precedence of an emitted C++ expression.
// Lower binds tighter.
type Order int

const (
	OrderAtomic         Order = 0 // literals, calls, parenthesised
	OrderUnaryPostfix   Order = 1 // expr++ expr-- () [] .
	OrderUnaryPrefix    Order = 2 // -expr !expr ~expr ++expr --expr
	OrderMultiplicative Order = 3 // * / %
	OrderAdditive       Order = 4 // + -
	OrderShift          Order = 5 // << >>
	OrderRelational     Order = 6 // < <= > >=
	OrderEquality       Order = 7 // == !=
	OrderBitwiseAnd     Order = 8
	OrderBitwiseXor     Order = 9
	OrderBitwiseOr      Order = 10
	OrderLogicalAnd     Order = 11
	OrderLogicalOr      Order = 12
	OrderConditional    Order = 13 // expr ? expr : expr
	OrderAssignment     Order = 14 // = *= /= += -=
	OrderNone           Order = 99
)

// Parenthesize wraps code produced at precedence inner so it can be placed
// in a context of precedence outer.
func Parenthesize(code string, inner, outer Order) string {
	if code == "" || outer > inner {
		return code
	}
	if outer == inner && (outer == OrderAtomic || outer == OrderNone) {
		return code
	}
	return "(" + code + ")"
}
