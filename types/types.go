package types

// ---- Block output kinds ----

// Kind is the value type a block produces on its output connection.
type Kind string

const (
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindText    Kind = "text"
)

// Accepts reports whether an input checked for k can take a block producing
// other. Numbers and booleans convert freely in the emitted C++; text only
// connects to text.
func (k Kind) Accepts(other Kind) bool {
	switch k {
	case KindNumber, KindBoolean:
		return other == KindNumber || other == KindBoolean
	case KindText:
		return other == KindText
	default:
		return false
	}
}

func (k Kind) Valid() bool {
	switch k {
	case KindNumber, KindBoolean, KindText:
		return true
	}
	return false
}
