package core

import "strings"

// PinType is the function a block needs a pin for.
type PinType string

const (
	PinInput   PinType = "INPUT"
	PinOutput  PinType = "OUTPUT"
	PinPWM     PinType = "PWM"
	PinServo   PinType = "SERVO"
	PinStepper PinType = "STEPPER"
	PinSerial  PinType = "SERIAL"
	PinI2C     PinType = "I2C/TWI"
	PinSPI     PinType = "SPI"
)

// PinAssignment records the first reservation of a pin in a pass.
type PinAssignment struct {
	Pin   string  `json:"pin"`
	Type  PinType `json:"type"`
	Owner string  `json:"owner"` // block ID
	Tag   string  `json:"tag"`
}

// PinConflict is raised when a pin already reserved with one type is
// requested with another.
type PinConflict struct {
	Pin           string  `json:"pin"`
	Tag           string  `json:"tag"`
	Type          PinType `json:"type"`
	Existing      PinType `json:"existing"`
	Owner         string  `json:"owner"`
	ExistingOwner string  `json:"existing_owner"`
	ExistingTag   string  `json:"existing_tag"`
}

func (c PinConflict) Message() string {
	var b strings.Builder
	b.WriteString("Pin ")
	b.WriteString(c.Pin)
	b.WriteString(" is needed for ")
	b.WriteString(c.Tag)
	b.WriteString(" as pin ")
	b.WriteString(string(c.Type))
	b.WriteString(". Already used as ")
	b.WriteString(string(c.Existing))
	b.WriteString(".")
	return b.String()
}

// pinTable holds reservations for one pass. Reserving a pin twice with the
// same type is allowed (two blocks sharing a sensor pin); a type change is a
// conflict. The first owner stays recorded either way.
type pinTable struct {
	order     []string
	owners    map[string]PinAssignment
	conflicts []PinConflict
}

func newPinTable() pinTable {
	return pinTable{owners: make(map[string]PinAssignment)}
}

func (t *pinTable) reserve(owner, pin string, typ PinType, tag string) (PinConflict, bool) {
	cur, inUse := t.owners[pin]
	if !inUse {
		t.owners[pin] = PinAssignment{Pin: pin, Type: typ, Owner: owner, Tag: tag}
		t.order = append(t.order, pin)
		return PinConflict{}, false
	}
	if cur.Type == typ {
		return PinConflict{}, false
	}
	c := PinConflict{
		Pin:           pin,
		Tag:           tag,
		Type:          typ,
		Existing:      cur.Type,
		Owner:         owner,
		ExistingOwner: cur.Owner,
		ExistingTag:   cur.Tag,
	}
	t.conflicts = append(t.conflicts, c)
	return c, true
}

func (t *pinTable) assignments() []PinAssignment {
	out := make([]PinAssignment, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.owners[p])
	}
	return out
}
