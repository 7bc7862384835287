package core

import (
	"fmt"
	"sort"
	"sync"

	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/types"

	"tinygo.org/x/drivers"
)

// ModuleHue is the colour shared by every hardware-module block.
const ModuleHue = 180

// FieldKind selects the editor widget of a field.
type FieldKind uint8

const (
	FieldDropdown FieldKind = iota
	FieldText
)

// Field is one editable field of a block. A dropdown is populated either
// from a board pin list (Source) or from static Options.
type Field struct {
	Name    string
	Label   string
	Kind    FieldKind
	Source  boards.PinSource // pin dropdowns only
	Options [][2]string      // {display, value}
	Default string
}

// IsPin reports whether the field is populated from a board pin list.
func (f Field) IsPin() bool { return f.Kind == FieldDropdown && f.Source != "" }

// Input is a value input socket.
type Input struct {
	Name  string
	Label string
	Check types.Kind
}

// ExprFunc generates an expression and its precedence.
type ExprFunc func(g *Gen) (string, Order, error)

// StmtFunc generates statement code; every line ends with a newline.
type StmtFunc func(g *Gen) (string, error)

// Definition is one entry of the block table: the editor layout plus the
// generator. Exactly one of Expr and Stmt is set; Output is set with Expr.
type Definition struct {
	Type     string
	Title    string
	Fields   []Field
	Inputs   []Input
	Output   types.Kind
	Tooltip  string
	HelpURL  string
	Hue      int
	Measures drivers.Measurement

	Expr ExprFunc
	Stmt StmtFunc
}

// Statement reports whether the block chains as a statement.
func (d *Definition) Statement() bool { return d.Stmt != nil }

func (d *Definition) field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (d *Definition) input(name string) (Input, bool) {
	for _, in := range d.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Options returns the dropdown entries of field for board as {display,
// value} pairs. Pin dropdowns show the pin name for both.
func (d *Definition) Options(board boards.Board, field string) [][2]string {
	f, ok := d.field(field)
	if !ok || f.Kind != FieldDropdown {
		return nil
	}
	if !f.IsPin() {
		return f.Options
	}
	pins := board.Pins(f.Source)
	out := make([][2]string, 0, len(pins))
	for _, p := range pins {
		out = append(out, [2]string{p, p})
	}
	return out
}

var (
	regMu  sync.RWMutex
	blocks = map[string]*Definition{}
)

// RegisterBlock installs a block definition. It panics on malformed or
// duplicate registration to catch mistakes at start-up.
func RegisterBlock(def Definition) {
	regMu.Lock()
	defer regMu.Unlock()
	if def.Type == "" {
		panic("codegen: empty block type")
	}
	if (def.Expr == nil) == (def.Stmt == nil) {
		panic(fmt.Sprintf("codegen: block %q needs exactly one of Expr or Stmt", def.Type))
	}
	if def.Expr != nil && !def.Output.Valid() {
		panic(fmt.Sprintf("codegen: expression block %q has no output kind", def.Type))
	}
	if _, exists := blocks[def.Type]; exists {
		panic(fmt.Sprintf("codegen: block already registered for type %q", def.Type))
	}
	blocks[def.Type] = &def
}

// LookupBlock finds a registered block by type.
func LookupBlock(typ string) (*Definition, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	d, ok := blocks[typ]
	return d, ok
}

// Blocks lists all registered definitions sorted by type.
func Blocks() []*Definition {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]*Definition, 0, len(blocks))
	for _, d := range blocks {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
