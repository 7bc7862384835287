package core

import (
	"context"
	"strings"

	"roboblocks-go/errcode"
	"roboblocks-go/types"
)

// Gen is what a generator sees of the pass while generating one block.
type Gen struct {
	pass   *Pass
	def    *Definition
	block  *types.Block
	fields map[string]string
}

func (g *Gen) Type() string { return g.def.Type }

// Field returns the validated value of a field.
func (g *Gen) Field(name string) string { return g.fields[name] }

// ValueToCode generates the block plugged into input name, parenthesised
// for a context of precedence outer. An empty input yields "".
func (g *Gen) ValueToCode(name string, outer Order) (string, error) {
	child := g.block.Inputs[name]
	if child == nil {
		return "", nil
	}
	code, inner, err := g.pass.Expr(child)
	if err != nil {
		return "", err
	}
	return Parenthesize(code, inner, outer), nil
}

// ValueOr is ValueToCode with a fallback for an empty input.
func (g *Gen) ValueOr(name string, outer Order, fallback string) (string, error) {
	code, err := g.ValueToCode(name, outer)
	if err != nil || code != "" {
		return code, err
	}
	return fallback, nil
}

func (g *Gen) ReservePin(pin string, typ PinType, tag string) {
	g.pass.ReservePin(g.block.ID, pin, typ, tag)
}

func (g *Gen) AddInclude(key, code string) bool     { return g.pass.AddInclude(key, code) }
func (g *Gen) AddDeclaration(key, code string) bool { return g.pass.AddDeclaration(key, code) }
func (g *Gen) AddSetup(key, code string, overwrite bool) bool {
	return g.pass.AddSetup(key, code, overwrite)
}
func (g *Gen) AddFunction(preferredName, code string) string {
	return g.pass.AddFunction(preferredName, code)
}

// Expr generates a value block.
func (p *Pass) Expr(b *types.Block) (string, Order, error) {
	def, ok := LookupBlock(b.Type)
	if !ok {
		return "", OrderNone, errcode.Wrap(errcode.UnknownBlock, "generate", b.Type, nil)
	}
	if def.Expr == nil {
		return "", OrderNone, errcode.Wrap(errcode.TypeMismatch, def.Type, "statement block used as a value", nil)
	}
	g, err := p.bind(def, b)
	if err != nil {
		return "", OrderNone, err
	}
	return def.Expr(g)
}

// Stmt generates one statement. A value block at statement level becomes an
// expression statement.
func (p *Pass) Stmt(b *types.Block) (string, error) {
	def, ok := LookupBlock(b.Type)
	if !ok {
		return "", errcode.Wrap(errcode.UnknownBlock, "generate", b.Type, nil)
	}
	g, err := p.bind(def, b)
	if err != nil {
		return "", err
	}
	if def.Stmt != nil {
		return def.Stmt(g)
	}
	code, _, err := def.Expr(g)
	if err != nil || code == "" {
		return "", err
	}
	return code + ";\n", nil
}

// bind validates the block against its definition and resolves fields.
// Pin values must be offered by the pass board and other dropdown values
// must be among their options; that is the only validation fields get.
func (p *Pass) bind(def *Definition, b *types.Block) (*Gen, error) {
	for name := range b.Fields {
		if _, ok := def.field(name); !ok {
			return nil, errcode.Wrap(errcode.UnknownField, def.Type, name, nil)
		}
	}

	fields := make(map[string]string, len(def.Fields))
	for _, f := range def.Fields {
		v, ok := b.Fields[f.Name]
		if !ok {
			// A text field may default to empty; a dropdown may not.
			if f.Kind == FieldDropdown && f.Default == "" {
				return nil, errcode.Wrap(errcode.MissingField, def.Type, f.Name, nil)
			}
			v = f.Default
		}
		switch {
		case f.IsPin():
			if !p.board.HasPin(f.Source, v) {
				return nil, errcode.Wrap(errcode.UnknownPin, def.Type, f.Name+"="+v, nil)
			}
		case f.Kind == FieldDropdown:
			if !hasOption(f.Options, v) {
				return nil, errcode.Wrap(errcode.InvalidField, def.Type, f.Name+"="+v, nil)
			}
		}
		fields[f.Name] = v
	}

	for name, child := range b.Inputs {
		in, ok := def.input(name)
		if !ok {
			return nil, errcode.Wrap(errcode.UnknownInput, def.Type, name, nil)
		}
		if child == nil {
			continue
		}
		cdef, ok := LookupBlock(child.Type)
		if !ok {
			return nil, errcode.Wrap(errcode.UnknownBlock, def.Type, child.Type, nil)
		}
		if cdef.Expr == nil || !in.Check.Accepts(cdef.Output) {
			return nil, errcode.Wrap(errcode.TypeMismatch, def.Type, name+" <- "+child.Type, nil)
		}
	}

	return &Gen{pass: p, def: def, block: b, fields: fields}, nil
}

func hasOption(opts [][2]string, v string) bool {
	for _, o := range opts {
		if o[1] == v {
			return true
		}
	}
	return false
}

// Statements generates a chain of statements in order. A cancelled ctx
// stops the chain before the next block.
func (p *Pass) Statements(ctx context.Context, list []types.Block) (string, error) {
	var b strings.Builder
	for i := range list {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		s, err := p.Stmt(&list[i])
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// Sketch generates both chains and assembles the program.
func (p *Pass) Sketch(ctx context.Context, setup, loop []types.Block) (string, error) {
	userSetup, err := p.Statements(ctx, setup)
	if err != nil {
		return "", err
	}
	loopCode, err := p.Statements(ctx, loop)
	if err != nil {
		return "", err
	}
	return p.Finish(userSetup, loopCode), nil
}
