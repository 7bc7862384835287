package core

import (
	"regexp"
	"strings"

	"roboblocks-go/services/codegen/internal/boards"
)

// FuncName is replaced by the allocated identifier when a helper function is
// registered through AddFunction.
const FuncName = "%FUNC_NAME%"

// Indent is the per-level indentation of emitted code.
const Indent = "  "

// bucket is an insertion-ordered set of keyed fragments.
type bucket struct {
	keys []string
	text map[string]string
}

func newBucket() bucket { return bucket{text: make(map[string]string)} }

func (b *bucket) add(key, code string, overwrite bool) bool {
	_, exists := b.text[key]
	if exists && !overwrite {
		return false
	}
	if !exists {
		b.keys = append(b.keys, key)
	}
	b.text[key] = code
	return true
}

func (b *bucket) values() []string {
	out := make([]string, 0, len(b.keys))
	for _, k := range b.keys {
		out = append(out, b.text[k])
	}
	return out
}

// Pass is the fragment registry and pin table of one generation run.
// A Pass is not safe for concurrent use and must not be reused.
type Pass struct {
	board boards.Board

	includes     bucket
	variables    bucket
	declarations bucket
	functions    bucket
	setups       bucket

	funcNames map[string]string
	names     nameDB
	pins      pinTable
}

func NewPass(board boards.Board) *Pass {
	return &Pass{
		board:        board,
		includes:     newBucket(),
		variables:    newBucket(),
		declarations: newBucket(),
		functions:    newBucket(),
		setups:       newBucket(),
		funcNames:    make(map[string]string),
		names:        newNameDB(),
		pins:         newPinTable(),
	}
}

func (p *Pass) Board() boards.Board { return p.board }

// AddInclude registers an #include block once per key.
func (p *Pass) AddInclude(key, code string) bool {
	return p.includes.add(key, code, false)
}

// AddDeclaration registers a global declaration once per key.
func (p *Pass) AddDeclaration(key, code string) bool {
	return p.declarations.add(key, code, false)
}

// AddVariable registers a global variable. With overwrite, an existing entry
// is replaced in place.
func (p *Pass) AddVariable(key, code string, overwrite bool) bool {
	return p.variables.add(key, code, overwrite)
}

// AddSetup registers a setup() statement group. With overwrite, an existing
// entry is replaced in place. Reports whether anything was written.
func (p *Pass) AddSetup(key, code string, overwrite bool) bool {
	return p.setups.add(key, code, overwrite)
}

// AddFunction registers a helper function under preferredName and returns
// the identifier the helper is emitted with. Only the first registration
// for a name is kept.
func (p *Pass) AddFunction(preferredName, code string) string {
	if name, ok := p.funcNames[preferredName]; ok {
		return name
	}
	name := p.names.distinct(preferredName)
	p.functions.add(preferredName, strings.ReplaceAll(code, FuncName, name), false)
	p.funcNames[preferredName] = name
	return name
}

// ReservePin records that owner uses pin as typ. A conflicting earlier
// reservation is reported back; generation carries on regardless.
func (p *Pass) ReservePin(owner, pin string, typ PinType, tag string) (PinConflict, bool) {
	return p.pins.reserve(owner, pin, typ, tag)
}

func (p *Pass) Pins() []PinAssignment { return p.pins.assignments() }

func (p *Pass) Conflicts() []PinConflict {
	return append([]PinConflict(nil), p.pins.conflicts...)
}

var (
	leadingBlank  = regexp.MustCompile(`^\s+\n`)
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
)

// Finish assembles the sketch: includes, variables, declarations and helper
// functions, then setup() with every registered fragment followed by the
// user setup code, then loop(). userSetup and loop are unindented statement
// code as produced by statement generators.
func (p *Pass) Finish(userSetup, loop string) string {
	var b strings.Builder

	group := func(items []string, sep string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(strings.Join(append(items, "\n"), sep))
	}
	group(p.includes.values(), "\n")
	group(p.variables.values(), "\n")
	group(p.declarations.values(), "\n")
	group(p.functions.values(), "\n\n")

	setups := append([]string{""}, p.setups.values()...)
	if s := strings.TrimRight(userSetup, "\n"); s != "" {
		setups = append(setups, "\n"+prefixLines(s, Indent))
	}
	b.WriteString("void setup() {")
	b.WriteString(strings.Join(setups, "\n"+Indent))
	b.WriteString("\n}\n\n")

	b.WriteString("void loop() {\n" + Indent)
	b.WriteString(strings.ReplaceAll(strings.TrimRight(loop, "\n"), "\n", "\n"+Indent))
	b.WriteString("\n}")

	out := leadingBlank.ReplaceAllString(b.String(), "")
	out = trailingSpace.ReplaceAllString(out, "\n")
	return out + "\n"
}

// prefixLines indents every line of code.
func prefixLines(code, prefix string) string {
	return prefix + strings.ReplaceAll(code, "\n", "\n"+prefix)
}
