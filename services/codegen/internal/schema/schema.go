// Package schema checks workspace documents against the embedded CUE
// definitions before any block is generated. Only the document shape is
// checked; block-level rules live with the block table.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"roboblocks-go/errcode"
	"roboblocks-go/types"
)

//go:embed workspace.cue
var workspaceCUE []byte

// Validator holds the compiled schema. It is not safe for concurrent use.
type Validator struct {
	ctx *cue.Context
	def cue.Value
}

func New() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(workspaceCUE, cue.Filename("workspace.cue"))
	if err := schema.Err(); err != nil {
		return nil, errcode.Wrap(errcode.Error, "schema", "compile", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Workspace"))
	if err := def.Err(); err != nil {
		return nil, errcode.Wrap(errcode.Error, "schema", "lookup #Workspace", err)
	}
	return &Validator{ctx: ctx, def: def}, nil
}

// Validate unifies the JSON form of ws with #Workspace.
func (v *Validator) Validate(ws *types.Workspace) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return errcode.Wrap(errcode.InvalidWorkspace, "schema", "marshal", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks a raw JSON document.
func (v *Validator) ValidateJSON(data []byte) error {
	doc := v.ctx.CompileBytes(data)
	if err := doc.Err(); err != nil {
		return errcode.Wrap(errcode.InvalidWorkspace, "schema", "parse", err)
	}
	if err := v.def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return errcode.Wrap(errcode.InvalidWorkspace, "schema", firstError(err), err)
	}
	return nil
}

// firstError renders the leading CUE error with its path.
func firstError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	e := errs[0]
	format, args := e.Msg()
	msg := fmt.Sprintf(format, args...)
	if p := e.Path(); len(p) > 0 {
		msg = strings.Join(p, ".") + ": " + msg
	}
	return msg
}
