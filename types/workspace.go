package types

import "github.com/google/uuid"

// Workspace is the document a generation pass consumes.
// Setup blocks run at the end of setup(); Loop blocks form loop().
type Workspace struct {
	Board string  `json:"board,omitempty" yaml:"board,omitempty"`
	Setup []Block `json:"setup,omitempty" yaml:"setup,omitempty"`
	Loop  []Block `json:"loop,omitempty" yaml:"loop,omitempty"`
}

// Block is one placed block. Inputs holds the blocks plugged into value
// inputs, keyed by input name.
type Block struct {
	ID     string            `json:"id,omitempty" yaml:"id,omitempty"`
	Type   string            `json:"type" yaml:"type"`
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Inputs map[string]*Block `json:"inputs,omitempty" yaml:"inputs,omitempty"`
}

// Normalize assigns an ID to every block that lacks one, nested inputs
// included. IDs identify pin owners and never reach the emitted text.
func (w *Workspace) Normalize() {
	for i := range w.Setup {
		w.Setup[i].normalize()
	}
	for i := range w.Loop {
		w.Loop[i].normalize()
	}
}

func (b *Block) normalize() {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	for _, in := range b.Inputs {
		if in != nil {
			in.normalize()
		}
	}
}
