package codegen

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"roboblocks-go/errcode"
	"roboblocks-go/types"
)

// LoadWorkspace reads a workspace document from path.
func LoadWorkspace(path string) (*types.Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errcode.Wrap(errcode.IOError, "load_workspace", path, err)
	}
	return ParseWorkspace(data)
}

// ParseWorkspace decodes a YAML or JSON workspace. JSON is recognised by a
// leading '{'. Unknown keys and content after the first document are
// rejected; a document without content is an empty workspace.
func ParseWorkspace(data []byte) (*types.Workspace, error) {
	var ws types.Workspace
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ws); err != nil {
			return nil, errcode.Wrap(errcode.InvalidWorkspace, "parse_workspace", "json", err)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, errcode.Wrap(errcode.InvalidWorkspace, "parse_workspace", "json: trailing content", err)
		}
		return &ws, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ws); err != nil {
		if errors.Is(err, io.EOF) {
			return &types.Workspace{}, nil
		}
		return nil, errcode.Wrap(errcode.InvalidWorkspace, "parse_workspace", "yaml", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errcode.Wrap(errcode.InvalidWorkspace, "parse_workspace", "yaml: more than one document", err)
	}
	return &ws, nil
}
