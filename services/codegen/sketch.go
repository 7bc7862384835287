package codegen

import (
	"os"
	"path/filepath"

	"roboblocks-go/errcode"
	"roboblocks-go/services/codegen/config"
)

// WriteSketch stores code as <dir>/<name>/<name>.ino, the layout the
// Arduino IDE expects, and returns the file path.
func WriteSketch(dir, name, code string) (string, error) {
	if name == "" || !config.ValidSketchName(name) {
		return "", errcode.Wrap(errcode.InvalidSketchName, "write_sketch", name, nil)
	}
	folder := filepath.Join(dir, name)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", errcode.Wrap(errcode.IOError, "write_sketch", folder, err)
	}
	path := filepath.Join(folder, name+".ino")
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", errcode.Wrap(errcode.IOError, "write_sketch", path, err)
	}
	return path, nil
}
