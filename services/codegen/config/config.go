// Package config persists the compiler settings shared by the CLI commands:
// target board, serial port, sketch location and the IDE load action.
//
// The file is an INI document with three sections:
//
//	[Arduino_IDE]     arduino_exec_path, arduino_board, arduino_serial_port
//	[Arduino_Sketch]  sketch_name, sketch_directory
//	[Ardublockly]     ide_load
//
// Values read from the file are checked one by one; an invalid value falls
// back to that setting's default. A file missing any key is replaced by
// defaults for everything. The file is rewritten after every load and
// every successful change.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-ini/ini"
	"go.uber.org/zap"

	"roboblocks-go/errcode"
	"roboblocks-go/services/codegen/internal/boards"
)

// FileName is the settings file name inside the settings directory.
const FileName = "ServerCompilerSettings.ini"

const (
	secIDE         = "Arduino_IDE"
	secSketch      = "Arduino_Sketch"
	secArdublockly = "Ardublockly"

	keyCompiler   = "arduino_exec_path"
	keyBoard      = "arduino_board"
	keySerialPort = "arduino_serial_port"
	keySketchName = "sketch_name"
	keySketchDir  = "sketch_directory"
	keyLoadIDE    = "ide_load"
)

const (
	DefaultSketchName = "ArdublocklySketch"
	compilerEnv       = "ARDUINO_IDE_PATH"
)

// ideLoadOptions maps each load action to its description. The default is
// the first key in sorted order.
var ideLoadOptions = map[string]string{
	"open":   "Open sketch in IDE",
	"verify": "Verify sketch",
	"upload": "Compile and Upload sketch",
}

var sketchNameRe = regexp.MustCompile(`^[\w-]*$`)

type Option func(*Settings)

func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.log = l
		}
	}
}

// Settings is the in-memory view of the settings file.
type Settings struct {
	path string
	log  *zap.Logger

	compiler   string
	board      string
	serialPort string
	sketchName string
	sketchDir  string
	loadIDE    string
}

// Open loads path, repairing invalid or missing values, and saves the
// result back.
func Open(path string, opts ...Option) (*Settings, error) {
	s := &Settings{path: path, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}

	if vals, ok := s.readFile(); ok {
		s.compilerFromFile(vals[keyCompiler])
		s.boardFromFile(vals[keyBoard])
		s.serialPort = vals[keySerialPort]
		s.sketchNameFromFile(vals[keySketchName])
		s.sketchDirFromFile(vals[keySketchDir])
		s.loadIDEFromFile(vals[keyLoadIDE])
	} else {
		s.setDefaults()
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Path() string         { return s.path }
func (s *Settings) CompilerPath() string { return s.compiler }
func (s *Settings) Board() string        { return s.board }
func (s *Settings) SerialPort() string   { return s.serialPort }
func (s *Settings) SketchName() string   { return s.sketchName }
func (s *Settings) SketchDir() string    { return s.sketchDir }
func (s *Settings) LoadIDE() string      { return s.loadIDE }

// BoardFQBN returns the Arduino FQBN of the selected board.
func (s *Settings) BoardFQBN() string {
	t, _ := boards.TargetByName(s.board)
	return t.FQBN
}

// LoadOptions returns the accepted ide_load values and their descriptions.
func LoadOptions() map[string]string {
	out := make(map[string]string, len(ideLoadOptions))
	for k, v := range ideLoadOptions {
		out[k] = v
	}
	return out
}

// ValidSketchName reports whether name can be used as a sketch name.
func ValidSketchName(name string) bool { return sketchNameRe.MatchString(name) }

// ---- setters ----

func (s *Settings) SetBoard(name string) error {
	if _, ok := boards.TargetByName(name); ok {
		s.board = name
		return s.save()
	}
	return s.reject(keyBoard, name, &s.board, defaultBoard)
}

func (s *Settings) SetSketchName(name string) error {
	if ValidSketchName(name) {
		s.sketchName = name
		return s.save()
	}
	return s.reject(keySketchName, name, &s.sketchName, func(*Settings) string { return DefaultSketchName })
}

func (s *Settings) SetSketchDir(dir string) error {
	if isDir(dir) {
		s.sketchDir = dir
		return s.save()
	}
	return s.reject(keySketchDir, dir, &s.sketchDir, (*Settings).defaultSketchDir)
}

func (s *Settings) SetCompilerPath(path string) error {
	if isFile(path) {
		s.compiler = path
		return s.save()
	}
	return s.reject(keyCompiler, path, &s.compiler, func(*Settings) string { return defaultCompiler() })
}

func (s *Settings) SetLoadIDE(opt string) error {
	if _, ok := ideLoadOptions[opt]; ok {
		s.loadIDE = opt
		return s.save()
	}
	return s.reject(keyLoadIDE, opt, &s.loadIDE, func(*Settings) string { return defaultLoadIDE() })
}

// SetSerialPort stores the port as given; ports are not enumerated.
func (s *Settings) SetSerialPort(port string) error {
	s.serialPort = port
	return s.save()
}

// reject handles an invalid value: a previous valid value is kept, an unset
// one gets its default.
func (s *Settings) reject(key, value string, cur *string, def func(*Settings) string) error {
	s.log.Warn("invalid setting", zap.String("key", key), zap.String("value", value))
	if *cur == "" {
		*cur = def(s)
		if err := s.save(); err != nil {
			return err
		}
	}
	return errcode.Wrap(errcode.InvalidSettings, "settings", key+"="+value, nil)
}

// Keys lists the setting names accepted by Set, in file order.
func Keys() []string {
	return []string{keyCompiler, keyBoard, keySerialPort, keySketchName, keySketchDir, keyLoadIDE}
}

// Set changes one setting by its file key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case keyCompiler:
		return s.SetCompilerPath(value)
	case keyBoard:
		return s.SetBoard(value)
	case keySerialPort:
		return s.SetSerialPort(value)
	case keySketchName:
		return s.SetSketchName(value)
	case keySketchDir:
		return s.SetSketchDir(value)
	case keyLoadIDE:
		return s.SetLoadIDE(value)
	}
	return errcode.Wrap(errcode.InvalidSettings, "settings", "unknown key "+key, nil)
}

// Values returns every setting keyed as in the file.
func (s *Settings) Values() map[string]string {
	return map[string]string{
		keyCompiler:   s.compiler,
		keyBoard:      s.board,
		keySerialPort: s.serialPort,
		keySketchName: s.sketchName,
		keySketchDir:  s.sketchDir,
		keyLoadIDE:    s.loadIDE,
	}
}

// Delete removes the settings file. It reports whether a file was removed.
func (s *Settings) Delete() (bool, error) {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errcode.Wrap(errcode.IOError, "settings", s.path, err)
	}
	return true, nil
}

// ---- defaults and file values ----

func (s *Settings) setDefaults() {
	s.loadIDE = defaultLoadIDE()
	s.compiler = defaultCompiler()
	s.sketchDir = s.defaultSketchDir()
	s.sketchName = DefaultSketchName
	s.serialPort = ""
	s.board = defaultBoard(s)
}

func defaultBoard(*Settings) string { return boards.Targets()[0].Name }

func defaultLoadIDE() string {
	best := ""
	for k := range ideLoadOptions {
		if best == "" || k < best {
			best = k
		}
	}
	return best
}

// defaultCompiler points at the IDE bundled next to the application.
func defaultCompiler() string {
	root := os.Getenv(compilerEnv)
	if root == "" {
		return ""
	}
	p := filepath.Join(root, "arduino")
	if !isFile(p) {
		return ""
	}
	return p
}

// defaultSketchDir prefers an existing ArdublocklySketch or sketch folder
// beside the settings file, then a fresh temporary directory.
func (s *Settings) defaultSketchDir() string {
	base := filepath.Dir(s.path)
	for _, name := range []string{"ArdublocklySketch", "sketch"} {
		if p := filepath.Join(base, name); isDir(p) {
			return p
		}
	}
	dir, err := os.MkdirTemp("", "ardublockly_sketch_")
	if err != nil {
		s.log.Warn("no sketch directory available", zap.Error(err))
		return ""
	}
	return dir
}

func (s *Settings) compilerFromFile(v string) {
	if v != "" && exists(v) {
		s.compiler = v
		return
	}
	s.compiler = defaultCompiler()
}

func (s *Settings) boardFromFile(v string) {
	if _, ok := boards.TargetByName(v); ok {
		s.board = v
		return
	}
	s.board = defaultBoard(s)
}

func (s *Settings) sketchNameFromFile(v string) {
	if ValidSketchName(v) {
		s.sketchName = v
		return
	}
	s.sketchName = DefaultSketchName
}

func (s *Settings) sketchDirFromFile(v string) {
	if isDir(v) {
		s.sketchDir = v
		return
	}
	s.sketchDir = s.defaultSketchDir()
}

func (s *Settings) loadIDEFromFile(v string) {
	if _, ok := ideLoadOptions[v]; ok {
		s.loadIDE = v
		return
	}
	s.loadIDE = defaultLoadIDE()
}

// ---- file I/O ----

var layout = []struct{ section, key string }{
	{secIDE, keyCompiler},
	{secIDE, keyBoard},
	{secIDE, keySerialPort},
	{secSketch, keySketchName},
	{secSketch, keySketchDir},
	{secArdublockly, keyLoadIDE},
}

// readFile returns every key of the file, or false when the file is
// unreadable or any key is missing.
func (s *Settings) readFile() (map[string]string, bool) {
	f, err := ini.Load(s.path)
	if err != nil {
		s.log.Debug("settings file not loaded", zap.String("path", s.path), zap.Error(err))
		return nil, false
	}
	vals := make(map[string]string, len(layout))
	for _, l := range layout {
		sec, err := f.GetSection(l.section)
		if err != nil || !sec.HasKey(l.key) {
			s.log.Info("settings file incomplete, using defaults",
				zap.String("section", l.section), zap.String("key", l.key))
			return nil, false
		}
		vals[l.key] = sec.Key(l.key).Value()
	}
	return vals, true
}

func (s *Settings) save() error {
	f := ini.Empty()
	vals := s.Values()
	for _, l := range layout {
		f.Section(l.section).Key(l.key).SetValue(vals[l.key])
	}
	if err := f.SaveTo(s.path); err != nil {
		s.log.Error("unable to write settings", zap.String("path", s.path), zap.Error(err))
		return errcode.Wrap(errcode.IOError, "settings", s.path, err)
	}
	s.log.Debug("settings saved", zap.String("path", s.path))
	return nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
