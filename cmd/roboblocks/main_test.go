package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"roboblocks-go/errcode"
	"roboblocks-go/services/codegen"
)

const sonarWorkspace = `loop:
  - type: bluetooth_send_string
    inputs:
      DATA:
        type: text
        fields: {TEXT: ping}
  - type: ultrasonic_read
    fields: {TRIG_PIN: "7", ECHO_PIN: "8"}
`

// env is a scratch directory holding the settings file and a workspace.
type env struct {
	dir       string
	settings  string
	workspace string
}

func newEnv(t *testing.T, workspace string) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	t.Setenv("ARDUINO_IDE_PATH", "")
	e := env{
		dir:       dir,
		settings:  filepath.Join(dir, "settings.ini"),
		workspace: filepath.Join(dir, "robot.yaml"),
	}
	require.NoError(t, os.WriteFile(e.workspace, []byte(workspace), 0o644))
	return e
}

func execute(ctx context.Context, e env, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&cli{log: zap.NewNop()})
	root.SetArgs(append([]string{"--settings", e.settings}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestGenerateWritesSketch(t *testing.T) {
	e := newEnv(t, sonarWorkspace)
	out := filepath.Join(e.dir, "out")

	stdout, _, err := execute(context.Background(), e, "generate", e.workspace, "--out", out, "--name", "sonar")
	require.NoError(t, err)

	want := filepath.Join(out, "sonar", "sonar.ino")
	assert.Equal(t, want+"\n", stdout)
	code, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(code), "long readUltrasonicDistance(int trigPin, int echoPin) {")
	assert.Contains(t, string(code), `BTSerial.print("ping");`)
}

func TestGenerateUsesSettings(t *testing.T) {
	e := newEnv(t, sonarWorkspace)
	sketches := filepath.Join(e.dir, "sketches")
	require.NoError(t, os.Mkdir(sketches, 0o755))

	_, _, err := execute(context.Background(), e, "settings", "set", "sketch_directory", sketches)
	require.NoError(t, err)
	_, _, err = execute(context.Background(), e, "settings", "set", "sketch_name", "robot")
	require.NoError(t, err)

	_, _, err = execute(context.Background(), e, "generate", e.workspace)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(sketches, "robot", "robot.ino"))
}

func TestGenerateStdoutAndBoard(t *testing.T) {
	e := newEnv(t, "loop:\n  - type: sound_sensor_read\n    fields: {PIN: A12}\n")

	_, _, err := execute(context.Background(), e, "generate", e.workspace, "--stdout")
	assert.Equal(t, errcode.UnknownPin, errcode.Of(err), "the default board has no A12")

	stdout, _, err := execute(context.Background(), e, "--board", "mega", "generate", e.workspace, "--stdout")
	require.NoError(t, err)
	assert.Equal(t, "void setup() {\n}\n\nvoid loop() {\n  analogRead(A12);\n}\n", stdout)
}

func TestGenerateConflicts(t *testing.T) {
	ws := "setup:\n  - type: motor_setup\n    fields: {IN1: \"8\", IN2: \"4\", EN: \"5\"}\n" + sonarWorkspace
	e := newEnv(t, ws)
	out := filepath.Join(e.dir, "out")

	_, stderr, err := execute(context.Background(), e, "generate", e.workspace, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning: Pin 8 is needed for Ultrasonic Echo as pin INPUT. Already used as OUTPUT.")

	_, _, err = execute(context.Background(), e, "generate", e.workspace, "--out", out, "--strict-pins")
	assert.Equal(t, errcode.PinConflict, errcode.Of(err))
}

func TestGenerateBadWorkspace(t *testing.T) {
	e := newEnv(t, "loop:\n  - type: servo_write\n")
	_, _, err := execute(context.Background(), e, "generate", e.workspace, "--stdout")
	assert.Equal(t, errcode.UnknownBlock, errcode.Of(err))

	_, _, err = execute(context.Background(), e, "generate", filepath.Join(e.dir, "missing.yaml"))
	assert.Equal(t, errcode.IOError, errcode.Of(err))
}

func TestBlocksCommand(t *testing.T) {
	e := newEnv(t, "")
	stdout, _, err := execute(context.Background(), e, "--board", "mega", "blocks")
	require.NoError(t, err)

	var infos []codegen.BlockInfo
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &infos))
	var found bool
	for _, b := range infos {
		if b.Type != "sound_sensor_read" {
			continue
		}
		found = true
		assert.Equal(t, []string{"voltage"}, b.Measures)
		require.Len(t, b.Fields, 1)
		assert.Len(t, b.Fields[0].Options, 16)
	}
	assert.True(t, found)

	_, _, err = execute(context.Background(), e, "--board", "teensy", "blocks")
	assert.Equal(t, errcode.UnknownBoard, errcode.Of(err))
}

func TestBoardsCommand(t *testing.T) {
	e := newEnv(t, "")
	stdout, _, err := execute(context.Background(), e, "boards")
	require.NoError(t, err)
	assert.Contains(t, stdout, "key: esp32")
	assert.Contains(t, stdout, "fqbn: arduino:avr:uno")
}

func TestSettingsCommands(t *testing.T) {
	e := newEnv(t, "")

	_, _, err := execute(context.Background(), e, "settings", "set", "arduino_board", "Mega")
	require.NoError(t, err)
	_, _, err = execute(context.Background(), e, "settings", "set", "ide_load", "flash")
	assert.Equal(t, errcode.InvalidSettings, errcode.Of(err))

	stdout, _, err := execute(context.Background(), e, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "arduino_board = Mega\n")
	assert.Contains(t, stdout, "ide_load = open\n")
	assert.Contains(t, stdout, "# board fqbn: arduino:avr:mega\n")

	stdout, _, err = execute(context.Background(), e, "settings", "load-options")
	require.NoError(t, err)
	assert.Equal(t, "open    Open sketch in IDE\nupload  Compile and Upload sketch\nverify  Verify sketch\n", stdout)
}
