package codegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roboblocks-go/bus"
	"roboblocks-go/errcode"
	"roboblocks-go/types"
)

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func conflicting() *types.Workspace {
	return &types.Workspace{
		Setup: []types.Block{{
			ID:     "motor",
			Type:   "motor_setup",
			Fields: map[string]string{"MOTOR_NAME": "M", "IN1": "7", "IN2": "8", "EN": "9"},
		}},
		Loop: []types.Block{{
			ID:     "sonar",
			Type:   "ultrasonic_read",
			Fields: map[string]string{"TRIG_PIN": "7", "ECHO_PIN": "8"},
		}},
	}
}

func TestGenerateRobot(t *testing.T) {
	ws, err := LoadWorkspace(filepath.Join("testdata", "robot.yaml"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "robot.ino"))
	require.NoError(t, err)

	res, err := newService(t).Generate(context.Background(), ws)
	require.NoError(t, err)

	if diff := cmp.Diff(string(want), res.Code); diff != "" {
		t.Fatalf("sketch mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "uno", res.Board)
	assert.Len(t, res.Pins, 6)
	assert.Empty(t, res.Conflicts)
	for _, b := range ws.Setup {
		assert.NotEmpty(t, b.ID, "blocks get IDs")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	s := newService(t)
	var first string
	for i := 0; i < 10; i++ {
		ws, err := LoadWorkspace(filepath.Join("testdata", "robot.yaml"))
		require.NoError(t, err)
		res, err := s.Generate(context.Background(), ws)
		require.NoError(t, err)
		if i == 0 {
			first = res.Code
			continue
		}
		require.Equal(t, first, res.Code)
	}
}

func TestConflictsAreReported(t *testing.T) {
	res, err := newService(t).Generate(context.Background(), conflicting())
	require.NoError(t, err)
	require.Len(t, res.Conflicts, 1)

	c := res.Conflicts[0]
	assert.Equal(t, "Pin 8 is needed for Ultrasonic Echo as pin INPUT. Already used as OUTPUT.", c.Message())
	assert.Equal(t, "sonar", c.Owner)
	assert.Equal(t, "motor", c.ExistingOwner)
	assert.Contains(t, res.Code, "readUltrasonicDistance(7, 8);")
}

func TestStrictPins(t *testing.T) {
	res, err := newService(t, WithStrictPins(true)).Generate(context.Background(), conflicting())
	assert.Equal(t, errcode.PinConflict, errcode.Of(err))
	require.NotNil(t, res)
	assert.Len(t, res.Conflicts, 1)
}

func TestBoardSelection(t *testing.T) {
	s := newService(t, WithBoard("nano"))
	ws := &types.Workspace{Loop: []types.Block{{Type: "sound_sensor_read", Fields: map[string]string{"PIN": "A7"}}}}
	res, err := s.Generate(context.Background(), ws)
	require.NoError(t, err)
	assert.Equal(t, "nano", res.Board)

	ws.Board = "Uno"
	_, err = s.Generate(context.Background(), ws)
	assert.Equal(t, errcode.UnknownPin, errcode.Of(err), "Uno has no A7")

	ws.Board = "teensy"
	_, err = s.Generate(context.Background(), ws)
	assert.Equal(t, errcode.UnknownBoard, errcode.Of(err))

	_, err = New(WithBoard("teensy"))
	assert.Equal(t, errcode.UnknownBoard, errcode.Of(err))
}

func TestGenerateErrors(t *testing.T) {
	s := newService(t)
	cases := []struct {
		name string
		ws   *types.Workspace
		want errcode.Code
	}{
		{"schema", &types.Workspace{Loop: []types.Block{{Type: "not a type"}}}, errcode.InvalidWorkspace},
		{"unknown block", &types.Workspace{Loop: []types.Block{{Type: "servo_write"}}}, errcode.UnknownBlock},
		{"unknown field", &types.Workspace{Loop: []types.Block{{Type: "wifi_is_connected", Fields: map[string]string{"X": "1"}}}}, errcode.UnknownField},
		{"unknown input", &types.Workspace{Loop: []types.Block{{Type: "motor_stop", Inputs: map[string]*types.Block{"SPEED": nil}}}}, errcode.UnknownInput},
		{"statement as value", &types.Workspace{Loop: []types.Block{{
			Type:   "bluetooth_send_string",
			Inputs: map[string]*types.Block{"DATA": {Type: "motor_stop"}},
		}}}, errcode.TypeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Generate(context.Background(), tc.ws)
			assert.Equal(t, tc.want, errcode.Of(err))
		})
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(t).Generate(ctx, conflicting())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiagnosticsOnBus(t *testing.T) {
	b := bus.NewBus(8)
	s := newService(t, WithBus(b), WithSketchName("robot"))

	_, err := s.Generate(context.Background(), conflicting())
	require.NoError(t, err)

	watch := b.NewConnection("test")
	defer watch.Disconnect()
	sub := watch.Subscribe(bus.T("codegen/robot/conflicts"))
	select {
	case m := <-sub.Channel():
		cs, ok := m.Payload.([]PinConflict)
		require.True(t, ok)
		assert.Len(t, cs, 1)
	case <-time.After(time.Second):
		t.Fatal("no retained conflicts")
	}

	code := watch.Subscribe(bus.T("codegen/+/sketch"))
	select {
	case m := <-code.Channel():
		assert.Contains(t, m.Payload, "readUltrasonicDistance")
	case <-time.After(time.Second):
		t.Fatal("no retained sketch")
	}

	// A clean pass clears the retained conflicts.
	_, err = s.Generate(context.Background(), &types.Workspace{})
	require.NoError(t, err)
	select {
	case m := <-sub.Channel():
		assert.Nil(t, m.Payload)
	case <-time.After(time.Second):
		t.Fatal("no clearing message")
	}
	late := watch.Subscribe(bus.T("codegen/robot/conflicts"))
	select {
	case m := <-late.Channel():
		t.Fatalf("unexpected retained message %#v", m)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestParseWorkspace(t *testing.T) {
	fromJSON, err := ParseWorkspace([]byte(`{"board":"uno","loop":[{"type":"text","fields":{"TEXT":"hi"}}]}`))
	require.NoError(t, err)
	fromYAML, err := ParseWorkspace([]byte("board: uno\nloop:\n  - type: text\n    fields: {TEXT: hi}\n"))
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)

	empty, err := ParseWorkspace(nil)
	require.NoError(t, err)
	assert.Equal(t, &types.Workspace{}, empty)

	commented, err := ParseWorkspace([]byte("# nothing placed yet\n"))
	require.NoError(t, err)
	assert.Equal(t, &types.Workspace{}, commented)

	for _, doc := range []string{
		"blocks: []\n",
		`{"board":"uno"} {"board":"mega"} trailing`,
		`{"board":"uno"} {}`,
		`{"board":"uno"}}`,
		"board: uno\n---\nboard: mega\n",
	} {
		_, err = ParseWorkspace([]byte(doc))
		assert.Equal(t, errcode.InvalidWorkspace, errcode.Of(err), doc)
	}
	_, err = ParseWorkspace([]byte(`{"loop": [}`))
	assert.Equal(t, errcode.InvalidWorkspace, errcode.Of(err))

	_, err = LoadWorkspace(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errcode.IOError, errcode.Of(err))
}

func TestWriteSketch(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSketch(dir, "Blink_2", "void setup() {\n}\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Blink_2", "Blink_2.ino"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "void setup() {\n}\n", string(data))

	for _, bad := range []string{"", "../up", "a b"} {
		_, err := WriteSketch(dir, bad, "")
		assert.Equal(t, errcode.InvalidSketchName, errcode.Of(err), bad)
	}
}

func TestBlocksCatalog(t *testing.T) {
	infos, err := Blocks("mega")
	require.NoError(t, err)

	byType := map[string]BlockInfo{}
	for _, b := range infos {
		byType[b.Type] = b
	}
	for _, typ := range []string{
		"ultrasonic_read", "color_sensor_read", "sound_sensor_read",
		"motor_setup", "motor_run", "motor_stop",
		"bluetooth_setup", "bluetooth_available", "bluetooth_read_string", "bluetooth_send_string",
		"display_8x8_setup", "display_8x8_draw",
		"wifi_connect", "wifi_is_connected",
		"math_number", "math_arithmetic", "text", "logic_boolean",
	} {
		assert.Contains(t, byType, typ)
	}

	us := byType["ultrasonic_read"]
	assert.Equal(t, "value", us.Shape)
	assert.Equal(t, "number", us.Output)
	assert.Equal(t, []string{"distance"}, us.Measures)
	assert.Len(t, us.Fields[0].Options, 70)

	ms := byType["motor_setup"]
	assert.Equal(t, "statement", ms.Shape)
	assert.Equal(t, "text", ms.Fields[0].Kind)
	assert.Equal(t, "Motor1", ms.Fields[0].Default)

	_, err = Blocks("teensy")
	assert.Equal(t, errcode.UnknownBoard, errcode.Of(err))

	assert.NotEmpty(t, Boards())
	assert.Equal(t, "Atmel atmega168pb Xplained mini", Targets()[0].Name)
}
