package display8x8

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"

	_ "roboblocks-go/services/codegen/modules/literals"
)

func num(v string) *types.Block {
	return &types.Block{Type: "math_number", Fields: map[string]string{"NUM": v}}
}

func TestSetupAndDraw(t *testing.T) {
	uno, _ := boards.Lookup("uno")
	p := core.NewPass(uno)
	setup := []types.Block{{ID: "d", Type: "display_8x8_setup", Fields: map[string]string{"DIN": "12", "CLK": "11", "CS": "10"}}}
	loop := []types.Block{{Type: "display_8x8_draw", Inputs: map[string]*types.Block{"ROW": num("0"), "BITMAP": num("255")}}}

	got, err := p.Sketch(context.Background(), setup, loop)
	require.NoError(t, err)

	want := `const int DIN_PIN = 12;
const int CLK_PIN = 11;
const int CS_PIN = 10;

void max7219_write(int din, int clk, int cs, byte address, byte data) {
  digitalWrite(cs, LOW);
  shiftOut(din, clk, MSBFIRST, address);
  shiftOut(din, clk, MSBFIRST, data);
  digitalWrite(cs, HIGH);
}


void setup() {
  pinMode(DIN_PIN, OUTPUT);
  pinMode(CLK_PIN, OUTPUT);
  pinMode(CS_PIN, OUTPUT);
  max7219_write(DIN_PIN, CLK_PIN, CS_PIN, 0x09, 0x00); // Decode mode: none
  max7219_write(DIN_PIN, CLK_PIN, CS_PIN, 0x0B, 0x07); // Scan limit: all digits
  max7219_write(DIN_PIN, CLK_PIN, CS_PIN, 0x0C, 0x01); // Shutdown: normal operation
  max7219_write(DIN_PIN, CLK_PIN, CS_PIN, 0x0A, 0x0F); // Intensity: max
  max7219_write(DIN_PIN, CLK_PIN, CS_PIN, 0x0F, 0x00); // Display test: off
}

void loop() {
  max7219_write(DIN_PIN, CLK_PIN, CS_PIN, 0 + 1, 255);
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sketch mismatch (-want +got):\n%s", diff)
	}

	pins := p.Pins()
	require.Len(t, pins, 3)
	for _, a := range pins {
		assert.Equal(t, core.PinOutput, a.Type)
	}
}

func TestDrawDefaultsAndParens(t *testing.T) {
	uno, _ := boards.Lookup("uno")
	p := core.NewPass(uno)

	code, err := p.Stmt(&types.Block{Type: "display_8x8_draw"})
	require.NoError(t, err)
	assert.Equal(t, "max7219_write(DIN_PIN, CLK_PIN, CS_PIN, 0 + 1, 0);\n", code)

	sum := &types.Block{Type: "math_arithmetic", Fields: map[string]string{"OP": "ADD"},
		Inputs: map[string]*types.Block{"A": num("1"), "B": num("2")}}
	code, err = p.Stmt(&types.Block{Type: "display_8x8_draw", Inputs: map[string]*types.Block{"ROW": sum}})
	require.NoError(t, err)
	assert.Equal(t, "max7219_write(DIN_PIN, CLK_PIN, CS_PIN, (1 + 2) + 1, 0);\n", code)
}
