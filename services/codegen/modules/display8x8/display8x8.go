// services/codegen/modules/display8x8/display8x8.go
package display8x8

import (
	"fmt"
	"strings"

	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"
)

// MAX7219 registers. Digit rows 0..7 live at 0x01..0x08.
const (
	regDecodeMode  = 0x09
	regIntensity   = 0x0A
	regScanLimit   = 0x0B
	regShutdown    = 0x0C
	regDisplayTest = 0x0F
)

type regWrite struct {
	reg, val uint8
	note     string
}

// initSequence brings the chip out of shutdown with raw (undecoded) rows.
var initSequence = []regWrite{
	{regDecodeMode, 0x00, "Decode mode: none"},
	{regScanLimit, 0x07, "Scan limit: all digits"},
	{regShutdown, 0x01, "Shutdown: normal operation"},
	{regIntensity, 0x0F, "Intensity: max"},
	{regDisplayTest, 0x00, "Display test: off"},
}

const writeFunc = "void " + core.FuncName + "(int din, int clk, int cs, byte address, byte data) {\n" +
	"  digitalWrite(cs, LOW);\n" +
	"  shiftOut(din, clk, MSBFIRST, address);\n" +
	"  shiftOut(din, clk, MSBFIRST, data);\n" +
	"  digitalWrite(cs, HIGH);\n" +
	"}"

func init() {
	core.RegisterBlock(core.Definition{
		Type:  "display_8x8_setup",
		Title: "Display 8x8 Setup (MAX7219)",
		Fields: []core.Field{
			{Name: "DIN", Label: "DIN Pin", Source: boards.SourceDigital},
			{Name: "CLK", Label: "CLK Pin", Source: boards.SourceDigital},
			{Name: "CS", Label: "CS Pin", Source: boards.SourceDigital},
		},
		Tooltip: "Initializes MAX7219 8x8 LED Matrix.",
		Hue:     core.ModuleHue,
		Stmt:    setup,
	})
	core.RegisterBlock(core.Definition{
		Type:  "display_8x8_draw",
		Title: "Display 8x8 Draw Row",
		Inputs: []core.Input{
			{Name: "ROW", Label: "Row (0-7)", Check: types.KindNumber},
			{Name: "BITMAP", Label: "Bitmap (0-255)", Check: types.KindNumber},
		},
		Tooltip: "Draws a row on the 8x8 matrix.",
		Hue:     core.ModuleHue,
		Stmt:    draw,
	})
}

func setup(g *core.Gen) (string, error) {
	din, clk, cs := g.Field("DIN"), g.Field("CLK"), g.Field("CS")

	g.ReservePin(din, core.PinOutput, "Display DIN")
	g.ReservePin(clk, core.PinOutput, "Display CLK")
	g.ReservePin(cs, core.PinOutput, "Display CS")

	g.AddDeclaration("display_8x8_pins",
		"const int DIN_PIN = "+din+";\n"+
			"const int CLK_PIN = "+clk+";\n"+
			"const int CS_PIN = "+cs+";")

	g.AddSetup("display_8x8_pins_mode",
		"pinMode(DIN_PIN, OUTPUT);\n"+
			"  pinMode(CLK_PIN, OUTPUT);\n"+
			"  pinMode(CS_PIN, OUTPUT);", false)

	fn := g.AddFunction("max7219_write", writeFunc)

	lines := make([]string, 0, len(initSequence))
	for _, w := range initSequence {
		lines = append(lines, fmt.Sprintf("%s(DIN_PIN, CLK_PIN, CS_PIN, 0x%02X, 0x%02X); // %s", fn, w.reg, w.val, w.note))
	}
	g.AddSetup("display_8x8_init", strings.Join(lines, "\n"+core.Indent), false)
	return "", nil
}

// draw writes one row; rows are addressed from 1 on the chip.
func draw(g *core.Gen) (string, error) {
	row, err := g.ValueOr("ROW", core.OrderAtomic, "0")
	if err != nil {
		return "", err
	}
	bitmap, err := g.ValueOr("BITMAP", core.OrderAtomic, "0")
	if err != nil {
		return "", err
	}
	return "max7219_write(DIN_PIN, CLK_PIN, CS_PIN, " + row + " + 1, " + bitmap + ");\n", nil
}
