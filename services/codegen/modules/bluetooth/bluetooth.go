package bluetooth

import (
	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"
)

func init() {
	core.RegisterBlock(core.Definition{
		Type:  "bluetooth_setup",
		Title: "Bluetooth Setup (HC-05/06)",
		Fields: []core.Field{
			{Name: "RX_PIN", Label: "RX Pin", Source: boards.SourceDigital},
			{Name: "TX_PIN", Label: "TX Pin", Source: boards.SourceDigital},
			{
				Name:    "BAUD",
				Label:   "Baud Rate",
				Options: [][2]string{{"9600", "9600"}, {"38400", "38400"}, {"115200", "115200"}},
				Default: "9600",
			},
		},
		Tooltip: "Initializes Bluetooth module using SoftwareSerial (or Serial1 on supported boards).",
		Hue:     core.ModuleHue,
		Stmt:    setup,
	})
	core.RegisterBlock(core.Definition{
		Type:    "bluetooth_available",
		Title:   "Bluetooth Available?",
		Output:  types.KindBoolean,
		Tooltip: "Checks if data is available to read from Bluetooth.",
		Hue:     core.ModuleHue,
		Expr: func(*core.Gen) (string, core.Order, error) {
			return "BTSerial.available()", core.OrderAtomic, nil
		},
	})
	core.RegisterBlock(core.Definition{
		Type:    "bluetooth_read_string",
		Title:   "Bluetooth Read String",
		Output:  types.KindText,
		Tooltip: "Reads a string from Bluetooth.",
		Hue:     core.ModuleHue,
		Expr: func(*core.Gen) (string, core.Order, error) {
			return "BTSerial.readString()", core.OrderAtomic, nil
		},
	})
	core.RegisterBlock(core.Definition{
		Type:    "bluetooth_send_string",
		Title:   "Bluetooth Send String",
		Inputs:  []core.Input{{Name: "DATA", Check: types.KindText}},
		Tooltip: "Sends a string via Bluetooth.",
		Hue:     core.ModuleHue,
		Stmt: func(g *core.Gen) (string, error) {
			data, err := g.ValueOr("DATA", core.OrderAtomic, `""`)
			if err != nil {
				return "", err
			}
			return "BTSerial.print(" + data + ");\n", nil
		},
	})
}

// setup declares BTSerial: hardware UART 1 on ESP32, SoftwareSerial on the
// given pins elsewhere. Only the first setup block in a sketch takes effect.
func setup(g *core.Gen) (string, error) {
	rx, tx, baud := g.Field("RX_PIN"), g.Field("TX_PIN"), g.Field("BAUD")

	g.ReservePin(rx, core.PinInput, "Bluetooth RX")
	g.ReservePin(tx, core.PinOutput, "Bluetooth TX")

	g.AddInclude("bluetooth_lib",
		"#if defined(ESP32)\n"+
			"  #include <HardwareSerial.h>\n"+
			"  HardwareSerial BTSerial(1);\n"+
			"#else\n"+
			"  #include <SoftwareSerial.h>\n"+
			"  SoftwareSerial BTSerial("+rx+", "+tx+");\n"+
			"#endif")

	g.AddSetup("bluetooth_init",
		"#if defined(ESP32)\n"+
			"  BTSerial.begin("+baud+", SERIAL_8N1, "+rx+", "+tx+");\n"+
			"#else\n"+
			"  BTSerial.begin("+baud+");\n"+
			"#endif\n", false)
	return "", nil
}
