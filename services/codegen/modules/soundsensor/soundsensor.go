package soundsensor

import (
	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"

	"tinygo.org/x/drivers"
)

func init() {
	core.RegisterBlock(core.Definition{
		Type:  "sound_sensor_read",
		Title: "Sound Sensor Read",
		Fields: []core.Field{
			{Name: "PIN", Label: "Pin", Source: boards.SourceAnalog},
		},
		Output:   types.KindNumber,
		Tooltip:  "Reads analog value from sound sensor.",
		Hue:      core.ModuleHue,
		Measures: drivers.Voltage,
		Expr: func(g *core.Gen) (string, core.Order, error) {
			pin := g.Field("PIN")
			g.ReservePin(pin, core.PinInput, "Sound Sensor")
			return "analogRead(" + pin + ")", core.OrderAtomic, nil
		},
	})
}
