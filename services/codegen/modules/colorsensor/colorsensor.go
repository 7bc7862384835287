package colorsensor

import (
	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"

	"tinygo.org/x/drivers"
)

// filterWrites selects the TCS3200 photodiode filter through S2/S3.
var filterWrites = map[string][2]string{
	"RED":   {"LOW", "LOW"},
	"GREEN": {"HIGH", "HIGH"},
	"BLUE":  {"LOW", "HIGH"},
}

func init() {
	pin := func(name string) core.Field {
		return core.Field{Name: name, Label: name, Source: boards.SourceDigital}
	}
	core.RegisterBlock(core.Definition{
		Type:  "color_sensor_read",
		Title: "Color Sensor (TCS3200)",
		Fields: []core.Field{
			pin("S0"), pin("S1"), pin("S2"), pin("S3"), pin("OUT"),
			{
				Name:    "COLOR_COMP",
				Label:   "Read Component",
				Options: [][2]string{{"Red", "RED"}, {"Green", "GREEN"}, {"Blue", "BLUE"}},
				Default: "RED",
			},
		},
		Output:   types.KindNumber,
		Tooltip:  "Reads RGB color component frequency.",
		Hue:      core.ModuleHue,
		Measures: drivers.Luminosity,
		Expr:     read,
	})
}

func read(g *core.Gen) (string, core.Order, error) {
	s0, s1, s2, s3 := g.Field("S0"), g.Field("S1"), g.Field("S2"), g.Field("S3")
	out := g.Field("OUT")
	comp := g.Field("COLOR_COMP")

	g.ReservePin(s0, core.PinOutput, "Color S0")
	g.ReservePin(s1, core.PinOutput, "Color S1")
	g.ReservePin(s2, core.PinOutput, "Color S2")
	g.ReservePin(s3, core.PinOutput, "Color S3")
	g.ReservePin(out, core.PinInput, "Color OUT")

	g.AddSetup("color_sensor_init_"+out,
		"pinMode("+s0+", OUTPUT);\n"+
			"  pinMode("+s1+", OUTPUT);\n"+
			"  pinMode("+s2+", OUTPUT);\n"+
			"  pinMode("+s3+", OUTPUT);\n"+
			"  pinMode("+out+", INPUT);\n"+
			"  // Set frequency scaling to 20%\n"+
			"  digitalWrite("+s0+", HIGH);\n"+
			"  digitalWrite("+s1+", LOW);", false)

	// The helper is shared per component, so the filter writes use the
	// pins of the first block that registers it.
	w := filterWrites[comp]
	filter := "digitalWrite(" + s2 + ", " + w[0] + "); digitalWrite(" + s3 + ", " + w[1] + ");"
	fn := g.AddFunction("readColor_"+comp,
		"int "+core.FuncName+"(int s2, int s3, int out) {\n"+
			"  "+filter+"\n"+
			"  return pulseIn(out, LOW);\n"+
			"}")

	return fn + "(" + s2 + ", " + s3 + ", " + out + ")", core.OrderAtomic, nil
}
