// Package motor drives a DC motor through an L298N-style H-bridge. A motor
// is named by the user; the setup block declares <name>_IN1, <name>_IN2 and
// <name>_EN and the run/stop blocks refer to those constants by name.
package motor

import (
	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"
)

const defaultName = "Motor1"

func nameField() core.Field {
	return core.Field{Name: "MOTOR_NAME", Label: "Motor Name", Kind: core.FieldText, Default: defaultName}
}

func init() {
	core.RegisterBlock(core.Definition{
		Type:  "motor_setup",
		Title: "Motor Setup",
		Fields: []core.Field{
			nameField(),
			{Name: "IN1", Label: "IN1 Pin", Source: boards.SourceDigital},
			{Name: "IN2", Label: "IN2 Pin", Source: boards.SourceDigital},
			{Name: "EN", Label: "EN Pin (PWM)", Source: boards.SourcePWM},
		},
		Tooltip: "Configures a DC Motor with L298N driver (IN1, IN2, EN).",
		Hue:     core.ModuleHue,
		Stmt:    setup,
	})
	core.RegisterBlock(core.Definition{
		Type:  "motor_run",
		Title: "Run Motor",
		Fields: []core.Field{
			nameField(),
			{
				Name:    "DIRECTION",
				Label:   "Direction",
				Options: [][2]string{{"Forward", "FORWARD"}, {"Backward", "BACKWARD"}},
				Default: "FORWARD",
			},
		},
		Inputs:  []core.Input{{Name: "SPEED", Label: "Speed (0-255)", Check: types.KindNumber}},
		Tooltip: "Runs the motor at specified speed and direction.",
		Hue:     core.ModuleHue,
		Stmt:    run,
	})
	core.RegisterBlock(core.Definition{
		Type:    "motor_stop",
		Title:   "Stop Motor",
		Fields:  []core.Field{nameField()},
		Tooltip: "Stops the motor.",
		Hue:     core.ModuleHue,
		Stmt:    stop,
	})
}

func setup(g *core.Gen) (string, error) {
	name := core.CleanIdentifier(g.Field("MOTOR_NAME"))
	in1, in2, en := g.Field("IN1"), g.Field("IN2"), g.Field("EN")

	g.ReservePin(in1, core.PinOutput, "Motor "+name+" IN1")
	g.ReservePin(in2, core.PinOutput, "Motor "+name+" IN2")
	g.ReservePin(en, core.PinOutput, "Motor "+name+" EN")

	g.AddDeclaration("motor_pins_"+name,
		"const int "+name+"_IN1 = "+in1+";\n"+
			"const int "+name+"_IN2 = "+in2+";\n"+
			"const int "+name+"_EN = "+en+";")

	g.AddSetup("motor_setup_"+name,
		"pinMode("+name+"_IN1, OUTPUT);\n"+
			"  pinMode("+name+"_IN2, OUTPUT);\n"+
			"  pinMode("+name+"_EN, OUTPUT);", false)
	return "", nil
}

func run(g *core.Gen) (string, error) {
	name := core.CleanIdentifier(g.Field("MOTOR_NAME"))
	speed, err := g.ValueOr("SPEED", core.OrderAtomic, "0")
	if err != nil {
		return "", err
	}

	a, b := "HIGH", "LOW"
	if g.Field("DIRECTION") != "FORWARD" {
		a, b = b, a
	}
	return "digitalWrite(" + name + "_IN1, " + a + ");\n" +
		"digitalWrite(" + name + "_IN2, " + b + ");\n" +
		"analogWrite(" + name + "_EN, " + speed + ");\n", nil
}

func stop(g *core.Gen) (string, error) {
	name := core.CleanIdentifier(g.Field("MOTOR_NAME"))
	return "digitalWrite(" + name + "_IN1, LOW);\n" +
		"digitalWrite(" + name + "_IN2, LOW);\n" +
		"analogWrite(" + name + "_EN, 0);\n", nil
}
