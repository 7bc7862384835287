// services/codegen/modules/ultrasonic/ultrasonic.go
package ultrasonic

import (
	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"

	"tinygo.org/x/drivers"
)

const readFunc = "long " + core.FuncName + "(int trigPin, int echoPin) {\n" +
	"  digitalWrite(trigPin, LOW);\n" +
	"  delayMicroseconds(2);\n" +
	"  digitalWrite(trigPin, HIGH);\n" +
	"  delayMicroseconds(10);\n" +
	"  digitalWrite(trigPin, LOW);\n" +
	"  long duration = pulseIn(echoPin, HIGH);\n" +
	"  return duration * 0.034 / 2;\n" +
	"}"

func init() {
	core.RegisterBlock(core.Definition{
		Type:  "ultrasonic_read",
		Title: "Ultrasonic Sensor (HC-SR04)",
		Fields: []core.Field{
			{Name: "TRIG_PIN", Label: "Trig Pin", Source: boards.SourceDigital},
			{Name: "ECHO_PIN", Label: "Echo Pin", Source: boards.SourceDigital},
		},
		Output:   types.KindNumber,
		Tooltip:  "Reads distance in cm using HC-SR04 ultrasonic sensor.",
		HelpURL:  "https://howtomechatronics.com/tutorials/arduino/ultrasonic-sensor-hc-sr04/",
		Hue:      core.ModuleHue,
		Measures: drivers.Distance,
		Expr:     read,
	})
}

// read pulses TRIG and times the echo; the helper returns centimetres.
func read(g *core.Gen) (string, core.Order, error) {
	trig, echo := g.Field("TRIG_PIN"), g.Field("ECHO_PIN")

	g.ReservePin(trig, core.PinOutput, "Ultrasonic Trig")
	g.ReservePin(echo, core.PinInput, "Ultrasonic Echo")

	g.AddSetup("ultrasonic_"+trig+"_"+echo,
		"pinMode("+trig+", OUTPUT);\n"+
			"  pinMode("+echo+", INPUT);", false)

	fn := g.AddFunction("readUltrasonicDistance", readFunc)
	return fn + "(" + trig + ", " + echo + ")", core.OrderAtomic, nil
}
