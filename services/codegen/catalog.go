package codegen

import (
	"roboblocks-go/errcode"
	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"

	"tinygo.org/x/drivers"
)

// FieldInfo describes a block field with its dropdown options resolved for
// one board.
type FieldInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Kind    string   `json:"kind" yaml:"kind"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	Default string   `json:"default,omitempty" yaml:"default,omitempty"`
}

type InputInfo struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Check string `json:"check" yaml:"check"`
}

// BlockInfo is the editor-facing view of a block definition.
type BlockInfo struct {
	Type     string      `json:"type" yaml:"type"`
	Title    string      `json:"title,omitempty" yaml:"title,omitempty"`
	Shape    string      `json:"shape" yaml:"shape"` // "statement" or "value"
	Output   string      `json:"output,omitempty" yaml:"output,omitempty"`
	Measures []string    `json:"measures,omitempty" yaml:"measures,omitempty"`
	Hue      int         `json:"hue" yaml:"hue"`
	Tooltip  string      `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	HelpURL  string      `json:"help_url,omitempty" yaml:"help_url,omitempty"`
	Fields   []FieldInfo `json:"fields,omitempty" yaml:"fields,omitempty"`
	Inputs   []InputInfo `json:"inputs,omitempty" yaml:"inputs,omitempty"`
}

var measurementNames = []struct {
	m    drivers.Measurement
	name string
}{
	{drivers.Voltage, "voltage"},
	{drivers.Temperature, "temperature"},
	{drivers.Humidity, "humidity"},
	{drivers.Pressure, "pressure"},
	{drivers.Distance, "distance"},
	{drivers.Acceleration, "acceleration"},
	{drivers.AngularVelocity, "angular_velocity"},
	{drivers.MagneticField, "magnetic_field"},
	{drivers.Luminosity, "luminosity"},
	{drivers.Time, "time"},
	{drivers.Concentration, "concentration"},
}

// MeasurementNames lists the quantities set in m.
func MeasurementNames(m drivers.Measurement) []string {
	var out []string
	for _, n := range measurementNames {
		if m&n.m != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// Blocks describes every registered block with dropdowns populated for the
// named board (profile key or compiler target name).
func Blocks(board string) ([]BlockInfo, error) {
	b, ok := boards.Resolve(board)
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownBoard, "blocks", board, nil)
	}
	defs := core.Blocks()
	out := make([]BlockInfo, 0, len(defs))
	for _, d := range defs {
		info := BlockInfo{
			Type:     d.Type,
			Title:    d.Title,
			Shape:    "value",
			Output:   string(d.Output),
			Measures: MeasurementNames(d.Measures),
			Hue:      d.Hue,
			Tooltip:  d.Tooltip,
			HelpURL:  d.HelpURL,
		}
		if d.Statement() {
			info.Shape = "statement"
		}
		for _, f := range d.Fields {
			fi := FieldInfo{Name: f.Name, Label: f.Label, Kind: "text", Default: f.Default}
			if f.Kind == core.FieldDropdown {
				fi.Kind = "dropdown"
				for _, o := range d.Options(b, f.Name) {
					fi.Options = append(fi.Options, o[1])
				}
			}
			info.Fields = append(info.Fields, fi)
		}
		for _, in := range d.Inputs {
			info.Inputs = append(info.Inputs, InputInfo{Name: in.Name, Label: in.Label, Check: string(in.Check)})
		}
		out = append(out, info)
	}
	return out, nil
}

// BoardInfo describes a pin profile.
type BoardInfo struct {
	Key         string   `json:"key" yaml:"key"`
	Name        string   `json:"name" yaml:"name"`
	DigitalPins []string `json:"digital_pins" yaml:"digital_pins"`
	AnalogPins  []string `json:"analog_pins" yaml:"analog_pins"`
	PWMPins     []string `json:"pwm_pins" yaml:"pwm_pins"`
}

// TargetInfo is a compiler board entry.
type TargetInfo struct {
	Name  string `json:"name" yaml:"name"`
	FQBN  string `json:"fqbn" yaml:"fqbn"`
	Board string `json:"board" yaml:"board"`
}

func Boards() []BoardInfo {
	keys := boards.Keys()
	out := make([]BoardInfo, 0, len(keys))
	for _, k := range keys {
		b, _ := boards.Lookup(k)
		out = append(out, BoardInfo{
			Key:         b.Key,
			Name:        b.Name,
			DigitalPins: b.DigitalPins,
			AnalogPins:  b.AnalogPins,
			PWMPins:     b.PWMPins,
		})
	}
	return out
}

func Targets() []TargetInfo {
	ts := boards.Targets()
	out := make([]TargetInfo, 0, len(ts))
	for _, t := range ts {
		out = append(out, TargetInfo{Name: t.Name, FQBN: t.FQBN, Board: t.Board})
	}
	return out
}
