package boards

import (
	"sort"
	"strconv"
)

// Board describes the pins a board offers to block dropdowns.
// It must not include wiring choices; those live in the workspace.
type Board struct {
	Key  string
	Name string

	DigitalPins []string
	AnalogPins  []string
	PWMPins     []string
}

// PinSource names a pin list of a board.
type PinSource string

const (
	SourceDigital PinSource = "digitalPins"
	SourceAnalog  PinSource = "analogPins"
	SourcePWM     PinSource = "pwmPins"
)

// Pins returns the pin list for src, nil for an unknown source.
func (b Board) Pins(src PinSource) []string {
	switch src {
	case SourceDigital:
		return b.DigitalPins
	case SourceAnalog:
		return b.AnalogPins
	case SourcePWM:
		return b.PWMPins
	}
	return nil
}

// HasPin reports whether pin is offered by src.
func (b Board) HasPin(src PinSource, pin string) bool {
	for _, p := range b.Pins(src) {
		if p == pin {
			return true
		}
	}
	return false
}

// Target is one entry of the compiler board table: a display name, the
// Arduino FQBN passed to the IDE, and the pin profile used for dropdowns.
type Target struct {
	Name  string
	FQBN  string
	Board string
}

// Default is the profile used when a workspace names no board.
const Default = "uno"

func seq(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, prefix+strconv.Itoa(i))
	}
	return out
}

func join(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

var profiles = map[string]Board{
	"uno": {
		Key:         "uno",
		Name:        "Arduino Uno",
		DigitalPins: join(seq("", 0, 13), seq("A", 0, 5)),
		AnalogPins:  seq("A", 0, 5),
		PWMPins:     []string{"3", "5", "6", "9", "10", "11"},
	},
	"nano": {
		Key:         "nano",
		Name:        "Arduino Nano",
		DigitalPins: join(seq("", 0, 13), seq("A", 0, 5)),
		AnalogPins:  seq("A", 0, 7),
		PWMPins:     []string{"3", "5", "6", "9", "10", "11"},
	},
	"leonardo": {
		Key:         "leonardo",
		Name:        "Arduino Leonardo",
		DigitalPins: join(seq("", 0, 13), seq("A", 0, 5)),
		AnalogPins:  seq("A", 0, 5),
		PWMPins:     []string{"3", "5", "6", "9", "10", "11", "13"},
	},
	"mega": {
		Key:         "mega",
		Name:        "Arduino Mega 2560",
		DigitalPins: join(seq("", 0, 53), seq("A", 0, 15)),
		AnalogPins:  seq("A", 0, 15),
		PWMPins:     join(seq("", 2, 13), []string{"44", "45", "46"}),
	},
	"esp8266_huzzah": {
		Key:         "esp8266_huzzah",
		Name:        "Adafruit Feather HUZZAH ESP8266",
		DigitalPins: []string{"0", "2", "4", "5", "12", "13", "14", "15", "16"},
		AnalogPins:  []string{"A0"},
		PWMPins:     []string{"0", "2", "4", "5", "12", "13", "14", "15", "16"},
	},
	"esp8266_wemos_d1": {
		Key:         "esp8266_wemos_d1",
		Name:        "WeMos D1 R2",
		DigitalPins: seq("D", 0, 8),
		AnalogPins:  []string{"A0"},
		PWMPins:     seq("D", 1, 8),
	},
	"esp32": {
		Key:  "esp32",
		Name: "ESP32 Dev Module",
		DigitalPins: []string{"0", "2", "4", "5", "12", "13", "14", "15", "16", "17",
			"18", "19", "21", "22", "23", "25", "26", "27", "32", "33"},
		AnalogPins: []string{"32", "33", "34", "35", "36", "39"},
		PWMPins: []string{"0", "2", "4", "5", "12", "13", "14", "15", "16", "17",
			"18", "19", "21", "22", "23", "25", "26", "27", "32", "33"},
	},
}

const esp32FQBN = "esp32:esp32:esp32:UploadSpeed=921600,PartitionScheme=default,FlashMode=qio,CPUFreq=240,FlashFreq=80"

var targets = []Target{
	{"Uno", "arduino:avr:uno", "uno"},
	{"Nano 328", "arduino:avr:nano:cpu=atmega328", "nano"},
	{"Nano 168", "arduino:avr:nano:cpu=atmega168", "nano"},
	{"Leonardo", "arduino:avr:leonardo", "leonardo"},
	{"Yun", "arduino:avr:leonardo", "leonardo"},
	{"Mega", "arduino:avr:mega", "mega"},
	{"Duemilanove 328p", "arduino:avr:diecimila", "uno"},
	{"Duemilanove 168p", "arduino:avr:diecimila:cpu=atmega168", "uno"},
	{"Atmel atmega328p Xplained mini", "atmel:avr:atmega328p_xplained_mini", "uno"},
	{"Atmel atmega168pb Xplained mini", "atmel:avr:atmega168pb_xplained_mini", "uno"},
	{"Atmel atmega328pb Xplained mini", "atmel:avr:atmega328pb_xplained_mini", "uno"},
	{"ESP8266 Huzzah", "esp8266:esp8266:generic", "esp8266_huzzah"},
	{"ESP8266 WeMos D1", "esp8266:esp8266:generic", "esp8266_wemos_d1"},
	{"ESP32 Dev Module", esp32FQBN, "esp32"},
	{"ESP32 WROOM-32", esp32FQBN, "esp32"},
}

// Lookup returns the pin profile registered under key.
func Lookup(key string) (Board, bool) {
	b, ok := profiles[key]
	return b, ok
}

// Resolve accepts a profile key or a compiler target name.
// An empty name resolves to Default.
func Resolve(name string) (Board, bool) {
	if name == "" {
		name = Default
	}
	if b, ok := profiles[name]; ok {
		return b, true
	}
	if t, ok := TargetByName(name); ok {
		return profiles[t.Board], true
	}
	return Board{}, false
}

// Keys lists the profile keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(profiles))
	for k := range profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Targets lists the compiler targets sorted by name.
func Targets() []Target {
	out := append([]Target(nil), targets...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func TargetByName(name string) (Target, bool) {
	for _, t := range targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}
