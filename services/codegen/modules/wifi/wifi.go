package wifi

import (
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/types"
)

func init() {
	core.RegisterBlock(core.Definition{
		Type:  "wifi_connect",
		Title: "Wifi Connect",
		Inputs: []core.Input{
			{Name: "SSID", Label: "SSID", Check: types.KindText},
			{Name: "PASSWORD", Label: "Password", Check: types.KindText},
		},
		Tooltip: "Connects to a Wifi network (ESP32/ESP8266 only).",
		Hue:     core.ModuleHue,
		Stmt:    connect,
	})
	core.RegisterBlock(core.Definition{
		Type:    "wifi_is_connected",
		Title:   "Wifi Connected?",
		Output:  types.KindBoolean,
		Tooltip: "Checks if Wifi is connected.",
		Hue:     core.ModuleHue,
		Expr: func(*core.Gen) (string, core.Order, error) {
			return "(WiFi.status() == WL_CONNECTED)", core.OrderAtomic, nil
		},
	})
}

// connect has no fallback for empty inputs: WiFi.begin(, ) is emitted as is
// and left for the Arduino compiler to reject.
func connect(g *core.Gen) (string, error) {
	ssid, err := g.ValueToCode("SSID", core.OrderAtomic)
	if err != nil {
		return "", err
	}
	password, err := g.ValueToCode("PASSWORD", core.OrderAtomic)
	if err != nil {
		return "", err
	}

	g.AddInclude("wifi_lib",
		"#if defined(ESP32)\n"+
			"  #include <WiFi.h>\n"+
			"#elif defined(ESP8266)\n"+
			"  #include <ESP8266WiFi.h>\n"+
			"#endif")

	g.AddSetup("wifi_begin",
		"#if defined(ESP32) || defined(ESP8266)\n"+
			"  WiFi.begin("+ssid+", "+password+");\n"+
			"  // Wait for connection (non-blocking in setup usually, but here we might want to wait)\n"+
			"#endif\n", false)
	return "", nil
}
