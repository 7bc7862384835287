package wifi

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

func text(s string) *types.Block {
	return &types.Block{Type: "text", Fields: map[string]string{"TEXT": s}}
}

func newPass(t *testing.T) *core.Pass {
	t.Helper()
	b, ok := boards.Lookup("esp32")
	require.True(t, ok)
	return core.NewPass(b)
}

func TestConnect(t *testing.T) {
	setup := []types.Block{{Type: "wifi_connect", Inputs: map[string]*types.Block{"SSID": text("home"), "PASSWORD": text(`pa"ss`)}}}
	loop := []types.Block{{Type: "wifi_is_connected"}}

	got, err := newPass(t).Sketch(context.Background(), setup, loop)
	require.NoError(t, err)

	want := `#if defined(ESP32)
  #include <WiFi.h>
#elif defined(ESP8266)
  #include <ESP8266WiFi.h>
#endif

void setup() {
  #if defined(ESP32) || defined(ESP8266)
  WiFi.begin("home", "pa\"ss");
  // Wait for connection (non-blocking in setup usually, but here we might want to wait)
#endif

}

void loop() {
  (WiFi.status() == WL_CONNECTED);
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sketch mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyInputsAreEmittedAsIs(t *testing.T) {
	p := newPass(t)
	_, err := p.Stmt(&types.Block{Type: "wifi_connect"})
	require.NoError(t, err)
	assert.Contains(t, p.Finish("", ""), "  WiFi.begin(, );\n")
}

func TestOnlyFirstConnectCounts(t *testing.T) {
	p := newPass(t)
	for _, ssid := range []string{"first", "second"} {
		_, err := p.Stmt(&types.Block{Type: "wifi_connect", Inputs: map[string]*types.Block{"SSID": text(ssid), "PASSWORD": text("x")}})
		require.NoError(t, err)
	}
	out := p.Finish("", "")
	assert.Contains(t, out, `WiFi.begin("first", "x");`)
	assert.NotContains(t, out, "second")
}
