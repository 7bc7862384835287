package codegen

// Block table.
import (
	_ "roboblocks-go/services/codegen/modules/bluetooth"
	_ "roboblocks-go/services/codegen/modules/colorsensor"
	_ "roboblocks-go/services/codegen/modules/display8x8"
	_ "roboblocks-go/services/codegen/modules/literals"
	_ "roboblocks-go/services/codegen/modules/motor"
	_ "roboblocks-go/services/codegen/modules/soundsensor"
	_ "roboblocks-go/services/codegen/modules/ultrasonic"
	_ "roboblocks-go/services/codegen/modules/wifi"
)
