package core

import (
	"strconv"
	"strings"
)

// Words the emitted sketch must not use as helper names: C++ keywords,
// Arduino core functions and constants.
var reservedWords = func() map[string]struct{} {
	words := strings.Fields(`
		setup loop if else for switch case while do break continue return goto
		define include HIGH LOW INPUT OUTPUT INPUT_PULLUP true false integer
		constants floating point void boolean bool char unsigned byte int word
		long float double string String array static volatile const sizeof
		pinMode digitalWrite digitalRead analogReference analogRead analogWrite
		tone noTone shiftOut shiftIn pulseIn millis micros delay
		delayMicroseconds min max abs constrain map pow sqrt sin cos tan
		randomSeed random lowByte highByte bitRead bitWrite bitSet bitClear bit
		attachInterrupt detachInterrupt interrupts noInterrupts Serial
		SoftwareSerial HardwareSerial WiFi BTSerial`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// nameDB hands out identifiers that are unique within one pass.
type nameDB struct {
	taken map[string]struct{}
}

func newNameDB() nameDB { return nameDB{taken: make(map[string]struct{})} }

// distinct returns a C identifier derived from name that is neither reserved
// nor already handed out, appending 2, 3, ... as needed.
func (db *nameDB) distinct(name string) string {
	base := safeName(name)
	candidate := base
	for i := 2; ; i++ {
		_, used := db.taken[candidate]
		_, reserved := reservedWords[candidate]
		if !used && !reserved {
			break
		}
		candidate = base + strconv.Itoa(i)
	}
	db.taken[candidate] = struct{}{}
	return candidate
}

func safeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	b := []byte(name)
	for i, c := range b {
		if !isWordByte(c) {
			b[i] = '_'
		}
	}
	if b[0] >= '0' && b[0] <= '9' {
		return "my_" + string(b)
	}
	return string(b)
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// CleanIdentifier drops every character outside [A-Za-z0-9_]. Used for
// user-typed names that become part of emitted identifiers.
func CleanIdentifier(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isWordByte(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
