package analysis

import "unicode"

// Finger identifies one of the ten finger buckets used for dwell, flight,
// and digraph attribution.
type Finger string

// Finger buckets. FingerUnknown is assigned to keys outside the layout
// table and is excluded from per-finger aggregation.
const (
	FingerLeftPinky   Finger = "left-pinky"
	FingerLeftRing    Finger = "left-ring"
	FingerLeftMiddle  Finger = "left-middle"
	FingerLeftIndex   Finger = "left-index"
	FingerLeftThumb   Finger = "left-thumb"
	FingerRightPinky  Finger = "right-pinky"
	FingerRightRing   Finger = "right-ring"
	FingerRightMiddle Finger = "right-middle"
	FingerRightIndex  Finger = "right-index"
	FingerRightThumb  Finger = "right-thumb"
	FingerUnknown     Finger = "unknown"
)

// Standard QWERTY touch-typing assignment, unshifted keys only. Shifted
// symbols resolve through shiftedBase first.
var fingerTable = map[rune]Finger{
	'`': FingerLeftPinky, '1': FingerLeftPinky, 'q': FingerLeftPinky,
	'a': FingerLeftPinky, 'z': FingerLeftPinky,

	'2': FingerLeftRing, 'w': FingerLeftRing, 's': FingerLeftRing,
	'x': FingerLeftRing,

	'3': FingerLeftMiddle, 'e': FingerLeftMiddle, 'd': FingerLeftMiddle,
	'c': FingerLeftMiddle,

	'4': FingerLeftIndex, '5': FingerLeftIndex, 'r': FingerLeftIndex,
	't': FingerLeftIndex, 'f': FingerLeftIndex, 'g': FingerLeftIndex,
	'v': FingerLeftIndex, 'b': FingerLeftIndex,

	'6': FingerRightIndex, '7': FingerRightIndex, 'y': FingerRightIndex,
	'u': FingerRightIndex, 'h': FingerRightIndex, 'j': FingerRightIndex,
	'n': FingerRightIndex, 'm': FingerRightIndex,

	'8': FingerRightMiddle, 'i': FingerRightMiddle, 'k': FingerRightMiddle,
	',': FingerRightMiddle,

	'9': FingerRightRing, 'o': FingerRightRing, 'l': FingerRightRing,
	'.': FingerRightRing,

	'0': FingerRightPinky, '-': FingerRightPinky, '=': FingerRightPinky,
	'p': FingerRightPinky, '[': FingerRightPinky, ']': FingerRightPinky,
	'\\': FingerRightPinky, ';': FingerRightPinky, '\'': FingerRightPinky,
	'/': FingerRightPinky,

	' ': FingerRightThumb,
}

var shiftedBase = map[rune]rune{
	'~': '`', '!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0', '_': '-',
	'+': '=', '{': '[', '}': ']', '|': '\\', ':': ';', '"': '\'',
	'<': ',', '>': '.', '?': '/',
}

// FingerFor maps a logical key to its finger bucket. Uppercase letters and
// shifted symbols resolve through their physical key.
func FingerFor(key string) Finger {
	runes := []rune(key)
	if len(runes) != 1 {
		return FingerUnknown
	}
	r := unicode.ToLower(runes[0])
	if base, ok := shiftedBase[r]; ok {
		r = base
	}
	if f, ok := fingerTable[r]; ok {
		return f
	}
	return FingerUnknown
}
