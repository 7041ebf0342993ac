package prefs

import "unicode/utf8"

// Classification describes the character range of a string value.
type Classification struct {
	// NonASCII is set when any code point is above 127
	NonASCII bool
	// NonExtASCII is set when any code point is above 255
	NonExtASCII bool
	// HighCodePoint is set when any code point is outside the Basic Multilingual Plane
	HighCodePoint bool
}

// Classify inspects every code point of s once.
func Classify(s string) Classification {
	var c Classification
	for _, r := range s {
		if r > 127 {
			c.NonASCII = true
		}
		if r > 255 {
			c.NonExtASCII = true
		}
		if r > 0xFFFF {
			c.HighCodePoint = true
			break
		}
	}
	return c
}

// Length returns the length of s in code points.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
