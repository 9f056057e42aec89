package addrsplit

import "unicode"

// Case-insensitive search is done on lowered rune slices so that a match
// position maps back onto the original string even when lowering a rune
// changes its UTF-8 width.

func foldRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

// indexRunes returns the rune index of needle in hay, or -1
func indexRunes(hay, needle []rune, last bool) int {
	n := len(needle)
	if n == 0 || n > len(hay) {
		return -1
	}
	if last {
		for i := len(hay) - n; i >= 0; i-- {
			if equalRunes(hay[i:i+n], needle) {
				return i
			}
		}
		return -1
	}
	for i := 0; i+n <= len(hay); i++ {
		if equalRunes(hay[i:i+n], needle) {
			return i
		}
	}
	return -1
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// byteOffset converts a rune index in s to a byte offset
func byteOffset(s string, runeIndex int) int {
	n := 0
	for off := range s {
		if n == runeIndex {
			return off
		}
		n++
	}
	return len(s)
}
