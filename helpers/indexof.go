package helpers

import (
	"bytes"
	"slices"
	"unicode"
	"unsafe"
)

func IndexOfAny(in []rune, find []rune) int {
	// special case
	if len(find) == 0 {
		return -1
	}
	// naive version
	for i, c := range in {
		if slices.Contains(find, c) {
			return i
		}
	}
	return -1
}

func IndexOfAny1(in []rune, find rune) int {
	//TODO: bytes optimization?
	return slices.Index(in, find)
}

func IndexOfAnyExcept(in []rune, bad []rune) int {
	for i, c := range in {
		found := false
		for _, b := range bad {
			if b == c {
				found = true
				break
			}
		}
		if !found {
			return i
		}
	}
	return -1
}

// internal function, assumes the bounds are already set right on the slices for equality
// casts the rune slices to bytes to use framework fast []byte comparison
func bytesEqual(a, b []rune) bool {
	bytesA := unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), len(a)*4)
	bytesB := unsafe.Slice((*byte)(unsafe.Pointer(&b[0])), len(b)*4)
	return bytes.Equal(bytesA, bytesB)
}

func Equals(in []rune, start int, length int, find []rune) bool {
	return bytesEqual(in[start:start+length], find)
}

// EqualsIgnoreCase is Equals with a case-insensitive rune comparison;
// find should already be in its canonical case.
func EqualsIgnoreCase(in []rune, start int, length int, find []rune) bool {
	if length != len(find) {
		return false
	}
	for i := 0; i < length; i++ {
		a, b := in[start+i], find[i]
		if a == b {
			continue
		}
		if unicode.ToLower(a) != unicode.ToLower(b) {
			return false
		}
	}
	return true
}
