package kmer

import "unicode/utf8"

// forEachKmer calls fn for every window of k code points in text, left to
// right with stride 1. Nothing is emitted when text is shorter than k.
func forEachKmer(text string, k int, fn func(kmer string)) {
	if k <= 0 {
		return
	}

	if isASCII(text) {
		for i := 0; i+k <= len(text); i++ {
			fn(text[i : i+k])
		}
		return
	}

	// Byte offset of every code point start, plus the end of the string.
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	n := len(offsets) - 1
	for i := 0; i+k <= n; i++ {
		fn(text[offsets[i]:offsets[i+k]])
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Count returns the number of k-mers a string of n code points yields.
func Count(n, k int) int {
	if k <= 0 || n < k {
		return 0
	}
	return n - k + 1
}
