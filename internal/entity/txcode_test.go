package entity

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{1,3}-\d{5}$`)

func TestTransactionCodePrefix(t *testing.T) {
	tests := []struct {
		category string
		prefix   string
	}{
		{"Beverages", "BEV"},
		{"snacks", "SNA"},
		{"  Ice Cream  ", "ICE"},
		{"Tea", "TEA"},
		{"PC", "PC"},
		{"", "GEN"},
		{"   ", "GEN"},
	}

	for _, tt := range tests {
		code := TransactionCode(tt.category)
		assert.True(t, strings.HasPrefix(code, tt.prefix+"-"), "category %q: got %q", tt.category, code)
		assert.Regexp(t, codePattern, code)
	}
}

func TestTransactionCodeMultibyteCategory(t *testing.T) {
	// Truncation must count runes, not bytes: a multi-byte category name
	// keeps its first three characters intact instead of ending mid-rune.
	code := TransactionCode("Žele Žele")
	assert.True(t, strings.HasPrefix(code, "ŽEL-"), "got %q", code)
	assert.True(t, utf8.ValidString(code))
}

func TestTransactionCodeSuffixInRange(t *testing.T) {
	// Five-digit zero-padded suffix, so every code has the same width for
	// a given prefix.
	for i := 0; i < 100; i++ {
		code := TransactionCode("Beverages")
		assert.Len(t, code, len("BEV-")+5)
	}
}
