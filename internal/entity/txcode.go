package entity

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// fallbackPrefix is used when no category name is available.
const fallbackPrefix = "GEN"

// TransactionCode builds the display identifier stamped on a completed
// sale: the category name with whitespace stripped, uppercased and cut to
// three characters, plus a random five-digit suffix. Codes carry no
// uniqueness guarantee and collisions are expected over volume, so they
// must never be used as a key or for deduplication.
func TransactionCode(categoryName string) string {
	prefix := strings.ToUpper(strings.Join(strings.Fields(categoryName), ""))
	// Truncate by runes so a multi-byte category name cannot leave a
	// broken UTF-8 sequence in the code.
	if r := []rune(prefix); len(r) > 3 {
		prefix = string(r[:3])
	}
	if prefix == "" {
		prefix = fallbackPrefix
	}
	return fmt.Sprintf("%s-%05d", prefix, rand.IntN(100000))
}
