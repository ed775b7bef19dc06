package auth

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcoot/authstore/internal/dependencies/random"
)

// SuffixMax is the upper bound (inclusive) of the random suffix appended by ModUsername
const SuffixMax = 1000

// ModUsername lower-cases username for the given locale, replaces every space
// with an underscore and appends a random suffix in [1, SuffixMax].
//
// It is NOT idempotent: each call draws a fresh suffix. The second return
// value is false when the stripped username is empty.
func ModUsername(username string, rnd random.Random, locale language.Tag) (string, bool) {
	stripped := strings.ReplaceAll(cases.Lower(locale).String(username), " ", "_")
	if stripped == "" {
		return "", false
	}
	return stripped + strconv.Itoa(rnd.Intn(SuffixMax)+1), true
}

// DoubleRandomCount returns twice count, saturating at math.MaxInt64
func DoubleRandomCount(count int64) int64 {
	if count > math.MaxInt64/2 {
		return math.MaxInt64
	}
	return count * 2
}
