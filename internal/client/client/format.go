package client

import (
	"strconv"
	"strings"
)

// FormatValue renders v with at most two fractional digits and a '.'
// decimal point regardless of locale: 7.2 -> "7.2", 7.0 -> "7",
// 7.256 -> "7.26".
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
