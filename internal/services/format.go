package services

import "fmt"

var magnitudes = []struct {
	unit    string
	divisor float64
}{
	{"million", 1_000_000},
	{"thousand", 1_000},
}

// FormatNumber renders v with two decimals and a magnitude suffix. Values
// below one thousand keep an empty suffix, so "500.00 " ends with a space.
func FormatNumber(v float64, prefix string) string {
	unit := ""
	for _, m := range magnitudes {
		if v >= m.divisor {
			v /= m.divisor
			unit = m.unit
			break
		}
	}

	s := fmt.Sprintf("%.2f %s", v, unit)
	if prefix != "" {
		return prefix + " " + s
	}
	return s
}
