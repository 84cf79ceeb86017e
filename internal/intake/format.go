package intake

import (
	pstrings "intake/pkg/platform/strings"
)

// FormatCPF renders CPF digits as 000.000.000-00. Values that are not 11
// digits are returned unchanged.
func FormatCPF(value string) string {
	d := pstrings.Digits(value)
	if len(d) != 11 {
		return value
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// FormatPhone renders phone digits as (00) 0000-0000 or (00) 00000-0000.
// Values that are not 10 or 11 digits are returned unchanged.
func FormatPhone(value string) string {
	d := pstrings.Digits(value)
	switch len(d) {
	case 10:
		return "(" + d[0:2] + ") " + d[2:6] + "-" + d[6:10]
	case 11:
		return "(" + d[0:2] + ") " + d[2:7] + "-" + d[7:11]
	default:
		return value
	}
}
