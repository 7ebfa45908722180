package render

import "strings"

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// Roman formats n as a roman numeral. Numbers outside 1..3999 have no
// roman form and yield "".
func Roman(n int, upper bool) string {
	if n <= 0 || n >= 4000 {
		return ""
	}
	var sb strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	if upper {
		return strings.ToUpper(sb.String())
	}
	return sb.String()
}

// Alpha formats n as a list letter: a..z, then aa..zz, then aaa..zzz.
// Larger numbers yield "".
func Alpha(n int, upper bool) string {
	base := byte('a')
	if upper {
		base = 'A'
	}
	switch {
	case n <= 0:
		return ""
	case n <= 26:
		return string([]byte{base + byte(n-1)})
	case n <= 26+26*26:
		n -= 26 + 1
		return string([]byte{base + byte(n/26), base + byte(n%26)})
	case n <= 26+26*26+26*26*26:
		n -= 26 + 26*26 + 1
		return string([]byte{base + byte(n/(26*26)), base + byte(n/26%26), base + byte(n%26)})
	default:
		return ""
	}
}
