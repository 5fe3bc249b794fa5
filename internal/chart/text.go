package chart

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Text draws b as rows of block characters, one row per bar, at most width
// cells for the longest bar.
func Text(b Bar, width int) []string {
	if b.Empty() {
		return []string{"(no data)"}
	}
	labelW := 0
	for _, l := range b.Labels {
		if n := utf8.RuneCountInString(l); n > labelW {
			labelW = n
		}
	}
	max := maxValue(b.Values)
	rows := make([]string, len(b.Values))
	for i, v := range b.Values {
		n := scaled(v, max, width)
		pad := strings.Repeat(" ", labelW-utf8.RuneCountInString(b.Labels[i]))
		rows[i] = fmt.Sprintf("%s%s │%s %s", b.Labels[i], pad, strings.Repeat("█", n), formatValue(v))
	}
	return rows
}
