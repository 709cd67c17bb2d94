package table

import "strings"

// Serialize joins cells with "," and terminates every row with "\n". Cells
// are written verbatim; see the package note on commas inside values.
func Serialize(t Table) string {
	var b strings.Builder
	size := 0
	for _, r := range t {
		for _, c := range r {
			size += len(c) + 1
		}
		size++
	}
	b.Grow(size)

	for _, r := range t {
		for j, c := range r {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
