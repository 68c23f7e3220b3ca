package editor

import "github.com/iw2rmb/codeplay/internal/textwidth"

// segment is one visual row of a logical line: grapheme columns [start, end).
type segment struct {
	start, end int
}

// lineWidths returns the cell width of each cluster, with tab stops measured
// from the start of the logical line.
func lineWidths(cl []string, tabSize int) []int {
	out := make([]int, len(cl))
	col := 0
	for i, c := range cl {
		out[i] = textwidth.Cells(c, col, tabSize)
		col += out[i]
	}
	return out
}

// wrapSegments splits a line into rows of at most width cells. With word
// set, rows break after the last whitespace that fits; a run with no
// whitespace breaks at the width. width <= 0 disables wrapping.
func wrapSegments(cl []string, widths []int, width int, word bool) []segment {
	if width <= 0 || len(cl) == 0 {
		return []segment{{0, len(cl)}}
	}

	var segs []segment
	for start := 0; start < len(cl); {
		used, end := 0, start
		for end < len(cl) {
			w := widths[end]
			if used > 0 && used+w > width {
				break
			}
			used += w
			end++
		}
		if word && end < len(cl) && !textwidth.IsSpace(cl[end]) {
			for j := end; j > start+1; j-- {
				if textwidth.IsSpace(cl[j-1]) {
					end = j
					break
				}
			}
		}
		segs = append(segs, segment{start, end})
		start = end
	}
	return segs
}
