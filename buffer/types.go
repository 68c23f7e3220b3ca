package buffer

// Pos points into the document by row and grapheme column.
type Pos struct {
	Row         int
	GraphemeCol int
}

// Range is a half-open selection in document coordinates: [Start, End).
type Range struct {
	Start Pos
	End   Pos
}

func ComparePos(a, b Pos) int {
	switch {
	case a.Row < b.Row:
		return -1
	case a.Row > b.Row:
		return 1
	case a.GraphemeCol < b.GraphemeCol:
		return -1
	case a.GraphemeCol > b.GraphemeCol:
		return 1
	}
	return 0
}

func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

func (r Range) IsEmpty() bool { return r.Start == r.End }

// Contains reports whether p lies inside the normalized range.
func (r Range) Contains(p Pos) bool {
	r = NormalizeRange(r)
	return ComparePos(p, r.Start) >= 0 && ComparePos(p, r.End) < 0
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampPos clamps p into a document of rowCount rows (at least one) where
// lineLen reports the grapheme length of each row.
func ClampPos(p Pos, rowCount int, lineLen func(row int) int) Pos {
	if rowCount <= 0 {
		rowCount = 1
	}
	row := clampInt(p.Row, 0, rowCount-1)
	maxCol := 0
	if lineLen != nil {
		maxCol = max(lineLen(row), 0)
	}
	return Pos{Row: row, GraphemeCol: clampInt(p.GraphemeCol, 0, maxCol)}
}

func ClampRange(r Range, rowCount int, lineLen func(row int) int) Range {
	return Range{
		Start: ClampPos(r.Start, rowCount, lineLen),
		End:   ClampPos(r.End, rowCount, lineLen),
	}
}
