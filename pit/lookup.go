package pit

// RowRange is a half-open row interval [From, To) into a PIT table.
type RowRange struct {
	From, To int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int { return r.To - r.From }

// Lookups maps logical component tables ("pipe", "pump", junction tables,
// …) to the row range they occupy in a PIT. A full-PIT Lookups addresses
// every row; (*Active).Lookups derives the lookups for the compacted
// active-PIT view rebuilt before each hydraulic or thermal subproblem.
type Lookups struct {
	NodeTables   map[string]RowRange
	BranchTables map[string]RowRange
}

// NewLookups builds a full-table lookup registry: node rows are one table
// per NodeTables key owned by the caller (typically a single "junction"
// table), branch rows are grouped contiguously by Kind.
func NewLookups() *Lookups {
	return &Lookups{
		NodeTables:   make(map[string]RowRange),
		BranchTables: make(map[string]RowRange),
	}
}

// BranchTableFor groups branch PIT rows contiguously by Kind and returns
// the resulting lookup registry. Callers that build a BranchPit by
// appending rows table-by-table (pipes, then pumps, then valves, …) can
// pass the count per kind directly; this mirrors how fem/domain.go sums
// per-element-type row counts once, up front.
func BranchTableFor(counts []struct {
	Kind Kind
	N    int
}) *Lookups {
	lk := NewLookups()
	row := 0
	for _, c := range counts {
		lk.BranchTables[string(c.Kind)] = RowRange{From: row, To: row + c.N}
		row += c.N
	}
	return lk
}

// BranchSlice returns the row range for a branch table, or a zero-length range
// if the table is absent (the component kind was not used in this network).
func (lk *Lookups) BranchSlice(kind Kind) RowRange {
	return lk.BranchTables[string(kind)]
}
