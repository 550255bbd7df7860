package table

// Raw is a column-major table of untyped string cells, the input of coercion.
type Raw struct {
	Names []string
	Cells [][]string
	rows  int
}

// NewRaw creates an empty raw table with the given column names.
func NewRaw(names []string, capacity int) *Raw {
	cells := make([][]string, len(names))
	for i := range cells {
		cells[i] = make([]string, 0, capacity)
	}

	return &Raw{Names: names, Cells: cells}
}

// AppendRow appends one row of fields.
//
// Short rows are padded with empty (null) cells and surplus fields are dropped;
// the counts are returned so the caller can report them.
func (r *Raw) AppendRow(fields []string) (padded, dropped int) {
	width := len(r.Names)
	for i := 0; i < width; i++ {
		if i < len(fields) {
			r.Cells[i] = append(r.Cells[i], fields[i])
		} else {
			r.Cells[i] = append(r.Cells[i], "")
			padded++
		}
	}
	if len(fields) > width {
		dropped = len(fields) - width
	}
	r.rows++

	return padded, dropped
}

// Rows returns the number of rows.
func (r *Raw) Rows() int {
	if len(r.Cells) > 0 {
		return len(r.Cells[0])
	}

	return r.rows
}
