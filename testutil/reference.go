package testutil

// Reference evaluates every table operation by brute-force scan over a
// plain grid. It is the ground truth the physical layouts are compared
// against: whatever a layout answers, the reference must answer too.
type Reference struct {
	rows [][]int32
}

// NewReference creates a reference table over a copy of rows.
func NewReference(rows [][]int32) *Reference {
	return &Reference{rows: Clone(rows)}
}

// NumRows returns the number of rows.
func (ref *Reference) NumRows() int { return len(ref.rows) }

// NumCols returns the number of fields per row.
func (ref *Reference) NumCols() int {
	if len(ref.rows) == 0 {
		return 0
	}
	return len(ref.rows[0])
}

// GetField returns the field at (rowID, colID).
func (ref *Reference) GetField(rowID, colID int) int32 {
	return ref.rows[rowID][colID]
}

// PutField sets the field at (rowID, colID).
func (ref *Reference) PutField(rowID, colID int, value int32) {
	ref.rows[rowID][colID] = value
}

// ColumnSum returns the sum of column 0 over all rows.
func (ref *Reference) ColumnSum() int64 {
	var sum int64
	for _, row := range ref.rows {
		sum += int64(row[0])
	}
	return sum
}

// PredicatedColumnSum returns the sum of column 0 over rows with
// col1 > threshold1 and col2 < threshold2.
func (ref *Reference) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	var sum int64
	for _, row := range ref.rows {
		if row[1] > threshold1 && row[2] < threshold2 {
			sum += int64(row[0])
		}
	}
	return sum
}

// PredicatedAllColumnsSum returns the sum of every field of rows with
// col0 > threshold.
func (ref *Reference) PredicatedAllColumnsSum(threshold int32) int64 {
	var sum int64
	for _, row := range ref.rows {
		if row[0] <= threshold {
			continue
		}
		for _, v := range row {
			sum += int64(v)
		}
	}
	return sum
}

// PredicatedUpdate sets col3 = col2 + col3 for rows with col0 < threshold
// and returns the number of updated rows.
func (ref *Reference) PredicatedUpdate(threshold int32) int {
	updated := 0
	for _, row := range ref.rows {
		if row[0] < threshold {
			row[3] = row[2] + row[3]
			updated++
		}
	}
	return updated
}
