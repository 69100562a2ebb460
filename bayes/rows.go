package bayes

// RowIndex returns the mixed-radix index of values over dims. The first
// position is the most significant digit, so rows enumerate the last parent
// fastest. Returns -1 if any value is outside [0, dims[i]).
//
// Complexity: O(len(dims)).
func RowIndex(dims, values []int) int {
	var (
		row int
		i   int
	)
	for i = range dims {
		if values[i] < 0 || values[i] >= dims[i] {
			return -1
		}
		row = row*dims[i] + values[i]
	}

	return row
}

// RowValues is the inverse of RowIndex.
func RowValues(dims []int, row int) []int {
	values := make([]int, len(dims))
	var i int
	for i = len(dims) - 1; i >= 0; i-- {
		values[i] = row % dims[i]
		row /= dims[i]
	}

	return values
}

// RowCount returns Π dims and whether the product stayed within limit.
// An empty dims yields one row.
func RowCount(dims []int, limit int) (int, bool) {
	rows := 1
	for _, d := range dims {
		if d <= 0 {
			return 0, false
		}
		if rows > limit/d {
			return 0, false
		}
		rows *= d
	}

	return rows, rows <= limit
}
