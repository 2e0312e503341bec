package engine

// CountEmpty counts the empty cells in a grid
func CountEmpty(grid [][]int) int {
	count := 0
	for _, row := range grid {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}

// CountValue counts the cells holding a specific value
func CountValue(grid [][]int, value int) int {
	count := 0
	for _, row := range grid {
		for _, v := range row {
			if v == value {
				count++
			}
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two cells
func ManhattanDistance(from, to Cell) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// FindHighestCell returns the cell holding the largest value, preferring the first in row-major order
func FindHighestCell(grid [][]int) (Cell, int, bool) {
	best := -1
	var cell Cell
	for r, row := range grid {
		for c, v := range row {
			if v > best {
				best = v
				cell = Cell{Row: r, Col: c}
			}
		}
	}
	return cell, best, best > 0
}

// CornerDistance returns how far the highest tile sits from the nearest corner
func CornerDistance(grid [][]int) int {
	cell, _, ok := FindHighestCell(grid)
	if !ok {
		return 0
	}
	corners := []Cell{{0, 0}, {0, Cols - 1}, {Rows - 1, 0}, {Rows - 1, Cols - 1}}
	nearest := -1
	for _, c := range corners {
		if d := ManhattanDistance(cell, c); nearest == -1 || d < nearest {
			nearest = d
		}
	}
	return nearest
}

// Smoothness sums the absolute differences between adjacent non-empty tiles.
// Lower is smoother.
func Smoothness(grid [][]int) int {
	total := 0
	for r := 0; r < len(grid); r++ {
		for c := 0; c < len(grid[r]); c++ {
			v := grid[r][c]
			if v == 0 {
				continue
			}
			if c+1 < len(grid[r]) && grid[r][c+1] != 0 {
				total += abs(v - grid[r][c+1])
			}
			if r+1 < len(grid) && grid[r+1][c] != 0 {
				total += abs(v - grid[r+1][c])
			}
		}
	}
	return total
}

// AnalyzeBoardRisk assesses how close a grid is to a lost game
func AnalyzeBoardRisk(grid [][]int) string {
	empty := CountEmpty(grid)
	switch {
	case empty == 0:
		return "CRITICAL: Board full!"
	case empty <= 2:
		return "DANGER: Only a couple of empty cells left"
	case empty <= 5:
		return "CAUTION: Board filling up, look for merges"
	}
	return "SAFE: Plenty of room"
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
