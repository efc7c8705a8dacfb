package xlsx

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Area is a rectangle of cells with 1-based, inclusive bounds.
type Area struct {
	MinCol, MinRow int
	MaxCol, MaxRow int
}

// Contains reports whether the 1-based column/row lies inside the area.
func (a Area) Contains(col, row int) bool {
	return col >= a.MinCol && col <= a.MaxCol && row >= a.MinRow && row <= a.MaxRow
}

// TopLeft returns the coordinate of the upper-left cell.
func (a Area) TopLeft() string { return cellName(a.MinCol, a.MinRow) }

// BottomRight returns the coordinate of the lower-right cell.
func (a Area) BottomRight() string { return cellName(a.MaxCol, a.MaxRow) }

func (a Area) String() string { return a.TopLeft() + ":" + a.BottomRight() }

// Cells enumerates every coordinate of the area row by row.
func (a Area) Cells() []string {
	out := make([]string, 0, (a.MaxCol-a.MinCol+1)*(a.MaxRow-a.MinRow+1))
	for r := a.MinRow; r <= a.MaxRow; r++ {
		for c := a.MinCol; c <= a.MaxCol; c++ {
			out = append(out, cellName(c, r))
		}
	}
	return out
}

// ParseRange parses "B2:D4" (absolute markers allowed, corners in any order).
func ParseRange(ref string) (Area, error) {
	parts := strings.Split(strings.ReplaceAll(ref, "$", ""), ":")
	if len(parts) != 2 {
		return Area{}, ErrCoordinate.New(ref, "range needs two corners")
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Area{}, ErrCoordinate.New(ref, err.Error())
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return Area{}, ErrCoordinate.New(ref, err.Error())
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return Area{MinCol: c1, MinRow: r1, MaxCol: c2, MaxRow: r2}, nil
}

// ParseCoordinate splits "F45" into its 1-based column and row.
func ParseCoordinate(coord string) (col, row int, err error) {
	col, row, err = excelize.CellNameToCoordinates(strings.ReplaceAll(coord, "$", ""))
	if err != nil {
		return 0, 0, ErrCoordinate.New(coord, err.Error())
	}
	return col, row, nil
}

// NormalizeCoordinate returns coord in the canonical "AB12" form.
func NormalizeCoordinate(coord string) (string, error) {
	col, row, err := ParseCoordinate(coord)
	if err != nil {
		return "", err
	}
	return cellName(col, row), nil
}

// ColumnLetter converts a 1-based column number to its letters.
func ColumnLetter(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}

// ColumnNumber converts column letters to a 1-based column number.
func ColumnNumber(letters string) (int, error) {
	n, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0, ErrCoordinate.New(letters, err.Error())
	}
	return n, nil
}

// Coordinate builds a coordinate from column letters and a row number.
func Coordinate(col string, row int) string {
	return strings.ToUpper(col) + strconv.Itoa(row)
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}
