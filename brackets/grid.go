package brackets

// MaxGridColumns is how many brackets the fill grid shows at once.
const MaxGridColumns = 10

type GridColumn struct {
	Bracket  int `json:"bracket"`
	ToFull   int `json:"to_full"`
	ToOneBye int `json:"to_one_bye"`
}

// Grid is the "entries needed" table shown while players are still entering.
type Grid struct {
	Brackets     int          `json:"brackets"`
	Columns      []GridColumn `json:"columns"`
	ToFillFull   int          `json:"to_fill_full"`
	ToFillOneBye int          `json:"to_fill_one_bye"`
}

// BuildGrid projects the collection's fill counts. When there are more
// brackets than columns only the last MaxGridColumns are shown; the to-fill
// totals always cover every bracket.
func BuildGrid(c *Collection) Grid {
	toFull := c.ToFull()
	toOneBye := c.ToOneBye()

	grid := Grid{Brackets: len(toFull), Columns: []GridColumn{}}
	for i := range toFull {
		grid.ToFillFull += toFull[i]
		grid.ToFillOneBye += toOneBye[i]
	}

	start := 0
	if len(toFull) > MaxGridColumns {
		start = len(toFull) - MaxGridColumns
	}
	for i := start; i < len(toFull); i++ {
		grid.Columns = append(grid.Columns, GridColumn{
			Bracket:  i + 1,
			ToFull:   toFull[i],
			ToOneBye: toOneBye[i],
		})
	}
	return grid
}
