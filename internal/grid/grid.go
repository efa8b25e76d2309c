// Package grid maps a plan document onto the 9x9 mandalart layout.
//
// The grid is 3x3 blocks of 3x3 cells. Block 4 is the center block: its
// center cell is the main goal and its other cells mirror the 8 sub-goal
// titles. Every other block belongs to one sub-goal: title in the center,
// actions around it. Both paths use the same index-skip rule, where the
// center position 4 is reserved and content index i sits at cell i (i<4) or
// cell i+1 (i>=4).
package grid

import "github.com/PabloGalante/mandalart-agent/internal/domain"

const (
	// Side is the width and height of a block, and of the block layout.
	Side = 3
	// BlockSize is the number of cells in a block.
	BlockSize = Side * Side
	// Center is the reserved center index of a block and of the block layout.
	Center = BlockSize / 2
	// CellCount is the total number of cells in the grid.
	CellCount = BlockSize * BlockSize
)

// CellKind says what a cell displays.
type CellKind string

const (
	KindMainGoal      CellKind = "main_goal"
	KindSubGoalTitle  CellKind = "sub_goal_title"
	KindSubGoalMirror CellKind = "sub_goal_mirror"
	KindAction        CellKind = "action"
)

// Cell is one of the 81 grid cells.
type Cell struct {
	Text   string   `json:"text"`
	Kind   CellKind `json:"kind"`
	Center bool     `json:"center"`
	// Cluster is the sub-goal / color index, -1 for the main goal.
	Cluster   int    `json:"cluster"`
	SubGoalID string `json:"subGoalId,omitempty"`
	// Regenerable marks the outer-block title cells, the only cells that
	// trigger block regeneration. Center-block mirrors are read-only.
	Regenerable bool `json:"regenerable"`
}

// Block is a 3x3 group of cells, stored row-major.
type Block struct {
	Index   int             `json:"index"`
	Row     int             `json:"row"`
	Col     int             `json:"col"`
	Cluster int             `json:"cluster"`
	Cells   [BlockSize]Cell `json:"cells"`
}

// IsCenter reports whether this is the main-goal block.
func (b Block) IsCenter() bool { return b.Index == Center }

// CellGrid is the full layout, blocks in row-major order.
type CellGrid struct {
	MainGoal string           `json:"mainGoal"`
	Blocks   [BlockSize]Block `json:"blocks"`
}

// ContentIndex maps a cell (or block) position to the content index it
// shows. ok is false for the reserved center position and out-of-range input.
func ContentIndex(cell int) (idx int, ok bool) {
	switch {
	case cell < 0 || cell >= BlockSize || cell == Center:
		return -1, false
	case cell < Center:
		return cell, true
	default:
		return cell - 1, true
	}
}

// CellIndex is the inverse of ContentIndex.
func CellIndex(content int) (cell int, ok bool) {
	switch {
	case content < 0 || content >= BlockSize-1:
		return -1, false
	case content < Center:
		return content, true
	default:
		return content + 1, true
	}
}

// Layout builds the grid. It never fails: missing sub-goals or actions
// become empty cells, and a nil document yields an empty grid.
func Layout(doc *domain.PlanDocument) CellGrid {
	var g CellGrid
	if doc != nil {
		g.MainGoal = doc.MainGoal
	}

	for b := 0; b < BlockSize; b++ {
		row, col := b/Side, b%Side
		if b == Center {
			g.Blocks[b] = centerBlock(doc)
		} else {
			cluster, _ := ContentIndex(b)
			g.Blocks[b] = outerBlock(doc, cluster)
		}
		g.Blocks[b].Index = b
		g.Blocks[b].Row = row
		g.Blocks[b].Col = col
	}
	return g
}

func centerBlock(doc *domain.PlanDocument) Block {
	blk := Block{Cluster: -1}
	for i := 0; i < BlockSize; i++ {
		if i == Center {
			c := Cell{Kind: KindMainGoal, Center: true, Cluster: -1}
			if doc != nil {
				c.Text = doc.MainGoal
			}
			blk.Cells[i] = c
			continue
		}
		j, _ := ContentIndex(i)
		sg, _ := subGoalAt(doc, j)
		blk.Cells[i] = Cell{
			Text:      sg.Title,
			Kind:      KindSubGoalMirror,
			Cluster:   j,
			SubGoalID: sg.ID,
		}
	}
	return blk
}

func outerBlock(doc *domain.PlanDocument, cluster int) Block {
	blk := Block{Cluster: cluster}
	sg, ok := subGoalAt(doc, cluster)
	for i := 0; i < BlockSize; i++ {
		if i == Center {
			blk.Cells[i] = Cell{
				Text:        sg.Title,
				Kind:        KindSubGoalTitle,
				Center:      true,
				Cluster:     cluster,
				SubGoalID:   sg.ID,
				Regenerable: ok && sg.ID != "",
			}
			continue
		}
		a, _ := ContentIndex(i)
		text := ""
		if a < len(sg.Actions) {
			text = sg.Actions[a]
		}
		blk.Cells[i] = Cell{
			Text:      text,
			Kind:      KindAction,
			Cluster:   cluster,
			SubGoalID: sg.ID,
		}
	}
	return blk
}

func subGoalAt(doc *domain.PlanDocument, i int) (domain.SubGoal, bool) {
	if doc == nil || i < 0 || i >= len(doc.SubGoals) {
		return domain.SubGoal{}, false
	}
	return doc.SubGoals[i], true
}

// BlockFor returns the block that holds the given sub-goal's actions.
func (g CellGrid) BlockFor(cluster int) (Block, bool) {
	b, ok := CellIndex(cluster)
	if !ok {
		return Block{}, false
	}
	return g.Blocks[b], true
}

// Rows flattens the grid into a 9x9 matrix indexed [row][col].
func (g CellGrid) Rows() [][]Cell {
	rows := make([][]Cell, BlockSize)
	for r := range rows {
		rows[r] = make([]Cell, BlockSize)
	}
	for _, blk := range g.Blocks {
		for i, c := range blk.Cells {
			r := blk.Row*Side + i/Side
			col := blk.Col*Side + i%Side
			rows[r][col] = c
		}
	}
	return rows
}

// Cells returns all 81 cells in block order.
func (g CellGrid) Cells() []Cell {
	out := make([]Cell, 0, CellCount)
	for _, blk := range g.Blocks {
		out = append(out, blk.Cells[:]...)
	}
	return out
}
