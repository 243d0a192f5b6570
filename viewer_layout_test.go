package main

import "testing"

func TestGridLayout_Positions(t *testing.T) {
	cells := make([]*ViewerCell, 5)
	g := NewGridLayout(cells, 960)

	if g.columns != 3 {
		t.Fatalf("columns = %d, want 3", g.columns)
	}

	x, y := g.getCellPosition(4)
	if x != float64(cellWidth+2*cellPadding) || y != float64(cellHeight+2*cellPadding+infoBarH) {
		t.Errorf("cell 4 at (%v, %v)", x, y)
	}

	if got := g.GetCellAt(int(x)+1, int(y)+1); got != 4 {
		t.Errorf("GetCellAt = %d, want 4", got)
	}
	if got := g.GetCellAt(0, 0); got != -1 {
		t.Errorf("GetCellAt(0,0) = %d, want -1", got)
	}

	if want := infoBarH + 2*(cellHeight+cellPadding) + cellPadding; g.WindowHeight() != want {
		t.Errorf("WindowHeight = %d, want %d", g.WindowHeight(), want)
	}
}

func TestGridLayout_Selection(t *testing.T) {
	g := NewGridLayout(make([]*ViewerCell, 2), 960)
	if g.selectedIndex != 0 {
		t.Errorf("initial selection = %d, want 0", g.selectedIndex)
	}

	g.SelectNext()
	g.SelectNext()
	if g.selectedIndex != 0 {
		t.Errorf("selection should wrap, got %d", g.selectedIndex)
	}

	g.SetSelectedIndex(5)
	if g.selectedIndex != 0 {
		t.Errorf("out of range index should be ignored, got %d", g.selectedIndex)
	}

	empty := NewGridLayout(nil, 100)
	if empty.Selected() != nil || empty.columns != 1 {
		t.Error("empty layout should have no selection and one column")
	}
}
