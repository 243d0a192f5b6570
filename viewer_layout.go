// viewer_layout.go
// 网格布局 - 管理单元的位置、选中状态和绘制

package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 布局常量
const (
	cellWidth   = 300
	cellHeight  = 260
	cellPadding = 12
	infoBarH    = 28
	lineHeight  = 14
)

// GridLayout 网格布局
type GridLayout struct {
	cells   []*ViewerCell
	columns int

	selectedIndex int
}

// NewGridLayout 创建网格布局
func NewGridLayout(cells []*ViewerCell, windowWidth int) *GridLayout {
	columns := (windowWidth - cellPadding) / (cellWidth + cellPadding)
	if columns < 1 {
		columns = 1
	}
	layout := &GridLayout{
		cells:         cells,
		columns:       columns,
		selectedIndex: -1,
	}
	if len(cells) > 0 {
		layout.selectedIndex = 0
	}
	return layout
}

// Update 推进所有单元
func (g *GridLayout) Update(dt, timeScale float64) {
	for _, cell := range g.cells {
		cell.Update(dt, timeScale)
	}
}

// Render 绘制所有单元
func (g *GridLayout) Render(screen *ebiten.Image) {
	for i, cell := range g.cells {
		x, y := g.getCellPosition(i)

		bg := color.RGBA{70, 70, 70, 255}
		if i == g.selectedIndex {
			bg = color.RGBA{90, 90, 60, 255} // 高亮选中
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), cellWidth, cellHeight, bg, false)
		vector.StrokeRect(screen, float32(x), float32(y), cellWidth, cellHeight, 2, color.RGBA{120, 120, 120, 255}, false)

		// 精灵中心位于单元上半部分
		cell.Render(screen, x+cellWidth/2, y+cellHeight*0.4)

		lines := cell.StatusLines()
		textY := y + cellHeight - float64(len(lines)*lineHeight) - 6
		vector.DrawFilledRect(screen, float32(x), float32(textY-2), cellWidth, float32(len(lines)*lineHeight+8), color.RGBA{0, 0, 0, 160}, false)
		for j, line := range lines {
			ebitenutil.DebugPrintAt(screen, line, int(x)+5, int(textY)+j*lineHeight)
		}
	}
}

// getCellPosition 获取单元左上角坐标
func (g *GridLayout) getCellPosition(index int) (float64, float64) {
	row := index / g.columns
	col := index % g.columns

	x := float64(col*(cellWidth+cellPadding) + cellPadding)
	y := float64(row*(cellHeight+cellPadding) + cellPadding + infoBarH)
	return x, y
}

// GetCellAt 获取屏幕坐标处的单元索引，没有时返回 -1
func (g *GridLayout) GetCellAt(screenX, screenY int) int {
	for i := range g.cells {
		x, y := g.getCellPosition(i)
		if float64(screenX) >= x && float64(screenX) <= x+cellWidth &&
			float64(screenY) >= y && float64(screenY) <= y+cellHeight {
			return i
		}
	}
	return -1
}

// SetSelectedIndex 设置选中的单元
func (g *GridLayout) SetSelectedIndex(index int) {
	if index >= 0 && index < len(g.cells) {
		g.selectedIndex = index
	}
}

// SelectNext 选中下一个单元（循环）
func (g *GridLayout) SelectNext() {
	if len(g.cells) == 0 {
		return
	}
	g.selectedIndex = (g.selectedIndex + 1) % len(g.cells)
}

// Selected 返回选中的单元，没有时返回 nil
func (g *GridLayout) Selected() *ViewerCell {
	if g.selectedIndex < 0 || g.selectedIndex >= len(g.cells) {
		return nil
	}
	return g.cells[g.selectedIndex]
}

// Cells 返回所有单元
func (g *GridLayout) Cells() []*ViewerCell {
	return g.cells
}

// WindowHeight 容纳所有单元所需的窗口高度
func (g *GridLayout) WindowHeight() int {
	rows := (len(g.cells) + g.columns - 1) / g.columns
	if rows < 1 {
		rows = 1
	}
	return infoBarH + rows*(cellHeight+cellPadding) + cellPadding
}
