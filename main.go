// main.go
// 动画查看器：加载 data/ 中的驱动器配置和动画清单，逐个预览
//
// 用法：
//
//	go run .                            # 使用嵌入的 data/
//	go run . --data=data --watch        # 从磁盘读取并在清单/脚本变更时热重载
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/spriteanim/pkg/config"
	"github.com/decker502/spriteanim/pkg/embedded"
	"github.com/decker502/spriteanim/pkg/store"
	"github.com/decker502/spriteanim/pkg/types"
	"github.com/decker502/spriteanim/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	dataDir    = flag.String("data", "", "数据目录（为空时使用嵌入的 data/）")
	configFile = flag.String("config", "animators.yaml", "驱动器配置文件（相对数据目录）")
	watch      = flag.Bool("watch", false, "监听清单和脚本变更（需要 --data）")
	scale      = flag.Float64("scale", 3, "精灵缩放")
	verbose    = flag.Bool("verbose", false, "详细日志")
)

const (
	windowWidth = 960
	appName     = "spriteanim"

	minSpeed     = 0.25
	maxSpeed     = 4.0
	minTimeScale = 0.0
	maxTimeScale = 2.0
)

// Game 查看器主结构
type Game struct {
	fsys      fs.FS
	manifests *config.ManifestManager
	frames    *utils.FrameLoader
	layout    *GridLayout
	snapshots *store.SnapshotStore
	watcher   *config.Watcher

	timeScale float64
	showHelp  bool
	message   string
}

// NewGame 加载配置并创建所有单元
func NewGame(fsys fs.FS) (*Game, error) {
	set, err := config.LoadAnimatorSet(fsys, *configFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	manifests, err := config.NewManifestManager(fsys, "manifests")
	if err != nil {
		return nil, fmt.Errorf("加载清单失败: %w", err)
	}

	frames := utils.NewFrameLoader(fsys)
	frames.AllowPlaceholders = true

	cells := make([]*ViewerCell, 0, len(set.Animators))
	for i := range set.Animators {
		cell, err := NewViewerCell(&set.Animators[i], manifests, frames, *scale)
		if err != nil {
			log.Printf("警告: 无法创建驱动器 [%s]: %v", set.Animators[i].Name, err)
			continue
		}
		cells = append(cells, cell)
		if *verbose {
			log.Printf("  ✓ 加载: %s", cell.Driver())
		}
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("没有成功加载任何驱动器")
	}
	log.Printf("✓ 成功加载 %d 个驱动器（%d 个清单，%d 帧）", len(cells), manifests.Len(), frames.CachedCount())

	return &Game{
		fsys:      fsys,
		manifests: manifests,
		frames:    frames,
		layout:    NewGridLayout(cells, windowWidth),
		snapshots: store.OpenSnapshotStore(appName),
		timeScale: 1,
		showHelp:  true,
	}, nil
}

// Update 更新状态
func (g *Game) Update() error {
	g.pollWatcher()
	g.handleInput()

	dt := 1.0 / float64(ebiten.TPS())
	g.layout.Update(dt, g.timeScale)
	return nil
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.layout.SelectNext()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reload("F5")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.timeScale = clamp(g.timeScale-0.25, minTimeScale, maxTimeScale)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.timeScale = clamp(g.timeScale+0.25, minTimeScale, maxTimeScale)
	}

	if pressed, x, y := utils.IsPointerJustPressed(); pressed {
		if index := g.layout.GetCellAt(x, y); index >= 0 {
			g.layout.SetSelectedIndex(index)
		}
	}

	cell := g.layout.Selected()
	if cell == nil {
		return
	}
	d := cell.Driver()

	// 数字键切换动作，按住 Shift 时加入队列
	actions := d.Actions()
	for key := ebiten.Key1; key <= ebiten.Key9; key++ {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		index := int(key - ebiten.Key1)
		if index >= len(actions) {
			continue
		}
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			d.Enqueue(actions[index])
		} else {
			d.SetAction(actions[index])
		}
	}

	if dir := directionFromKeys(); dir.IsSet() {
		if !d.SetDirection(dir) {
			g.message = fmt.Sprintf("%s: %s 没有方向 %s", cell.Name(), d.CurrentAction(), dir)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if d.IsPlaying() {
			d.Pause()
		} else {
			d.Resume()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		d.Play()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		d.PlayRandom()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		d.ToggleReverse()
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		d.ToggleLoop()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		d.ClearQueue()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		d.SetSpeed(clamp(d.Speed()*2, minSpeed, maxSpeed))
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		d.SetSpeed(clamp(d.Speed()/2, minSpeed, maxSpeed))
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		x, _ := utils.GetPointerPosition()
		d.FaceTowards(cell.Renderer().X, float64(x))
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := g.snapshots.Save(cell.Name(), d.Snapshot()); err != nil {
			g.message = fmt.Sprintf("保存快照失败: %v", err)
		} else {
			g.message = fmt.Sprintf("已保存快照 %s", cell.Name())
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		snap, err := g.snapshots.Load(cell.Name())
		if err == nil {
			err = d.Restore(snap)
		}
		if err != nil {
			g.message = fmt.Sprintf("恢复快照失败: %v", err)
		} else {
			g.message = fmt.Sprintf("已恢复快照 %s", cell.Name())
		}
	}
}

// directionFromKeys 根据刚按下的方向键（可组合）返回方向
func directionFromKeys() types.Direction {
	if !inpututil.IsKeyJustPressed(ebiten.KeyUp) && !inpututil.IsKeyJustPressed(ebiten.KeyDown) &&
		!inpututil.IsKeyJustPressed(ebiten.KeyLeft) && !inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		return types.DirectionNone
	}

	dx, dy := 0, 0
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		dy--
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		dy++
	}

	switch {
	case dx == 0 && dy < 0:
		return types.DirectionN
	case dx > 0 && dy < 0:
		return types.DirectionNE
	case dx > 0 && dy == 0:
		return types.DirectionE
	case dx > 0 && dy > 0:
		return types.DirectionSE
	case dx == 0 && dy > 0:
		return types.DirectionS
	case dx < 0 && dy > 0:
		return types.DirectionSW
	case dx < 0 && dy == 0:
		return types.DirectionW
	case dx < 0 && dy < 0:
		return types.DirectionNW
	}
	return types.DirectionNone
}

// pollWatcher 非阻塞地读取文件变更
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	changed := ""
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			changed = name
			continue
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("[Watcher] Error: %v", err)
			continue
		default:
		}
		break
	}
	if changed != "" {
		g.reload(filepath.Base(changed))
	}
}

// reload 重新加载清单，并替换每个单元的动画库
func (g *Game) reload(reason string) {
	g.frames.ClearCache()
	if err := g.manifests.Reload(); err != nil {
		g.message = fmt.Sprintf("重载失败（%s）: %v", reason, err)
		log.Printf("警告: %s", g.message)
		return
	}

	failed := 0
	for _, cell := range g.layout.Cells() {
		if err := cell.Reload(g.manifests, g.frames); err != nil {
			log.Printf("警告: 重载驱动器 [%s] 失败: %v", cell.Name(), err)
			failed++
		}
	}
	g.message = fmt.Sprintf("已重载（%s），失败 %d 个", reason, failed)
	log.Println(g.message)
}

// Draw 绘制画面
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{40, 40, 40, 255})
	g.layout.Render(screen)

	info := fmt.Sprintf("TPS: %.1f | time scale: %.2f", ebiten.ActualTPS(), g.timeScale)
	if cell := g.layout.Selected(); cell != nil {
		info += " | 选中: " + cell.Name()
	}
	if g.snapshots.Persistent() {
		info += " | snapshots: disk"
	} else {
		info += " | snapshots: memory"
	}
	ebitenutil.DebugPrintAt(screen, info, cellPadding, 6)
	if g.message != "" {
		ebitenutil.DebugPrintAt(screen, g.message, windowWidth/2, 6)
	}

	if g.showHelp {
		g.drawHelp(screen)
	}
}

func (g *Game) drawHelp(screen *ebiten.Image) {
	help := "操作说明:\n" +
		"  Tab/点击     - 选中单元\n" +
		"  1-9          - 切换动作 (Shift: 加入队列)\n" +
		"  方向键       - 切换方向 (可组合)\n" +
		"  Space        - 暂停/继续\n" +
		"  Enter / P    - 重新播放 / 随机动作\n" +
		"  R / O / C    - 反向 / 循环 / 清空队列\n" +
		"  + / -        - 播放速度\n" +
		"  [ / ]        - 全局时间缩放\n" +
		"  F            - 朝向鼠标\n" +
		"  S / L        - 保存 / 恢复快照\n" +
		"  F5           - 重新加载清单\n" +
		"  H            - 显示/隐藏帮助"
	ebitenutil.DebugPrintAt(screen, help, windowWidth-300, infoBarH+cellPadding)
}

// Layout 设置窗口布局
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, g.layout.WindowHeight()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openData 返回数据文件系统：--data 指定的目录，或嵌入的 data/
func openData() (fs.FS, error) {
	if *dataDir != "" {
		if _, err := os.Stat(*dataDir); err != nil {
			return nil, fmt.Errorf("数据目录不可用: %w", err)
		}
		return os.DirFS(*dataDir), nil
	}
	embedded.Init(dataFS)
	return embedded.Sub("data")
}

func main() {
	flag.Parse()

	if *verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}

	log.Println("=== 动画查看器启动 ===")

	fsys, err := openData()
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	game, err := NewGame(fsys)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	if *watch {
		if *dataDir == "" {
			log.Printf("警告: --watch 需要 --data，已忽略")
		} else {
			w, err := config.NewWatcher(filepath.Join(*dataDir, "manifests"), filepath.Join(*dataDir, "scripts"))
			if err != nil {
				log.Printf("警告: 无法监听数据目录: %v", err)
			} else {
				game.watcher = w
				defer w.Close()
				log.Printf("✓ 监听 %s", *dataDir)
			}
		}
	}

	ebiten.SetWindowSize(windowWidth, game.layout.WindowHeight())
	ebiten.SetWindowTitle("Sprite Animation Viewer")
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
