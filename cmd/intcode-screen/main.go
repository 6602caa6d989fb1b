package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

var fontFace = text.NewGoXFace(bitmapfont.Face)

const initialScreenWidth, initialScreenHeight = 1024, 768

const (
	tileSize = 24
	margin   = 32

	// Upper bound of instructions per frame when the program never asks for input.
	maxStepsPerFrame = 1 << 20
)

// Tile ids drawn by screen programs.
const (
	TileEmpty = iota
	TileWall
	TileBlock
	TilePaddle
	TileBall
)

var tileColors = map[int64]color.Color{
	TileWall:   colornames.Slategray,
	TileBlock:  colornames.Orange,
	TilePaddle: colornames.Deepskyblue,
	TileBall:   colornames.White,
}

// Game implements ebiten.Game interface.
type Game struct {
	m *vm.Machine

	tiles  map[image.Point]int64
	bounds image.Rectangle
	score  int64
	frame  []int64 // Pending x, y, tile triple.

	joystick  int64
	inputUsed bool
	err       error
}

func NewGame(p program.Program) *Game {
	g := &Game{tiles: map[image.Point]int64{}}
	g.m = vm.New(p, vm.WithInput(vm.InputFunc(g.nextInput)))
	return g
}

// nextInput gives the joystick position once per frame.
func (g *Game) nextInput() (int64, bool) {
	if g.inputUsed {
		return 0, false
	}
	g.inputUsed = true
	return g.joystick, true
}

func (g *Game) reset() {
	g.m.Reset()
	g.tiles = map[image.Point]int64{}
	g.bounds = image.Rectangle{}
	g.score = 0
	g.frame = g.frame[:0]
	g.err = nil
}

func (g *Game) handleOutput(v int64) {
	g.frame = append(g.frame, v)
	if len(g.frame) < 3 {
		return
	}
	x, y, tile := g.frame[0], g.frame[1], g.frame[2]
	g.frame = g.frame[:0]
	if x == -1 && y == 0 {
		g.score = tile
		return
	}
	pt := image.Pt(int(x), int(y))
	g.tiles[pt] = tile
	g.bounds = g.bounds.Union(image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))})
}

// Update proceeds the game state.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}
	switch g.m.State() {
	case vm.StateHalted, vm.StateFaulted:
		return nil
	}

	g.joystick = 0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.joystick--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.joystick++
	}
	g.inputUsed = false

	for range maxStepsPerFrame {
		ev, err := g.m.Step()
		if errors.Is(err, vm.ErrInputExhausted) {
			return nil
		}
		if err != nil {
			g.err = err
			return nil
		}
		switch ev.Outcome.Kind {
		case vm.Output:
			g.handleOutput(ev.Outcome.Value)
		case vm.Halted:
			return nil
		}
	}
	return nil
}

// Draw draws the game screen.
// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	for pt, tile := range g.tiles {
		c, ok := tileColors[tile]
		if !ok {
			continue
		}
		x := float32(margin + (pt.X-g.bounds.Min.X)*tileSize)
		y := float32(2*margin + (pt.Y-g.bounds.Min.Y)*tileSize)
		vector.DrawFilledRect(screen, x+1, y+1, tileSize-2, tileSize-2, c, false)
	}

	status := fmt.Sprintf("Score: %d    Steps: %d    State: %s", g.score, g.m.Steps(), g.m.State())
	switch {
	case g.err != nil:
		status += "\n" + g.err.Error() + ", press R to restart"
	case g.m.State() == vm.StateHalted:
		status += "\nHalted, press R to restart"
	}

	textOp := &text.DrawOptions{}
	textOp.GeoM.Translate(margin, margin/2)
	textOp.LineSpacing = fontFace.Metrics().HLineGap + fontFace.Metrics().HAscent + fontFace.Metrics().HDescent
	textOp.ColorScale.ScaleWithColor(colornames.Lightgreen)
	text.Draw(screen, status, fontFace, textOp)
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return initialScreenWidth, initialScreenHeight
}

func main() {
	cfg, err := cli.ParseConfig(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse cli config: %s.", err)
	}
	p, err := cfg.LoadProgram(nil)
	if err != nil {
		log.Fatalf("Failed to load program: %s.", err)
	}

	game := NewGame(p)
	ebiten.SetWindowSize(initialScreenWidth, initialScreenHeight)
	ebiten.SetWindowTitle("Intcode: " + cfg.Name())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
