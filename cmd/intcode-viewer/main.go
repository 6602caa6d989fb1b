package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/intcode/ascii"
	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/disasm"
	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

const (
	width    = 10   // Memory cells per row.
	maxCells = 4096 // Memory cells displayed.

	maxStepsPerTick = 64
)

var msgColors = map[vm.MessageType]tcell.Color{
	vm.MsgDebug:      tcell.ColorDimGray,
	vm.MsgError:      tcell.ColorRed,
	vm.MsgInput:      tcell.ColorLightGreen,
	vm.MsgAwaitInput: tcell.ColorYellow,
	vm.MsgOutput:     tcell.ColorLightBlue,
	vm.MsgHalt:       tcell.ColorPurple,
	vm.MsgReset:      tcell.ColorOrange,
}

func NewGame(ctx context.Context, name string, m *vm.Machine, queue *vm.Queue, messages chan vm.Message) *Game {
	app := tview.NewApplication().EnableMouse(true)

	newTextView := func(text string) *tview.TextView {
		return tview.NewTextView().
			SetDynamicColors(true).
			SetText(text)
	}

	memView := tview.NewTable().SetBorders(false)

	logsView := newTextView("")
	logsView.SetTitle("Logs").SetBorder(true)
	logsView.SetMaxLines(1000)
	logsView.ScrollToEnd()

	outputView := newTextView("")
	outputView.SetTitle("Output").SetBorder(true)
	outputView.ScrollToEnd()

	stateView := newTextView("")
	stateView.SetTitle("Machine").SetBorder(true)

	inputField := tview.NewInputField().
		SetLabel("Input: ").
		SetFieldWidth(0)
	inputField.SetBorder(true)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow)
	rightPane.
		AddItem(stateView, 0, 2, false).
		AddItem(outputView, 0, 3, false).
		AddItem(logsView, 0, 4, false).
		AddItem(inputField, 3, 0, false)

	memPane := tview.NewFlex()
	memPane.SetBorder(true)
	memPane.SetTitle("Memory: " + name)
	memPane.AddItem(memView, 0, 1, true)

	flex := tview.NewFlex().
		AddItem(memPane, 0, 3, true).
		AddItem(rightPane, 0, 2, false)

	disasmView := newTextView(tview.Escape(disasm.Disasm(m.Program())))
	disasmView.SetTitle("Disassembly: " + name).SetBorder(true)

	pages := tview.NewPages()
	pages.AddPage("main", flex, true, true)
	pages.AddPage("disasm", disasmView, true, false)

	ctx, cancel := context.WithCancel(ctx)

	return &Game{
		app: app,

		root: pages,

		memView:    memView,
		stateView:  stateView,
		outputView: outputView,
		logsView:   logsView,
		inputField: inputField,

		m:        m,
		queue:    queue,
		messages: messages,
		ctx:      ctx,
		cancel:   cancel,

		paused: true,
		speed:  1,
	}
}

type Game struct {
	app *tview.Application

	root *tview.Pages

	memView    *tview.Table
	stateView  *tview.TextView
	outputView *tview.TextView
	logsView   *tview.TextView
	inputField *tview.InputField

	// mu guards the machine, stepped by the update loop and read by the draw.
	mu       sync.Mutex
	m        *vm.Machine
	queue    *vm.Queue
	messages chan vm.Message

	ctlMu    sync.Mutex
	paused   bool
	nextStep bool
	speed    int

	ctx    context.Context
	cancel context.CancelFunc
}

func (g *Game) Stop() {
	g.app.Stop()
	g.cancel()
}

func (g *Game) setPaused(paused bool) {
	g.ctlMu.Lock()
	g.paused = paused
	g.ctlMu.Unlock()
}

func (g *Game) submitInput(key tcell.Key) {
	if key != tcell.KeyEnter {
		g.app.SetFocus(g.memView)
		return
	}
	line := g.inputField.GetText()
	values, err := program.Parse(line)
	if err != nil {
		// Not numbers, send as an ASCII line.
		values, err = ascii.Command(line)
	}
	if err != nil {
		fmt.Fprintf(g.logsView, "[red]invalid input %q: %s[:::]\n", tview.Escape(line), tview.Escape(err.Error()))
		return
	}
	g.queue.Put(values...)
	fmt.Fprintf(g.logsView, "[green]queued %d value(s)[:::]\n", len(values))
	g.inputField.SetText("")
	g.app.SetFocus(g.memView)
	g.setPaused(false)
}

func (g *Game) Init() {
	g.inputField.SetDoneFunc(g.submitInput)
	f := func(event *tcell.EventKey) *tcell.EventKey {
		if g.app.GetFocus() == g.inputField {
			return event
		}
		curPage, _ := g.root.GetFrontPage()
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			g.Stop()
			return nil
		case tcell.KeyTab:
			g.app.SetFocus(g.inputField)
			return nil
		}
		g.ctlMu.Lock()
		defer g.ctlMu.Unlock()
		switch event.Rune() {
		case 'n':
			g.nextStep = true
			return nil
		case ' ':
			g.paused = !g.paused
			return nil
		case '+':
			g.speed = min(g.speed*2, maxStepsPerTick)
			return nil
		case '-':
			g.speed = max(g.speed/2, 1)
			return nil
		case 'r':
			g.paused = true
			go func() {
				g.mu.Lock()
				g.m.Reset()
				g.mu.Unlock()
				g.app.QueueUpdateDraw(func() {
					g.outputView.Clear()
					g.Draw()
				})
			}()
			return nil
		case 'd':
			if curPage == "main" {
				g.root.SwitchToPage("disasm")
			} else {
				g.root.SwitchToPage("main")
			}
			return nil
		case 'q':
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			g.Stop()
			return nil
		}
		return event
	}
	g.root.SetInputCapture(f)
	go func() {
	loop:
		select {
		case msg := <-g.messages:
			g.app.QueueUpdate(func() { g.handleMessage(msg) })
		case <-g.ctx.Done():
			return
		}
		goto loop
	}()
}

// handleMessage runs in the application goroutine.
func (g *Game) handleMessage(msg vm.Message) {
	switch msg.Type {
	case vm.MsgOutput:
		if ascii.IsText(msg.Value) {
			fmt.Fprint(g.outputView, tview.Escape(string(rune(msg.Value))))
		} else {
			fmt.Fprintf(g.outputView, "%d\n", msg.Value)
		}
	case vm.MsgAwaitInput, vm.MsgHalt, vm.MsgError:
		g.setPaused(true)
		if msg.Type == vm.MsgAwaitInput {
			g.app.SetFocus(g.inputField)
		}
	}
	// NOTE: Seems like there is a bug with tview, we can't reset the color to default
	// with [:] or [:::], so we use tcell default.
	colorCode := "[" + tcell.ColorDefault.String() + ":::]"
	if c, ok := msgColors[msg.Type]; ok {
		colorCode = "[" + c.String() + ":::]"
	}
	fmt.Fprintf(g.logsView, "%s%s[:::]\n", colorCode, tview.Escape(strings.TrimSuffix(msg.String(), "\n")))
}

func (g *Game) Update() error {
	g.ctlMu.Lock()
	steps := g.speed
	if g.nextStep {
		g.nextStep = false
		steps = 1
	} else if g.paused {
		steps = 0
	}
	g.ctlMu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	for range steps {
		ev, err := g.m.Step()
		if errors.Is(err, vm.ErrInputExhausted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to execute instruction: %w", err)
		}
		if ev.Outcome.Kind == vm.Halted {
			return nil
		}
	}
	return nil
}

func (g *Game) drawState() {
	sv := g.stateView
	sv.Clear()

	fmt.Fprintf(sv, "State: %s\n", g.m.State())
	fmt.Fprintf(sv, "PC: %d\n", g.m.PC())
	fmt.Fprintf(sv, "Relative base: %d\n", g.m.RelativeBase())
	fmt.Fprintf(sv, "Steps: %d\n", g.m.Steps())
	fmt.Fprintf(sv, "Memory: %d cells, extent %d\n", g.m.Memory().Len(), g.m.Memory().Extent())
	fmt.Fprintf(sv, "Pending input: %d\n", g.m.Pending()+g.queue.Len())
	g.ctlMu.Lock()
	fmt.Fprintf(sv, "Speed: %d step(s)/tick, paused: %t\n", g.speed, g.paused)
	g.ctlMu.Unlock()
	if err := g.m.Err(); err != nil {
		fmt.Fprintf(sv, "[red]%s[:::]\n", tview.Escape(err.Error()))
	}
}

func (g *Game) drawMemory() {
	mem := g.m.Memory()
	lastRead, hasRead := mem.LastRead()
	lastWrite, hasWrite := mem.LastWrite()
	n := min(mem.Extent(), maxCells)

	g.memView.Clear()
	for i := range n {
		value := mem.Get(i)
		cell := tview.NewTableCell(fmt.Sprintf("%d", value)).SetAlign(tview.AlignRight)
		switch {
		case i == g.m.PC():
			cell.SetAttributes(tcell.AttrReverse).SetTextColor(tcell.ColorYellow)
		case hasWrite && i == lastWrite:
			cell.SetAttributes(tcell.AttrBold).SetTextColor(tcell.ColorRed)
		case hasRead && i == lastRead:
			cell.SetAttributes(tcell.AttrItalic).SetTextColor(tcell.ColorLightGreen)
		case value == 0:
			cell.SetTextColor(tcell.ColorDimGray)
			cell.SetAttributes(tcell.AttrDim)
		}
		if i%width == 0 {
			g.memView.SetCell(int(i/width), 0, tview.NewTableCell(fmt.Sprintf("%04d", i)).SetTextColor(tcell.ColorDimGray))
		}
		g.memView.SetCell(int(i/width), int(i%width)+1, cell)
	}
}

// Draw runs in the application goroutine.
func (g *Game) Draw() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drawMemory()
	g.drawState()
}

func main() {
	cfg, err := cli.ParseConfig(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse CLI config: %s.", err)
	}
	p, err := cfg.LoadProgram(program.NewCache(program.DefaultCacheSize))
	if err != nil {
		log.Fatalf("Failed to load program: %s.", err)
	}
	inputs, err := cfg.InputValues()
	if err != nil {
		log.Fatalf("Invalid inputs: %s.", err)
	}

	queue := vm.NewQueue(inputs...)
	messages := make(chan vm.Message, 1024)
	m := vm.New(p, vm.WithInput(vm.InputFunc(queue.TryTake)), vm.WithMessages(messages))

	g := NewGame(context.Background(), cfg.Name(), m, queue, messages)
	g.Init()
	g.Draw()
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		defer func() {
			if e := recover(); e != nil {
				g.app.Stop()
				log.Printf("Recovered from panic: %v", e)
				debug.PrintStack()
			}
		}()
	loop:
		if err := g.Update(); err != nil {
			g.app.QueueUpdate(func() {
				fmt.Fprintf(g.logsView, "[red]%s[:::]\n", tview.Escape(err.Error()))
			})
		}

		g.app.QueueUpdateDraw(func() {
			g.Draw()
		})

		select {
		case <-ticker.C:
		case <-g.ctx.Done():
			g.Stop()
			return
		}
		goto loop
	}()

	if err := g.app.SetRoot(g.root, true).SetFocus(g.memView).Run(); err != nil {
		panic(err)
	}
	log.Printf("Done")
}
