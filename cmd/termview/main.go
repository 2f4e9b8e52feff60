// Command termview runs the fluid in a terminal, drawing two pixels per
// character cell with half blocks.
//
// Usage: go run ./cmd/termview
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/molecules/config"
	"github.com/pthm-cable/molecules/palette"
	"github.com/pthm-cable/molecules/scene"
)

const rotateStep = 5 // degrees per arrow press

type viewer struct {
	screen   tcell.Screen
	scene    *scene.Scene
	raster   *raster
	dt       float32
	speedMax float32
	selected int // index into scene.Tunables
	frames   int64
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, then time-based)")
	workers := flag.Int("workers", 0, "Solver worker count (0 = use config)")
	molecules := flag.Int("molecules", 0, "Molecule count (0 = use config)")
	logPath := flag.String("log", "", "Write JSON logs to this file")
	flag.Parse()

	// The terminal belongs to tcell, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	opts := scene.OptionsFromConfig(cfg, *seed)
	if *workers > 0 {
		opts.Workers = *workers
	}
	if *molecules > 0 {
		opts.NumMolecules = *molecules
	}

	v, err := newViewer(cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "starting terminal: %v\n", err)
		os.Exit(1)
	}
	defer v.cleanup()

	v.run()
}

func newViewer(cfg *config.Config, opts scene.Options) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	v := &viewer{
		screen:   screen,
		scene:    scene.New(opts),
		raster:   newRaster(),
		dt:       cfg.Derived.DT32,
		speedMax: cfg.Derived.SpeedColorMax,
	}
	v.handleResize()
	return v, nil
}

// handleResize refits the raster to the terminal, leaving a status row.
func (v *viewer) handleResize() {
	cols, rows := v.screen.Size()
	if rows > 1 {
		rows--
	}
	s := v.scene.Settings
	v.raster.resize(cols, rows, s.ContainerPosition[0], s.ContainerPosition[1],
		s.ContainerScale[0], s.ContainerScale[1])
	v.screen.Sync()
}

// handleInput returns false when the viewer should exit.
func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.rotate(rotateStep)
		case tcell.KeyRight:
			v.rotate(-rotateStep)
		case tcell.KeyTab:
			v.selected = (v.selected + 1) % len(scene.Tunables)
		case tcell.KeyBacktab:
			v.selected = (v.selected + len(scene.Tunables) - 1) % len(scene.Tunables)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.scene.TogglePause()
			case 'r':
				v.scene.Reset()
			case '+', '=':
				scene.Tunables[v.selected].Nudge(&v.scene.Settings, 1)
			case '-', '_':
				scene.Tunables[v.selected].Nudge(&v.scene.Settings, -1)
			}
		}

	case *tcell.EventResize:
		v.handleResize()
	}
	return true
}

// rotate turns the container, wrapping within the slider range.
func (v *viewer) rotate(deg float32) {
	r := v.scene.Settings.ContainerRotation + deg
	for r < 0 {
		r += 360
	}
	for r > 360 {
		r -= 360
	}
	v.scene.Settings.ContainerRotation = r
}

func (v *viewer) draw() {
	r := v.raster
	r.clear()
	r.outline(v.scene.Container())
	r.plot(v.scene.Particles())

	for row := 0; row < r.h/2; row++ {
		for col := 0; col < r.w; col++ {
			top, topLit := r.color(col, row*2, palette.Default, v.speedMax)
			bottom, bottomLit := r.color(col, row*2+1, palette.Default, v.speedMax)

			style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorBlack)
			if topLit {
				style = style.Foreground(rgb(top))
			}
			if bottomLit {
				style = style.Background(rgb(bottom))
			}
			ch := '▀'
			if !topLit && !bottomLit {
				ch = ' '
			}
			v.screen.SetContent(col, row, ch, nil, style)
		}
	}

	v.drawStatus(r.h / 2)
	v.screen.Show()
}

func (v *viewer) drawStatus(row int) {
	t := scene.Tunables[v.selected]
	state := "running"
	if v.scene.Paused() {
		state = "paused"
	}
	status := fmt.Sprintf(" %d molecules | frame %d | %s | [Tab] %s: "+t.Format+" [+/-]  [Space] pause  [r] reset  [<-/->] rotate  [q] quit",
		v.scene.Len(), v.frames, state, t.Name, t.Get(&v.scene.Settings))

	cols, _ := v.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorLightGray).Background(tcell.ColorBlack)
	i := 0
	for _, ch := range status {
		if i >= cols {
			break
		}
		v.screen.SetContent(i, row, ch, nil, style)
		i++
	}
	for ; i < cols; i++ {
		v.screen.SetContent(i, row, ' ', nil, style)
	}
}

func rgb(c palette.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (v *viewer) run() {
	ticker := time.NewTicker(time.Duration(float64(v.dt) * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}

		case <-ticker.C:
			if v.scene.Frame(v.dt) > 0 {
				v.frames++
			}
			v.draw()
		}
	}
}

func (v *viewer) cleanup() {
	v.screen.Fini()
	v.scene.Close()
}
