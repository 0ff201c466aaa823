package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameRate       = 60
)

type TickMsg time.Time

// LiveConfig configures a live view. Zero values select defaults.
type LiveConfig struct {
	Name          string
	Theme         string
	StepsPerFrame int
	GIFPath       string
	Logger        *slog.Logger
}

// Model steps a simulator once per frame and renders its snapshot.
type Model struct {
	sim    *nbody.Simulator
	name   string
	log    *slog.Logger
	canvas *Canvas
	camera *Camera
	theme  Theme

	snap          nbody.Snapshot
	stepsPerFrame int
	running       bool
	showAxes      bool
	showHelp      bool
	err           error
	notice        string

	energyHistory    []float64
	collisionHistory []float64

	recorder *Recorder
	gifPath  string
}

func NewModel(sim *nbody.Simulator, cfg LiveConfig) Model {
	if cfg.StepsPerFrame <= 0 {
		cfg.StepsPerFrame = 1
	}
	if cfg.GIFPath == "" {
		cfg.GIFPath = "simulation.gif"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	m := Model{
		sim:           sim,
		name:          cfg.Name,
		log:           cfg.Logger,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		theme:         GetTheme(cfg.Theme),
		snap:          sim.Snapshot(),
		stepsPerFrame: cfg.StepsPerFrame,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		gifPath:       cfg.GIFPath,
	}
	m.camera.Fit(m.snap)
	m.draw()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := max(msg.Width-statsStyle.GetWidth()-canvasStyle.GetHorizontalFrameSize()-1, 20)
		h := max(msg.Height-canvasStyle.GetVerticalFrameSize()-1, 8)
		m.canvas = NewCanvas(w, h)
		m.draw()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recorder != nil {
			m.saveGIF()
		}
		return m, tea.Quit
	case " ":
		if m.err == nil {
			m.running = !m.running
		}
	case "r":
		m.reset()
	case "[":
		m.setTimeScale(m.sim.TimeScale() / 2)
	case "]":
		ts := m.sim.TimeScale()
		if ts == 0 {
			ts = 0.5
		}
		m.setTimeScale(ts * 2)
	case "0":
		m.setTimeScale(0)
	case "{":
		m.setDistanceScale(m.sim.DistanceScale() * 2)
	case "}":
		m.setDistanceScale(m.sim.DistanceScale() / 2)
	case "x":
		m.camera.RotateX(0.1)
	case "X":
		m.camera.RotateX(-0.1)
	case "y":
		m.camera.RotateY(0.1)
	case "Y":
		m.camera.RotateY(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "f":
		m.camera.Fit(m.snap)
	case "a":
		m.showAxes = !m.showAxes
	case "t":
		m.theme = m.theme.Next()
	case "g":
		if m.recorder != nil {
			m.saveGIF()
		} else {
			m.recorder = NewRecorder(2)
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	m.draw()
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.sim.StepInto(&m.snap); err != nil {
			m.err = err
			m.running = false
			m.log.Error("simulation halted", "err", err)
			return
		}
	}
	var energy float64
	m.sim.View(func(v nbody.View) { energy = metrics.BodyEnergy(v) })
	m.energyHistory = push(m.energyHistory, energy)
	m.collisionHistory = push(m.collisionHistory, float64(m.sim.Collided()))
}

func push(h []float64, v float64) []float64 {
	if len(h) >= historyCapacity {
		h = append(h[:0], h[1:]...)
	}
	return append(h, v)
}

func (m *Model) reset() {
	if err := m.sim.Reset(); err != nil {
		m.notice = err.Error()
		return
	}
	m.snap = m.sim.Snapshot()
	m.err = nil
	m.running = true
	m.energyHistory = m.energyHistory[:0]
	m.collisionHistory = m.collisionHistory[:0]
}

func (m *Model) setTimeScale(v float64) {
	if err := m.sim.SetTimeScale(v); err != nil {
		m.notice = err.Error()
	}
}

// setDistanceScale also refreshes the snapshot so a paused view rescales.
func (m *Model) setDistanceScale(v float64) {
	if err := m.sim.SetDistanceScale(v); err != nil {
		m.notice = err.Error()
		return
	}
	m.snap = m.sim.Snapshot()
}

func (m *Model) saveGIF() {
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.notice = "gif: " + err.Error()
		m.log.Warn("gif not saved", "path", m.gifPath, "err", err)
	} else {
		m.notice = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.gifPath)
		m.log.Info("gif saved", "path", m.gifPath, "frames", m.recorder.Len())
	}
	m.recorder = nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.showAxes {
		RenderAxes(m.canvas, m.camera, 1)
	}
	RenderSnapshot(m.canvas, m.snap, m.camera)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("HALTED")
	case m.recorder != nil:
		return StatusRecording.Render(fmt.Sprintf("REC %d", m.recorder.Len()))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Styled(m.theme.Layer))
	bodies, particles := m.snap.Bodies, m.snap.Particles

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")
	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Elapsed", FormatSimTime(m.snap.Elapsed))
	row("Started", m.sim.Started().Format("15:04:05"))
	row("Ticks", fmt.Sprintf("%d", m.snap.Tick))
	row("Bodies", fmt.Sprintf("%d", bodies))
	row("Particles", fmt.Sprintf("%d", particles))
	row("Collided", fmt.Sprintf("%d", m.sim.Collided()))
	row("Time ×", fmt.Sprintf("%g", m.sim.TimeScale()))
	row("Distance", fmt.Sprintf("%g m/unit", m.sim.DistanceScale()))
	row("Solver", m.sim.Solver().Name())
	row("Zoom", fmt.Sprintf("%.3g", m.camera.Zoom))
	row("Theme", m.theme.Name)
	if len(m.collisionHistory) > 1 && particles > 0 {
		s.WriteString("\n" + labelStyle.Render("Collisions") + SparklineChart(m.collisionHistory, 28) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(wrap(m.err.Error(), 40)) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(wrap(m.notice, 40)) + "\n")
	}
	s.WriteString(helpStyle.Render(Separator(36) + "\nSP:Pause R:Reset Q:Quit\n[ ]:Time { }:Distance\nT:Theme G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset to initial scene   ║
║  Q        - Quit                     ║
║  [ / ]    - Halve / double time      ║
║  0        - Freeze time              ║
║  { / }    - Double / halve distance  ║
║  x X y Y  - Rotate camera            ║
║  + / -    - Zoom                     ║
║  F        - Fit scene to view        ║
║  A        - Toggle axes              ║
║  g        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// FormatSimTime renders simulated seconds as a duration when it fits one.
func FormatSimTime(sec float64) string {
	if sec < 60 || sec >= 9e9 {
		return fmt.Sprintf("%.4gs", sec)
	}
	return time.Duration(sec * float64(time.Second)).Round(time.Second).String()
}

func wrap(s string, n int) string {
	return lipgloss.NewStyle().Width(n).Render(s)
}
