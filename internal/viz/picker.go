package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravsim/internal/config"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var presetInfo = map[string]string{
	"earth-moon": "moon orbit with a debris ring",
	"binary":     "equal-mass binary, circumbinary ring",
	"plummet":    "resting shell falls onto earth",
}

// Picker lists the presets and opens the selected one in a live view.
// Esc from the live view returns to the list.
type Picker struct {
	presets []string
	cursor  int
	cfg     LiveConfig
	log     *slog.Logger
	live    *Model
	err     error
	w, h    int
}

func NewPicker(cfg LiveConfig) Picker {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return Picker{presets: config.ListPresets(), cfg: cfg, log: log}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		p.w, p.h = ws.Width, ws.Height
	}
	if p.live != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			p.live = nil
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.open(p.presets[p.cursor])
	}
	return p, nil
}

func (p Picker) open(name string) (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		p.err = fmt.Errorf("unknown preset: %s", name)
		return p, nil
	}
	sim, err := cfg.NewSimulator()
	if err != nil {
		p.err = err
		return p, nil
	}
	p.err = nil
	p.log.Info("preset opened", "preset", name)

	lc := p.cfg
	lc.Name = name
	live := NewModel(sim, lc)
	var cmd tea.Cmd = live.Init()
	if p.w > 0 {
		next, _ := live.Update(tea.WindowSizeMsg{Width: p.w, Height: p.h})
		live = next.(Model)
	}
	p.live = &live
	return p, cmd
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}
	var s strings.Builder
	s.WriteString(cyan.Bold(true).Render("GRAVSIM") + dim.Render("  choose a scene") + "\n\n")
	for i, name := range p.presets {
		line := fmt.Sprintf("%-12s %s", name, dim.Render(presetInfo[name]))
		if i == p.cursor {
			s.WriteString(yellow.Render("> ") + white.Bold(true).Render(line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if p.err != nil {
		s.WriteString("\n" + errorStyle.Render(p.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("↑↓:Select Enter:Open Esc:Back Q:Quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}
