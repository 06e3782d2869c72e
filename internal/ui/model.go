// ABOUTME: Bubbletea model for the transport TUI
// ABOUTME: Maps keys to sound stream controls and renders playback state
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Resonate-Protocol/soundstream/pkg/audio"
	"github.com/Resonate-Protocol/soundstream/pkg/soundstream"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	refreshInterval = 200 * time.Millisecond
	seekStep        = 5 * time.Second
	volumeStep      = 5
	pitchStep       = 0.1
	panStep         = 0.1
	minPitch        = 0.1
	maxPitch        = 4
)

// Controls is the playback surface the TUI drives
type Controls interface {
	Toggle()
	Stop()
	SeekBy(delta time.Duration)
	Position() time.Duration
	Duration() time.Duration
	Status() audio.Status
	Format() audio.Format
	Sound() *soundstream.CustomSoundStream
}

// Model represents the TUI state
type Model struct {
	controls Controls

	// Source
	source string
	title  string
	format audio.Format

	// Playback
	status   audio.Status
	position time.Duration
	duration time.Duration
	volume   float32
	pitch    float32
	pan      float32
	loop     bool

	// Stats
	chunks   int64
	seeks    int64
	errors   int64
	buffered time.Duration
	lastErr  string

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int
}

// tickMsg triggers a refresh from the controls
type tickMsg time.Time

// StatusMsg carries state the model cannot read from its controls
type StatusMsg struct {
	Source   string
	Title    string
	Chunks   int64
	Seeks    int64
	Errors   int64
	Buffered time.Duration
	Err      error
}

// NewModel creates a model driving controls, which may be nil in tests
func NewModel(controls Controls, source string) Model {
	m := Model{
		controls: controls,
		source:   source,
		volume:   100,
		pitch:    1,
	}
	m.refresh()
	return m
}

// Init starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.refresh()
		return m, tick()
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// refresh pulls the current state from the controls
func (m *Model) refresh() {
	if m.controls == nil {
		return
	}
	sound := m.controls.Sound()

	m.format = m.controls.Format()
	m.status = m.controls.Status()
	m.position = m.controls.Position()
	m.duration = m.controls.Duration()
	m.volume = sound.Volume()
	m.pitch = sound.Pitch()
	m.pan = sound.Pan()
	m.loop = sound.Loop()
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderTransport()
	s += m.renderControls()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders the source and its format
func (m Model) renderHeader() string {
	name := m.title
	if name == "" {
		name = m.source
	}
	if name == "" {
		name = "(no source)"
	}

	format := "unknown format"
	if m.format.SampleRate > 0 {
		format = fmt.Sprintf("%s %dHz %s", m.format.Codec, m.format.SampleRate, channelName(m.format.Channels))
	}

	return fmt.Sprintf(`┌─ SoundStream Player ─────────────────────────────────┐
│ Source: %-44s │
│ Format: %-44s │
├──────────────────────────────────────────────────────┤
`, truncate(name, 44), truncate(format, 44))
}

// renderTransport renders status and the progress bar
func (m Model) renderTransport() string {
	icon := "■"
	switch m.status {
	case audio.Playing:
		icon = "▶"
	case audio.Paused:
		icon = "⏸"
	}

	loop := ""
	if m.loop {
		loop = " (loop)"
	}

	progress := formatDuration(m.position)
	bar := strings.Repeat("░", 20)
	if m.duration > 0 {
		progress += " / " + formatDuration(m.duration)
		bar = renderBar(int(min(m.position, m.duration)/time.Millisecond), int(m.duration/time.Millisecond), 20)
	}

	return fmt.Sprintf("│ %s %-8s%-9s %-34s │\n│ [%s]%-32s │\n",
		icon, m.status, loop, progress, bar, "")
}

// renderControls renders the mix parameters
func (m Model) renderControls() string {
	return fmt.Sprintf("│                                                      │\n"+
		"│ Volume: [%s] %3.0f%%%-25s │\n"+
		"│ Pitch:  %-5.2fx   Pan: %+-5.2f%-23s │\n",
		renderBar(int(m.volume), 100, 10), m.volume, "",
		m.pitch, m.pan, "")
}

// renderStats renders callback statistics
func (m Model) renderStats() string {
	s := fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Stats:  Chunks: %d  Seeks: %d  Errors: %d%-8s │
`, m.chunks, m.seeks, m.errors, "")
	if m.buffered > 0 {
		s += fmt.Sprintf("│ Buffer: %-44s │\n", m.buffered.Round(time.Millisecond))
	}
	if m.lastErr != "" {
		s += fmt.Sprintf("│ Error:  %-44s │\n", truncate(m.lastErr, 44))
	}
	return s + "│                                                      │\n"
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ space:Play/Pause  s:Stop  ←/→:Seek  ↑/↓:Volume       │
│ +/-:Pitch  [/]:Pan  l:Loop  d:Debug  q:Quit          │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders raw offsets
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Offset: %-20dμs                        │
│   Duration: %-20dμs                      │
`, audio.DurationToMicros(m.position), audio.DurationToMicros(m.duration))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "d":
		m.showDebug = !m.showDebug
		return m, nil
	}

	if m.controls == nil {
		return m, nil
	}
	sound := m.controls.Sound()

	switch msg.String() {
	case " ", "p":
		m.controls.Toggle()
	case "s":
		m.controls.Stop()
	case "left":
		m.controls.SeekBy(-seekStep)
	case "right":
		m.controls.SeekBy(seekStep)
	case "up":
		sound.SetVolume(min(sound.Volume()+volumeStep, 100))
	case "down":
		sound.SetVolume(max(sound.Volume()-volumeStep, 0))
	case "+", "=":
		sound.SetPitch(min(sound.Pitch()+pitchStep, maxPitch))
	case "-":
		sound.SetPitch(max(sound.Pitch()-pitchStep, minPitch))
	case "]":
		sound.SetPan(min(sound.Pan()+panStep, 1))
	case "[":
		sound.SetPan(max(sound.Pan()-panStep, -1))
	case "l":
		sound.SetLoop(!sound.Loop())
	}

	m.refresh()
	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Source != "" {
		m.source = msg.Source
	}
	if msg.Title != "" {
		m.title = msg.Title
	}
	m.chunks = msg.Chunks
	m.seeks = msg.Seeks
	m.errors = msg.Errors
	m.buffered = msg.Buffered
	if msg.Err != nil {
		m.lastErr = msg.Err.Error()
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := 0
	if max > 0 {
		filled = (value * width) / max
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
