package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aqlang/aq-runtime/bytecode"
	"github.com/aqlang/aq-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	instrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	memStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectorModel struct {
	inst     *runtime.Instance
	img      *bytecode.Image
	filename string
	instrs   []bytecode.Instruction
	view     viewport.Model
	err      error
	ready    bool
}

func runInteractive(inst *runtime.Instance, img *bytecode.Image, filename string) error {
	m := inspectorModel{
		inst:     inst,
		img:      img,
		filename: filename,
		instrs:   bytecode.Disassemble(img),
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m inspectorModel) Init() tea.Cmd {
	return nil
}

func (m inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 8
		m.view = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "s", "enter":
			if m.err == nil && !m.inst.Done() {
				_, m.err = m.inst.Step(context.Background())
			}
			return m, nil

		case "r":
			if m.err == nil && !m.inst.Done() {
				m.err = m.inst.Run(context.Background())
			}
			return m, nil
		}
	}

	// Scrolling keys are handled by the viewport itself.
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m inspectorModel) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("aqvm " + m.filename))
	b.WriteString("\n\n")

	m.view.SetContent(m.renderListing())
	b.WriteString(m.view.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderMemory())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.inst.Done():
		b.WriteString(instrStyle.Render("program finished"))
	default:
		b.WriteString(fmt.Sprintf("pc=0x%04x", m.inst.PC()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s step · r run · up/down scroll · q quit"))
	return b.String()
}

func (m inspectorModel) renderListing() string {
	var b strings.Builder
	for _, in := range m.instrs {
		line := in.String()
		if in.PC == m.inst.PC() && !m.inst.Done() {
			line = currentStyle.Render("> " + line)
		} else {
			line = instrStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// renderMemory shows the first four numeric-tagged data slots with their
// tags and current values: float and double slots converted to double,
// integer slots converted to long.
func (m inspectorModel) renderMemory() string {
	mem := m.inst.Memory()
	var b strings.Builder
	b.WriteString(memStyle.Render("memory"))
	b.WriteByte('\n')

	shown := 0
	for i := uint64(0); i < mem.Size() && shown < 4; i++ {
		t := mem.TypeOf(i)
		if !t.Numeric() {
			continue
		}
		var v string
		switch t {
		case bytecode.TagFloat, bytecode.TagDouble:
			v = fmt.Sprintf("%g", mem.ReadDouble(i))
		default:
			v = fmt.Sprintf("%d", mem.ReadLong(i))
		}
		b.WriteString(memStyle.Render(fmt.Sprintf("  [%4d] %-6s %s", i, t, v)))
		b.WriteByte('\n')
		shown++
	}
	if shown == 0 {
		b.WriteString(helpStyle.Render("  (no tagged slots)"))
		b.WriteByte('\n')
	}
	return b.String()
}
