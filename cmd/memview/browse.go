package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/linmem/rtti"
)

// pageSize is the number of rows shown in the type list.
const pageSize = 20

var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func newBrowseCmd() *cobra.Command {
	var base uint32
	cmd := &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse a type table interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
				return fmt.Errorf("browse needs a terminal; use 'memview rtti dump' instead")
			}
			p := tea.NewProgram(newBrowseModel(cmd.Context(), args[0], base), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().Uint32Var(&base, "base", 0, "table offset in a raw memory image")
	return cmd
}

type browseModel struct {
	ctx      context.Context
	err      error
	src      *source
	filter   textinput.Model
	path     string
	visible  []uint32
	base     uint32
	selected int
	top      int
	state    browseState
}

type browseState int

const (
	stateList browseState = iota
	stateFilter
)

type loadedMsg struct {
	err error
	src *source
}

func newBrowseModel(ctx context.Context, path string, base uint32) *browseModel {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name"
	ti.Width = 40
	return &browseModel{ctx: ctx, path: path, base: base, filter: ti}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load
}

func (m *browseModel) load() tea.Msg {
	src, err := openSource(m.ctx, m.path, true, m.base)
	if err != nil {
		return loadedMsg{err: err}
	}
	if _, err := src.requireTable(); err != nil {
		src.Close()
		return loadedMsg{err: err}
	}
	return loadedMsg{src: src}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if m.src != nil {
				m.src.Close()
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "pgup":
			m.move(-pageSize)

		case "pgdown":
			m.move(pageSize)

		case "b":
			m.jumpToBase()

		case "/":
			m.state = stateFilter
			m.filter.Focus()
			return m, textinput.Blink

		case "esc":
			m.filter.SetValue("")
			m.applyFilter()
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.src = msg.src
		m.applyFilter()
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.src != nil {
			m.src.Close()
		}
		return m, tea.Quit
	case "enter", "esc":
		if msg.String() == "esc" {
			m.filter.SetValue("")
		}
		m.filter.Blur()
		m.state = stateList
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browseModel) applyFilter() {
	if m.src == nil {
		return
	}
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for id := uint32(0); id < m.src.table.Count(); id++ {
		if needle == "" || strings.Contains(strings.ToLower(m.src.name(id)), needle) {
			m.visible = append(m.visible, id)
		}
	}
	m.selected, m.top = 0, 0
}

func (m *browseModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.selected = max(0, min(m.selected+delta, len(m.visible)-1))
	if m.selected < m.top {
		m.top = m.selected
	}
	if m.selected >= m.top+pageSize {
		m.top = m.selected - pageSize + 1
	}
}

// jumpToBase selects the base type of the current selection.
func (m *browseModel) jumpToBase() {
	if len(m.visible) == 0 {
		return
	}
	base := m.src.table.BaseTypeID(m.visible[m.selected])
	if base == 0 || base >= m.src.table.Count() {
		return
	}
	m.filter.SetValue("")
	m.applyFilter()
	m.move(int(base))
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.src == nil {
		return "Loading table..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("RTTI Browser"))
	fmt.Fprintf(&b, " %s (%d types)\n\n", m.path, m.src.table.Count())

	end := min(m.top+pageSize, len(m.visible))
	for i := m.top; i < end; i++ {
		id := m.visible[i]
		line := fmt.Sprintf("%5d  %-32s %s", id, m.src.name(id), m.src.table.ShapeKind(id))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	if len(m.visible) == 0 {
		b.WriteString("  (no match)\n")
	}

	if len(m.visible) > 0 {
		b.WriteByte('\n')
		b.WriteString(m.detail(m.src.table.Descriptor(m.visible[m.selected])))
	}

	b.WriteString("\n\n")
	if m.state == stateFilter {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter apply • esc clear"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • / filter • b base type • q quit"))
	}
	return b.String()
}

func (m *browseModel) detail(d rtti.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", nameStyle.Render(m.src.name(d.ID)), shapeStyle.Render(d.Shape.String()))
	fmt.Fprintf(&b, "  flags    %#08x %s\n", uint32(m.src.table.Flags(d.ID)), m.src.table.Flags(d.ID))
	fmt.Fprintf(&b, "  acyclic  %t\n", d.Acyclic)
	fmt.Fprintf(&b, "  value    %s\n", slotString(d.Value))
	fmt.Fprintf(&b, "  key      %s\n", slotString(d.Key))
	if d.Base != 0 {
		fmt.Fprintf(&b, "  base     %s\n", m.src.name(d.Base))
		var chain []string
		for id := d.Base; id != 0 && id < m.src.table.Count() && len(chain) < 16; id = m.src.table.BaseTypeID(id) {
			chain = append(chain, m.src.name(id))
		}
		fmt.Fprintf(&b, "  extends  %s", strings.Join(chain, " → "))
	}
	if err := m.src.table.Flags(d.ID).Validate(); err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(err.Error()))
	}
	return b.String()
}
