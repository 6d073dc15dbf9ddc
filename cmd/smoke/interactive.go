package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rencdev/renc/engine"
	"github.com/rencdev/renc/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type valueRow struct {
	handle value.Handle
	cell   value.Cell
}

type inspectorModel struct {
	eng      *engine.Engine
	input    textinput.Model
	rows     []valueRow
	selected int
	result   string
	err      error
}

func newInspectorModel(eng *engine.Engine) *inspectorModel {
	ti := textinput.New()
	ti.Placeholder = "integer, 1.5, 'c', \"text\", true, void, blank"
	ti.Prompt = "box: "
	ti.Width = 40
	ti.Focus()

	return &inspectorModel{
		eng:   eng,
		input: ti,
	}
}

func (m *inspectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectorModel) refresh() {
	m.rows = m.rows[:0]
	m.eng.Values().Each(func(h value.Handle, c value.Cell) bool {
		m.rows = append(m.rows, valueRow{handle: h, cell: c})
		return true
	})
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			m.boxInput()
			return m, nil

		case "ctrl+u":
			m.unboxSelected()
			return m, nil

		case "ctrl+d":
			m.releaseSelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inspectorModel) boxInput() {
	ctx := context.Background()
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}

	var err error
	switch {
	case text == "void":
		_, err = m.eng.Void(ctx)
	case text == "blank":
		_, err = m.eng.Blank(ctx)
	case text == "true" || text == "false":
		_, err = m.eng.Logic(ctx, text == "true")
	case len(text) >= 3 && text[0] == '\'' && text[len(text)-1] == '\'':
		runes := []rune(text[1 : len(text)-1])
		if len(runes) != 1 {
			m.err = fmt.Errorf("char literal must hold one codepoint")
			return
		}
		_, err = m.eng.Char(ctx, runes[0])
	case len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"':
		_, err = m.eng.Text(ctx, text[1:len(text)-1])
	case strings.ContainsRune(text, '.'):
		var f float64
		f, err = strconv.ParseFloat(text, 64)
		if err == nil {
			_, err = m.eng.Decimal(ctx, f)
		}
	default:
		var n int64
		n, err = strconv.ParseInt(text, 10, 64)
		if err == nil {
			_, err = m.eng.Integer(ctx, n)
		}
	}

	m.err = err
	if err == nil {
		m.result = ""
		m.input.SetValue("")
		m.refresh()
	}
}

func (m *inspectorModel) unboxSelected() {
	if len(m.rows) == 0 {
		return
	}
	ctx := context.Background()
	row := m.rows[m.selected]

	var (
		out any
		err error
	)
	switch row.cell.Kind {
	case value.KindInteger:
		out, err = m.eng.UnboxInteger(ctx, row.handle)
	case value.KindDecimal:
		out, err = m.eng.UnboxDecimal(ctx, row.handle)
	case value.KindChar:
		var r rune
		r, err = m.eng.UnboxChar(ctx, row.handle)
		out = string(r)
	case value.KindText:
		out, err = m.eng.UnboxText(ctx, row.handle)
	case value.KindLogic:
		out, err = m.eng.UnboxLogic(ctx, row.handle)
	default:
		m.err = fmt.Errorf("%s values have no payload to unbox", row.cell.Kind)
		return
	}

	m.err = err
	if err == nil {
		m.result = fmt.Sprintf("handle %d unboxed: %v", row.handle, out)
	}
}

func (m *inspectorModel) releaseSelected() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.selected]
	m.err = m.eng.Release(context.Background(), row.handle)
	if m.err == nil {
		m.result = fmt.Sprintf("handle %d released", row.handle)
		m.refresh()
	}
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("renc value inspector"))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  strategy=%s ticks=%d", m.eng.Strategy(), m.eng.Tick())))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(helpStyle.Render("no live values"))
		b.WriteString("\n")
	}
	for i, row := range m.rows {
		line := fmt.Sprintf("%s %s %s",
			handleStyle.Render(fmt.Sprintf("#%d", row.handle)),
			kindStyle.Render(row.cell.Kind.String()),
			cellPayload(row.cell))
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.result != "" {
		b.WriteString(resultStyle.Render(m.result))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter box · ↑/↓ select · ctrl+u unbox · ctrl+d release · esc quit"))
	b.WriteString("\n")

	return b.String()
}

func cellPayload(c value.Cell) string {
	switch c.Kind {
	case value.KindInteger:
		return strconv.FormatInt(c.Int, 10)
	case value.KindDecimal:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case value.KindChar:
		return fmt.Sprintf("%q", c.Rune)
	case value.KindText:
		return fmt.Sprintf("%q", c.Str)
	case value.KindLogic:
		return strconv.FormatBool(c.Bit)
	}
	return ""
}

func runInteractive() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}

	eng := engine.New(nil)
	if err := eng.Startup(context.Background()); err != nil {
		return err
	}
	defer eng.Close()

	p := tea.NewProgram(newInspectorModel(eng))
	_, err := p.Run()
	return err
}
