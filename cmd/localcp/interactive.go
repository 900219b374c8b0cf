package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/local"
	"github.com/wippyai/localcp/xtext"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// inspected lists the codepages shown besides the two profiles.
var inspected = []localcp.ID{437, 866, 932, 936, 949, 950, 1251, 1252, 54936, localcp.UTF8}

const maxShownBytes = 24

type target struct {
	label string
	cp    localcp.Codepage // nil for UTF-8
}

type decodedItem struct {
	err  error
	r    rune
	size int
}

type conversion struct {
	encoded   []byte
	items     []decodedItem
	encodeErr int
	decodeErr int
	lossy     bool
}

type inspectModel struct {
	input    textinput.Model
	targets  []target
	results  []conversion
	selected int
	detail   bool
}

func newInspectModel(sel *local.Selector) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = "type text to encode"
	ti.Prompt = "text: "
	ti.Width = 50
	ti.Focus()

	m := &inspectModel{input: ti}
	for _, p := range []local.Profile{local.Console, local.File} {
		m.targets = append(m.targets, target{
			label: fmt.Sprintf("%s (%s)", p, xtext.Name(sel.ID(p))),
			cp:    sel.Codepage(p),
		})
	}
	for _, id := range inspected {
		t := target{label: xtext.Name(id)}
		if id != localcp.UTF8 {
			cp, err := xtext.Provider{}.Open(id)
			if err != nil {
				continue
			}
			t.cp = cp
		}
		m.targets = append(m.targets, t)
	}
	m.recompute()
	return m
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.selected < len(m.targets)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			m.detail = !m.detail
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.recompute()
	}
	return m, cmd
}

func (m *inspectModel) recompute() {
	text := m.input.Value()
	m.results = make([]conversion, len(m.targets))
	for i, t := range m.targets {
		m.results[i] = convert(t.cp, text)
	}
}

// convert encodes text through cp and decodes the result again.
func convert(cp localcp.Codepage, text string) conversion {
	var c conversion

	var enc io.ByteReader
	if cp == nil {
		enc = localcp.NewUTF8Encoder(strings.NewReader(text))
	} else {
		enc = localcp.NewEncoder(strings.NewReader(text), cp)
	}
	for {
		b, err := enc.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.encodeErr++
			continue
		}
		c.encoded = append(c.encoded, b)
	}

	var dec localcp.RuneDecoder
	if cp == nil {
		dec = localcp.NewUTF8Decoder(bytes.NewReader(c.encoded))
	} else {
		dec = localcp.NewDecoder(bytes.NewReader(c.encoded), cp)
	}
	var sb strings.Builder
	for {
		r, size, err := dec.ReadRune()
		if err == io.EOF {
			break
		}
		c.items = append(c.items, decodedItem{r: r, size: size, err: err})
		if err != nil {
			c.decodeErr++
		}
		sb.WriteRune(r)
	}
	c.lossy = sb.String() != text
	return c
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Codepage Inspector"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, t := range m.targets {
		line := fmt.Sprintf("%-28s %s %s", t.label, formatBytes(m.results[i].encoded), status(m.results[i]))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.detail && len(m.targets) > 0 {
		t, r := m.targets[m.selected], m.results[m.selected]
		b.WriteString("\n")
		b.WriteString(nameStyle.Render("Decoded items for " + t.label))
		b.WriteString("\n")
		for _, it := range r.items {
			if it.err != nil {
				b.WriteString(errorStyle.Render(fmt.Sprintf("  %d bytes  %v", it.size, it.err)))
			} else {
				b.WriteString(fmt.Sprintf("  %d bytes  %U %q", it.size, it.r, it.r))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter details • esc quit"))
	return b.String()
}

func formatBytes(data []byte) string {
	shown := data
	suffix := ""
	if len(shown) > maxShownBytes {
		shown, suffix = shown[:maxShownBytes], " …"
	}
	return bytesStyle.Render(fmt.Sprintf("% x%s", shown, suffix))
}

func status(c conversion) string {
	switch {
	case c.encodeErr > 0 || c.decodeErr > 0:
		return errorStyle.Render(fmt.Sprintf("%d encode / %d decode errors", c.encodeErr, c.decodeErr))
	case c.lossy:
		return errorStyle.Render("lossy")
	}
	return okStyle.Render("ok")
}

func runInteractive(sel *local.Selector) error {
	p := tea.NewProgram(newInspectModel(sel), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
