package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/gfxprim/gfxbind/bind"
	"github.com/gfxprim/gfxbind/cheader"
	"github.com/gfxprim/gfxbind/nativelib"
	"github.com/gfxprim/gfxbind/symtab"
)

var (
	accent = lipgloss.Color("#2E86AB")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(accent).Padding(0, 1)
	unitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	nameStyle   = lipgloss.NewStyle().Bold(true)
	typeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	cursorStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	keysStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// keyHelp renders key/description pairs as a single help line.
func keyHelp(pairs ...string) string {
	items := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, pairs[i]+" "+pairs[i+1])
	}
	return keysStyle.Render(strings.Join(items, "  ·  "))
}

type browserModel struct {
	err      error
	load     func() ([]entry, error)
	source   string
	result   string
	entries  []entry
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    browserState
	loaded   bool
}

// entry is one public function of a composed unit.
type entry struct {
	mod    *bind.Module
	unit   string
	name   string
	native string
	result wit.Type
	params []paramInfo
}

type paramInfo struct {
	witType wit.Type
	name    string
	typeStr string
}

type browserState int

const (
	stateSelectFunc browserState = iota
	stateInputArgs
	stateShowResult
)

type loadedMsg struct {
	err     error
	entries []entry
}

type callResultMsg struct {
	err    error
	result string
}

func newBrowserModel(source string, load func() ([]entry, error)) *browserModel {
	return &browserModel{
		source: source,
		load:   load,
		state:  stateSelectFunc,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.load()
		return loadedMsg{entries: entries, err: err}
	}
}

// libraryEntries lists the public functions of every unit in lib.
func libraryEntries(lib *bind.Library) []entry {
	var out []entry
	for _, mod := range lib.Modules() {
		mod.Namespace().Each(func(name string, sym symtab.Symbol) bool {
			if sym.Kind != symtab.KindFunc {
				return true
			}
			e := entry{mod: mod, unit: mod.Name(), name: name, native: sym.Name}
			e.params, e.result = signatureOf(sym.Value)
			out = append(out, e)
			return true
		})
	}
	return out
}

func signatureOf(v any) ([]paramInfo, wit.Type) {
	var params []paramInfo
	switch fn := v.(type) {
	case *cheader.Signature:
		for i, p := range fn.Params {
			params = append(params, newParam(i, p.Name, p.Type))
		}
		return params, fn.Result.Type
	case *nativelib.Func:
		def := fn.Definition()
		names := def.ParamNames()
		for i, t := range def.ParamTypes() {
			name := ""
			if i < len(names) {
				name = names[i]
			}
			params = append(params, newParam(i, name, valueWIT(t)))
		}
		if results := def.ResultTypes(); len(results) > 0 {
			return params, valueWIT(results[0])
		}
	}
	return params, nil
}

func newParam(i int, name string, t wit.Type) paramInfo {
	if name == "" {
		name = fmt.Sprintf("arg%d", i)
	}
	return paramInfo{name: name, witType: t, typeStr: cheader.TypeString(t)}
}

// valueWIT maps a core value type onto the WIT type it carries.
func valueWIT(t api.ValueType) wit.Type {
	switch t {
	case api.ValueTypeI64:
		return wit.S64{}
	case api.ValueTypeF32:
		return wit.F32{}
	case api.ValueTypeF64:
		return wit.F64{}
	default:
		return wit.S32{}
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.entries) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callFunction
				}
				m.state = stateInputArgs
				return m, textinput.Blink

			case stateInputArgs:
				return m, m.callFunction

			case stateShowResult:
				m.reset()
			}
			return m, nil

		case "tab", "shift+tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				step := 1
				if msg.String() == "shift+tab" {
					step = -1
				}
				m.focus(m.focusIdx + step)
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.reset()
			}
		}

	case loadedMsg:
		m.entries = msg.entries
		m.err = msg.err
		m.loaded = true
		return m, nil

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *browserModel) reset() {
	m.state = stateSelectFunc
	m.inputs = nil
	m.result = ""
	m.err = nil
}

// focus moves input focus to field i, wrapping at both ends.
func (m *browserModel) focus(i int) {
	n := len(m.inputs)
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = ((i % n) + n) % n
	m.inputs[m.focusIdx].Focus()
}

func (m *browserModel) prepareInputs() {
	e := m.entries[m.selected]
	m.inputs = make([]textinput.Model, len(e.params))
	for i, p := range e.params {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *browserModel) callFunction() tea.Msg {
	e := m.entries[m.selected]
	args := make([]uint64, len(m.inputs))
	for i, input := range m.inputs {
		v, err := encodeArg(input.Value(), e.params[i].witType)
		if err != nil {
			return callResultMsg{err: fmt.Errorf("%s: %w", e.params[i].name, err)}
		}
		args[i] = v
	}

	res, err := e.mod.Call(context.Background(), e.name, args...)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: formatResults(res, e.result)}
}

// encodeArg parses value as t and encodes it for a native call.
func encodeArg(value string, t wit.Type) (uint64, error) {
	value = strings.TrimSpace(value)
	switch t.(type) {
	case wit.Bool:
		b, err := strconv.ParseBool(value)
		return bind.Bool(b), err
	case wit.S8, wit.S16, wit.S32, *wit.TypeDef:
		v, err := strconv.ParseInt(value, 0, 32)
		return api.EncodeI32(int32(v)), err
	case wit.S64:
		v, err := strconv.ParseInt(value, 0, 64)
		return api.EncodeI64(v), err
	case wit.U64:
		return strconv.ParseUint(value, 0, 64)
	case wit.F32:
		v, err := strconv.ParseFloat(value, 32)
		return api.EncodeF32(float32(v)), err
	case wit.F64:
		v, err := strconv.ParseFloat(value, 64)
		return api.EncodeF64(v), err
	default:
		// Unsigned integers, characters, strings and pointers are 32-bit guest values.
		v, err := strconv.ParseUint(value, 0, 32)
		return v, err
	}
}

// formatResults renders native results, decoding the first as t.
func formatResults(res []uint64, t wit.Type) string {
	if len(res) == 0 {
		return "(no result)"
	}
	parts := make([]string, len(res))
	for i, r := range res {
		parts[i] = strconv.FormatUint(r, 10)
	}
	switch t.(type) {
	case wit.Bool:
		parts[0] = strconv.FormatBool(res[0] != 0)
	case wit.S8, wit.S16, wit.S32, *wit.TypeDef:
		parts[0] = strconv.FormatInt(int64(api.DecodeI32(res[0])), 10)
	case wit.S64:
		parts[0] = strconv.FormatInt(int64(res[0]), 10)
	case wit.F32:
		parts[0] = strconv.FormatFloat(float64(math.Float32frombits(uint32(res[0]))), 'g', -1, 32)
	case wit.F64:
		parts[0] = strconv.FormatFloat(api.DecodeF64(res[0]), 'g', -1, 64)
	case wit.U8, wit.U16, wit.U32, wit.Char, wit.String:
		parts[0] = strconv.FormatUint(uint64(uint32(res[0])), 10)
	}
	return strings.Join(parts, ", ")
}

func (m *browserModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return failStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + keyHelp("q", "quit")
	}

	if !m.loaded {
		return "Loading symbols..."
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("gfxbind"))
	b.WriteString(" ")
	b.WriteString(m.source)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		if len(m.entries) == 0 {
			b.WriteString("The library exports no public functions.\n\n")
			b.WriteString(keyHelp("q", "quit"))
			break
		}
		fmt.Fprintf(&b, "%d functions\n\n", len(m.entries))
		for i, e := range m.entries {
			if i == m.selected {
				b.WriteString(cursorStyle.Render("▸ ") + m.formatEntry(e))
			} else {
				b.WriteString("  " + m.formatEntry(e))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(keyHelp("j/k", "move", "enter", "call", "q", "quit"))

	case stateInputArgs:
		e := m.entries[m.selected]
		fmt.Fprintf(&b, "Arguments for %s\n\n", nameStyle.Render(e.unit+"."+e.name))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(e.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(keyHelp("tab/shift+tab", "field", "enter", "call", "esc", "back"))

	case stateShowResult:
		e := m.entries[m.selected]
		fmt.Fprintf(&b, "%s returned\n\n", nameStyle.Render(e.unit+"."+e.name))
		if m.err != nil {
			b.WriteString(failStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(okStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(keyHelp("enter", "back to list", "q", "quit"))
	}

	return b.String()
}

func (m *browserModel) formatEntry(e entry) string {
	var params []string
	for _, p := range e.params {
		params = append(params, p.name+": "+typeStyle.Render(p.typeStr))
	}
	result := ""
	if e.result != nil {
		result = " -> " + typeStyle.Render(cheader.TypeString(e.result))
	}
	name := e.name
	if e.native != e.name {
		name += " (" + e.native + ")"
	}
	return unitStyle.Render(e.unit) + "." + nameStyle.Render(name) + "(" + strings.Join(params, ", ") + ")" + result
}

func runBrowser(source string, lib *bind.Library) error {
	load := func() ([]entry, error) { return libraryEntries(lib), nil }
	p := tea.NewProgram(newBrowserModel(source, load), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
