package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stagegraph/pkg/dag"
	"github.com/matzehuels/stagegraph/pkg/editor"
	errs "github.com/matzehuels/stagegraph/pkg/errors"
	graphio "github.com/matzehuels/stagegraph/pkg/io"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [graph.json]",
		Short: "Edit a pipeline in the terminal",
		Long: `Edit a pipeline in the terminal.

Without a file the session starts empty and s is disabled. Validation runs
after every change and is shown below the lists.

Keys:
  a        add a stage
  c        connect: mark the stage under the cursor as source, then
           move to the target and press enter
  space    toggle selection
  d        delete the selection (or the item under the cursor)
  l        run the layout
  s        save to the input file
  tab      switch between stages and edges
  q        quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runEdit(cmd.Context(), input)
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, input string) error {
	ctrl, closeCache, err := c.newSession(ctx, input)
	if err != nil {
		return err
	}
	defer closeCache()

	p := tea.NewProgram(newEditorModel(ctx, ctrl, input), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}

// =============================================================================
// editorModel - bubbletea model over an editor.Controller
// =============================================================================

type editMode int

const (
	modeBrowse editMode = iota
	modeLabel
	modeConnect
)

type pane int

const (
	paneNodes pane = iota
	paneEdges
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			Width(40)
	activePaneStyle = paneStyle.BorderForeground(colorCyan)
	cursorStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	sourceStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

type editorModel struct {
	ctx  context.Context
	ctrl *editor.Controller
	path string

	snap     editor.Snapshot
	focus    pane
	cursor   [2]int
	selected map[string]bool

	mode   editMode
	source string
	input  textinput.Model

	status    string
	statusErr bool
}

func newEditorModel(ctx context.Context, ctrl *editor.Controller, path string) editorModel {
	ti := textinput.New()
	ti.Prompt = "label: "
	ti.CharLimit = errs.MaxLabelLength
	ti.Width = 40

	return editorModel{
		ctx:      ctx,
		ctrl:     ctrl,
		path:     path,
		snap:     ctrl.Snapshot(),
		selected: make(map[string]bool),
		input:    ti,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case modeLabel:
		return m.updateLabel(key)
	case modeConnect:
		return m.updateConnect(key), nil
	default:
		return m.updateBrowse(key)
	}
}

func (m editorModel) updateBrowse(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "tab":
		m.focus = 1 - m.focus
	case " ", "space":
		if id := m.current(); id != "" {
			m.selected[id] = !m.selected[id]
		}
	case "a":
		m.mode = modeLabel
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	case "c":
		if m.focus != paneNodes || m.current() == "" {
			m.setError("move to a stage to connect from")
			break
		}
		m.mode = modeConnect
		m.source = m.current()
		m.setStatus("pick the target and press enter")
	case "d", "x":
		m.deleteSelection()
	case "l":
		m.snap = m.ctrl.RunLayout(m.ctx)
		m.setStatus("layout applied")
	case "s":
		m.save()
	}
	return m, nil
}

func (m editorModel) updateLabel(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.input.Blur()
		n, _, err := m.ctrl.AddNode(m.ctx, m.input.Value())
		m.refresh()
		if err != nil {
			m.setError(errs.UserMessage(err))
			return m, nil
		}
		m.focus = paneNodes
		m.cursor[paneNodes] = m.snap.Graph.NodeCount() - 1
		m.setStatus("added %s", n.Label)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m editorModel) updateConnect(key tea.KeyMsg) editorModel {
	switch key.String() {
	case "esc", "q":
		m.mode = modeBrowse
		m.source = ""
		m.setStatus("")
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		target := m.current()
		source := m.source
		m.mode = modeBrowse
		m.source = ""
		_, _, err := m.ctrl.Connect(m.ctx, source, target)
		m.refresh()
		if err != nil {
			m.setError(errs.UserMessage(err))
			break
		}
		m.setStatus("connected %s → %s", m.label(source), m.label(target))
	}
	return m
}

func (m *editorModel) deleteSelection() {
	var nodes, edges []string
	for id, on := range m.selected {
		if !on {
			continue
		}
		if m.snap.Graph.HasNode(id) {
			nodes = append(nodes, id)
		} else {
			edges = append(edges, id)
		}
	}
	if len(nodes) == 0 && len(edges) == 0 {
		id := m.current()
		if id == "" {
			return
		}
		if m.focus == paneNodes {
			nodes = []string{id}
		} else {
			edges = []string{id}
		}
	}

	m.snap = m.ctrl.DeleteSelection(m.ctx, nodes, edges)
	m.selected = make(map[string]bool)
	m.clampCursors()
	m.setStatus("deleted %d stage(s), %d edge(s)", len(nodes), len(edges))
}

func (m *editorModel) save() {
	if m.path == "" {
		m.setError("no file to save to; start with " + appName + " edit <file>")
		return
	}
	if err := graphio.ExportJSON(m.ctrl.Graph(), m.path); err != nil {
		m.setError(errs.UserMessage(err))
		return
	}
	m.setStatus("saved %s", m.path)
}

func (m *editorModel) refresh() {
	m.snap = m.ctrl.Snapshot()
	m.clampCursors()
}

func (m *editorModel) move(delta int) {
	n := m.paneLen(m.focus)
	if n == 0 {
		return
	}
	m.cursor[m.focus] = min(max(m.cursor[m.focus]+delta, 0), n-1)
}

func (m *editorModel) clampCursors() {
	for _, p := range []pane{paneNodes, paneEdges} {
		m.cursor[p] = max(min(m.cursor[p], m.paneLen(p)-1), 0)
	}
}

func (m editorModel) paneLen(p pane) int {
	if p == paneNodes {
		return m.snap.Graph.NodeCount()
	}
	return m.snap.Graph.EdgeCount()
}

// current returns the id under the cursor in the focused pane.
func (m editorModel) current() string {
	i := m.cursor[m.focus]
	if m.focus == paneNodes {
		if nodes := m.snap.Graph.Nodes(); i < len(nodes) {
			return nodes[i].ID
		}
		return ""
	}
	if edges := m.snap.Graph.Edges(); i < len(edges) {
		return edges[i].ID
	}
	return ""
}

func (m editorModel) label(id string) string {
	if n, ok := m.snap.Graph.Node(id); ok {
		return n.Label
	}
	return id
}

func (m *editorModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *editorModel) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

// =============================================================================
// View
// =============================================================================

func (m editorModel) View() string {
	var b strings.Builder

	title := "Pipeline"
	if m.path != "" {
		title += " " + StyleDim.Render(m.path)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("a add  c connect  space select  d delete  l layout  s save  tab switch  q quit"))
	b.WriteString("\n\n")

	nodes := m.renderNodes()
	edges := m.renderEdges()
	np, ep := paneStyle, paneStyle
	if m.focus == paneNodes {
		np = activePaneStyle
	} else {
		ep = activePaneStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, np.Render(nodes), " ", ep.Render(edges)))
	b.WriteString("\n\n")

	b.WriteString(m.renderReport())

	if m.mode == modeLabel {
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}
	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(styleIconError.Render(iconError) + " " + m.status)
		} else {
			b.WriteString(StyleDim.Render(m.status))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m editorModel) renderNodes() string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("Stages (%d)", m.snap.Graph.NodeCount())))
	for i, n := range m.snap.Graph.Nodes() {
		b.WriteString("\n")
		line := fmt.Sprintf("%s %s %s", m.mark(n.ID), n.Label, StyleDim.Render(formatPos(n.Position)))
		switch {
		case n.ID == m.source:
			line = sourceStyle.Render("▸ " + line)
		case m.focus == paneNodes && i == m.cursor[paneNodes]:
			line = cursorStyle.Render("▸ " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m editorModel) renderEdges() string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(fmt.Sprintf("Edges (%d)", m.snap.Graph.EdgeCount())))
	for i, e := range m.snap.Graph.Edges() {
		b.WriteString("\n")
		line := fmt.Sprintf("%s %s %s %s", m.mark(e.ID), m.label(e.Source), iconArrow, m.label(e.Target))
		if m.focus == paneEdges && i == m.cursor[paneEdges] {
			line = cursorStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m editorModel) renderReport() string {
	r := m.snap.Report
	var lines []string
	if r.IsValid {
		lines = append(lines, styleIconSuccess.Render(iconSuccess)+" "+StyleSuccess.Render("valid pipeline"))
	}
	for _, msg := range r.Errors {
		lines = append(lines, styleIconError.Render(iconError)+" "+msg)
	}
	for _, msg := range r.Warnings {
		lines = append(lines, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
	}
	return strings.Join(lines, "\n")
}

func (m editorModel) mark(id string) string {
	if m.selected[id] {
		return "[x]"
	}
	return "[ ]"
}

func formatPos(p dag.Position) string {
	return fmt.Sprintf("(%.0f, %.0f)", p.X, p.Y)
}
