package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowgraph/pkg/dag"
)

// List styles
var (
	listSelectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listContainerStyle = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeModel - Interactive workflow graph browser
// =============================================================================

// treeRow is one visible line of the tree.
type treeRow struct {
	node  *dag.Node
	depth int
}

// TreeModel is the bubbletea model for browsing a workflow graph. Containers
// can be expanded and collapsed; the root starts expanded.
type TreeModel struct {
	Root     *dag.Node
	Expanded map[*dag.Node]bool
	Cursor   int
	Height   int
	Offset   int

	rows []treeRow
}

// NewTreeModel creates a tree model rooted at root.
func NewTreeModel(root *dag.Node) TreeModel {
	m := TreeModel{
		Root:     root,
		Expanded: map[*dag.Node]bool{root: true},
		Height:   15,
	}
	m.refresh()
	return m
}

// refresh recomputes the visible rows from the expansion state.
func (m *TreeModel) refresh() {
	rows := make([]treeRow, 0, len(m.rows))
	dag.Walk(m.Root, func(n *dag.Node, depth int) bool {
		rows = append(rows, treeRow{node: n, depth: depth})
		return m.Expanded[n]
	})
	m.rows = rows
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Offset > m.Cursor {
		m.Offset = m.Cursor
	}
}

// Selected returns the node under the cursor.
func (m TreeModel) Selected() *dag.Node {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.Cursor].node
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if n := m.Selected(); n != nil && n.IsContainer() {
				m.Expanded[n] = !m.Expanded[n]
				m.refresh()
			}
		case "right", "l":
			if n := m.Selected(); n != nil && n.IsContainer() && !m.Expanded[n] {
				m.Expanded[n] = true
				m.refresh()
			}
		case "left", "h":
			if n := m.Selected(); n != nil && m.Expanded[n] {
				m.Expanded[n] = false
				m.refresh()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Root.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		n := r.node

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if n.IsContainer() {
			marker = "+ "
			if m.Expanded[n] {
				marker = "- "
			}
		}

		taskType := n.Value.TaskType()
		if taskType == "" {
			taskType = "—"
		}
		children := "—"
		if n.IsContainer() {
			children = strconv.Itoa(len(n.Nodes))
		}

		name := strings.Repeat("  ", r.depth) + marker + n.Name
		rows = append(rows, []string{cursor, name, n.Kind.String(), taskType, children, n.ID})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Kind", "Task type", "Children", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			switch col {
			case 2:
				return kindStyle(m.rows[idx].node.Kind)
			case 5:
				return listDimStyle
			}
			if m.rows[idx].node.IsContainer() {
				return listContainerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}
