package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ormtour/internal/tour"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and run examples interactively",
		Long: `Open an interactive picker over the tour examples.

Select an example with the arrow keys and press enter to run it; the
picker exits and the example's transcript is printed.`,
		Args: cobra.NoArgs,
		RunE: runBrowse,
	}
}

// exampleItem adapts a tour.Example to the bubbles list item interface.
type exampleItem struct {
	ex tour.Example
}

func (i exampleItem) Title() string       { return i.ex.Name }
func (i exampleItem) Description() string { return i.ex.Title }
func (i exampleItem) FilterValue() string { return i.ex.Name + " " + i.ex.Title }

type browseModel struct {
	list     list.Model
	selected *tour.Example
	quitting bool
}

func newBrowseModel() browseModel {
	examples := tour.List()
	items := make([]list.Item, 0, len(examples))
	for _, ex := range examples {
		items = append(items, exampleItem{ex: ex})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "ormtour"
	l.Styles.Title = lipgloss.NewStyle().Bold(true)
	return browseModel{list: l}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(exampleItem); ok {
				m.selected = &item.ex
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}
	return m.list.View()
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)

	if len(tour.List()) == 0 {
		return fmt.Errorf("no examples registered")
	}

	p := tea.NewProgram(newBrowseModel(), tea.WithOutput(cmd.ErrOrStderr()))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}

	m, ok := final.(browseModel)
	if !ok || m.selected == nil {
		return nil
	}

	// Separate the picker chrome from the transcript.
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), strings.Repeat("-", 40))
	return runOne(cmd.Context(), cc, *m.selected, cc.Renderer.Writer())
}
