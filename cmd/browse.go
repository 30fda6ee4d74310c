package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"binsweep/internal/app/cleanup"
	"binsweep/internal/app/common"
	"binsweep/internal/app/scan"
	"binsweep/internal/domain/model"
	"binsweep/internal/domain/selection"
	"binsweep/internal/infra/trash"
)

var browseRootFlags []string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Pick trash entries to delete in an interactive table",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		if !stdinIsInteractive() {
			return fmt.Errorf("browse needs an interactive terminal; use scan/clean instead")
		}
		if len(browseRootFlags) > 0 {
			app.Discovery = trash.Static(browseRootFlags)
		}

		set, err := scan.NewService().Run(cmd.Context(), app, scanRoots(app, browseRootFlags))
		if err != nil {
			return err
		}
		set = set.SortBy(model.SortByRisk)
		if len(set.Items) == 0 {
			fmt.Println("trash is empty")
			return nil
		}

		m := newBrowseModel(set.Items)
		out, err := tea.NewProgram(m).Run()
		if err != nil {
			return err
		}
		final, ok := out.(browseModel)
		if !ok || !final.confirmed || final.sel.Count() == 0 {
			return nil
		}

		var items []model.Item
		for _, path := range final.sel.Selected() {
			if it, found := set.Find(path); found {
				items = append(items, it)
			}
		}

		// Enter in the table is the confirmation; the --yes guard does
		// not apply here.
		dryRun := common.EffectiveDryRun(app)
		result, err := cleanup.NewService().Run(cmd.Context(), app, items, dryRun)
		if err != nil {
			return err
		}
		recordHistory(cmd, app, result)
		return printResult(result)
	},
}

func stdinIsInteractive() bool {
	inInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	outInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return shouldUseInteractive(inInfo.Mode(), outInfo.Mode(), os.Getenv("TERM"))
}

var riskStyles = map[model.RiskLevel]lipgloss.Style{
	model.RiskSafe:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	model.RiskLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	model.RiskMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	model.RiskHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	model.RiskCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

type browseModel struct {
	table     table.Model
	items     []model.Item
	sel       *selection.State
	confirmed bool
}

func newBrowseModel(items []model.Item) browseModel {
	columns := []table.Column{
		{Title: " ", Width: 2},
		{Title: "Name", Width: 36},
		{Title: "Category", Width: 12},
		{Title: "Size", Width: 10},
		{Title: "Risk", Width: 9},
	}

	m := browseModel{
		items: items,
		sel:   selection.NewState(),
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(min(len(items)+1, 20)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	m.table = t
	return m
}

func (m browseModel) rows() []table.Row {
	rows := make([]table.Row, len(m.items))
	for i, it := range m.items {
		mark := " "
		if m.sel.IsSelected(it.Record.Path) {
			mark = "x"
		}
		rows[i] = table.Row{
			mark,
			filepath.Base(it.Record.Path),
			string(it.Record.Category),
			humanize.Bytes(it.Record.SizeBytes),
			string(it.Risk.RiskLevel),
		}
	}
	return rows
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.confirmed = false
			return m, tea.Quit
		case " ":
			if i := m.table.Cursor(); i >= 0 && i < len(m.items) {
				m.sel.Toggle(m.items[i].Record.Path)
				m.table.SetRows(m.rows())
			}
			return m, nil
		case "a":
			m.sel.SelectAllSafe(m.items)
			m.table.SetRows(m.rows())
			return m, nil
		case "c":
			m.sel.Clear()
			m.table.SetRows(m.rows())
			return m, nil
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("Binsweep Browse")
	hint := lipgloss.NewStyle().Faint(true).Render("space: toggle  a: all safe  c: clear  enter: delete selection  q: quit")

	var total uint64
	for _, path := range m.sel.Selected() {
		for _, it := range m.items {
			if it.Record.Path == path {
				total += it.Record.SizeBytes
			}
		}
	}
	risk := m.cursorRiskLine()
	footer := fmt.Sprintf("%d selected, %s", m.sel.Count(), humanize.Bytes(total))

	return lipgloss.JoinVertical(lipgloss.Left, title, hint, "", m.table.View(), "", risk, footer)
}

// cursorRiskLine shows the reasons for the highlighted entry so the
// decision to delete is made with the assessment visible.
func (m browseModel) cursorRiskLine() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return ""
	}
	it := m.items[i]
	style, ok := riskStyles[it.Risk.RiskLevel]
	if !ok {
		style = lipgloss.NewStyle()
	}
	line := fmt.Sprintf("%s (%d/100)", it.Risk.RiskLevel, it.Risk.OverallRiskScore)
	if len(it.Risk.Reasons) > 0 {
		line += ": "
		for i, r := range it.Risk.Reasons {
			if i > 0 {
				line += ", "
			}
			line += r
		}
	}
	return style.Render(line)
}

func init() {
	browseCmd.Flags().StringArrayVar(&browseRootFlags, "root", nil, "Browse this directory instead of the discovered trash roots (repeatable)")
}
