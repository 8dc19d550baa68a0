package ui

import (
	"fmt"

	"bkt/internal/filelist"
	"bkt/internal/util"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2).
			Margin(1, 1)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2).
			Margin(1, 1)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)
)

const (
	bucketsHelp = "enter open • n new bucket • r refresh • / filter • q quit"
	filesHelp   = "/ search • t tags • c clear • u upload • s save • d delete • p preview • r reload • b back • q quit"
	previewHelp = "o open in browser • esc close"
)

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Initializing..."
	}

	if m.screen == screenBuckets {
		return m.viewBuckets()
	}
	return m.viewFiles()
}

func (m Model) statusBar(loading bool) string {
	status := m.StatusMessage
	if loading {
		status = fmt.Sprintf("%s %s", m.Spinner.View(), "Loading...")
	}
	return mutedStyle.Render(status)
}

func (m Model) errorView() string {
	if m.ErrorMessage == "" {
		return ""
	}
	return errorStyle.Render(m.ErrorMessage)
}

func (m Model) viewBuckets() string {
	sections := []string{
		titleStyle.Render("bkt - buckets"),
		m.statusBar(m.bucketsLoading),
	}

	if m.mode == modeCreateBucket {
		sections = append(sections, promptStyle.Render(m.bucketName.View()))
	}

	sections = append(sections,
		m.buckets.View(),
		m.errorView(),
		mutedStyle.Render(bucketsHelp),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewFiles() string {
	sections := []string{
		titleStyle.Render(fmt.Sprintf("bkt - %s", m.state.Bucket)),
		m.statusBar(false),
		m.filterLine(),
	}

	switch {
	case m.mode == modeUpload:
		sections = append(sections,
			promptStyle.Render("Pick a file to upload (esc to cancel)"),
			m.picker.View(),
		)
	case m.state.Preview != "":
		sections = append(sections, previewStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Preview"),
				m.state.Preview,
				"",
				mutedStyle.Render(previewHelp),
			),
		))
	case m.state.Phase == filelist.Loading:
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("%s Loading...", m.Spinner.View())))
	case m.state.Phase == filelist.Failed:
		sections = append(sections, failedStyle.Render(m.state.Message))
	default:
		sections = append(sections, m.files.View())
	}

	if m.mode == modeConfirmDelete {
		sections = append(sections, promptStyle.Render(
			fmt.Sprintf("%s (%s) [y/N]", filelist.ConfirmDeletePrompt, m.pendingDelete)))
	}

	sections = append(sections, m.errorView(), mutedStyle.Render(filesHelp))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) filterLine() string {
	switch m.mode {
	case modeSearch:
		return promptStyle.Render(m.search.View())
	case modeTags:
		return promptStyle.Render(m.tagInput.View())
	}

	search := m.search.Value()
	if search == "" {
		search = "-"
	}
	tags := util.FormatTags(m.tags)
	if tags == "" {
		tags = "all"
	}
	return mutedStyle.Render(fmt.Sprintf("Search: %s   Tags: %s", search, tags))
}
