package components

import (
	"fmt"

	"bkt/internal/models"
	"bkt/internal/util"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	imageMarker = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render("▣ ")
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// FileItem represents a file item in the list
type FileItem struct {
	File models.File
}

// FilterValue returns the filter value for the file item
func (i FileItem) FilterValue() string {
	return i.File.Name
}

// Title returns the title for the file item
func (i FileItem) Title() string {
	if i.File.IsImage() {
		return imageMarker + i.File.Name
	}
	return "  " + i.File.Name
}

// Description returns the size and tags of the file
func (i FileItem) Description() string {
	if len(i.File.Tags) == 0 {
		return util.FormatKB(i.File.Size)
	}
	return fmt.Sprintf("%s  %s", util.FormatKB(i.File.Size), tagStyle.Render(util.FormatTags(i.File.Tags)))
}

// FileListModel represents the file list model
type FileListModel struct {
	List  list.Model
	Files []models.File
}

// NewFileListModel creates a new file list model
func NewFileListModel(width, height int) FileListModel {
	listModel := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	listModel.Title = "Files"
	listModel.SetShowStatusBar(true)
	listModel.SetStatusBarItemName("file", "files")
	listModel.SetFilteringEnabled(false)
	listModel.SetShowHelp(false)
	listModel.DisableQuitKeybindings()
	listModel.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true).
		MarginLeft(2)

	return FileListModel{
		List:  listModel,
		Files: []models.File{},
	}
}

// SetFiles replaces the displayed files, keeping the backend's order
func (m *FileListModel) SetFiles(files []models.File) {
	m.Files = files

	items := make([]list.Item, len(files))
	for i, file := range files {
		items[i] = FileItem{File: file}
	}

	m.List.SetItems(items)
}

// Selected returns the highlighted file
func (m FileListModel) Selected() (models.File, bool) {
	item, ok := m.List.SelectedItem().(FileItem)
	if !ok {
		return models.File{}, false
	}
	return item.File, true
}

// SetSize resizes the list
func (m *FileListModel) SetSize(width, height int) {
	m.List.SetSize(width, height)
}

// Update handles file list updates
func (m FileListModel) Update(msg tea.Msg) (FileListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// View renders the file list
func (m FileListModel) View() string {
	if len(m.Files) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 2).
			Render("No files match. Press u to upload a file.")
	}
	return m.List.View()
}
