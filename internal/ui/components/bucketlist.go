package components

import (
	"bkt/internal/models"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BucketItem represents a bucket in the list
type BucketItem struct {
	Bucket models.Bucket
}

// FilterValue returns the bucket name
func (i BucketItem) FilterValue() string {
	return i.Bucket.Name
}

// Title returns the bucket name
func (i BucketItem) Title() string {
	return i.Bucket.Name
}

// Description is empty; buckets carry only a name
func (i BucketItem) Description() string {
	return ""
}

// BucketListModel lists the backend's buckets
type BucketListModel struct {
	List list.Model
}

// NewBucketListModel creates a new bucket list model
func NewBucketListModel(width, height int) BucketListModel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	listModel := list.New([]list.Item{}, delegate, width, height)
	listModel.Title = "Buckets"
	listModel.SetStatusBarItemName("bucket", "buckets")
	listModel.SetShowHelp(false)
	listModel.DisableQuitKeybindings()
	listModel.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true).
		MarginLeft(2)

	return BucketListModel{List: listModel}
}

// SetBuckets replaces the listed buckets
func (m *BucketListModel) SetBuckets(buckets []models.Bucket) {
	items := make([]list.Item, len(buckets))
	for i, b := range buckets {
		items[i] = BucketItem{Bucket: b}
	}
	m.List.SetItems(items)
}

// Selected returns the highlighted bucket name
func (m BucketListModel) Selected() (string, bool) {
	item, ok := m.List.SelectedItem().(BucketItem)
	if !ok {
		return "", false
	}
	return item.Bucket.Name, true
}

// Filtering reports whether the user is typing a filter
func (m BucketListModel) Filtering() bool {
	return m.List.FilterState() == list.Filtering
}

// Update handles bucket list updates
func (m BucketListModel) Update(msg tea.Msg) (BucketListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// View renders the bucket list
func (m BucketListModel) View() string {
	return m.List.View()
}
