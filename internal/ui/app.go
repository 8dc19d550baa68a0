package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"bkt/internal/filelist"
	"bkt/internal/models"
	"bkt/internal/ui/components"
	"bkt/internal/util"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Backend is the storage API the UI drives
type Backend interface {
	filelist.FileService
	ListBuckets(ctx context.Context) ([]models.Bucket, error)
	CreateBucket(ctx context.Context, name string) (*models.Bucket, error)
}

type screen int

const (
	screenBuckets screen = iota
	screenFiles
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeTags
	modeConfirmDelete
	modeUpload
	modeCreateBucket
)

// Options configures the UI model
type Options struct {
	Backend     Backend
	Bucket      string // opened directly when set
	DownloadDir string
	Log         logrus.FieldLogger
	BlobStore   filelist.BlobStore
	OpenURL     func(url string) error
}

// Model represents the UI model
type Model struct {
	Spinner       spinner.Model
	StatusMessage string
	ErrorMessage  string
	Width         int
	Height        int
	Ready         bool

	ctx     context.Context
	backend Backend
	openURL func(string) error
	saver   filelist.Saver

	screen screen
	mode   inputMode

	buckets        components.BucketListModel
	bucketsLoading bool
	bucketName     textinput.Model

	store         *filelist.Store
	states        chan filelist.State
	state         filelist.State
	files         components.FileListModel
	search        textinput.Model
	tagInput      textinput.Model
	tags          []string
	picker        filepicker.Model
	pendingDelete string
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	openURL := opts.OpenURL
	if openURL == nil {
		openURL = func(string) error { return fmt.Errorf("no browser configured") }
	}

	storeOpts := []filelist.Option{filelist.WithLogger(log)}
	if opts.BlobStore != nil {
		storeOpts = append(storeOpts, filelist.WithBlobStore(opts.BlobStore))
	}
	store := filelist.New(opts.Backend, opts.Bucket, storeOpts...)

	// Capacity one: a slow UI only ever sees the newest state
	states := make(chan filelist.State, 1)
	store.Subscribe(func(st filelist.State) {
		select {
		case states <- st:
		default:
			select {
			case <-states:
			default:
			}
			states <- st
		}
	})

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "file name"

	tagInput := textinput.New()
	tagInput.Prompt = "Tags: "
	tagInput.Placeholder = "vacation, beach"

	bucketName := textinput.New()
	bucketName.Prompt = "New bucket: "
	bucketName.Placeholder = "name"

	m := Model{
		Spinner:       s,
		StatusMessage: "Ready",
		ctx:           ctx,
		backend:       opts.Backend,
		openURL:       openURL,
		saver:         filelist.DirSaver{Dir: opts.DownloadDir},
		buckets:       components.NewBucketListModel(0, 0),
		bucketName:    bucketName,
		store:         store,
		states:        states,
		state:         store.Snapshot(),
		files:         components.NewFileListModel(0, 0),
		search:        search,
		tagInput:      tagInput,
	}

	if opts.Bucket != "" {
		m.screen = screenFiles
	} else {
		m.bucketsLoading = true
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Spinner.Tick, waitForState(m.states)}
	if m.screen == screenFiles {
		cmds = append(cmds, reloadFiles(m.ctx, m.store))
	} else {
		cmds = append(cmds, loadBuckets(m.ctx, m.backend))
	}
	return tea.Batch(cmds...)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenBuckets {
			return m.updateBuckets(msg)
		}
		return m.updateFiles(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.buckets.List.SetSize(msg.Width, msg.Height-5)
		m.files.SetSize(msg.Width, msg.Height-7)
		m.picker.Height = msg.Height - 8
		return m, nil

	case spinner.TickMsg:
		var spinnerCmd tea.Cmd
		m.Spinner, spinnerCmd = m.Spinner.Update(msg)
		cmds = append(cmds, spinnerCmd)

	case stateMsg:
		m.state = filelist.State(msg)
		m.refreshFiles()
		cmds = append(cmds, waitForState(m.states))

	case bucketsLoadedMsg:
		m.bucketsLoading = false
		m.buckets.SetBuckets(msg)
		m.StatusMessage = fmt.Sprintf("Loaded %d buckets", len(msg))
		m.ErrorMessage = ""

	case bucketCreatedMsg:
		m.StatusMessage = fmt.Sprintf("Created bucket %s", msg.Name)
		m.ErrorMessage = ""
		m.bucketsLoading = true
		cmds = append(cmds, loadBuckets(m.ctx, m.backend))

	case statusMsg:
		m.StatusMessage = string(msg)
		m.ErrorMessage = ""

	case errorMsg:
		m.bucketsLoading = false
		m.ErrorMessage = string(msg)
	}

	// The file picker reads directories through its own messages
	if m.mode == modeUpload {
		var pickerCmd tea.Cmd
		m.picker, pickerCmd = m.picker.Update(msg)
		cmds = append(cmds, pickerCmd)
	}

	return m, tea.Batch(cmds...)
}

// refreshFiles recomputes the visible files from the state and the filters
func (m *Model) refreshFiles() {
	m.files.SetFiles(filelist.Filter(m.state.Files, m.search.Value(), m.tags))
}

func (m Model) updateBuckets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeCreateBucket {
		switch msg.String() {
		case "enter":
			name := m.bucketName.Value()
			m.mode = modeBrowse
			m.bucketName.Blur()
			m.bucketName.SetValue("")
			if name == "" {
				return m, nil
			}
			return m, createBucket(m.ctx, m.backend, name)
		case "esc":
			m.mode = modeBrowse
			m.bucketName.Blur()
			m.bucketName.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.bucketName, cmd = m.bucketName.Update(msg)
		return m, cmd
	}

	if !m.buckets.Filtering() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "n":
			m.mode = modeCreateBucket
			return m, m.bucketName.Focus()
		case "r":
			m.bucketsLoading = true
			m.StatusMessage = "Refreshing buckets..."
			return m, loadBuckets(m.ctx, m.backend)
		case "enter":
			name, ok := m.buckets.Selected()
			if !ok {
				return m, nil
			}
			return m.openBucket(name)
		}
	}

	var cmd tea.Cmd
	m.buckets, cmd = m.buckets.Update(msg)
	return m, cmd
}

// openBucket switches to the file screen of bucket
func (m Model) openBucket(name string) (tea.Model, tea.Cmd) {
	m.screen = screenFiles
	m.mode = modeBrowse
	m.state = filelist.State{Bucket: name, Phase: filelist.Loading}
	m.files.SetFiles(nil)
	m.StatusMessage = "Ready"
	m.ErrorMessage = ""
	return m, selectBucket(m.ctx, m.store, name)
}

func (m Model) updateFiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeTags:
		return m.updateTags(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	case modeUpload:
		return m.updateUpload(msg)
	}

	if m.state.Preview != "" {
		switch msg.String() {
		case "esc", "p", "enter":
			m.store.ClosePreview()
			m.state.Preview = ""
			return m, nil
		case "o":
			return m, openInBrowser(m.openURL, m.state.Preview)
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.screen = screenBuckets
		m.bucketsLoading = true
		m.ErrorMessage = ""
		return m, loadBuckets(m.ctx, m.backend)
	case "r":
		return m, reloadFiles(m.ctx, m.store)
	case "/":
		m.mode = modeSearch
		return m, m.search.Focus()
	case "t":
		m.mode = modeTags
		m.tagInput.SetValue(joinTags(m.tags))
		return m, m.tagInput.Focus()
	case "c":
		m.search.SetValue("")
		m.tags = nil
		m.refreshFiles()
		return m, nil
	case "u":
		m.mode = modeUpload
		m.picker = newPicker(m.Height)
		return m, m.picker.Init()
	}

	if m.state.Phase != filelist.Ready {
		return m, nil
	}

	switch msg.String() {
	case "d":
		if f, ok := m.files.Selected(); ok {
			m.pendingDelete = f.Name
			m.mode = modeConfirmDelete
		}
		return m, nil
	case "s":
		if f, ok := m.files.Selected(); ok {
			m.StatusMessage = fmt.Sprintf("Downloading %s...", f.Name)
			return m, downloadFile(m.ctx, m.store, f.Name, m.saver)
		}
		return m, nil
	case "p", "enter":
		if f, ok := m.files.Selected(); ok {
			if err := m.store.OpenPreview(f); err != nil {
				m.StatusMessage = "Preview is only available for images"
				return m, nil
			}
			m.state.Preview = f.URL
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.search.Blur()
		m.search.SetValue("")
		m.refreshFiles()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshFiles()
	return m, cmd
}

func (m Model) updateTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.tagInput.Blur()
		m.tags = util.SplitTags(m.tagInput.Value())
		m.refreshFiles()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.tagInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name := m.pendingDelete
	m.pendingDelete = ""
	m.mode = modeBrowse

	switch msg.String() {
	case "y", "Y":
		m.StatusMessage = fmt.Sprintf("Deleting %s...", name)
		return m, deleteFile(m.ctx, m.store, name)
	}
	m.StatusMessage = "Delete cancelled"
	return m, nil
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeBrowse
		m.StatusMessage = "Upload cancelled"
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.mode = modeBrowse
		m.StatusMessage = fmt.Sprintf("Uploading %s...", path)
		return m, tea.Batch(cmd, uploadFile(m.ctx, m.store, path))
	}
	return m, cmd
}

func newPicker(height int) filepicker.Model {
	fp := filepicker.New()
	if cwd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = cwd
	}
	if height > 8 {
		fp.Height = height - 8
	}
	return fp
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
