package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/explorecountries/internal/imagecache"
	"github.com/thesavant42/explorecountries/internal/models"
	"github.com/thesavant42/explorecountries/internal/store"
)

type (
	fetchDoneMsg   struct{ err error }
	imageLoadedMsg struct {
		url string
		img image.Image
		ok  bool
	}
	exportDoneMsg struct {
		path string
		err  error
	}
)

// BrowserModel is the country browser: search box, population filter,
// country table and a flag preview for the selected row.
//
// The model never filters on its own. Key presses go to the store and the
// table is rebuilt from the lists the store publishes (see Forward).
type BrowserModel struct {
	BaseTableModel

	ctx       context.Context
	store     *store.Store
	images    *imagecache.Cache
	logger    *log.Logger
	now       func() time.Time
	exportDir string

	search    textinput.Model
	spinner   spinner.Model
	searching bool
	loading   bool
	errMsg    string
	status    string

	visible   []models.Country
	criterion models.Criterion
	counts    []store.CriterionCount

	previewURL string
	preview    string
}

// NewBrowserModel creates the browser. images may be nil, in which case no
// flags are shown.
func NewBrowserModel(ctx context.Context, st *store.Store, images *imagecache.Cache, logger *log.Logger) BrowserModel {
	filter := st.Filter()

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "Search by Country"
	ti.CharLimit = 64
	ti.SetValue(filter.SearchText)

	m := BrowserModel{
		BaseTableModel: NewBaseTableModel(CountryColumns),
		ctx:            ctx,
		store:          st,
		images:         images,
		logger:         logger,
		now:            time.Now,
		exportDir:      ".",
		search:         ti,
		spinner:        NewAppSpinner(),
		loading:        true,
		criterion:      filter.Criterion,
	}
	m.setVisible(st.Visible())
	return m
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(StandardInit(), m.spinner.Tick, m.fetchCmd())
}

func (m BrowserModel) fetchCmd() tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{err: st.FetchAll(ctx)}
	}
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.HandleWindowResize(msg.Width, msg.Height, CountryColumns)
		m.search.Width = m.Layout.InnerWidth - StringWidth(m.search.Prompt) - 2
		return m, nil

	case listChangedMsg:
		m.setVisible(msg.visible)
		cmd := m.previewCmd()
		return m, cmd

	case loadingMsg:
		m.loading = msg.loading
		if msg.loading {
			m.errMsg = ""
			return m, m.spinner.Tick
		}
		return m, nil

	case fetchErrorMsg:
		m.errMsg = msg.message
		return m, nil

	case fetchDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, store.ErrFetchInProgress) && m.logger != nil {
			m.logger.Debug("Fetch finished with error", "error", msg.err)
		}
		return m, nil

	case imageLoadedMsg:
		if msg.url == m.previewURL {
			m.preview = renderFlag(msg.img, msg.ok)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = RenderError("Export failed: " + msg.err.Error())
			if m.logger != nil {
				m.logger.Error("Export failed", "error", msg.err)
			}
		} else {
			m.status = SuccessStyle.Render("Exported to " + msg.path)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateSearch handles keys while the search box has focus
func (m BrowserModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "enter", "esc", "tab", "down":
		m.searching = false
		m.search.Blur()
		m.Table.Focus()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	value := sanitizeInput(m.search.Value())
	if value != m.search.Value() {
		m.search.SetValue(value)
	}
	if value != before {
		m.store.SetSearchText(value)
	}
	return m, cmd
}

// updateBrowse handles keys while the table has focus
func (m BrowserModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if quit, cmd := HandleQuitKeysNoEsc(key); quit {
		m.Quitting = true
		return m, cmd
	}

	switch key {
	case "/":
		m.searching = true
		m.status = ""
		m.Table.Blur()
		cmd := m.search.Focus()
		return m, cmd

	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.store.SetSearchText("")
		}
		return m, nil

	case "f":
		m.criterion = m.criterion.Next()
		m.store.SetCriterion(m.criterion)
		return m, nil

	case "r":
		if m.errMsg == "" || m.loading {
			return m, nil
		}
		m.errMsg = ""
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchCmd())

	case "e":
		return m, m.exportCmd()
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	preview := m.previewCmd()
	return m, tea.Batch(cmd, preview)
}

func (m *BrowserModel) setVisible(visible []models.Country) {
	m.visible = visible
	m.Table.SetRows(CountryRows(visible))
	if m.Table.Cursor() < 0 && len(visible) > 0 {
		m.Table.SetCursor(0)
	}
	m.criterion = m.store.Filter().Criterion
	m.counts = m.store.CriterionCounts()
}

func (m BrowserModel) selected() (models.Country, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return models.Country{}, false
	}
	return m.visible[i], true
}

// previewCmd points the preview at the selected country, loading its flag
// through the image cache when it is not already in memory
func (m *BrowserModel) previewCmd() tea.Cmd {
	c, ok := m.selected()
	if !ok {
		m.previewURL, m.preview = "", ""
		return nil
	}

	url, ok := c.ImageURL()
	if !ok || m.images == nil {
		m.previewURL = ""
		m.preview = RenderPreviewPlaceholder("No flag", PreviewWidth)
		return nil
	}
	if url == m.previewURL && m.preview != "" {
		return nil
	}

	m.previewURL = url
	if img, ok := m.images.Peek(url); ok {
		m.preview = RenderHalfBlocks(img, PreviewWidth)
		return nil
	}

	m.preview = RenderPreviewPlaceholder("Loading flag...", PreviewWidth)
	images, ctx := m.images, m.ctx
	return func() tea.Msg {
		img, ok := images.Get(ctx, url)
		return imageLoadedMsg{url: url, img: img, ok: ok}
	}
}

func renderFlag(img image.Image, ok bool) string {
	if !ok {
		return RenderPreviewPlaceholder("Flag unavailable", PreviewWidth)
	}
	return RenderHalfBlocks(img, PreviewWidth)
}

func (m BrowserModel) exportCmd() tea.Cmd {
	countries := m.visible
	filter := m.store.Filter()
	dir, now := m.exportDir, m.now()
	return func() tea.Msg {
		path, err := ExportMarkdown(countries, filter, dir, now)
		return exportDoneMsg{path: path, err: err}
	}
}

// =============================================================================
// View
// =============================================================================

func (m BrowserModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ViewHeaderWithSubtitle("Explore Countries", "Search by name, filter by population", m.Layout.InnerWidth))
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(StatsLine(len(m.visible)))
	b.WriteString("\n\n")

	if m.loading && len(m.visible) == 0 {
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), ProgressStyle.Render("Loading countries...")))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			RenderTableWithSelection(m.Table, m.Layout.TableWidth),
			"  ",
			m.renderDetails(),
		))
		if m.loading {
			b.WriteString(fmt.Sprintf("\n%s %s", m.spinner.View(), ProgressStyle.Render("Refreshing...")))
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(RenderError(m.errMsg))
		b.WriteString("  ")
		b.WriteString(RenderDim("press r to retry"))
	}
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(m.status)
	}

	return BuildTwoBoxView(b.String(), m.helpText(), m.Layout)
}

func (m BrowserModel) renderFilterBar() string {
	parts := []string{RenderNormal("Filter by Population:")}
	preset := false
	for _, cc := range m.counts {
		label := fmt.Sprintf("%s (%d)", cc.Criterion, cc.Count)
		if cc.Criterion == m.criterion {
			preset = true
			parts = append(parts, FilterActiveStyle.Render(label))
		} else {
			parts = append(parts, FilterInactiveStyle.Render(label))
		}
	}
	if !preset {
		parts = append(parts, FilterActiveStyle.Render(m.criterion.String()))
	}
	return strings.Join(parts, " ")
}

func (m BrowserModel) renderDetails() string {
	c, ok := m.selected()
	if !ok {
		return ""
	}

	lines := []string{AccentStyle.Render(truncateToWidth(c.Name, PreviewWidth))}
	if m.preview != "" {
		lines = append(lines, m.preview)
	}
	if c.Abbreviation != "" {
		lines = append(lines, RenderDim("Code: ")+RenderNormal(c.Abbreviation))
	}
	if c.CallingCode != "" {
		lines = append(lines, RenderDim("Phone: ")+RenderNormal(c.CallingCode))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m BrowserModel) helpText() string {
	if m.searching {
		return "type to search | Enter/Esc: done"
	}
	help := "/: search | f: filter | e: export | up/down: navigate | q: quit"
	if m.errMsg != "" {
		help = "r: retry | " + help
	}
	return help
}

// RunBrowser runs the browser until the user quits
func RunBrowser(ctx context.Context, st *store.Store, images *imagecache.Cache, logger *log.Logger) error {
	m := NewBrowserModel(ctx, st, images, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	stop := Forward(p, st)
	defer stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser program error: %w", err)
	}
	return nil
}
