package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/store"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	// Alternating fills for the row strip; unmeasured thumbnails are shaded.
	stripStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorCyan),
		lipgloss.NewStyle().Foreground(colorGreen),
	}
	stripUnknownStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// list is the cursor and scroll window shared by the interactive models.
type list struct {
	Cursor int
	Offset int
	Height int
}

// move shifts the cursor by delta within n entries and scrolls the window
// to keep it visible.
func (l *list) move(delta, n int) {
	if n == 0 {
		return
	}
	l.Cursor = min(max(l.Cursor+delta, 0), n-1)
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Height > 0 && l.Cursor >= l.Offset+l.Height {
		l.Offset = l.Cursor - l.Height + 1
	}
}

// navigate applies the movement keys and reports whether k was one.
func (l *list) navigate(k string, n int) bool {
	page := max(l.Height, 1)
	switch k {
	case "up", "k":
		l.move(-1, n)
	case "down", "j":
		l.move(1, n)
	case "pgup", "ctrl+u":
		l.move(-page, n)
	case "pgdown", "ctrl+d":
		l.move(page, n)
	case "home", "g":
		l.move(-n, n)
	case "end", "G":
		l.move(n, n)
	default:
		return false
	}
	return true
}

// window returns the visible index range.
func (l list) window(n int) (int, int) {
	if l.Height <= 0 {
		return 0, n
	}
	return min(l.Offset, n), min(l.Offset+l.Height, n)
}

type rowRef struct {
	group, row int
}

// RowListModel browses the rows of a layout. Enter expands the row under
// the cursor into a strip of its thumbnails.
type RowListModel struct {
	list
	Layout   gallery.Layout
	Width    int
	Expanded bool

	rows []rowRef
}

func NewRowListModel(l gallery.Layout) RowListModel {
	m := RowListModel{Layout: l, list: list{Height: 15}, Width: 80}
	for gi, g := range l.Groups {
		for ri := range g.Rows {
			m.rows = append(m.rows, rowRef{gi, ri})
		}
	}
	return m
}

func (m RowListModel) Init() tea.Cmd { return nil }

func (m RowListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		k := msg.String()
		if m.navigate(k, len(m.rows)) {
			return m, nil
		}
		switch k {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Expanded {
				return m, tea.Quit
			}
			m.Expanded = false
		case "enter", " ":
			m.Expanded = len(m.rows) > 0 && !m.Expanded
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.Width = msg.Width
		m.move(0, len(m.rows))
	}
	return m, nil
}

func (m RowListModel) row(i int) gallery.Row {
	ref := m.rows[i]
	return m.Layout.Groups[ref.group].Rows[ref.row]
}

func (m RowListModel) View() string {
	var b strings.Builder

	title := "Layout"
	if m.Layout.ListingID != "" {
		title += " " + m.Layout.ListingID
	}
	fmt.Fprintf(&b, "%s%s\n%s\n\n",
		StyleTitle.Render(title),
		listDimStyle.Render(fmt.Sprintf("  width %.0f · height %.0f", m.Layout.ContainerWidth, m.Layout.Height)),
		listDimStyle.Render("↑/↓ navigate  ⏎ thumbnails  q quit"))

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  no rows") + "\n")
		return b.String()
	}

	start, end := m.window(len(m.rows))
	cells := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		ref, r := m.rows[i], m.row(i)
		marker, fallback := "  ", ""
		if i == m.Cursor {
			marker = "▸ "
		}
		if r.Fallback {
			fallback = "✓"
		}
		cells = append(cells, []string{
			marker,
			strconv.Itoa(ref.group),
			strconv.Itoa(ref.row),
			fmt.Sprintf("%.0f", r.Y),
			fmt.Sprintf("%.1f", r.Height),
			strconv.Itoa(len(r.Items)),
			fallback,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("", "Group", "Row", "Y", "Height", "Items", "Fallback").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			idx := start + row
			s := lipgloss.NewStyle()
			if idx < len(m.rows) && m.row(idx).Fallback {
				s = s.Foreground(colorYellow)
			}
			if idx == m.Cursor {
				s = s.Bold(true).Foreground(colorCyan)
			}
			return s
		})
	b.WriteString(t.Render() + "\n\n")

	if m.Expanded {
		r := m.row(m.Cursor)
		b.WriteString("  " + rowStrip(r, m.Layout.ContainerWidth, max(m.Width-4, 10)) + "\n\n")
		for _, p := range r.Items {
			line := fmt.Sprintf("  %-24s %7.1f x %-7.1f at (%.0f, %.0f)", p.ID, p.Width, p.Height, p.X, p.Y)
			if p.Known {
				b.WriteString(listNormalStyle.Render(line))
			} else {
				b.WriteString(listDimStyle.Render(line + "  unmeasured"))
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	return b.String()
}

// rowStrip draws a row as one terminal line, each thumbnail taking a share
// of cols proportional to its width in the container. Every thumbnail gets
// at least one cell.
func rowStrip(r gallery.Row, containerWidth float64, cols int) string {
	if containerWidth <= 0 || len(r.Items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range r.Items {
		outer := p.Width + p.Margin.Left + p.Margin.Right
		n := max(int(math.Round(outer/containerWidth*float64(cols))), 1)
		if !p.Known {
			b.WriteString(stripUnknownStyle.Render(strings.Repeat("░", n)))
			continue
		}
		b.WriteString(stripStyles[i%len(stripStyles)].Render(strings.Repeat("█", n)))
	}
	return b.String()
}

// ListingListModel picks a stored listing.
type ListingListModel struct {
	list
	Listings []store.Summary
	Selected *store.Summary
}

func NewListingListModel(listings []store.Summary) ListingListModel {
	return ListingListModel{Listings: listings, list: list{Height: 20}}
}

func (m ListingListModel) Init() tea.Cmd { return nil }

func (m ListingListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		k := msg.String()
		if m.navigate(k, len(m.Listings)) {
			return m, nil
		}
		switch k {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if len(m.Listings) > 0 {
				m.Selected = &m.Listings[m.Cursor]
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-4, 3)
		m.move(0, len(m.Listings))
	}
	return m, nil
}

func (m ListingListModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select Listing") + "\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit") + "\n\n")

	start, end := m.window(len(m.Listings))
	for i := start; i < end; i++ {
		s := m.Listings[i]
		marker, style := "  ", listNormalStyle
		if i == m.Cursor {
			marker, style = "> ", listSelectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-30s %5d results  ", marker, s.ID, s.Results)))
		b.WriteString(listDimStyle.Render(formatRelativeTime(s.UpdatedAt)) + "\n")
	}
	return b.String()
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	switch d := time.Since(t); {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
