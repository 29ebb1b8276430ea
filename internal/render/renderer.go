package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/wordwrap"
)

// Renderer turns a Document into styled terminal text.
type Renderer struct {
	// Width wraps paragraphs; zero or less disables wrapping.
	Width int
}

// Markdown builds and renders content in one step. Blank input renders "".
func Markdown(content string, category Category, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return Renderer{Width: width}.Render(Build(content, category))
}

// Render draws every block separated by a blank line.
func (r Renderer) Render(doc Document) string {
	p := PaletteFor(doc.Category)
	return strings.Join(r.blocks(doc.Blocks, p, r.Width), "\n\n")
}

func (r Renderer) blocks(blocks []Block, p Palette, width int) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := r.block(b, p, width); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r Renderer) block(b Block, p Palette, width int) string {
	switch b.Kind {
	case BlockHeading:
		return r.heading(b, p, width)
	case BlockParagraph:
		return wrap(spansString(b.Spans, p), width)
	case BlockList:
		return r.list(b, p, width)
	case BlockQuote:
		return r.quote(b, p, width)
	case BlockTable:
		return r.table(b, p)
	case BlockCode:
		return lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Border).
			Padding(0, 1).
			Render(b.Code)
	case BlockRule:
		n := width
		if n <= 0 {
			n = 40
		}
		return lipgloss.NewStyle().Foreground(p.Border).Render(strings.Repeat("─", n))
	}
	return ""
}

func (r Renderer) heading(b Block, p Palette, width int) string {
	txt := PlainText(b.Spans)
	switch b.Level {
	case 1:
		return wrap(lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.Header).Render(txt), width)
	case 2:
		icon := lipgloss.NewStyle().Foreground(p.Icon).Render("💼")
		return wrap(icon+" "+lipgloss.NewStyle().Bold(true).Foreground(p.Header).Render(txt), width)
	default:
		return wrap(lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Render(txt), width)
	}
}

func (r Renderer) list(b Block, p Palette, width int) string {
	lines := make([]string, 0, len(b.Items))
	for i, it := range b.Items {
		fg := lipgloss.TerminalColor(p.Icon)
		if c, ok := tones[it.Tone]; ok {
			fg = c.fg
		}
		prefix := lipgloss.NewStyle().Foreground(fg).Render(it.Icon)
		if b.Ordered {
			prefix = fmt.Sprintf("%d. %s", b.Start+i, prefix)
		}
		if it.Task {
			box := "[ ]"
			if it.Done {
				box = "[x]"
			}
			prefix += " " + box
		}
		inner := width - 4
		if width <= 0 {
			inner = 0
		}
		body := strings.Join(r.blocks(it.Blocks, p, inner-lipgloss.Width(prefix)-1), "\n")
		item := lipgloss.JoinHorizontal(lipgloss.Top, prefix+" ", body)
		lines = append(lines, lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(fg).
			PaddingLeft(1).
			Render(item))
	}
	return strings.Join(lines, "\n")
}

func (r Renderer) quote(b Block, p Palette, width int) string {
	fg := tones[b.Tone].fg
	inner := width - 6
	if width <= 0 {
		inner = 0
	}
	body := strings.Join(r.blocks(b.Children, p, inner), "\n")
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Foreground(fg).Render(b.Icon)+" ",
		lipgloss.NewStyle().Italic(true).Render(body))
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(fg).
		Padding(0, 1).
		Render(content)
}

func (r Renderer) table(b Block, p Palette) string {
	header := make([]string, len(b.Header))
	for i, c := range b.Header {
		header[i] = strings.ToUpper(PlainText(c))
	}
	rows := make([][]string, 0, len(b.Rows))
	for _, row := range b.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = spansString(c, p)
		}
		rows = append(rows, cells)
	}
	headStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.TableHeader)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(p.Border)).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headStyle
			}
			return cellStyle
		}).
		Render()
}

func spansString(spans []Span, p Palette) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(spanString(s, p))
	}
	return sb.String()
}

func spanString(s Span, p Palette) string {
	st := lipgloss.NewStyle()
	switch {
	case s.Strong:
		c := badges[s.Badge]
		if s.Badge == "" {
			c = badges[BadgeNeutral]
		}
		st = st.Bold(true).Foreground(c.fg).Background(c.bg)
	case s.Code:
		st = st.Foreground(p.Accent).Background(p.Background)
	case s.Link != "":
		st = st.Underline(true).Foreground(p.Accent)
	}
	if s.Emphasis {
		st = st.Italic(true)
	}
	if s.Strike {
		st = st.Strikethrough(true)
	}
	// styles would pad a lone newline into a visible cell
	if s.Text == "\n" {
		return s.Text
	}
	return st.Render(s.Text)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}
