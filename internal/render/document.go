package render

// BlockKind enumerates the structural treatments the renderer knows.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockList
	BlockQuote
	BlockTable
	BlockCode
	BlockRule
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockList:
		return "list"
	case BlockQuote:
		return "quote"
	case BlockTable:
		return "table"
	case BlockCode:
		return "code"
	case BlockRule:
		return "rule"
	default:
		return "paragraph"
	}
}

// Span is a run of inline text with uniform styling.
type Span struct {
	Text     string
	Strong   bool
	Emphasis bool
	Code     bool
	Strike   bool
	Link     string
	// Badge is set on strong spans only.
	Badge Badge
}

// Document is the styled block tree for one markdown text.
type Document struct {
	Category Category
	Blocks   []Block
}

// Block is a single block-level node. Only the fields relevant to Kind are set.
type Block struct {
	Kind BlockKind

	Level int    // heading
	Spans []Span // heading, paragraph

	Ordered bool // list
	Start   int
	Items   []ListItem

	Tone     Tone    // quote
	Icon     string  // quote
	Children []Block // quote

	Header [][]Span // table
	Rows   [][][]Span

	Lang string // code
	Code string
}

// ListItem carries the classification derived from the item's full text.
type ListItem struct {
	Text   string
	Tone   Tone
	Icon   string
	Task   bool
	Done   bool
	Blocks []Block
}

// PlainText joins the text of spans without styling.
func PlainText(spans []Span) string {
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range spans {
		b = append(b, s.Text...)
	}
	return string(b)
}
