package render

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// Build parses markdown (GitHub flavored) into a classified block tree.
// Any input yields a tree; unknown constructs degrade to paragraphs.
func Build(markdown string, category Category) Document {
	doc := Document{Category: ParseCategory(string(category))}
	if strings.TrimSpace(markdown) == "" {
		return doc
	}
	src := []byte(strings.ReplaceAll(markdown, "\r\n", "\n"))
	root := parser.Parse(text.NewReader(src))
	b := builder{src: src}
	doc.Blocks = b.blocks(root)
	return doc
}

type builder struct {
	src []byte
}

func (b builder) blocks(parent ast.Node) []Block {
	var out []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if blk, ok := b.block(n); ok {
			out = append(out, blk)
		}
	}
	return out
}

func (b builder) block(n ast.Node) (Block, bool) {
	switch v := n.(type) {
	case *ast.Heading:
		return Block{Kind: BlockHeading, Level: v.Level, Spans: b.spans(v)}, true
	case *ast.Paragraph, *ast.TextBlock:
		spans := b.spans(v)
		if len(spans) == 0 {
			return Block{}, false
		}
		return Block{Kind: BlockParagraph, Spans: spans}, true
	case *ast.List:
		blk := Block{Kind: BlockList, Ordered: v.IsOrdered(), Start: v.Start}
		for it := v.FirstChild(); it != nil; it = it.NextSibling() {
			blk.Items = append(blk.Items, b.item(it))
		}
		return blk, true
	case *ast.Blockquote:
		tone, icon := QuoteStyle(b.flatten(v))
		return Block{Kind: BlockQuote, Tone: tone, Icon: icon, Children: b.blocks(v)}, true
	case *ast.FencedCodeBlock:
		return Block{Kind: BlockCode, Lang: string(v.Language(b.src)), Code: b.lines(v)}, true
	case *ast.CodeBlock:
		return Block{Kind: BlockCode, Code: b.lines(v)}, true
	case *ast.ThematicBreak:
		return Block{Kind: BlockRule}, true
	case *ast.HTMLBlock:
		raw := strings.TrimSpace(b.lines(v))
		if raw == "" {
			return Block{}, false
		}
		return Block{Kind: BlockParagraph, Spans: []Span{{Text: raw}}}, true
	case *extast.Table:
		return b.table(v), true
	}
	if n.HasChildren() {
		return Block{Kind: BlockParagraph, Spans: []Span{{Text: b.flatten(n)}}}, true
	}
	return Block{}, false
}

func (b builder) item(n ast.Node) ListItem {
	txt := b.flatten(n)
	it := ListItem{
		Text:   txt,
		Tone:   ListTone(txt),
		Icon:   ListIcon(txt),
		Blocks: b.blocks(n),
	}
	// GFM task items carry the checkbox as the first inline of the first block.
	if first := n.FirstChild(); first != nil {
		if cb, ok := first.FirstChild().(*extast.TaskCheckBox); ok {
			it.Task = true
			it.Done = cb.IsChecked
		}
	}
	return it
}

func (b builder) table(t *extast.Table) Block {
	blk := Block{Kind: BlockTable}
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var cells [][]Span
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, b.spans(c))
		}
		if _, ok := r.(*extast.TableHeader); ok {
			blk.Header = cells
			continue
		}
		blk.Rows = append(blk.Rows, cells)
	}
	return blk
}

func (b builder) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b builder) spans(n ast.Node) []Span {
	var out []Span
	b.inline(n, Span{}, &out)
	return merge(out)
}

func (b builder) inline(n ast.Node, st Span, out *[]Span) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			s := st
			s.Text = string(v.Segment.Value(b.src))
			*out = append(*out, s)
			if v.HardLineBreak() {
				*out = append(*out, Span{Text: "\n"})
			} else if v.SoftLineBreak() {
				*out = append(*out, Span{Text: " "})
			}
		case *ast.String:
			s := st
			s.Text = string(v.Value)
			*out = append(*out, s)
		case *ast.CodeSpan:
			s := st
			s.Code = true
			s.Text = b.flatten(v)
			*out = append(*out, s)
		case *ast.Emphasis:
			s := st
			if v.Level >= 2 {
				s.Strong = true
				s.Badge = BadgeFor(b.flatten(v))
			} else {
				s.Emphasis = true
			}
			b.inline(v, s, out)
		case *ast.Link:
			s := st
			s.Link = string(v.Destination)
			b.inline(v, s, out)
		case *ast.AutoLink:
			s := st
			s.Text = string(v.Label(b.src))
			s.Link = string(v.URL(b.src))
			*out = append(*out, s)
		case *ast.Image:
			s := st
			s.Text = b.flatten(v)
			*out = append(*out, s)
		case *extast.Strikethrough:
			s := st
			s.Strike = true
			b.inline(v, s, out)
		case *extast.TaskCheckBox:
			// rendered from ListItem.Task
		case *ast.RawHTML:
			// inline html is dropped
		default:
			b.inline(c, st, out)
		}
	}
}

// merge joins adjacent spans that share styling.
func merge(in []Span) []Span {
	out := make([]Span, 0, len(in))
	for _, s := range in {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && sameStyle(out[n-1], s) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

func sameStyle(a, b Span) bool {
	x, y := a, b
	x.Text, y.Text = "", ""
	return x == y
}

// flatten recursively extracts the visible text of n. Block boundaries
// become single spaces.
func (b builder) flatten(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if c.Type() == ast.TypeBlock && c != n {
				sb.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(b.src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		case *ast.AutoLink:
			sb.Write(v.Label(b.src))
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}
