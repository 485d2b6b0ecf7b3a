// Package markdown reads the entry document: its YAML headmatter and the
// plain text of its inline content.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var fence = []byte("---")

// SplitHeadmatter separates a leading "---" delimited YAML block from the body.
// When there is no headmatter, head is nil and body is src.
func SplitHeadmatter(src []byte) (head, body []byte) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, ok := cutLine(src)
	if !ok || !bytes.Equal(bytes.TrimRight(first, " \t\r"), fence) {
		return nil, src
	}

	offset := len(src) - len(rest)
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
			end := len(src) - len(rest)
			return src[offset:end], next
		}
		rest = next
	}
	return nil, src
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

// FirstHeading returns the text of the first heading in src, or "".
func FirstHeading(src []byte) string {
	var heading ast.Node
	ast.Walk(parse(src), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if _, ok := n.(*ast.Heading); ok && entering {
			heading = n
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if heading == nil {
		return ""
	}
	return stringify(heading, src)
}

func parse(src []byte) ast.Node {
	return goldmark.DefaultParser().Parse(text.NewReader(src))
}

// stringify returns the text of every block's inline content under root:
// text runs and code spans, each trimmed, whitespace-only runs dropped,
// joined by spaces.
func stringify(root ast.Node, src []byte) string {
	var blocks []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || !hasInlineContent(n) {
			return ast.WalkContinue, nil
		}
		if s := inlineText(n, src); s != "" {
			blocks = append(blocks, s)
		}
		return ast.WalkSkipChildren, nil
	})
	return strings.Join(blocks, " ")
}

func hasInlineContent(n ast.Node) bool {
	return n.Type() == ast.TypeBlock && n.FirstChild() != nil && n.FirstChild().Type() == ast.TypeInline
}

func inlineText(block ast.Node, src []byte) string {
	c := &collector{src: src}
	c.walk(block)
	c.flush()
	return strings.Join(c.parts, " ")
}

type collector struct {
	src   []byte
	buf   strings.Builder
	parts []string
}

func (c *collector) walk(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			c.buf.Write(node.Segment.Value(c.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				c.flush()
			}
		case *ast.String:
			c.buf.Write(node.Value)
		case *ast.CodeSpan:
			c.flush()
			for t := node.FirstChild(); t != nil; t = t.NextSibling() {
				switch seg := t.(type) {
				case *ast.Text:
					c.buf.Write(seg.Segment.Value(c.src))
				case *ast.String:
					c.buf.Write(seg.Value)
				}
			}
			c.flush()
		default:
			c.flush()
			c.walk(child)
			c.flush()
		}
	}
}

func (c *collector) flush() {
	s := strings.TrimSpace(c.buf.String())
	c.buf.Reset()
	if s != "" {
		c.parts = append(c.parts, s)
	}
}
