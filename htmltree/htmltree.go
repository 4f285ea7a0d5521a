// Package htmltree linearizes HTML into an itemex.Tree whose fragments are
// byte ranges of the source markup, and provides a simple structural
// kernel over it.
package htmltree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/TrevorS/itemex"
	"golang.org/x/net/html"
)

// DocumentTag is the tag name of the synthetic root node.
const DocumentTag = "#document"

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// autoClose elements end an open element of the same name when they start.
var autoClose = map[string]bool{
	"li": true, "p": true, "td": true, "th": true, "tr": true,
	"dt": true, "dd": true, "option": true,
}

// Tree is a parsed HTML document. Node 0 is a synthetic root spanning the
// whole input; element nodes carry their lower-cased tag name and text
// nodes an empty tag.
type Tree struct {
	*itemex.PageTree
	src  []byte
	tags []string
}

// Tag returns the tag name of node i ("" for text).
func (t *Tree) Tag(i int) string { return t.tags[i] }

// Text returns the markup covered by f, or "" for an invalid fragment.
func (t *Tree) Text(f itemex.Fragment) string {
	if !f.Valid() || f.End > len(t.src) {
		return ""
	}
	return string(t.src[f.Start:f.End])
}

// Parse reads an HTML document and linearizes it in document order.
// Comments, doctypes and whitespace-only text are dropped; void elements
// and self-closing tags become leaves; an end tag with no open element of
// that name is ignored and closes nothing.
func Parse(r io.Reader) (*Tree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("htmltree: read: %w", err)
	}

	b := &builder{}
	b.open(-1, DocumentTag, false, 0)

	z := html.NewTokenizer(bytes.NewReader(src))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, fmt.Errorf("htmltree: tokenize at byte %d: %w", offset, z.Err())
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if autoClose[tag] && b.topTag() == tag {
				b.close(start)
			}
			b.open(b.top(), tag, true, start)
			if tt == html.SelfClosingTagToken || voidElements[tag] {
				b.close(offset)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			b.closeTag(string(name), start, offset)
		case html.TextToken:
			if len(bytes.TrimSpace(z.Raw())) == 0 {
				continue
			}
			b.open(b.top(), "", false, start)
			b.close(offset)
		}
	}
	for len(b.stack) > 0 {
		b.close(offset)
	}

	pt, err := itemex.NewPageTree(b.nodes)
	if err != nil {
		return nil, fmt.Errorf("htmltree: %w", err)
	}
	return &Tree{PageTree: pt, src: src, tags: b.tags}, nil
}

// builder accumulates preorder nodes while tracking open elements.
type builder struct {
	nodes []itemex.Node
	tags  []string
	stack []int
}

func (b *builder) open(parent int, tag string, isTag bool, start int) {
	b.stack = append(b.stack, len(b.nodes))
	b.nodes = append(b.nodes, itemex.Node{Parent: parent, Tag: isTag, Start: start, End: start})
	b.tags = append(b.tags, tag)
}

func (b *builder) close(end int) {
	top := b.stack[len(b.stack)-1]
	b.nodes[top].End = end
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *builder) top() int { return b.stack[len(b.stack)-1] }

func (b *builder) topTag() string { return b.tags[b.top()] }

// closeTag closes the innermost open element named tag together with every
// element opened after it. The root is never closed here.
func (b *builder) closeTag(tag string, start, end int) {
	for k := len(b.stack) - 1; k >= 1; k-- {
		if b.tags[b.stack[k]] != tag {
			continue
		}
		for len(b.stack)-1 > k {
			b.close(start)
		}
		b.close(end)
		return
	}
}
