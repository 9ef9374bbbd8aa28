package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/layout"
)

// Attributes read from the page.
const (
	AttrWidth         = "data-width"
	AttrNaturalWidth  = "data-natural-width"
	AttrNaturalHeight = "data-natural-height"
	AttrResultID      = "data-id"
)

// Document is a parsed HTML page. It implements layout.Document.
//
// Every read and write of the node tree goes through one lock, so
// thumbnails may load, fail and be laid out from different goroutines.
// Event callbacks run without the lock held.
type Document struct {
	mu      sync.Mutex
	doc     *goquery.Document
	results map[*html.Node]*Result
	images  map[*html.Node]*Image
	window  layout.Listeners
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return NewDocument(doc), nil
}

// NewDocument wraps an already parsed page.
func NewDocument(doc *goquery.Document) *Document {
	return &Document{
		doc:     doc,
		results: make(map[*html.Node]*Result),
		images:  make(map[*html.Node]*Image),
	}
}

// Container implements layout.Document.
func (d *Document) Container(selector string) (layout.Container, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Container{doc: d, node: sel.Nodes[0]}, true
}

// Results implements layout.Document. The same element always maps to the
// same *Result.
func (d *Document) Results(selector string) []layout.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []layout.Result
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, d.result(s.Nodes[0]))
	})
	return out
}

func (d *Document) result(n *html.Node) *Result {
	r, ok := d.results[n]
	if !ok {
		r = &Result{doc: d, node: n}
		d.results[n] = r
	}
	return r
}

func (d *Document) image(n *html.Node) *Image {
	img, ok := d.images[n]
	if !ok {
		img = &Image{doc: d, node: n}
		sel := goquery.NewDocumentFromNode(n).Selection
		w, wok := parseLength(sel.AttrOr(AttrNaturalWidth, ""))
		h, hok := parseLength(sel.AttrOr(AttrNaturalHeight, ""))
		if wok && hok {
			img.width, img.height = w, h
		}
		d.images[n] = img
	}
	return img
}

// Subscribe implements layout.Document.
func (d *Document) Subscribe(event string, fn func()) { d.window.On(event, fn) }

// Fire dispatches a window event and returns the number of callbacks run.
func (d *Document) Fire(event string) int { return d.window.Fire(event) }

// Thumbnails returns the thumbnail of every result, in document order.
func (d *Document) Thumbnails(cfg layout.Config) []*Image {
	var out []*Image
	for _, r := range d.Results(cfg.ResultsSelector) {
		if img, ok := r.Image(cfg.ImageSelector); ok {
			out = append(out, img.(*Image))
		}
	}
	return out
}

// Listing extracts a listing from the page. Result ids come from data-id or
// id, falling back to the result's position. A result that does not
// directly follow the previous one gets Break.
func (d *Document) Listing(cfg layout.Config) *gallery.Listing {
	l := &gallery.Listing{}
	if c, ok := d.Container(cfg.ContainerSelector); ok {
		l.ContainerWidth = c.ContentWidth()
	}
	var prev layout.Result
	for i, r := range d.Results(cfg.ResultsSelector) {
		res := r.(*Result)
		entry := gallery.Result{
			ID:    res.ID(i),
			Title: res.Title(),
			Break: i > 0 && !r.Follows(prev),
		}
		if img, ok := r.Image(cfg.ImageSelector); ok {
			entry.Src = img.(*Image).Source()
			entry.Width, entry.Height = img.NaturalSize()
		} else {
			entry.NoImage = true
		}
		l.Results = append(l.Results, entry)
		prev = r
	}
	return l
}

// Export converts a pass over this document into a serializable layout.
func (d *Document) Export(pass *layout.Pass, cfg layout.Config) gallery.Layout {
	results := d.Results(cfg.ResultsSelector)
	return pass.Export(cfg, func(i int) (string, string) {
		if i >= len(results) {
			return strconv.Itoa(i), ""
		}
		r := results[i].(*Result)
		src := ""
		if img, ok := r.Image(cfg.ImageSelector); ok {
			src = img.(*Image).Source()
		}
		return r.ID(i), src
	})
}

// Render writes the page as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// Container is the listing container element.
type Container struct {
	doc  *Document
	node *html.Node
}

// ContentWidth implements layout.Container. The width is taken from
// data-width, or from an inline style width in px, minus the horizontal
// padding declared inline.
func (c *Container) ContentWidth() float64 {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	sel := goquery.NewDocumentFromNode(c.node).Selection
	decls := parseStyle(sel.AttrOr("style", ""))

	width, ok := parseLength(sel.AttrOr(AttrWidth, ""))
	if !ok {
		v, _ := lookup(decls, "width")
		width, _ = parseLength(v)
	}
	left, right := horizontalPadding(decls)
	return width - left - right
}

// Result is a listing entry element.
type Result struct {
	doc  *Document
	node *html.Node
}

// Image implements layout.Result.
func (r *Result) Image(selector string) (layout.Image, bool) {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()
	sel := goquery.NewDocumentFromNode(r.node).Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return r.doc.image(sel.Nodes[0]), true
}

// Follows implements layout.Result.
func (r *Result) Follows(prev layout.Result) bool {
	p, ok := prev.(*Result)
	if !ok || p == nil {
		return false
	}
	return previousElementSibling(r.node) == p.node
}

// MarkLaidOut implements layout.Result.
func (r *Result) MarkLaidOut() {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()
	sel := goquery.NewDocumentFromNode(r.node).AddClass(layout.ClassLaidOut)
	cls, _ := sel.Attr("class")
	sel.SetAttr("class", strings.Join(strings.Fields(cls), " "))
}

// LaidOut reports whether the result carries the laid-out class.
func (r *Result) LaidOut() bool {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()
	return goquery.NewDocumentFromNode(r.node).HasClass(layout.ClassLaidOut)
}

// ID returns the result's data-id or id attribute, or index when neither is
// set.
func (r *Result) ID(index int) string {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()
	sel := goquery.NewDocumentFromNode(r.node).Selection
	if v := sel.AttrOr(AttrResultID, ""); v != "" {
		return v
	}
	if v := sel.AttrOr("id", ""); v != "" {
		return v
	}
	return strconv.Itoa(index)
}

// Title returns the title attribute of the result or its first link.
func (r *Result) Title() string {
	r.doc.mu.Lock()
	defer r.doc.mu.Unlock()
	sel := goquery.NewDocumentFromNode(r.node).Selection
	if v := sel.AttrOr("title", ""); v != "" {
		return v
	}
	return sel.Find("a[title]").First().AttrOr("title", "")
}

func previousElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
