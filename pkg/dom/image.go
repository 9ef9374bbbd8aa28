package dom

import (
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/matzehuels/imagerows/pkg/layout"
)

// Image is a thumbnail element. It implements layout.Image.
type Image struct {
	doc  *Document
	node *html.Node

	mu     sync.Mutex
	width  float64
	height float64
	events layout.Listeners
}

// NaturalSize implements layout.Image.
func (i *Image) NaturalSize() (float64, float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.width, i.height
}

// SetStyle implements layout.Image. Properties already present in the
// style attribute keep their position; unrelated ones are preserved.
func (i *Image) SetStyle(s layout.Style) {
	i.doc.mu.Lock()
	defer i.doc.mu.Unlock()
	sel := goquery.NewDocumentFromNode(i.node).Selection
	decls := setProps(parseStyle(sel.AttrOr("style", "")), []declaration{
		{"width", px(s.Width)},
		{"height", px(s.Height)},
		{"margin-left", px(s.Margin.Left)},
		{"margin-top", px(s.Margin.Top)},
		{"margin-right", px(s.Margin.Right)},
		{"margin-bottom", px(s.Margin.Bottom)},
	})
	sel.SetAttr("style", formatStyle(decls))
}

// On implements layout.Image.
func (i *Image) On(event string, fn func()) { i.events.On(event, fn) }

// Once implements layout.Image.
func (i *Image) Once(event string, fn func()) { i.events.Once(event, fn) }

// SetSource implements layout.Image. The new asset is unmeasured until it
// loads.
func (i *Image) SetSource(src string) {
	i.doc.mu.Lock()
	goquery.NewDocumentFromNode(i.node).SetAttr("src", src)
	i.doc.mu.Unlock()

	i.mu.Lock()
	i.width, i.height = 0, 0
	i.mu.Unlock()
}

// Source returns the src attribute.
func (i *Image) Source() string {
	i.doc.mu.Lock()
	defer i.doc.mu.Unlock()
	return goquery.NewDocumentFromNode(i.node).AttrOr("src", "")
}

// Style returns the style attribute.
func (i *Image) Style() string {
	i.doc.mu.Lock()
	defer i.doc.mu.Unlock()
	return goquery.NewDocumentFromNode(i.node).AttrOr("style", "")
}

// Load records the intrinsic size of the asset and fires load.
func (i *Image) Load(width, height float64) {
	i.mu.Lock()
	i.width, i.height = width, height
	i.mu.Unlock()
	i.events.Fire(layout.EventLoad)
}

// Fail fires error.
func (i *Image) Fail() { i.events.Fire(layout.EventError) }
