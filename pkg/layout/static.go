package layout

import (
	"sync"

	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
)

// StaticDocument is an in-memory Document built from a listing. Selectors
// are not interpreted: the document has exactly one container, every
// listing entry is a result, and every entry without NoImage has a
// thumbnail. A Break on an entry separates it from its predecessor.
//
// Thumbnails start with the intrinsic size recorded in the listing. Load and
// Fail simulate asset events.
type StaticDocument struct {
	mu      sync.Mutex
	width   float64
	results []*StaticResult
	window  Listeners
}

// NewStaticDocument returns a document over l whose container is
// l.ContainerWidth wide.
func NewStaticDocument(l *gallery.Listing) *StaticDocument {
	d := &StaticDocument{width: l.ContainerWidth}
	d.results = make([]*StaticResult, len(l.Results))
	for i, r := range l.Results {
		sr := &StaticResult{doc: d, index: i, data: r}
		if !r.NoImage {
			sr.image = &StaticImage{src: r.Src, width: r.Width, height: r.Height}
		}
		d.results[i] = sr
	}
	return d
}

// Container implements Document.
func (d *StaticDocument) Container(string) (Container, bool) {
	return staticContainer{d}, true
}

// Results implements Document.
func (d *StaticDocument) Results(string) []Result {
	out := make([]Result, len(d.results))
	for i, r := range d.results {
		out[i] = r
	}
	return out
}

// Subscribe implements Document.
func (d *StaticDocument) Subscribe(event string, fn func()) { d.window.On(event, fn) }

// Fire dispatches a window event.
func (d *StaticDocument) Fire(event string) int { return d.window.Fire(event) }

// SetWidth changes the container's content width.
func (d *StaticDocument) SetWidth(w float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width = w
}

// Width returns the container's content width.
func (d *StaticDocument) Width() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width
}

// Len returns the number of results.
func (d *StaticDocument) Len() int { return len(d.results) }

// Result returns the i-th result.
func (d *StaticDocument) Result(i int) *StaticResult { return d.results[i] }

type staticContainer struct{ d *StaticDocument }

func (c staticContainer) ContentWidth() float64 { return c.d.Width() }

// StaticResult is a result of a StaticDocument.
type StaticResult struct {
	doc   *StaticDocument
	index int
	data  gallery.Result
	image *StaticImage

	mu      sync.Mutex
	laidOut bool
}

// Image implements Result.
func (r *StaticResult) Image(string) (Image, bool) {
	if r.image == nil {
		return nil, false
	}
	return r.image, true
}

// Follows implements Result.
func (r *StaticResult) Follows(prev Result) bool {
	p, ok := prev.(*StaticResult)
	if !ok || p == nil {
		return false
	}
	return p.doc == r.doc && p.index == r.index-1 && !r.data.Break
}

// MarkLaidOut implements Result.
func (r *StaticResult) MarkLaidOut() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.laidOut = true
}

// LaidOut reports whether the result has been laid out.
func (r *StaticResult) LaidOut() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.laidOut
}

// Data returns the listing entry backing the result.
func (r *StaticResult) Data() gallery.Result { return r.data }

// Thumbnail returns the result's thumbnail, or nil.
func (r *StaticResult) Thumbnail() *StaticImage { return r.image }

// StaticImage is a thumbnail of a StaticDocument.
type StaticImage struct {
	mu      sync.Mutex
	src     string
	width   float64
	height  float64
	style   Style
	styled  int
	events  Listeners
	sources []string
}

// NaturalSize implements Image.
func (i *StaticImage) NaturalSize() (float64, float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.width, i.height
}

// SetStyle implements Image.
func (i *StaticImage) SetStyle(s Style) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.style = s
	i.styled++
}

// On implements Image.
func (i *StaticImage) On(event string, fn func()) { i.events.On(event, fn) }

// Once implements Image.
func (i *StaticImage) Once(event string, fn func()) { i.events.Once(event, fn) }

// SetSource implements Image. The new asset is unmeasured until Load.
func (i *StaticImage) SetSource(src string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.src = src
	i.width, i.height = 0, 0
	i.sources = append(i.sources, src)
}

// Load records the intrinsic size of the asset and fires load.
func (i *StaticImage) Load(width, height float64) {
	i.mu.Lock()
	i.width, i.height = width, height
	i.mu.Unlock()
	i.events.Fire(EventLoad)
}

// Fail fires error.
func (i *StaticImage) Fail() { i.events.Fire(EventError) }

// Source returns the current asset source.
func (i *StaticImage) Source() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.src
}

// SourceChanges returns every source set through SetSource, in order.
func (i *StaticImage) SourceChanges() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.sources...)
}

// Style returns the last applied style and how many times a style was
// applied.
func (i *StaticImage) Style() (Style, int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.style, i.styled
}

// Compute lays out l at l.ContainerWidth with a single synchronous pass and
// returns the serialized layout.
func Compute(l *gallery.Listing, cfg Config) (gallery.Layout, error) {
	if err := errors.ValidateDimension("container width", l.ContainerWidth); err != nil {
		return gallery.Layout{}, err
	}
	doc := NewStaticDocument(l)
	c, err := New(doc, cfg)
	if err != nil {
		return gallery.Layout{}, err
	}
	pass := c.Align()
	out := pass.Export(cfg, func(i int) (string, string) {
		r := l.Results[i]
		return r.ID, r.Src
	})
	out.ListingID = l.ID
	return out, nil
}
