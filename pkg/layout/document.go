package layout

// Event names understood by Document and Image.
const (
	EventPageShow = "pageshow"
	EventLoad     = "load"
	EventResize   = "resize"
	EventError    = "error"
)

// TriggerAlign names the synchronous pass started by Align.
const TriggerAlign = "align"

// ClassLaidOut is the class added to a result once it has been laid out.
const ClassLaidOut = "js"

// Margins is the per-side spacing of a thumbnail.
type Margins struct {
	Left, Top, Right, Bottom float64
}

// Style is the geometry written onto a thumbnail.
type Style struct {
	Width  float64
	Height float64
	Margin Margins
}

// Document is the page hosting a listing.
type Document interface {
	// Container returns the first element matching selector, or false.
	Container(selector string) (Container, bool)

	// Results returns the elements matching selector in document order.
	Results(selector string) []Result

	// Subscribe registers fn for a window-level event.
	Subscribe(event string, fn func())
}

// Container is the listing container.
type Container interface {
	// ContentWidth is the client width minus left and right padding.
	ContentWidth() float64
}

// Result is one listing entry.
type Result interface {
	// Image returns the thumbnail matching selector within the result.
	Image(selector string) (Image, bool)

	// Follows reports whether prev is this result's previous element
	// sibling.
	Follows(prev Result) bool

	// MarkLaidOut tags the result as laid out. Repeated calls are no-ops.
	MarkLaidOut()
}

// Image is a result thumbnail.
type Image interface {
	// NaturalSize returns the intrinsic size of the loaded asset. Either
	// value is zero until the asset has loaded.
	NaturalSize() (width, height float64)

	SetStyle(Style)

	// On registers fn for every occurrence of event.
	On(event string, fn func())

	// Once registers fn for the next occurrence of event only.
	Once(event string, fn func())

	SetSource(src string)
}
