package dom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/imagerows/pkg/layout"
)

const page = `<!DOCTYPE html>
<html><body>
<div id="urls" data-width="628" style="padding: 0 14px">
  <div class="result result-images" data-id="a"><a href="#" title="First"><img class="image_thumbnail" src="a.png" data-natural-width="200" data-natural-height="100"></a></div>
  <div class="result result-images" id="b"><a href="#"><img class="image_thumbnail" src="b.png" data-natural-width="100" data-natural-height="100"></a></div>
  <div class="result result-images"><a href="#"><img class="image_thumbnail" src="c.png" data-natural-width="50" data-natural-height="100"></a></div>
  <div class="answer">not an image result</div>
  <div class="result result-images" data-id="d"><a href="#"><img class="image_thumbnail" src="d.png" style="border: 0"></a></div>
  <div class="result result-images" data-id="e"><span>no thumbnail</span></div>
</div>
</body></html>`

func parse(t *testing.T) *Document {
	t.Helper()
	d, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestContainerContentWidth(t *testing.T) {
	tests := []struct {
		name string
		html string
		want float64
	}{
		{"data width minus shorthand padding", `<div id="urls" data-width="628" style="padding: 0 14px"></div>`, 600},
		{"style width", `<div id="urls" style="width: 500px"></div>`, 500},
		{"longhand padding", `<div id="urls" style="width: 500px; padding-left: 10px; padding-right: 5px"></div>`, 485},
		{"four value padding", `<div id="urls" style="width: 500px; padding: 1px 2px 3px 4px"></div>`, 494},
		{"longhand overrides shorthand", `<div id="urls" style="padding: 10px; padding-right: 0; width: 100px"></div>`, 90},
		{"no width", `<div id="urls"></div>`, 0},
		{"percent width", `<div id="urls" style="width: 50%"></div>`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(strings.NewReader(tt.html))
			if err != nil {
				t.Fatal(err)
			}
			c, ok := d.Container("#urls")
			if !ok {
				t.Fatal("container not found")
			}
			if got := c.ContentWidth(); got != tt.want {
				t.Errorf("ContentWidth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainerMissing(t *testing.T) {
	d := parse(t)
	if _, ok := d.Container("#missing"); ok {
		t.Error("Container(#missing) should not be found")
	}
}

func TestResultsAdjacency(t *testing.T) {
	d := parse(t)
	results := d.Results(layout.DefaultResultsSelector)
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	if results[0].Follows(nil) {
		t.Error("first result follows nil")
	}
	if !results[1].Follows(results[0]) || !results[2].Follows(results[1]) {
		t.Error("adjacent results should follow each other")
	}
	if results[3].Follows(results[2]) {
		t.Error("result after a non-result sibling should not follow")
	}
	if !results[4].Follows(results[3]) {
		t.Error("result without thumbnail should still follow")
	}

	again := d.Results(layout.DefaultResultsSelector)
	if again[0] != results[0] {
		t.Error("Results should return stable wrappers")
	}
}

func TestImageLookup(t *testing.T) {
	d := parse(t)
	results := d.Results(layout.DefaultResultsSelector)

	img, ok := results[0].Image(layout.DefaultImageSelector)
	if !ok {
		t.Fatal("thumbnail not found")
	}
	if w, h := img.NaturalSize(); w != 200 || h != 100 {
		t.Errorf("NaturalSize() = %vx%v, want 200x100", w, h)
	}
	if _, ok := results[4].Image(layout.DefaultImageSelector); ok {
		t.Error("result without thumbnail returned one")
	}
	img2, _ := results[0].Image(layout.DefaultImageSelector)
	if img2 != img {
		t.Error("Image should return a stable wrapper")
	}
	if w, h := mustImage(t, results[3]).NaturalSize(); w != 0 || h != 0 {
		t.Errorf("unannotated thumbnail should be unmeasured, got %vx%v", w, h)
	}
}

func mustImage(t *testing.T, r layout.Result) *Image {
	t.Helper()
	img, ok := r.Image(layout.DefaultImageSelector)
	if !ok {
		t.Fatal("thumbnail not found")
	}
	return img.(*Image)
}

func TestSetStyleKeepsOtherProperties(t *testing.T) {
	d := parse(t)
	img := mustImage(t, d.Results(layout.DefaultResultsSelector)[3])

	img.SetStyle(layout.Style{
		Width:  190.66666666,
		Height: 190.66666666,
		Margin: layout.Margins{Left: 6, Top: 6, Right: 7, Bottom: 7},
	})
	want := "border: 0; width: 190.666px; height: 190.666px; margin-left: 6px; margin-top: 6px; margin-right: 7px; margin-bottom: 7px"
	if got := img.Style(); got != want {
		t.Errorf("Style() =\n%s\nwant\n%s", got, want)
	}

	img.SetStyle(layout.Style{Width: 10, Height: 20})
	if got := img.Style(); !strings.HasPrefix(got, "border: 0; width: 10px; height: 20px;") {
		t.Errorf("restyle should overwrite in place, got %s", got)
	}
}

func TestAlignOverHTML(t *testing.T) {
	d := parse(t)
	c, err := layout.New(d, layout.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	pass := c.Align()
	if pass == nil {
		t.Fatal("Align() returned nil")
	}
	if pass.ContainerWidth != 600 {
		t.Errorf("ContainerWidth = %v, want 600", pass.ContainerWidth)
	}
	if len(pass.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(pass.Groups))
	}
	if pass.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", pass.Skipped)
	}

	results := d.Results(layout.DefaultResultsSelector)
	for i, r := range results[:4] {
		if !r.(*Result).LaidOut() {
			t.Errorf("result %d not tagged", i)
		}
	}
	if results[4].(*Result).LaidOut() {
		t.Error("result without thumbnail should not be tagged")
	}

	first := mustImage(t, results[0]).Style()
	if !strings.Contains(first, "width: 381.333px") || !strings.Contains(first, "height: 190.666px") {
		t.Errorf("first thumbnail style = %s", first)
	}

	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), `class="result result-images js"`); got != 4 {
		t.Errorf("rendered page has %d tagged results, want 4", got)
	}
	if strings.Contains(buf.String(), "  js") {
		t.Error("class attribute should be single-space separated")
	}

	c.Align()
	buf.Reset()
	if err := d.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), `class="result result-images js"`); got != 4 {
		t.Errorf("after a second pass %d results carry the class once, want 4", got)
	}
}

func TestAlignOverHTMLPercentWidth(t *testing.T) {
	d, err := Parse(strings.NewReader(`<div id="urls" style="width: 50%">
  <div class="result result-images"><img class="image_thumbnail" src="a.png" data-natural-width="200" data-natural-height="100"></div>
  <div class="result result-images"><img class="image_thumbnail" src="b.png" data-natural-width="100" data-natural-height="100"></div>
</div>`))
	if err != nil {
		t.Fatal(err)
	}
	c, err := layout.New(d, layout.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if pass := c.Align(); pass != nil {
		t.Fatalf("Align() = %+v, want nil for a container without a px width", pass)
	}
	for i, r := range d.Results(layout.DefaultResultsSelector) {
		if r.(*Result).LaidOut() {
			t.Errorf("result %d tagged", i)
		}
		if style := mustImage(t, r).Style(); strings.Contains(style, "width:") {
			t.Errorf("result %d styled: %s", i, style)
		}
	}
}

func TestFallbackOverHTML(t *testing.T) {
	d := parse(t)
	cfg := layout.DefaultConfig()
	cfg.FallbackImage = "/static/img/broken.png"
	sched := &layout.ManualScheduler{}
	c, err := layout.New(d, cfg, layout.WithScheduler(sched))
	if err != nil {
		t.Fatal(err)
	}
	c.Watch()

	img := mustImage(t, d.Results(cfg.ResultsSelector)[0])
	img.Fail()
	img.Fail()
	if img.Source() != cfg.FallbackImage {
		t.Errorf("Source() = %q", img.Source())
	}
	if w, _ := img.NaturalSize(); w != 0 {
		t.Error("substituted thumbnail should be unmeasured")
	}
	if sched.Pending() != 1 {
		t.Errorf("pending = %d, want 1", sched.Pending())
	}

	d.Fire(layout.EventResize)
	sched.Run()
	if c.Passes() != 1 {
		t.Errorf("Passes() = %d, want 1", c.Passes())
	}
}

func TestListing(t *testing.T) {
	d := parse(t)
	l := d.Listing(layout.DefaultConfig())

	if l.ContainerWidth != 600 {
		t.Errorf("ContainerWidth = %v", l.ContainerWidth)
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	ids := []string{"a", "b", "2", "d", "e"}
	for i, want := range ids {
		if l.Results[i].ID != want {
			t.Errorf("result %d id = %q, want %q", i, l.Results[i].ID, want)
		}
	}
	if l.Results[0].Title != "First" {
		t.Errorf("title = %q", l.Results[0].Title)
	}
	if !l.Results[3].Break || l.Results[1].Break {
		t.Error("break flags not derived from adjacency")
	}
	if !l.Results[4].NoImage {
		t.Error("result without thumbnail should be NoImage")
	}
	if l.Results[2].Src != "c.png" || l.Results[2].Width != 50 {
		t.Errorf("result 2 = %+v", l.Results[2])
	}
}

func TestExport(t *testing.T) {
	d := parse(t)
	cfg := layout.DefaultConfig()
	c, err := layout.New(d, cfg)
	if err != nil {
		t.Fatal(err)
	}
	out := d.Export(c.Align(), cfg)
	p := out.Placements()
	if len(p) != 4 {
		t.Fatalf("got %d placements, want 4", len(p))
	}
	if p[0].ID != "a" || p[0].Src != "a.png" || p[3].ID != "d" {
		t.Errorf("placements = %+v", p)
	}
}

func TestPx(t *testing.T) {
	tests := map[float64]string{
		6:            "6px",
		190.66666666: "190.666px",
		-0.5:         "-0.5px",
		100.0004:     "100px",
	}
	for in, want := range tests {
		if got := px(in); got != want {
			t.Errorf("px(%v) = %q, want %q", in, got, want)
		}
	}
}
