package gallery

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadListing(t *testing.T) {
	input := `{
	  "container_width": 1024,
	  "results": [
	    {"id": "a", "src": "a.jpg", "width": 640, "height": 480},
	    {"id": "b", "src": "b.jpg"},
	    {"id": "c", "src": "c.jpg", "break": true}
	  ]
	}`

	l, err := ReadListing(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadListing: %v", err)
	}
	if l.ContainerWidth != 1024 {
		t.Errorf("ContainerWidth = %v, want 1024", l.ContainerWidth)
	}
	if len(l.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(l.Results))
	}
	if !l.Results[0].Measured() || l.Results[1].Measured() {
		t.Error("measured flags wrong")
	}
	if !l.Results[2].Break {
		t.Error("result c should carry a break")
	}
	if got := l.Measured(); got != 1 {
		t.Errorf("Measured() = %d, want 1", got)
	}
}

func TestReadListingInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "malformed", input: `{"results": [`},
		{name: "missing id", input: `{"results": [{"src": "a.jpg"}]}`},
		{name: "duplicate id", input: `{"results": [{"id": "a"}, {"id": "a"}]}`},
		{name: "negative size", input: `{"results": [{"id": "a", "width": -1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadListing(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestListingHash(t *testing.T) {
	base := Listing{Results: []Result{{ID: "a", Src: "a.jpg", Width: 10, Height: 20}}}

	renamed := base.Clone()
	renamed.ID = "other"
	renamed.Results[0].Title = "A title"
	if base.Hash() != renamed.Hash() {
		t.Error("IDs and titles should not change the hash")
	}

	measured := base.Clone()
	measured.Results[0].Width = 11
	if base.Hash() == measured.Hash() {
		t.Error("size change should change the hash")
	}

	split := base.Clone()
	split.Results[0].Break = true
	if base.Hash() == split.Hash() {
		t.Error("break flag should change the hash")
	}

	if len(base.Hash()) != 64 {
		t.Errorf("hash length = %d, want 64", len(base.Hash()))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := &Listing{Results: []Result{{ID: "a"}}}
	c := l.Clone()
	c.Results[0].ID = "b"
	if l.Results[0].ID != "a" {
		t.Error("Clone shares the results slice")
	}
}

func TestWriteListingRoundTrip(t *testing.T) {
	l := &Listing{ID: "q", ContainerWidth: 800, Results: []Result{{ID: "a", Src: "a.png", Width: 3, Height: 2}}}

	var buf bytes.Buffer
	if err := WriteListing(l, &buf); err != nil {
		t.Fatalf("WriteListing: %v", err)
	}
	got, err := ReadListing(&buf)
	if err != nil {
		t.Fatalf("ReadListing: %v", err)
	}
	if got.Hash() != l.Hash() || got.ID != "q" {
		t.Error("listing changed after round trip")
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := Layout{
		ContainerWidth: 600,
		Groups: []Group{{Rows: []Row{
			{Height: 100, Items: []Placement{{ID: "a", Width: 200, Height: 100}, {ID: "b", Width: 100, Height: 100}}},
			{Y: 114, Height: 200, Fallback: true, Items: []Placement{{ID: "c", Width: 100, Height: 200}}},
		}}},
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if got.RowCount() != 2 || got.ItemCount() != 3 {
		t.Errorf("counts = %d rows %d items, want 2 and 3", got.RowCount(), got.ItemCount())
	}
	if ids := got.Placements(); ids[2].ID != "c" {
		t.Errorf("placements out of order: %+v", ids)
	}
}
