package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
)

func sampleListing(id string, n int) *gallery.Listing {
	l := &gallery.Listing{ID: id, ContainerWidth: 800}
	for i := range n {
		l.Results = append(l.Results, gallery.Result{
			ID:     string(rune('a' + i)),
			Src:    "img.png",
			Width:  float64(100 + i),
			Height: 100,
		})
	}
	return l
}

// testStore exercises the Store contract.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeListingNotFound) {
		t.Fatalf("Get(missing) = %v, want LISTING_NOT_FOUND", err)
	}

	if err := s.Put(ctx, sampleListing("first", 3)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "first")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "first" || len(got.Results) != 3 || got.Results[2].Width != 102 || got.ContainerWidth != 800 {
		t.Errorf("Get returned %+v", got)
	}

	// Put replaces.
	if err := s.Put(ctx, sampleListing("first", 1)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _ = s.Get(ctx, "first")
	if len(got.Results) != 1 {
		t.Errorf("replaced listing has %d results, want 1", len(got.Results))
	}

	time.Sleep(10 * time.Millisecond)
	if err := s.Put(ctx, sampleListing("second", 2)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d summaries, want 2", len(list))
	}
	if list[0].ID != "second" || list[0].Results != 2 || list[1].ID != "first" {
		t.Errorf("List = %+v", list)
	}

	if err := s.Delete(ctx, "first"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "first"); !errors.Is(err, errors.ErrCodeListingNotFound) {
		t.Errorf("Get after Delete = %v", err)
	}
	if err := s.Delete(ctx, "first"); err != nil {
		t.Errorf("Delete of a missing listing: %v", err)
	}
}

func testStoreRejects(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	tests := []struct {
		name string
		l    *gallery.Listing
		code errors.Code
	}{
		{"nil", nil, errors.ErrCodeInvalidListing},
		{"empty id", sampleListing("", 1), errors.ErrCodeInvalidInput},
		{"traversal id", sampleListing("../x", 1), errors.ErrCodeInvalidInput},
		{"duplicate result ids", &gallery.Listing{ID: "dup", Results: []gallery.Result{{ID: "a"}, {ID: "a"}}}, errors.ErrCodeInvalidListing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Put(ctx, tt.l); !errors.Is(err, tt.code) {
				t.Errorf("Put = %v, want %s", err, tt.code)
			}
		})
	}
	if _, err := s.Get(ctx, "a/b"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get(a/b) = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreRejects(t *testing.T) {
	testStoreRejects(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	l := sampleListing("x", 2)
	if err := s.Put(ctx, l); err != nil {
		t.Fatal(err)
	}
	l.Results[0].Width = 1

	got, _ := s.Get(ctx, "x")
	if got.Results[0].Width == 1 {
		t.Error("Put should store a copy")
	}
	got.Results[1].Width = 1
	again, _ := s.Get(ctx, "x")
	if again.Results[1].Width == 1 {
		t.Error("Get should return a copy")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "listings"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	testStore(t, s)
}

func TestFileStoreRejects(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStoreRejects(t, s)
}

func TestFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewFileStore(\"\") = %v", err)
	}
}
