package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); hit || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if n, err := c.(Clearer).Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

func TestHash(t *testing.T) {
	a, b := Hash([]byte("a.png")), Hash([]byte("b.png"))
	if a != Hash([]byte("a.png")) {
		t.Error("Hash is not deterministic")
	}
	if a == b {
		t.Error("distinct inputs hashed alike")
	}
	if len(a) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(a))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := LayoutKeyOpts{ContainerWidth: 800, VerticalMargin: 4, HorizontalMargin: 4, MaxHeight: 200}

	tests := []struct {
		name   string
		a, b   string
		differ bool
	}{
		{"same source", k.AssetKey("a.png"), k.AssetKey("a.png"), false},
		{"different source", k.AssetKey("a.png"), k.AssetKey("b.png"), true},
		{"same layout opts", k.LayoutKey("h", base), k.LayoutKey("h", base), false},
		{"width changes key", k.LayoutKey("h", base), k.LayoutKey("h", LayoutKeyOpts{ContainerWidth: 1024, VerticalMargin: 4, HorizontalMargin: 4, MaxHeight: 200}), true},
		{"margin changes key", k.LayoutKey("h", base), k.LayoutKey("h", LayoutKeyOpts{ContainerWidth: 800, VerticalMargin: 8, HorizontalMargin: 4, MaxHeight: 200}), true},
		{"listing changes key", k.LayoutKey("h1", base), k.LayoutKey("h2", base), true},
		{"format changes key", k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}), k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"}), true},
		{"labels change key", k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}), k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Labels: true}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.a != tt.b) != tt.differ {
				t.Errorf("keys %s and %s: differ = %v, want %v", tt.a, tt.b, tt.a != tt.b, tt.differ)
			}
		})
	}

	if ak := k.AssetKey("data:image/png;base64,AAAA"); !strings.HasPrefix(ak, "asset:") || len(ak) != len("asset:")+64 {
		t.Errorf("AssetKey = %s", ak)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "imagerows:")

	if got, want := scoped.AssetKey("a.png"), "imagerows:"+inner.AssetKey("a.png"); got != want {
		t.Errorf("AssetKey = %s, want %s", got, want)
	}
	if got := scoped.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(got, "imagerows:layout:") {
		t.Errorf("LayoutKey = %s", got)
	}

	// A nil inner keyer falls back to the default.
	opts := ArtifactKeyOpts{Format: "svg"}
	if got, want := NewScopedKeyer(nil, "p:").ArtifactKey("h", opts), "p:"+inner.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey = %s, want %s", got, want)
	}
}
