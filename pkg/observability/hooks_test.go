package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingCache struct {
	NoopCacheHooks
	hits int
}

func (c *countingCache) OnCacheHit(context.Context, string) { c.hits++ }

func TestRegistryDefaults(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Errorf("Layout() = %T", Layout())
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := Asset().(NoopAssetHooks); !ok {
		t.Errorf("Asset() = %T", Asset())
	}
}

func TestSetAndReset(t *testing.T) {
	t.Cleanup(Reset)

	c := &countingCache{}
	SetCacheHooks(c)
	SetCacheHooks(nil)
	Cache().OnCacheHit(context.Background(), "layout")
	if c.hits != 1 {
		t.Errorf("hits = %d, want 1", c.hits)
	}

	Reset()
	Cache().OnCacheHit(context.Background(), "layout")
	if c.hits != 1 {
		t.Error("Reset should detach custom hooks")
	}
}

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)

	if n := Register(&countingCache{}); n != 1 {
		t.Errorf("Register(cache hooks) matched %d interfaces, want 1", n)
	}
	if n := Register(struct{}{}); n != 0 {
		t.Errorf("Register(struct{}) matched %d interfaces", n)
	}

	h := NewLogHooks(log.New(&bytes.Buffer{}))
	if n := Register(h); n != 4 {
		t.Errorf("Register(LogHooks) matched %d interfaces, want 4", n)
	}
	if Layout() != LayoutHooks(h) || Asset() != AssetHooks(h) {
		t.Error("LogHooks not installed")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	h := NewLogHooks(logger)

	h.OnPassScheduled("load", 10*time.Millisecond)
	h.OnTriggerCoalesced("error")
	h.OnPassComplete(PassStats{ContainerWidth: 600, Groups: 1, Rows: 2, Items: 3}, time.Millisecond)
	h.OnLayoutComplete(ctx, time.Millisecond, errors.New("bad listing"))
	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	h.OnCacheSet(ctx, "asset", 24)
	h.OnMeasured(ctx, "a.png", 200, 100, time.Millisecond)
	h.OnError(ctx, "b.png", errors.New("not found"))

	out := buf.String()
	for _, want := range []string{
		"hooks", "pass scheduled", "trigger=load",
		"trigger coalesced", "rows=2",
		"layout failed", "bad listing",
		"render complete", "bytes=24",
		"src=a.png", "probe failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.New(&buf))
	h.OnCacheHit(context.Background(), "layout")
	h.OnPassScheduled("load", 0)
	if buf.Len() != 0 {
		t.Errorf("debug events logged at info level:\n%s", buf.String())
	}
}
