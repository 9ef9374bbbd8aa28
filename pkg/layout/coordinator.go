package layout

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/imagerows/pkg/justify"
	"github.com/matzehuels/imagerows/pkg/observability"
)

// Coordinator lays out one listing container and keeps it laid out as the
// page changes.
//
// Passes never overlap: Align and scheduled passes share one lock. At most
// one scheduled pass is outstanding at any time.
type Coordinator struct {
	doc       Document
	cfg       Config
	justifier justify.Justifier
	scheduler Scheduler
	logger    *log.Logger

	passMu   sync.Mutex
	pending  atomic.Bool
	watching atomic.Bool
	last     atomic.Pointer[Pass]
	passes   atomic.Int64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithScheduler sets the scheduler used for debounced passes. The default is
// a TimerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a coordinator for doc. It does not touch the document until
// Align or Watch is called.
func New(doc Document, cfg Config, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Coordinator{
		doc: doc,
		cfg: cfg,
		justifier: justify.Justifier{
			Margin:    cfg.VerticalMargin,
			MaxHeight: cfg.MaxHeight,
		},
		scheduler: &TimerScheduler{},
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the coordinator's configuration.
func (c *Coordinator) Config() Config { return c.cfg }

// Align runs one full pass immediately and returns its record, or nil when
// the container is missing or has no positive content width.
func (c *Coordinator) Align() *Pass {
	return c.run(TriggerAlign)
}

// Watch subscribes the coordinator to the window's pageshow, load and resize
// events and to every thumbnail's load and error events. When a fallback
// image is configured, each thumbnail also gets a one-shot error handler
// that substitutes it.
//
// Watch installs its listeners once. Later calls return false and do
// nothing.
func (c *Coordinator) Watch() bool {
	if !c.watching.CompareAndSwap(false, true) {
		return false
	}

	for _, event := range []string{EventPageShow, EventLoad, EventResize} {
		c.doc.Subscribe(event, func() { c.Trigger(event) })
	}

	images := 0
	for _, r := range c.doc.Results(c.cfg.ResultsSelector) {
		img, ok := r.Image(c.cfg.ImageSelector)
		if !ok {
			continue
		}
		images++
		img.On(EventLoad, func() { c.Trigger(EventLoad) })
		img.On(EventError, func() { c.Trigger(EventError) })
		if c.cfg.FallbackImage != "" {
			img.Once(EventError, func() { img.SetSource(c.cfg.FallbackImage) })
		}
	}
	c.logger.Debug("watching listing", "images", images, "fallback", c.cfg.FallbackImage != "")
	return true
}

// Trigger requests a pass on behalf of event. If no pass is pending, one is
// scheduled after the configured delay; otherwise the request is absorbed
// by the pending pass.
func (c *Coordinator) Trigger(event string) {
	if !c.pending.CompareAndSwap(false, true) {
		observability.Layout().OnTriggerCoalesced(event)
		return
	}
	observability.Layout().OnPassScheduled(event, c.cfg.Delay)
	c.scheduler.AfterFunc(c.cfg.Delay, func() {
		defer c.pending.Store(false)
		c.run(event)
	})
}

// Pending reports whether a scheduled pass has not completed yet.
func (c *Coordinator) Pending() bool { return c.pending.Load() }

// LastPass returns the most recent completed pass, or nil.
func (c *Coordinator) LastPass() *Pass { return c.last.Load() }

// Passes returns the number of passes completed so far.
func (c *Coordinator) Passes() int64 { return c.passes.Load() }

func (c *Coordinator) run(trigger string) *Pass {
	c.passMu.Lock()
	defer c.passMu.Unlock()

	start := time.Now()
	container, ok := c.doc.Container(c.cfg.ContainerSelector)
	if !ok {
		c.logger.Warn("container not found, skipping pass", "selector", c.cfg.ContainerSelector, "trigger", trigger)
		return nil
	}

	results := c.doc.Results(c.cfg.ResultsSelector)
	groups, skipped := Partition(results, c.cfg.ImageSelector)
	width := container.ContentWidth()
	if !(width > 0) {
		c.logger.Warn("container has no usable width, skipping pass",
			"selector", c.cfg.ContainerSelector, "width", width, "trigger", trigger)
		return nil
	}
	margins := c.cfg.Margins()

	pass := &Pass{
		ID:             uuid.NewString(),
		Trigger:        trigger,
		ContainerWidth: width,
		Groups:         make([]PassGroup, 0, len(groups)),
		Skipped:        skipped,
	}
	for _, g := range groups {
		rows := c.justifier.Justify(g.Items(), width)
		for _, row := range rows {
			for k, w := range row.Widths {
				e := g.Entries[row.Start+k]
				e.Image.SetStyle(Style{Width: w, Height: row.Height, Margin: margins})
				e.Result.MarkLaidOut()
			}
		}
		pass.Groups = append(pass.Groups, PassGroup{Entries: g.Entries, Rows: rows})
	}
	pass.Duration = time.Since(start)

	c.last.Store(pass)
	c.passes.Add(1)

	stats := pass.Stats()
	observability.Layout().OnPassComplete(stats, pass.Duration)
	c.logger.Debug("layout pass",
		"trigger", trigger,
		"width", width,
		"groups", stats.Groups,
		"rows", stats.Rows,
		"items", stats.Items,
		"unmeasured", stats.Unmeasured,
		"duration", pass.Duration)
	return pass
}
