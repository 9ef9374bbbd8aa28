// Package layout coordinates justified-row layout of a result listing.
//
// A [Coordinator] owns one listing container. Each pass it reads the results
// in document order, groups them into runs of structurally adjacent
// results, justifies every run with [justify.Justifier] at the container's
// content width, and writes the resulting size and margins onto each
// thumbnail.
//
// # Triggers
//
// [Coordinator.Watch] subscribes to window events (pageshow, load, resize)
// and to every thumbnail's load and error events. Triggers are debounced:
// the first trigger schedules one pass after [Config.Delay], and triggers
// arriving while that pass is outstanding are absorbed by it.
//
//	doc := dom.NewDocument(page)
//	c, err := layout.New(doc, layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	c.Align()
//	c.Watch()
//
// # Collaborators
//
// The coordinator talks to the page through the [Document], [Container],
// [Result] and [Image] interfaces. [StaticDocument] implements them over a
// [gallery.Listing] and backs [Compute]; package dom implements them over
// parsed HTML.
package layout
