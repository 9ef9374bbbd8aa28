// Package dom adapts a parsed HTML page to the layout package's document
// contracts.
//
// Elements are located with CSS selectors through goquery. Geometry written
// by a layout pass lands in each thumbnail's inline style attribute, and the
// page can be serialized back with [Document.Render]:
//
//	page, err := dom.Parse(r)
//	if err != nil {
//	    return err
//	}
//	c, err := layout.New(page, cfg)
//	if err != nil {
//	    return err
//	}
//	c.Watch()
//	assets.NewLoader(root).LoadAll(ctx, page.Thumbnails(cfg))
//
// HTML carries no intrinsic image sizes, so thumbnails stay unmeasured (and
// are laid out as squares) until [Image.Load] reports one, or a
// data-natural-width and data-natural-height pair is present on the
// element.
package dom
