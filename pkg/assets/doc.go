// Package assets measures thumbnails.
//
// Browsers learn a thumbnail's intrinsic size when its asset loads and then
// fire load (or error). [Loader] plays that role for documents built
// outside a browser: it resolves each thumbnail's source, reads just enough
// of the image to learn its dimensions, and reports back through the
// thumbnail's Load or Fail method, which in turn triggers a layout pass.
//
// Sources may be data URIs, http(s) URLs, or paths resolved under the
// loader's root directory. PNG, JPEG, GIF, WebP, BMP and TIFF are
// understood.
package assets
