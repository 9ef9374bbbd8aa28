package render

import "github.com/matzehuels/imagerows/pkg/gallery"

// RenderJSON serializes the layout.
func RenderJSON(l gallery.Layout) ([]byte, error) {
	return gallery.MarshalLayout(l)
}
