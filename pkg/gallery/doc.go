// Package gallery defines the serialization formats for thumbnail listings
// and their computed justified layouts.
//
// A [Listing] is the ordered sequence of search results as they appear on a
// results page. Each [Result] carries the intrinsic size of its thumbnail
// when it is known, and a Break flag when something other than a result sits
// between it and the previous result (a section header, an ad block). Breaks
// are what split a listing into independently justified groups.
//
// A [Layout] is the output of one layout pass: groups of rows of placed
// thumbnails, with the per-item style that was applied and absolute
// coordinates suitable for the render sinks.
//
// Both types round-trip through JSON and carry bson tags so listings can be
// stored in MongoDB unchanged.
package gallery
