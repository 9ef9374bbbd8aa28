// Package store persists listings.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process storage for tests and one-shot servers
//   - [FileStore]: JSON files in a directory, used by the CLI
//   - [MongoStore]: a MongoDB collection shared by server replicas
//
// Listings are keyed by their ID, which must pass
// errors.ValidateListingID. A missing listing is reported with the
// LISTING_NOT_FOUND code.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
)

// Store is the interface for listing storage backends.
type Store interface {
	// Get retrieves a listing by ID.
	Get(ctx context.Context, id string) (*gallery.Listing, error)

	// Put creates or replaces a listing.
	Put(ctx context.Context, l *gallery.Listing) error

	// Delete removes a listing. Deleting a missing listing is not an error.
	Delete(ctx context.Context, id string) error

	// List returns a summary of every listing, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	Close() error
}

// Summary describes a stored listing.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Results   int       `json:"results" bson:"count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeListingNotFound, "listing %q not found", id)
}

func validateForPut(l *gallery.Listing) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidListing, "listing is nil")
	}
	if err := errors.ValidateListingID(l.ID); err != nil {
		return err
	}
	if err := l.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidListing, err, "listing %q", l.ID)
	}
	return nil
}
