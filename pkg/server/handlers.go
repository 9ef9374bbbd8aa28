package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/imagerows/pkg/buildinfo"
	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/pipeline"
	"github.com/matzehuels/imagerows/pkg/render"
)

// HeaderCache reports whether the response came from the cache ("hit" or
// "miss").
const HeaderCache = "X-Cache"

// pipelineRequest is the body of the layout and render endpoints. Render
// accepts a precomputed layout in place of a listing.
type pipelineRequest struct {
	Listing *gallery.Listing `json:"listing,omitempty"`
	Layout  *gallery.Layout  `json:"layout,omitempty"`
	Options pipeline.Options `json:"options"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req pipelineRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Listing == nil {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "listing is required"))
		return
	}
	opts := s.options(req.Options)
	out, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), req.Listing, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	var req pipelineRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	opts := s.options(req.Options)
	opts.Formats = []string{format}

	var out gallery.Layout
	switch {
	case req.Layout != nil:
		out = *req.Layout
	case req.Listing != nil:
		var err error
		if out, err = s.runner.ComputeLayout(r.Context(), req.Listing, opts); err != nil {
			s.fail(w, r, err)
			return
		}
	default:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "listing or layout is required"))
		return
	}
	s.writeArtifact(w, r, out, opts)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": summaries})
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handlePutListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var l gallery.Listing
	if err := s.decode(w, r, &l); err != nil {
		s.fail(w, r, err)
		return
	}
	switch l.ID {
	case "":
		l.ID = id
	case id:
	default:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "body id %q does not match path id %q", l.ID, id))
		return
	}
	if err := s.store.Put(r.Context(), &l); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": l.ID, "results": len(l.Results)})
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListingLayout lays out a stored listing. The width query parameter
// overrides the stored container width; format selects an artifact other
// than the layout JSON.
func (s *Server) handleListingLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts pipeline.Options
	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err == nil {
			err = errors.ValidateDimension("width", width)
		}
		if err != nil {
			s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "width must be a positive number, got %q", v))
			return
		}
		opts.ContainerWidth = width
	}
	format := q.Get("format")
	if format == "" {
		format = render.FormatJSON
	}
	if err := render.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts = s.options(opts)
	opts.Formats = []string{format}
	opts.Labels = q.Get("labels") == "true"

	l, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), l, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if format == render.FormatJSON {
		setCacheHeader(w, hit)
		writeJSON(w, http.StatusOK, out)
		return
	}
	s.writeArtifact(w, r, out, opts)
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, out gallery.Layout, opts pipeline.Options) {
	format := opts.Formats[0]
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), out, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// options applies the server's base layout configuration and logger.
func (s *Server) options(opts pipeline.Options) pipeline.Options {
	base := s.base
	opts.Base = &base
	opts.Logger = s.logger
	return opts
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.CodeOf(err).Status() >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err,
			"request_id", RequestIDFromContext(r.Context()))
	}
	writeError(w, r, err)
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
}
