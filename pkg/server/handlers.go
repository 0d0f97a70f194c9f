package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"mercator-hq/notesexport/pkg/exports"
)

// ExportStore is the storage the export routes serve from.
type ExportStore interface {
	Write(ctx context.Context, bundle *exports.Bundle) (string, error)
	ListNames(ctx context.Context) ([]string, error)
	Latest(ctx context.Context, nodeName string) (json.RawMessage, error)
}

// WriteResponse is the body of a successful upload.
type WriteResponse struct {
	OK   bool   `json:"ok"`
	File string `json:"file"`
}

// NamesResponse lists the node names with at least one export.
type NamesResponse struct {
	Names []string `json:"names"`
}

// handleWriteExport stores the uploaded bundle.
//
//	POST {base}/notes/export
func (s *Server) handleWriteExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Server.MaxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	bundle, err := exports.ParseBundle(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filename, err := s.store.Write(r.Context(), bundle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, WriteResponse{OK: true, File: filename})
}

// handleNodeNames lists node names, or returns the latest bundle of one
// node when ?name= is given.
//
//	GET {base}/notes/export/node-names[?name=<nodeName>]
func (s *Server) handleNodeNames(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("name") {
		s.serveLatest(w, r, query.Get("name"))
		return
	}

	names, err := s.store.ListNames(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, NamesResponse{Names: names})
}

// serveLatest writes the stored document verbatim.
func (s *Server) serveLatest(w http.ResponseWriter, r *http.Request, nodeName string) {
	doc, err := s.store.Latest(r.Context(), nodeName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		s.logger.DebugContext(r.Context(), "failed to write export", "error", err)
	}
}
