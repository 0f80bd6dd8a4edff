package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mdtree/mdtree/internal/mdast"
	"github.com/mdtree/mdtree/internal/syntaxtree"
	"github.com/mdtree/mdtree/internal/walker"
)

// convertRequest is the shared request body. When Tree is present it is a
// pre-parsed syntax tree from the caller's own (typically incremental)
// parser; otherwise Source is parsed with the bundled builder.
type convertRequest struct {
	Source string           `json:"source"`
	Tree   *syntaxtree.Node `json:"tree,omitempty"`
}

// decodeConvert reads and validates the request. It replies itself and
// returns false on failure.
func (s *Server) decodeConvert(w http.ResponseWriter, r *http.Request) (convertRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var req convertRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.Source == "" {
		jsonError(w, "source is required", http.StatusBadRequest)
		return req, false
	}
	if req.Tree != nil {
		if err := req.Tree.Validate(len(req.Source)); err != nil {
			jsonError(w, "invalid syntax tree: "+err.Error(), http.StatusBadRequest)
			return req, false
		}
	}
	return req, true
}

// convert runs the tree-to-AST conversion for a request. It replies itself
// and returns nil on failure.
func (s *Server) convert(w http.ResponseWriter, req convertRequest) mdast.Node {
	tree := req.Tree
	if tree == nil {
		tree = s.builder.Build([]byte(req.Source))
	}
	ast, err := s.converter.Convert(tree, req.Source)
	if err != nil {
		// A contract violation means the supplied tree breaks the
		// grammar's guarantees; there is no partial result to return.
		status := http.StatusInternalServerError
		if errors.Is(err, mdast.ErrMissingContent) {
			status = http.StatusUnprocessableEntity
		}
		jsonError(w, "conversion failed: "+err.Error(), status)
		return nil
	}
	return ast
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeConvert(w, r)
	if !ok {
		return
	}
	ast := s.convert(w, req)
	if ast == nil {
		return
	}
	writeJSON(w, map[string]any{"ast": ast})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeConvert(w, r)
	if !ok {
		return
	}
	ast := s.convert(w, req)
	if ast == nil {
		return
	}
	writeJSON(w, map[string]any{
		"text":      walker.Text(ast),
		"fragments": walker.TextFragments(ast),
	})
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeConvert(w, r)
	if !ok {
		return
	}
	ast := s.convert(w, req)
	if ast == nil {
		return
	}
	writeJSON(w, map[string]any{"html": walker.HTML(ast)})
}

func (s *Server) handleFrontmatter(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeConvert(w, r)
	if !ok {
		return
	}
	ast := s.convert(w, req)
	if ast == nil {
		return
	}
	meta, present, err := walker.Frontmatter(ast)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]any{"present": present, "frontmatter": meta})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
