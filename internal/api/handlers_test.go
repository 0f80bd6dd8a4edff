package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mdtree/mdtree/internal/config"
	"github.com/mdtree/mdtree/internal/mdast"
)

func testServer(apiKey string) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{Port: "0", APIKey: apiKey, MaxBodyBytes: 1 << 20}
	return NewServer(mdast.New(), log, cfg)
}

func postJSON(t *testing.T, s *Server, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := testServer("")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestConvert(t *testing.T) {
	s := testServer("")
	w := postJSON(t, s, "/api/convert", `{"source":"# Hello"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		AST struct {
			Type     string `json:"type"`
			Kind     string `json:"kind"`
			Children []struct {
				Type  string `json:"type"`
				Level int    `json:"level"`
			} `json:"children"`
		} `json:"ast"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AST.Type != "Generic" || resp.AST.Kind != "Document" {
		t.Errorf("expected a generic document root, got %s/%s", resp.AST.Type, resp.AST.Kind)
	}
	if len(resp.AST.Children) != 1 || resp.AST.Children[0].Type != "Heading" {
		t.Fatalf("expected a single heading child, got %+v", resp.AST.Children)
	}
	if resp.AST.Children[0].Level != 1 {
		t.Errorf("expected level 1, got %d", resp.AST.Children[0].Level)
	}
}

func TestConvert_SuppliedTree(t *testing.T) {
	s := testServer("")
	body := `{
		"source": "# Hi",
		"tree": {
			"kind": "Document", "from": 0, "to": 4,
			"children": [
				{"kind": "ATXHeading1", "from": 0, "to": 4,
				 "children": [{"kind": "HeaderMark", "from": 0, "to": 1}]}
			]
		}
	}`
	w := postJSON(t, s, "/api/convert", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"value":"Hi"`) {
		t.Errorf("expected the heading value in the response, got %s", w.Body.String())
	}
}

func TestConvert_InvalidTree(t *testing.T) {
	s := testServer("")
	body := `{"source":"ab","tree":{"kind":"Document","from":0,"to":99}}`
	w := postJSON(t, s, "/api/convert", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestConvert_MissingSource(t *testing.T) {
	s := testServer("")
	w := postJSON(t, s, "/api/convert", `{}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "source is required") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestConvert_ContractViolation(t *testing.T) {
	s := testServer("")
	// A zettelkasten link without its content child is the one hard
	// failure.
	body := `{"source":"[[x]]","tree":{"kind":"ZknLink","from":0,"to":5}}`
	w := postJSON(t, s, "/api/convert", body, "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuth(t *testing.T) {
	s := testServer("secret")

	w := postJSON(t, s, "/api/convert", `{"source":"x"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}

	w = postJSON(t, s, "/api/convert", `{"source":"x"}`, "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", w.Code)
	}

	w = postJSON(t, s, "/api/convert", `{"source":"x"}`, "secret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with the right token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestText(t *testing.T) {
	s := testServer("")
	w := postJSON(t, s, "/api/text", `{"source":"# Title\n\nBody text.\n"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Text      string `json:"text"`
		Fragments []struct {
			Value string `json:"value"`
			From  int    `json:"from"`
			To    int    `json:"to"`
		} `json:"fragments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Title Body text." {
		t.Errorf("expected %q, got %q", "Title Body text.", resp.Text)
	}
	if len(resp.Fragments) != 2 {
		t.Errorf("expected 2 fragments, got %+v", resp.Fragments)
	}
}

func TestHTML(t *testing.T) {
	s := testServer("")
	w := postJSON(t, s, "/api/html", `{"source":"*hi*\n"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.HTML, "<em>hi</em>") {
		t.Errorf("expected emphasis markup, got %q", resp.HTML)
	}
}

func TestFrontmatter(t *testing.T) {
	s := testServer("")
	body := `{"source":"---\ntitle: Test\n---\n\nBody\n"}`
	w := postJSON(t, s, "/api/frontmatter", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Present     bool           `json:"present"`
		Frontmatter map[string]any `json:"frontmatter"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Present {
		t.Fatal("expected frontmatter to be present")
	}
	if resp.Frontmatter["title"] != "Test" {
		t.Errorf("expected title %q, got %v", "Test", resp.Frontmatter["title"])
	}
}
