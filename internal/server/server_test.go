package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pathforge/pathforge/pkg/naming"
	"github.com/pathforge/pathforge/pkg/pathway"
	"github.com/pathforge/pathforge/pkg/pipeline"
	"github.com/pathforge/pathforge/pkg/store"
)

func testNamer() naming.Namer {
	return naming.Func(func(_ context.Context, prompt string) (string, error) {
		word, _, _ := strings.Cut(strings.TrimSpace(prompt), " ")
		return "Step " + word, nil
	})
}

func newTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	srv, err := New(Options{
		Runner: pipeline.NewRunner(nil, nil, nil),
		Store:  st,
		Pipeline: pipeline.Options{
			Namer: testNamer(),
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func buildItems() []pipeline.ContentItem {
	return []pipeline.ContentItem{
		{ID: "1", Content: "Greet the caller and introduce the product"},
		{ID: "2", Content: `{"prompt": "Ask about their current setup", "type": "voice_prompt"}`},
		{ID: "3", Content: `{"prompt": "Schedule a follow-up call", "type": "voice_prompt"}`},
	}
}

func TestBuildEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/v1/pathways/build", buildRequest{
		Name:  "Sales Outreach",
		Items: buildItems(),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decode[buildResponse](t, resp)
	if body.Name != "Sales Outreach" {
		t.Errorf("Name = %q", body.Name)
	}
	if body.ContentHash == "" {
		t.Error("ContentHash is empty")
	}
	if body.NodeCount != 6 {
		t.Errorf("NodeCount = %d, want 6", body.NodeCount)
	}
	if body.Pathway == nil || body.Pathway.StartNode() == nil {
		t.Fatal("response pathway has no start node")
	}
	if !body.Valid {
		t.Errorf("pathway not valid: %v", body.Findings)
	}
}

func TestBuildEndpointEmptyItems(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/v1/pathways/build", buildRequest{Items: nil})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Code != "NO_CONTENT" {
		t.Errorf("Code = %q, want NO_CONTENT", body.Code)
	}
}

func TestBuildEndpointBadJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/pathways/build", "application/json",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBuildEndpointPersists(t *testing.T) {
	st := store.NewMemoryStore()
	ts := newTestServer(t, st)

	resp := postJSON(t, ts.URL+"/v1/pathways/build", buildRequest{Items: buildItems()})
	body := decode[buildResponse](t, resp)

	rec, err := st.Get(context.Background(), body.ContentHash)
	if err != nil {
		t.Fatalf("stored record missing: %v", err)
	}
	if rec.Pathway.NodeCount() != body.NodeCount {
		t.Errorf("stored NodeCount = %d, want %d", rec.Pathway.NodeCount(), body.NodeCount)
	}
}

func TestValidateEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	// A pathway with no start and no end node.
	p := pathway.New()
	p.Nodes["a"] = &pathway.Node{
		ID:   "a",
		Type: pathway.NodeConversation,
		Data: pathway.NodeData{Name: "Lonely", Prompt: "Say something"},
	}
	doc, err := pathway.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	resp, err := http.Post(ts.URL+"/v1/pathways/validate", "application/json", bytes.NewReader(doc))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decode[validateResponse](t, resp)
	if body.Valid {
		t.Error("pathway with no start should not be valid")
	}
	categories := map[pathway.Category]bool{}
	for _, f := range body.Findings {
		categories[f.Category] = true
	}
	if !categories["missing_start"] || !categories["missing_end"] {
		t.Errorf("findings = %v, want missing_start and missing_end", categories)
	}
}

func TestValidateEndpointBadDocument(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/pathways/validate", "application/json",
		strings.NewReader("[]"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListAndGetEndpoints(t *testing.T) {
	st := store.NewMemoryStore()
	ts := newTestServer(t, st)

	built := decode[buildResponse](t, postJSON(t, ts.URL+"/v1/pathways/build", buildRequest{
		Name:  "Support Line",
		Items: buildItems(),
	}))

	resp, err := http.Get(ts.URL + "/v1/pathways")
	if err != nil {
		t.Fatalf("GET list: %v", err)
	}
	defer resp.Body.Close()
	list := decode[[]map[string]any](t, resp)
	if len(list) != 1 {
		t.Fatalf("list returned %d entries, want 1", len(list))
	}
	if list[0]["name"] != "Support Line" {
		t.Errorf("list name = %v", list[0]["name"])
	}

	resp2, err := http.Get(ts.URL + "/v1/pathways/" + built.ContentHash)
	if err != nil {
		t.Fatalf("GET record: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("get status = %d, want 200", resp2.StatusCode)
	}

	resp3, err := http.Get(ts.URL + "/v1/pathways/nope")
	if err != nil {
		t.Fatalf("GET missing: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", resp3.StatusCode)
	}
}

func TestListWithoutStore(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/pathways")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp2.StatusCode)
	}
}

func TestOptionsRequireRunner(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("New() without runner should fail")
	}
}
