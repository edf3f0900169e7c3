package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pathforge/pathforge/pkg/pathway"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadItems(t *testing.T) {
	path := writeTemp(t, "items.json", `[
		"Greet the caller",
		{"id": "custom", "content": "{\"prompt\": \"Ask a question\"}"},
		{"prompt": "Inline payload", "type": "voice_prompt"}
	]`)

	items, err := readItems(path)
	if err != nil {
		t.Fatalf("readItems() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	if items[0].ID != "1" || items[0].Content != "Greet the caller" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].ID != "custom" {
		t.Errorf("item 1 ID = %q, want custom", items[1].ID)
	}
	// Objects without a content field pass through as raw payload JSON.
	if items[2].Content == "" || items[2].Content[0] != '{' {
		t.Errorf("item 2 content = %q, want raw JSON", items[2].Content)
	}
}

func TestReadItemsRejectsNonArray(t *testing.T) {
	path := writeTemp(t, "items.json", `{"not": "an array"}`)
	if _, err := readItems(path); err == nil {
		t.Error("readItems() should fail on non-array input")
	}
}

func TestReadItemsMissingFile(t *testing.T) {
	if _, err := readItems(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("readItems() should fail on missing file")
	}
}

func TestFirstPositive(t *testing.T) {
	if got := firstPositive(0, 0, 5); got != 5 {
		t.Errorf("firstPositive(0,0,5) = %d", got)
	}
	if got := firstPositive(3, 5); got != 3 {
		t.Errorf("firstPositive(3,5) = %d", got)
	}
	if got := firstPositive(); got != 0 {
		t.Errorf("firstPositive() = %d", got)
	}
}

func TestRunBuildEndToEnd(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	items := writeTemp(t, "items.json", `[
		"Greet the caller and introduce the product",
		"Ask about their current setup",
		"Schedule a follow-up call"
	]`)
	output := filepath.Join(t.TempDir(), "pathway.json")

	c := New(io.Discard, LogInfo)
	err := c.runBuild(context.Background(), items, buildOpts{
		output:  output,
		name:    "Test Pathway",
		noCache: true,
	})
	if err != nil {
		t.Fatalf("runBuild() error = %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()

	p, err := pathway.Read(f)
	if err != nil {
		t.Fatalf("output is not a pathway document: %v", err)
	}
	if p.NodeCount() != 6 {
		t.Errorf("NodeCount = %d, want 6", p.NodeCount())
	}
	if p.StartNode() == nil {
		t.Error("built pathway has no start node")
	}
}
