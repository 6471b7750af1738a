package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/legistyr/termbench/internal/history"
)

func setupServer(t *testing.T) (*Server, *history.Store, string) {
	t.Helper()
	database, err := history.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := history.NewStore(database)

	dir := t.TempDir()
	cfg := Config{
		Port:      0,
		CSVDir:    filepath.Join(dir, "output_csv"),
		TXTDir:    filepath.Join(dir, "output_txt"),
		ReportDir: filepath.Join(dir, "reports"),
	}
	return New(cfg, store), store, dir
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := setupServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestRunRoutesMounted(t *testing.T) {
	srv, store, _ := setupServer(t)

	if _, err := store.Record(context.Background(), history.Run{ID: "s1", Source: "homonyms", Model: "openai/gpt-4o-mini"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/runs", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var runs []history.Run
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "s1" {
		t.Errorf("expected run s1, got %v", runs)
	}
}

func TestArtifactsServedFromDisk(t *testing.T) {
	srv, _, dir := setupServer(t)

	csvDir := filepath.Join(dir, "output_csv")
	if err := os.MkdirAll(csvDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "index,assistant,reasoning,cost,reasoning_tokens\n0,<Satz>,,,\n"
	if err := os.WriteFile(filepath.Join(csvDir, "openai_gpt-4o-mini.csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/artifacts/csv/openai_gpt-4o-mini.csv", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != content {
		t.Errorf("expected raw artifact body, got %q", w.Body.String())
	}
}

func TestCORSHeaders(t *testing.T) {
	database, err := history.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	srv := New(Config{Port: 0, AllowAll: true}, history.NewStore(database))

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}
