package runner

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrepareInventoryFileWinsOverURL(t *testing.T) {
	cfg := testConfig(t)

	src := filepath.Join(t.TempDir(), "hosts")
	if err := os.WriteFile(src, []byte("tower.example.com\n"), 0644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("URL source must not be consulted when a file source is set.")
	}))
	defer server.Close()

	cfg.InventoryFile = src
	cfg.InventoryURL = server.URL
	cfg.DynamicScriptURL = server.URL

	r := newTestRunner(t, cfg, nil)
	path, err := r.prepareInventory()
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "tower.example.com\n" {
		t.Fatalf("Inventory holds %q, expected the file source's content.", content)
	}
}

func TestPrepareInventoryFromURL(t *testing.T) {
	body := "web1.example.com\nweb2.example.com\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.InventoryURL = server.URL

	r := newTestRunner(t, cfg, nil)
	path, err := r.prepareInventory()
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != body {
		t.Fatalf("Inventory holds %q, expected the response body.", content)
	}
}

func TestPrepareInventoryFromURLRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.InventoryURL = server.URL

	r := newTestRunner(t, cfg, nil)
	if _, err := r.prepareInventory(); err == nil {
		t.Fatal("Expected an error for a non-200 response.")
	}
}

func TestPrepareInventoryDynamicScriptIsExecutable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#!/bin/sh\necho '{}'\n"))
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.DynamicScriptURL = server.URL

	r := newTestRunner(t, cfg, nil)
	path, err := r.prepareInventory()
	if err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0111 == 0 {
		t.Fatalf("Expected the dynamic script to be executable, mode is %v.", info.Mode())
	}
}

func TestPrepareInventoryWithoutSource(t *testing.T) {
	r := newTestRunner(t, testConfig(t), nil)
	path, err := r.prepareInventory()
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Fatalf("Expected no inventory path, got %q.", path)
	}
}

func TestPrepareInventoryResolvesRelativePathAgainstWorkDir(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.WorkDir, "inventory"), []byte("localhost\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.InventoryFile = "inventory"

	r := newTestRunner(t, cfg, nil)
	path, err := r.prepareInventory()
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "localhost\n" {
		t.Fatalf("Inventory holds %q.", content)
	}
}

func TestPrepareInventoryStripsLocalConnectionMarker(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "hosts")
	body := "localhost ansible_connection=local\nweb1 ansible_connection=local ansible_user=app\n"
	if err := os.WriteFile(src, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.InventoryFile = src
	cfg.AllowLocalConnection = "false"

	r := newTestRunner(t, cfg, nil)
	path, err := r.prepareInventory()
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(content), localConnectionMarker) {
		t.Fatalf("Marker survived the strip: %q.", content)
	}
	if !strings.Contains(string(content), "ansible_user=app") {
		t.Fatalf("Unrelated host variables were lost: %q.", content)
	}
}

func TestPrepareInventoryKeepsLocalConnectionByDefault(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "hosts")
	body := "localhost ansible_connection=local\n"
	if err := os.WriteFile(src, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.InventoryFile = src

	r := newTestRunner(t, cfg, nil)
	path, err := r.prepareInventory()
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != body {
		t.Fatalf("Inventory was modified: %q.", content)
	}
}

func TestPrepareInventoryAppendsGroupSections(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "hosts")
	if err := os.WriteFile(src, []byte("localhost ansible_connection=local\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.InventoryFile = src
	cfg.InventoryGroups = []string{"web", "db"}

	r := newTestRunner(t, cfg, nil)
	path, err := r.prepareInventory()
	if err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	if !strings.HasPrefix(text, "localhost ansible_connection=local\n") {
		t.Fatalf("Groups must come after the inventory body: %q.", text)
	}
	for _, section := range []string{"[web]", "[db]"} {
		if !strings.Contains(text, section) {
			t.Fatalf("Missing group section %s in %q.", section, text)
		}
	}
	if !strings.Contains(text, "localhost") {
		t.Fatalf("Group member missing in %q.", text)
	}
}
