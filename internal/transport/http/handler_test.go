package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/login", "application/json",
		strings.NewReader(`{"username":"Leonardo","password":"0000001"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["role"] != "admin" {
		t.Fatalf("expected admin role, got %q", body["role"])
	}

	bad, err := http.Post(server.URL+"/api/login", "application/json",
		strings.NewReader(`{"username":"Leonardo","password":"nope"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", bad.StatusCode)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	server, _, _ := newTestServer(t)
	client := server.Client()

	// Create.
	resp, err := client.Post(server.URL+"/api/categories", "application/json",
		strings.NewReader(`{"name":"Historia Universal"}`))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created["key"] != "historia_universal" {
		t.Fatalf("expected derived key, got %v", created["key"])
	}

	// Duplicate key is a conflict.
	dup, err := client.Post(server.URL+"/api/categories", "application/json",
		strings.NewReader(`{"name":"HISTORIA   universal"}`))
	if err != nil {
		t.Fatalf("dup create: %v", err)
	}
	defer dup.Body.Close()
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", dup.StatusCode)
	}

	// List includes the seeded and the new category.
	list, err := client.Get(server.URL + "/api/categories")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer list.Body.Close()
	var listing struct {
		Categories []map[string]any `json:"categories"`
	}
	if err := json.NewDecoder(list.Body).Decode(&listing); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listing.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(listing.Categories))
	}

	// Select, then save content.
	sel, err := client.Post(server.URL+"/api/categories/historia_universal/select", "application/json", nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	sel.Body.Close()
	if sel.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", sel.StatusCode)
	}

	content := `{"readingText":"texto","questions":[{"question":"Q?","options":["A","B","C","D"],"correct":1,"explanation":"..."}]}`
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/categories/historia_universal/content", bytes.NewReader([]byte(content)))
	put, err := client.Do(req)
	if err != nil {
		t.Fatalf("save content: %v", err)
	}
	put.Body.Close()
	if put.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", put.StatusCode)
	}

	// Generate a room code for the selection.
	gen, err := client.Post(server.URL+"/api/room-code", "application/json", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	defer gen.Body.Close()
	if gen.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", gen.StatusCode)
	}
	var code map[string]any
	if err := json.NewDecoder(gen.Body).Decode(&code); err != nil {
		t.Fatalf("decode code: %v", err)
	}
	if len(code["code"].(string)) != 6 {
		t.Fatalf("expected 6-char code, got %v", code["code"])
	}

	// Delete clears the selection; generating again now fails.
	req, _ = http.NewRequest(http.MethodDelete, server.URL+"/api/categories/historia_universal", nil)
	del, err := client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", del.StatusCode)
	}
	again, err := client.Post(server.URL+"/api/room-code", "application/json", nil)
	if err != nil {
		t.Fatalf("generate after delete: %v", err)
	}
	again.Body.Close()
	if again.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 after selection cleared, got %d", again.StatusCode)
	}
}

func TestExportImportEndpoints(t *testing.T) {
	server, _, _ := newTestServer(t)
	client := server.Client()

	resp, err := client.Get(server.URL + "/api/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Disposition"); !strings.Contains(got, "backup-lectura-") {
		t.Fatalf("expected dated filename, got %q", got)
	}
	var doc struct {
		Categories map[string]any `json:"categories"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if _, ok := doc.Categories["biologia"]; !ok {
		t.Fatalf("export missing seeded category: %+v", doc.Categories)
	}

	// A document without categories is rejected wholesale.
	badImport, err := client.Post(server.URL+"/api/import", "application/json",
		strings.NewReader(`{"other":true}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	badImport.Body.Close()
	if badImport.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", badImport.StatusCode)
	}

	goodImport, err := client.Post(server.URL+"/api/import", "application/json",
		strings.NewReader(`{"categories":{"quimica":{"key":"quimica","name":"Química","readingText":"","questions":[]}}}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	goodImport.Body.Close()
	if goodImport.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", goodImport.StatusCode)
	}
}
