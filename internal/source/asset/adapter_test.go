package asset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/timmy/mygomeme/internal/domain"
)

func TestWriteThenFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "memes.json")
	entries := []domain.MemeEntry{
		{Caption: "肚子餓了", ImageURL: "u1"},
		{Caption: "春日影", ImageURL: "u2"},
	}

	data, err := Write(path, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != string(data) {
		t.Error("returned bytes differ from file content")
	}

	want := "[\n  {\n    \"alt\": \"肚子餓了\",\n    \"url\": \"u1\"\n  },"
	if !strings.HasPrefix(string(onDisk), want) {
		t.Errorf("unexpected asset format:\n%s", onDisk)
	}

	items, err := NewAdapter(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[1].Alt != "春日影" || items[1].URL != "u2" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestEncode_KeepsURLsUnescaped(t *testing.T) {
	data, err := Encode([]domain.MemeEntry{{Caption: "a&b", ImageURL: "https://img.example/x.png?w=1&h=2"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "[\n  {\n    \"alt\": \"a&b\",\n    \"url\": \"https://img.example/x.png?w=1&h=2\"\n  }\n]"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}
}

func TestFetch_MissingFile(t *testing.T) {
	a := NewAdapter(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := a.Fetch(context.Background()); err == nil {
		t.Error("expected error for missing asset")
	}
}

func TestFetch_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memes.json")
	if err := os.WriteFile(path, []byte(`{"urls":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewAdapter(path).Fetch(context.Background()); err == nil {
		t.Error("expected error for non-array asset")
	}
}
