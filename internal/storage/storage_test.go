package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mnatlas/mn-parks/internal/park"
)

func TestSaveAndLoadCollection(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := New(filepath.Join(tmpDir, "parks.json"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	records := []*park.Record{
		park.New("Afton State Park", "https://www.dnr.state.mn.us/state_parks/park.html?id=spk00101",
			[]string{"Prairie remnants", "St. Croix River views"}, "8 a.m. to 10 p.m. daily"),
		park.New("Itasca State Park", "https://www.dnr.state.mn.us/state_parks/park.html?id=spk00181",
			nil, ""),
	}
	records[0].Image = &park.Image{
		ThumbnailURL:  "https://upload.wikimedia.org/thumb/afton.jpg",
		SourcePageURL: "https://en.wikipedia.org/wiki/Afton_State_Park",
		PageTitle:     "Afton State Park",
		Credit:        "Image via Wikipedia/Wikimedia Commons (license varies by file).",
	}

	if err := store.SaveCollection(records); err != nil {
		t.Fatalf("SaveCollection failed: %v", err)
	}

	loaded, err := store.LoadCollection()
	if err != nil {
		t.Fatalf("LoadCollection failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, records) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", loaded, records)
	}
}

func TestSaveCollectionLeavesTextUnescaped(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := New(filepath.Join(tmpDir, "parks.json"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	records := []*park.Record{
		park.New("Côté's Wayside", "https://www.dnr.state.mn.us/state_parks/park.html?id=spk00199&view=full",
			[]string{"Rivière des Français overlook"}, ""),
	}
	if err := store.SaveCollection(records); err != nil {
		t.Fatalf("SaveCollection failed: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Côté's Wayside") {
		t.Error("non-ASCII characters should be stored as-is, not escaped")
	}
	if !strings.Contains(out, "id=spk00199&view=full") {
		t.Error("URL ampersands should not be HTML-escaped")
	}
	if !strings.Contains(out, "\n  {") {
		t.Error("output should be indented")
	}
}

func TestNewCreatesParentDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir", "parks.json")

	store, err := New(path)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if err := store.SaveCollection([]*park.Record{}); err != nil {
		t.Fatalf("SaveCollection failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected output file to exist: %v", err)
	}
}

func TestLoadCollectionMissingFile(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if _, err := store.LoadCollection(); err == nil {
		t.Fatal("expected an error for a missing collection file")
	}
}
