package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetHomeDownloadsDir(t *testing.T) {
	dir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filepath.Base(dir) != "Downloads" {
		t.Errorf("Expected path ending in Downloads, got %s", dir)
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b")

	if err := CreateDirectoryIfNotExists(target); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Error("Expected directory to be created")
	}

	// Idempotent on an existing directory
	if err := CreateDirectoryIfNotExists(target); err != nil {
		t.Errorf("Expected no error for existing directory, got %v", err)
	}
}

func TestCreateDirectoryIfNotExistsFile(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CreateDirectoryIfNotExists(file); err == nil {
		t.Error("Expected error when path exists as a file")
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"catalog.fits":           "catalog.fits",
		"a/b\\c:d.csv":           "a_b_c_d.csv",
		"  spaced.parquet  ":     "spaced.parquet",
		"weird<>name?.hdf5":      "weird__name_.hdf5",
		"":                       "download",
		"...":                    "download",
		"34_test_upload_e1.zip":  "34_test_upload_e1.zip",
	}

	for input, expected := range cases {
		if got := SanitizeFileName(input); got != expected {
			t.Errorf("SanitizeFileName(%q): expected %q, got %q", input, expected, got)
		}
	}
}
