package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInStringSlice(t *testing.T) {
	slice := []string{"foo", "bar", "bazinga"}
	expected := "bar"

	if !InStringSlice(expected, slice) {
		t.Fatalf("String '%s' not found in slice '%s'.\n", expected, slice)
	}
}

func TestNotInStringSlice(t *testing.T) {
	slice := []string{"foo", "bazinga"}
	notExpected := "bar"

	if InStringSlice(notExpected, slice) {
		t.Fatalf("Unexpected string '%s' found in slice '%s'.\n", notExpected, slice)
	}
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe")
	if Exists(path) {
		t.Fatalf("Did not expect %s to exist.", path)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Fatalf("Expected %s to exist.", path)
	}
}
