package seatsock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatAndParseRoundTrip(t *testing.T) {
	name := Format("seat0")
	if name != "seat.seat0.sock" {
		t.Fatalf("Format() = %q", name)
	}
	entry, ok := Parse(name)
	if !ok || entry.SeatBasename != "seat0" {
		t.Fatalf("Parse(%q) = %+v, %v", name, entry, ok)
	}
}

func TestParseRejectsUnrelatedFilenames(t *testing.T) {
	for _, name := range []string{"seat0.sock", "seat..sock", "notasocket", "seat.seat0.sock.bak"} {
		if _, ok := Parse(name); ok {
			t.Errorf("Parse(%q) = ok, want rejected", name)
		}
	}
}

func TestFindAmbiguousAndMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir, "seat0"); err == nil {
		t.Fatal("expected an error when no socket exists")
	}

	touch(t, filepath.Join(dir, Format("seat0")))
	path, err := Find(dir, "seat0")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if path != filepath.Join(dir, "seat.seat0.sock") {
		t.Errorf("Find() = %q", path)
	}

	touch(t, filepath.Join(dir, Format("seat1")))
	if _, err := Find(dir, "seat*"); err == nil {
		t.Fatal("expected an error when more than one socket matches")
	}
}

func TestListReturnsEveryParsedEntry(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, Format("seat0")))
	touch(t, filepath.Join(dir, Format("seat1")))
	touch(t, filepath.Join(dir, "ignored.txt"))

	entries, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %+v", entries)
	}
}

func TestListMissingDirIsNotAnError(t *testing.T) {
	entries, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil || entries != nil {
		t.Fatalf("List() = %+v, %v", entries, err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}
