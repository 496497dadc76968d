package logutil

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriterRotates(t *testing.T) {
	dir := t.TempDir()
	w, err := NewRotatingWriter(dir, 16)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer w.Close()

	for _, line := range []string{"first line\n", "second line\n", "third line\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	current, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("failed to read current log: %v", err)
	}
	if string(current) != "third line\n" {
		t.Errorf("Expected only the last line in the current log, got %q", current)
	}
	archived, err := os.ReadFile(filepath.Join(dir, logFileName+".1"))
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}
	if !strings.Contains(string(archived), "second line") {
		t.Errorf("Expected the previous line in archive .1, got %q", archived)
	}
}

func TestRotatingWriterKeepsAtMostMaxArchives(t *testing.T) {
	dir := t.TempDir()
	w, err := NewRotatingWriter(dir, 4)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer w.Close()

	for i := 0; i < maxArchives+3; i++ {
		if _, err := w.Write([]byte("xxxx")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, logFileName+".4")); !os.IsNotExist(err) {
		t.Errorf("Expected no archive beyond .%d, stat err=%v", maxArchives, err)
	}
	if _, err := os.Stat(filepath.Join(dir, logFileName+".3")); err != nil {
		t.Errorf("Expected archive .3 to exist: %v", err)
	}
}

func TestSetupClosesPreviousLogFile(t *testing.T) {
	t.Cleanup(func() {
		setup("", false)
		log.SetOutput(os.Stderr)
	})

	dir := t.TempDir()
	setup(dir, true)
	first := current
	if first == nil {
		t.Fatal("Expected a log file to be opened")
	}
	log.Print("hello")

	setup(dir, false)
	if current != nil {
		t.Error("Expected no log file once disabled")
	}
	if _, err := first.Write([]byte("late\n")); err == nil {
		t.Error("Expected the previous log file to be closed")
	}

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") || strings.Contains(string(data), "late") {
		t.Errorf("unexpected log contents %q", data)
	}
}
