package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/wordgo/internal/config"
	"github.com/user/wordgo/internal/testdoc"
)

// createTestDocument writes a small Word 8 document and returns its path.
func createTestDocument(t *testing.T, dir, name string, text string) string {
	t.Helper()
	img := testdoc.NewWord8Text(text).Image()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, img.Bytes, 0o644); err != nil {
		t.Fatalf("Failed to write test document: %v", err)
	}
	return path
}

func runAntiword(t *testing.T, stdin []byte, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	var out, errOut bytes.Buffer
	code = run(args, bytes.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestAntiword_SingleFile(t *testing.T) {
	path := createTestDocument(t, t.TempDir(), "hello.doc", "Hello world\r")

	code, stdout, stderr := runAntiword(t, nil, path)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d (stderr %q)", code, stderr)
	}
	if stdout != "Hello world\n\n" {
		t.Errorf("Expected %q, got %q", "Hello world\n\n", stdout)
	}
}

func TestAntiword_MultipleFilesBanner(t *testing.T) {
	dir := t.TempDir()
	first := createTestDocument(t, dir, "first.doc", "One\r")
	second := createTestDocument(t, dir, "second.doc", "Two\r")

	code, stdout, _ := runAntiword(t, nil, first, second)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	want := "::::::::::::::\nfirst.doc\n::::::::::::::\nOne\n\n" +
		"::::::::::::::\nsecond.doc\n::::::::::::::\nTwo\n\n"
	if stdout != want {
		t.Errorf("Expected %q, got %q", want, stdout)
	}
}

func TestAntiword_Stdin(t *testing.T) {
	img := testdoc.NewWord8Text("From a pipe\r").Image()

	code, stdout, _ := runAntiword(t, img.Bytes, "-")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if stdout != "From a pipe\n\n" {
		t.Errorf("Expected %q, got %q", "From a pipe\n\n", stdout)
	}
}

func TestAntiword_NotWordDocuments(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{"letter.rtf", []byte(`{\rtf1\ansi hello}`), "It is probably a Rich Text Format file"},
		{"old.doc", append([]byte{0xdb, 0xa5, 0x2d, 0x00, 0x00, 0x00, 0x09, 0x04}, make([]byte, 100)...), "It is probably from 'Word2, 4 or 5'"},
		{"notes.txt", []byte("plain text"), "is not a Word Document."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatal(err)
			}
			code, stdout, stderr := runAntiword(t, nil, path)
			if code != 1 {
				t.Errorf("Expected exit code 1, got %d", code)
			}
			if stdout != "" {
				t.Errorf("Expected no output, got %q", stdout)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("Expected stderr to contain %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestAntiword_PartialSuccess(t *testing.T) {
	dir := t.TempDir()
	good := createTestDocument(t, dir, "good.doc", "Fine\r")
	missing := filepath.Join(dir, "missing.doc")

	code, stdout, stderr := runAntiword(t, nil, missing, good)
	if code != 0 {
		t.Errorf("Expected exit code 0 when one file converts, got %d", code)
	}
	if !strings.Contains(stderr, "I can't open") {
		t.Errorf("Expected an open diagnostic, got %q", stderr)
	}
	if !strings.Contains(stdout, "Fine\n") {
		t.Errorf("Expected the good file's text, got %q", stdout)
	}
}

func TestAntiword_Flags(t *testing.T) {
	path := createTestDocument(t, t.TempDir(), "wide.doc", strings.Repeat("word ", 20)+"\r")

	code, stdout, _ := runAntiword(t, nil, "-w", "0", path)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if lines := strings.Count(stdout, "\n"); lines != 2 {
		t.Errorf("Expected one line and a blank line with -w 0, got %d lines: %q", lines, stdout)
	}

	code, stdout, _ = runAntiword(t, nil, "-w", "45", path)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	for _, line := range strings.Split(strings.TrimRight(stdout, "\n"), "\n") {
		if len(line) > 45 {
			t.Errorf("Expected lines of at most 45 characters, got %q", line)
		}
	}

	code, _, stderr := runAntiword(t, nil, "-X", "koi8-r", path)
	if code != 1 || !strings.Contains(stderr, "unknown encoding") {
		t.Errorf("Expected an encoding error, got %d %q", code, stderr)
	}

	code, stdout, stderr = runAntiword(t, nil, "-p", "letter", "-L", path)
	if code != 0 {
		t.Fatalf("Expected exit code 0 for -p, got %d (%q)", code, stderr)
	}
	if !strings.HasPrefix(stdout, "word word") {
		t.Errorf("Expected text output for -p, got %q", stdout)
	}
}

func TestAntiword_Usage(t *testing.T) {
	code, _, stderr := runAntiword(t, nil)
	if code != 1 {
		t.Errorf("Expected exit code 1 without files, got %d", code)
	}
	if !strings.Contains(stderr, "Usage: antiword") {
		t.Errorf("Expected usage text, got %q", stderr)
	}
}

func TestAntiword_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := createTestDocument(t, dir, "doc.doc", "Configured\r")
	cfgPath := filepath.Join(dir, "wordgo.yaml")
	if err := os.WriteFile(cfgPath, []byte("output:\n  encoding: ISO-8859-9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runAntiword(t, nil, "--config", cfgPath, path)
	if code != 1 || !strings.Contains(stderr, "invalid configuration") {
		t.Errorf("Expected a configuration error, got %d %q", code, stderr)
	}

	code, stdout, _ := runAntiword(t, nil, "--config", cfgPath, "-X", "latin1", path)
	if code != 0 || stdout != "Configured\n\n" {
		t.Errorf("Expected flags to override the file, got %d %q", code, stdout)
	}
}
