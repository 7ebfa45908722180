package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"github.com/user/wordgo/internal/config"
	"github.com/user/wordgo/internal/testdoc"
	"github.com/user/wordgo/pkg/cfb"
)

func createTestDocument(t *testing.T) string {
	t.Helper()
	img := testdoc.NewWord8Text("Body text\r", "Note\r").Image()
	path := filepath.Join(t.TempDir(), "inspect.doc")
	if err := os.WriteFile(path, img.Bytes, 0o644); err != nil {
		t.Fatalf("Failed to write test document: %v", err)
	}
	return path
}

func runInspect(t *testing.T, args ...string) []byte {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	var out bytes.Buffer
	if err := run(args, bytes.NewReader(nil), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.Bytes()
}

func checkReport(t *testing.T, reports []Report) {
	t.Helper()
	if len(reports) != 1 {
		t.Fatalf("Expected 1 report, got %d", len(reports))
	}
	r := reports[0]
	if len(r.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", r.Errors)
	}
	streams := 0
	for _, e := range r.Entries {
		if e.Type == "stream" {
			streams++
			if len(e.Digest) != 64 {
				t.Errorf("Expected a 64 digit digest for %s, got %q", e.Name, e.Digest)
			}
		}
	}
	if streams != 2 {
		t.Errorf("Expected 2 streams, got %d", streams)
	}
	if r.Document == nil {
		t.Fatal("Expected a document section")
	}
	if r.Document.Version != 8 {
		t.Errorf("Expected version 8, got %d", r.Document.Version)
	}
	if len(r.Document.Lists) != 5 {
		t.Fatalf("Expected 5 lists, got %d", len(r.Document.Lists))
	}
	if got := r.Document.Lists[0].Chars; got != 10 {
		t.Errorf("Expected 10 text characters, got %d", got)
	}
	if got := r.Document.Lists[1].Chars; got != 5 {
		t.Errorf("Expected 5 footnote characters, got %d", got)
	}
	if len(r.Document.Pieces) != 1 {
		t.Errorf("Expected 1 piece, got %d", len(r.Document.Pieces))
	}
}

func TestDocinspect_YAML(t *testing.T) {
	out := runInspect(t, createTestDocument(t))
	var reports []Report
	if err := yaml.Unmarshal(out, &reports); err != nil {
		t.Fatalf("Failed to parse the YAML report: %v\n%s", err, out)
	}
	checkReport(t, reports)
}

func TestDocinspect_CBOR(t *testing.T) {
	out := runInspect(t, "--format", "cbor", createTestDocument(t))
	var reports []Report
	if err := cbor.Unmarshal(out, &reports); err != nil {
		t.Fatalf("Failed to decode the CBOR report: %v", err)
	}
	checkReport(t, reports)

	again := runInspect(t, "--format", "cbor", createTestDocument(t))
	var second []Report
	if err := cbor.Unmarshal(again, &second); err != nil {
		t.Fatal(err)
	}
	second[0].File = reports[0].File
	a, _ := cborEncMode.Marshal(reports)
	b, _ := cborEncMode.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Error("Expected identical documents to encode identically")
	}
}

func TestDocinspect_Compression(t *testing.T) {
	path := createTestDocument(t)
	plain := runInspect(t, path)

	tests := []struct {
		name       string
		decompress func([]byte) ([]byte, error)
	}{
		{"lz4", func(b []byte) ([]byte, error) {
			return io.ReadAll(lz4.NewReader(bytes.NewReader(b)))
		}},
		{"zstd", func(b []byte) ([]byte, error) {
			dec, err := zstd.NewReader(bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			defer dec.Close()
			return io.ReadAll(dec)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runInspect(t, "--compress", tt.name, path)
			got, err := tt.decompress(out)
			if err != nil {
				t.Fatalf("Failed to decompress: %v", err)
			}
			if !bytes.Equal(got, plain) {
				t.Errorf("Expected the decompressed report to match the plain one")
			}
		})
	}
}

func TestDocinspect_Verify(t *testing.T) {
	out := runInspect(t, "--verify", createTestDocument(t))
	var reports []Report
	if err := yaml.Unmarshal(out, &reports); err != nil {
		t.Fatal(err)
	}
	v := reports[0].Verify
	if v == nil {
		t.Fatal("Expected a verify section")
	}
	if v.Streams != 2 {
		t.Errorf("Expected 2 verified streams, got %d", v.Streams)
	}
	if len(v.Mismatches) != 0 {
		t.Errorf("Expected no mismatches, got %v", v.Mismatches)
	}
}

func TestInspect_Damaged(t *testing.T) {
	r := inspect("junk", cfb.NewMemorySource(bytes.Repeat([]byte{0x42}, 2048)), false, 10)
	if len(r.Errors) == 0 {
		t.Error("Expected an error for a file that is not a compound file")
	}
	if r.Document != nil {
		t.Error("Expected no document section")
	}

	img := testdoc.Build(testdoc.Stream{Name: "Workbook", Data: make([]byte, 100)})
	r = inspect("book", cfb.NewMemorySource(img.Bytes), false, 10)
	if len(r.Errors) == 0 {
		t.Error("Expected an error for a container without a WordDocument stream")
	}
	if len(r.Entries) != 2 {
		t.Errorf("Expected the directory to be listed, got %d entries", len(r.Entries))
	}
}

func TestDocinspect_Errors(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	var out bytes.Buffer
	if err := run(nil, bytes.NewReader(nil), &out); err == nil {
		t.Error("Expected an error without input files")
	}
	if err := run([]string{"--format", "xml", "x.doc"}, bytes.NewReader(nil), &out); err == nil {
		t.Error("Expected an error for an unknown format")
	}
	if err := run([]string{filepath.Join(t.TempDir(), "missing.doc")}, bytes.NewReader(nil), &out); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
