package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestGolden runs every script/expected-output pair bundled in
// testdata/golden.txtar: each "name.gi"
// file is evaluated fresh and its combined stdout/stderr compared
// against the matching "name.out" file.
func TestGolden(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "testdata", "golden.txtar"))
	if err != nil {
		t.Fatalf("reading golden.txtar: %v", err)
	}
	ar := txtar.Parse(data)

	scripts := map[string][]byte{}
	wants := map[string][]byte{}
	for _, f := range ar.Files {
		switch {
		case strings.HasSuffix(f.Name, ".gi"):
			scripts[strings.TrimSuffix(f.Name, ".gi")] = f.Data
		case strings.HasSuffix(f.Name, ".out"):
			wants[strings.TrimSuffix(f.Name, ".out")] = f.Data
		}
	}
	if len(scripts) == 0 {
		t.Fatal("golden.txtar contains no *.gi scripts")
	}

	for name, src := range scripts {
		want, ok := wants[name]
		if !ok {
			t.Errorf("%s: no matching .out fixture", name)
			continue
		}
		name, src, want := name, src, want
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			i := New(Options{Stdout: &out, Stderr: &out})
			if _, err := i.Eval(string(src)); err != nil {
				t.Fatalf("Eval error: %v", err)
			}
			if got := out.String(); got != string(want) {
				t.Errorf("%s:\n got  %q\n want %q", name, got, string(want))
			}
		})
	}
}
