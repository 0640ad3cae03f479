package typings

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNames(t *testing.T) {
	tests := []struct {
		name    string
		mangled string
		full    string
		escaped string
	}{
		{"node", "node", "@types/node", "@types%2fnode"},
		{"@babel/core", "babel__core", "@types/babel__core", "@types%2fbabel__core"},
		{"lodash.merge", "lodash.merge", "@types/lodash.merge", "@types%2flodash.merge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Data{Name: tt.name}
			if got := d.MangledName(); got != tt.mangled {
				t.Errorf("MangledName = %q, want %q", got, tt.mangled)
			}
			if got := d.FullNpmName(); got != tt.full {
				t.Errorf("FullNpmName = %q, want %q", got, tt.full)
			}
			if got := d.FullEscapedNpmName(); got != tt.escaped {
				t.Errorf("FullEscapedNpmName = %q, want %q", got, tt.escaped)
			}
		})
	}
}

func TestReadTypings(t *testing.T) {
	path := writeFile(t, "definitions.json", `{
  "jquery": {
    "1.10": {"typingsPackageName": "jquery", "libraryMajorVersion": 1, "libraryMinorVersion": 10},
    "3.5": {"typingsPackageName": "jquery", "libraryMajorVersion": 3, "libraryMinorVersion": 5},
    "3.3": {"typingsPackageName": "jquery", "libraryMajorVersion": 3, "libraryMinorVersion": 3}
  },
  "angular": {
    "1.8": {"typingsPackageName": "angular", "libraryMajorVersion": 1, "libraryMinorVersion": 8}
  }
}`)

	got, err := ReadTypings(path)
	if err != nil {
		t.Fatalf("ReadTypings error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(got))
	}
	if got[0].Name != "angular" || got[1].Name != "jquery" {
		t.Errorf("packages not sorted by name: %q, %q", got[0].Name, got[1].Name)
	}
	if got[1].LibraryMajorVersion != 3 || got[1].LibraryMinorVersion != 5 {
		t.Errorf("jquery latest = %d.%d, want 3.5", got[1].LibraryMajorVersion, got[1].LibraryMinorVersion)
	}
}

func TestReadTypings_FillsMissingName(t *testing.T) {
	path := writeFile(t, "definitions.json", `{"react": {"18.2": {"libraryMajorVersion": 18}}}`)
	got, err := ReadTypings(path)
	if err != nil {
		t.Fatalf("ReadTypings error: %v", err)
	}
	if got[0].Name != "react" {
		t.Errorf("Name = %q, want react", got[0].Name)
	}
}

func TestReadTypings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"a": `},
		{"bad version key", `{"a": {"not-a-version": {}}}`},
		{"no versions", `{"a": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadTypings(writeFile(t, "definitions.json", tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := ReadTypings(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadAdditions(t *testing.T) {
	got, err := ReadAdditions(writeFile(t, "additions.json", `["left-pad", "@scope/pkg"]`))
	if err != nil {
		t.Fatalf("ReadAdditions error: %v", err)
	}
	if len(got) != 2 || got[0] != "left-pad" || got[1] != "@scope/pkg" {
		t.Errorf("ReadAdditions = %v", got)
	}
}

func TestReadAdditions_Missing(t *testing.T) {
	got, err := ReadAdditions(filepath.Join(t.TempDir(), "additions.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no additions, got %v", got)
	}
}

func TestReadAdditions_Malformed(t *testing.T) {
	if _, err := ReadAdditions(writeFile(t, "additions.json", `{"a": 1}`)); err == nil {
		t.Error("expected error for non-array additions")
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, DefinitionsFile), []byte(`{"node": {"20.1": {"typingsPackageName": "node"}}}`), 0644)
	os.WriteFile(filepath.Join(dir, AdditionsFile), []byte(`["node"]`), 0644)

	f := Files{DataDir: dir}
	pkgs, err := f.ReadTypings()
	if err != nil {
		t.Fatalf("ReadTypings error: %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].Name != "node" {
		t.Errorf("ReadTypings = %+v", pkgs)
	}
	additions, err := f.ReadAdditions()
	if err != nil {
		t.Fatalf("ReadAdditions error: %v", err)
	}
	if len(additions) != 1 || additions[0] != "node" {
		t.Errorf("ReadAdditions = %v", additions)
	}
}
