package fileutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeTree creates empty files for each relative path under root
func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func baseNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	sort.Strings(names)
	return names
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   gfs.hcl
	//   README.txt
	//   Nam.HCL
	//   regional/
	//     rap.hcl
	//     archive/
	//       ruc.hcl
	//   .cache/
	//     stale.hcl
	writeTree(t, tmpDir, []string{
		"gfs.hcl",
		"README.txt",
		"Nam.HCL",
		"regional/rap.hcl",
		"regional/archive/ruc.hcl",
		".cache/stale.hcl",
	})

	tests := []struct {
		name          string
		opts          ScanOptions
		wantFileNames []string
	}{
		{
			name:          "non-recursive scan",
			opts:          ScanOptions{},
			wantFileNames: []string{"Nam.HCL", "README.txt", "gfs.hcl"},
		},
		{
			name:          "recursive scan skips hidden directories",
			opts:          ScanOptions{Recursive: true},
			wantFileNames: []string{"Nam.HCL", "README.txt", "gfs.hcl", "rap.hcl", "ruc.hcl"},
		},
		{
			name:          "extension filter is case-insensitive",
			opts:          ScanOptions{Extensions: []string{".hcl"}, Recursive: true},
			wantFileNames: []string{"Nam.HCL", "gfs.hcl", "rap.hcl", "ruc.hcl"},
		},
		{
			name:          "extension without dot prefix",
			opts:          ScanOptions{Extensions: []string{"txt"}, Recursive: true},
			wantFileNames: []string{"README.txt"},
		},
		{
			name:          "max depth 2",
			opts:          ScanOptions{Extensions: []string{".hcl"}, Recursive: true, MaxDepth: 2},
			wantFileNames: []string{"Nam.HCL", "gfs.hcl", "rap.hcl"},
		},
		{
			name:          "exclude directory",
			opts:          ScanOptions{Extensions: []string{".hcl"}, Recursive: true, ExcludeDirs: []string{"archive"}},
			wantFileNames: []string{"Nam.HCL", "gfs.hcl", "rap.hcl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}
			got := baseNames(result.Files)
			want := append([]string(nil), tt.wantFileNames...)
			sort.Strings(want)
			if len(got) != len(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("got %v, want %v", got, want)
					break
				}
			}
			for _, f := range result.Files {
				if !filepath.IsAbs(f) {
					t.Errorf("expected absolute path, got %s", f)
				}
			}
		})
	}
}

func TestScanDirectory_SortedOutput(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"c.hcl", "a.hcl", "b.hcl"})

	result, err := ScanDirectory(tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if !sort.StringsAreSorted(result.Files) {
		t.Errorf("files not sorted: %v", result.Files)
	}
}

func TestScanDirectory_Errors(t *testing.T) {
	if _, err := ScanDirectory("/nonexistent/profiles", ScanOptions{}); err == nil {
		t.Error("expected error for missing directory")
	}

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "gfs.hcl")
	writeTree(t, tmpDir, []string{"gfs.hcl"})
	if _, err := ScanDirectory(file, ScanOptions{}); err == nil {
		t.Error("expected error when path is a file")
	}
}
