package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type entry struct {
	name    string
	content string
	dir     bool
}

func makeZip(t *testing.T, entries ...entry) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		if e.dir {
			hdr := &zip.FileHeader{Name: e.name}
			hdr.SetMode(os.ModeDir | 0755)
			if _, err := w.CreateHeader(hdr); err != nil {
				t.Fatalf("Failed to create directory %s: %v", e.name, err)
			}
			continue
		}
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	return zipPath
}

func isTemplate(name string) bool {
	return strings.HasSuffix(name, ".twig") || strings.HasSuffix(name, ".html")
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t,
		entry{name: "templates/card.html.twig", content: `<div class="card"></div>`},
		entry{name: "templates/nav.html", content: `<nav class="nav"></nav>`},
		entry{name: "templates/readme.txt", content: "notes"},
		entry{name: "assets/app.js", content: "x"},
		entry{name: "index.html", content: "<p></p>"},
	)

	tests := []struct {
		name   string
		prefix string
		match  MatchFunc
		want   []string
	}{
		{"prefix only", "templates/", nil, []string{"templates/card.html.twig", "templates/nav.html", "templates/readme.txt"}},
		{"prefix and match", "templates/", isTemplate, []string{"templates/card.html.twig", "templates/nav.html"}},
		{"match only", "", isTemplate, []string{"index.html", "templates/card.html.twig", "templates/nav.html"}},
		{"no matching prefix", "nonexistent/", nil, nil},
		{"everything", "", nil, []string{"assets/app.js", "index.html", "templates/card.html.twig", "templates/nav.html", "templates/readme.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.prefix, tt.match, func(archive string, file *zip.File) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if !slices.Equal(visited, tt.want) {
				t.Errorf("visited %v, want %v", visited, tt.want)
			}
		})
	}
}

func TestWalk_NaturalOrder(t *testing.T) {
	zipPath := makeZip(t,
		entry{name: "page10.html"},
		entry{name: "page2.html"},
		entry{name: "page1.html"},
		entry{name: "page20.html"},
	)

	names, err := Names(zipPath, "", nil)
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	want := []string{"page1.html", "page2.html", "page10.html", "page20.html"}
	if !slices.Equal(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", nil, func(string, *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		err := Walk(invalidZip, "", nil, func(string, *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_UnsafePaths(t *testing.T) {
	for _, name := range []string{"../evil.html", "a/../../evil.html", "/abs.html"} {
		t.Run(name, func(t *testing.T) {
			zipPath := makeZip(t, entry{name: "ok.html"}, entry{name: name})
			var visited int
			err := Walk(zipPath, "", nil, func(string, *zip.File) error {
				visited++
				return nil
			})
			if err == nil {
				t.Fatal("Expected error for unsafe entry")
			}
			if !strings.Contains(err.Error(), "unsafe path") {
				t.Errorf("error = %v, want unsafe path", err)
			}
			if visited != 0 {
				t.Errorf("visited %d entries before rejecting archive, want 0", visited)
			}
		})
	}
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := makeZip(t,
		entry{name: "mydir/", dir: true},
		entry{name: "mydir/file.html", content: "content"},
	)

	var visited []string
	err := Walk(zipPath, "mydir/", nil, func(_ string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	if !slices.Equal(visited, []string{"mydir/file.html"}) {
		t.Errorf("visited %v, want file only", visited)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	var entries []entry
	for i := range 5 {
		entries = append(entries, entry{name: "files/file" + string(rune('0'+i)) + ".html"})
	}
	zipPath := makeZip(t, entries...)

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, "files/", nil, func(string, *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := `<div class="card"><h2 class="card__title"></h2></div>`
	zipPath := makeZip(t, entry{name: "card.html", content: content})

	err := Walk(zipPath, "", nil, func(_ string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}
		if buf.String() != content {
			t.Errorf("content = %s, want %s", buf.String(), content)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_CaseSensitivity(t *testing.T) {
	zipPath := makeZip(t, entry{name: "Docs/page.html", content: "content"})

	for _, tt := range []struct {
		prefix string
		want   int
	}{
		{"Docs/", 1},
		{"docs/", 0},
	} {
		t.Run(tt.prefix, func(t *testing.T) {
			names, err := Names(zipPath, tt.prefix, nil)
			if err != nil {
				t.Fatalf("Names() error = %v", err)
			}
			if len(names) != tt.want {
				t.Errorf("got %d names with %q, want %d", len(names), tt.prefix, tt.want)
			}
		})
	}
}
