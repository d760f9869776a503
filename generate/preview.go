package generate

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"skel/misc"
)

//go:embed preview.html.tmpl
var previewTmpl string

var previewPage = template.Must(template.New("preview").Parse(previewTmpl))

const previewFileName = "skel-preview.html"

// previewPath returns destination when it names html file, otherwise default
// page name inside destination directory.
func previewPath(dst string) string {
	switch strings.ToLower(filepath.Ext(dst)) {
	case ".html", ".htm":
		return dst
	}
	return filepath.Join(dst, previewFileName)
}

type previewData struct {
	Title     string
	Generated string
	Results   []*Result
}

// previewTarget collects results and writes single HTML page on Close.
type previewTarget struct {
	path      string
	overwrite bool
	log       *zap.Logger
	results   []*Result
}

func (t *previewTarget) Emit(res *Result) error {
	t.results = append(t.results, res)
	return nil
}

func (t *previewTarget) Close() error {
	if len(t.results) == 0 {
		return nil
	}
	if err := prepareDestination(t.path, t.overwrite, t.log); err != nil {
		return err
	}

	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("unable to create preview: %w", err)
	}
	defer f.Close()

	data := previewData{
		Title:     misc.GetAppName() + " preview",
		Generated: time.Now().Format(time.RFC3339),
		Results:   t.results,
	}
	if err := previewPage.Execute(f, data); err != nil {
		return fmt.Errorf("unable to render preview: %w", err)
	}
	t.log.Info("Preview written", zap.String("to", t.path), zap.Int("results", len(t.results)))
	return nil
}
