package generate

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"skel/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	// SourceFile is the input base name without extensions.
	SourceFile string
	// Dir is the relative directory of the input, "." when there is none.
	Dir      string
	Language string
}

// sourceBase strips all known language extensions, so "card.html.twig"
// becomes "card". Standard input is named "stdin".
func sourceBase(src string) string {
	if src == StdinName {
		return "stdin"
	}
	base := filepath.Base(src)
	for {
		ext := filepath.Ext(base)
		if ext == "" || ext == base {
			return base
		}
		switch strings.ToLower(ext) {
		case ".html", ".htm", ".xhtml", ".twig", ".blade", ".php", ".phtml", ".txt":
			base = strings.TrimSuffix(base, ext)
		default:
			return base
		}
	}
}

func expandTemplate(res *Result, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		SourceFile: sourceBase(res.Source),
		Dir:        filepath.ToSlash(filepath.Dir(res.Source)),
		Language:   string(res.Language),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
