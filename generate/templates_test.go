package generate

import (
	"testing"

	"skel/config"
	"skel/source"
)

func TestSourceBase(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"card.html", "card"},
		{"blocks/card.html.twig", "card"},
		{"nav.blade.php", "nav"},
		{"page.v2.html", "page.v2"},
		{"archive.zip", "archive.zip"},
		{"README", "README"},
		{StdinName, "stdin"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := sourceBase(tt.src); got != tt.want {
				t.Errorf("sourceBase(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestExpandTemplate(t *testing.T) {
	res := &Result{Source: "blocks/card.html.twig", Language: source.LangTwig}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"simple text", "simple-text", "simple-text"},
		{"source file", "{{ .SourceFile }}", "card"},
		{"language", "{{ .Language }}", "twig"},
		{"dir", "{{ .Dir }}", "blocks"},
		{"context", "{{ .Context }}", string(config.OutputNameTemplateFieldName)},
		{"sprig function", `{{ .SourceFile | upper | printf "_%s" }}`, "_CARD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(res, config.OutputNameTemplateFieldName, tt.template)
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandTemplate_Errors(t *testing.T) {
	res := &Result{Source: "card.html"}

	if _, err := expandTemplate(res, config.OutputNameTemplateFieldName, "{{ .SourceFile"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := expandTemplate(res, config.OutputNameTemplateFieldName, "{{ .Unknown }}"); err == nil {
		t.Error("expected execution error")
	}
}
