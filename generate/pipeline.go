// Package generate implements "generate" command: it classifies input,
// renders SCSS skeletons and sends them to the requested output target.
package generate

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"skel/config"
	"skel/markup"
	"skel/skeleton"
	"skel/source"
	"skel/utility"
)

// StdinName is the source name denoting standard input.
const StdinName = "-"

// Result is a single rendered input.
type Result struct {
	// Source is the input name relative to the processed location (or
	// StdinName).
	Source   string
	Language source.Language
	Text     string
	// Rendered is false when the renderer was not invoked and Text holds a
	// placeholder produced by the shell.
	Rendered bool
}

// Pipeline is everything needed to turn raw input into skeleton text. It
// holds no per-call state and could be shared between goroutines.
type Pipeline struct {
	renderer *skeleton.Renderer
	parser   markup.Parser
	langs    source.Languages
	strip    bool
	forced   source.Language
	codePage encoding.Encoding
	log      *zap.Logger
}

// BuildRules returns the utility rule set configured by filter settings.
func BuildRules(cfg *config.FilterConfig) (*utility.RuleSet, error) {
	if cfg.UseDefaults && len(cfg.Rules) == 0 {
		return utility.Default(), nil
	}

	var rules []utility.Rule
	if cfg.UseDefaults {
		rules = append(rules, utility.DefaultRules...)
	}
	for _, r := range cfg.Rules {
		rules = append(rules, utility.Rule{Pattern: r.Pattern, Description: r.Description})
	}
	return utility.New(rules...)
}

// NewPipeline prepares pipeline from generator configuration. Non empty
// forced language overrides detection by file name, non nil codePage
// overrides encoding detection.
func NewPipeline(cfg *config.GeneratorConfig, forced source.Language, codePage encoding.Encoding, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	rules, err := BuildRules(&cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare utility rules: %w", err)
	}
	parser, err := markup.ParserFor(cfg.Parser)
	if err != nil {
		return nil, err
	}
	mode, err := skeleton.ParseDescendMode(cfg.Descend)
	if err != nil {
		return nil, err
	}
	langs, err := source.NewLanguages(cfg.Languages)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare languages: %w", err)
	}

	log.Debug("Pipeline prepared",
		zap.Int("rules", rules.Len()),
		zap.String("parser", cfg.Parser),
		zap.String("descend", cfg.Descend),
		zap.Stringer("languages", langs),
		zap.String("forced", string(forced)),
		zap.Bool("strip", cfg.StripTemplateTags))

	return &Pipeline{
		renderer: skeleton.New(rules, skeleton.WithDescend(mode), skeleton.WithLogger(log)),
		parser:   parser,
		langs:    langs,
		strip:    cfg.StripTemplateTags,
		forced:   forced,
		codePage: codePage,
		log:      log,
	}, nil
}

// Languages returns enabled input languages.
func (p *Pipeline) Languages() source.Languages {
	return p.langs
}

// Language returns language of the named input. Standard input without
// forced language is treated as HTML.
func (p *Pipeline) Language(name string) source.Language {
	if p.forced != source.LangUnknown {
		return p.forced
	}
	if name == StdinName {
		return source.LangHTML
	}
	return source.DetectLanguage(name)
}

// Accepts reports whether named input would reach the renderer. Used to
// select files when walking directories and archives.
func (p *Pipeline) Accepts(name string) bool {
	return p.langs.Supported(p.Language(name))
}

// Process renders data read from named input. It never fails, problems are
// reported inside result text.
func (p *Pipeline) Process(name string, data []byte) Result {
	res := Result{Source: name, Language: p.Language(name)}

	switch {
	case len(bytes.TrimSpace(data)) == 0 && name == StdinName:
		res.Text = source.NoInputPlaceholder
		return res
	case !p.langs.Supported(res.Language):
		p.log.Debug("Language is not supported", zap.String("source", name), zap.String("language", string(res.Language)))
		res.Text = source.UnsupportedPlaceholder
		return res
	case source.IsBinary(data):
		p.log.Debug("Binary input ignored", zap.String("source", name))
		res.Text = source.UnsupportedPlaceholder
		return res
	}

	text, err := source.Decode(data, p.codePage)
	if err != nil {
		res.Text = skeleton.ErrorPlaceholder(err.Error())
		return res
	}
	if p.strip {
		text = source.StripTemplateTags(text)
	}

	res.Text = p.renderer.Generate(bytes.NewReader(text), p.parser)
	res.Rendered = true
	return res
}

// Outline returns indented element tree of the input as seen by the parser,
// it is stored in debug report next to the result.
func (p *Pipeline) Outline(data []byte) string {
	text, err := source.Decode(data, p.codePage)
	if err != nil {
		return err.Error()
	}
	if p.strip {
		text = source.StripTemplateTags(text)
	}
	doc, err := p.parser.Parse(bytes.NewReader(text))
	if err != nil {
		return err.Error()
	}
	return markup.Dump(doc.Root())
}
