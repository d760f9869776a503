package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"time"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// RuleConfig describes single additional utility class pattern.
	RuleConfig struct {
		Pattern     string `yaml:"pattern" validate:"required"`
		Description string `yaml:"description,omitempty"`
	}

	FilterConfig struct {
		UseDefaults bool         `yaml:"use_defaults"`
		Rules       []RuleConfig `yaml:"rules" validate:"dive"`
	}

	GeneratorConfig struct {
		Languages         []string     `yaml:"languages" validate:"min=1,dive,oneof=html twig php blade plaintext"`
		Parser            string       `yaml:"parser" validate:"oneof=html xml"`
		Descend           string       `yaml:"descend" validate:"oneof=every first"`
		StripTemplateTags bool         `yaml:"strip_template_tags"`
		Filter            FilterConfig `yaml:"filter"`
	}

	OutputConfig struct {
		Extension             string `yaml:"extension" validate:"required,startswith=."`
		NameTemplate          string `yaml:"name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
	}

	WatchConfig struct {
		Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Generator GeneratorConfig `yaml:"generator"`
		Output    OutputConfig    `yaml:"output"`
		Watch     WatchConfig     `yaml:"watch"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// checkRules makes sure every additional utility pattern compiles, so broken
// configuration is reported at start and not when the first file is rendered.
func checkRules(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	for i, r := range cfg.Generator.Filter.Rules {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			sl.ReportError(r.Pattern, fmt.Sprintf("Generator.Filter.Rules[%d].Pattern", i), "Pattern", "regexp", err.Error())
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkRules)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
