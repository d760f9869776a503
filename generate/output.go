package generate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"skel/state"
)

// TargetKind names where results go.
type TargetKind string

const (
	TargetStdout    TargetKind = "stdout"
	TargetFile      TargetKind = "file"
	TargetClipboard TargetKind = "clipboard"
	TargetPreview   TargetKind = "preview"
)

// TargetNames lists known targets for help text.
func TargetNames() []string {
	return []string{string(TargetStdout), string(TargetFile), string(TargetClipboard), string(TargetPreview)}
}

func ParseTarget(s string) (TargetKind, error) {
	switch k := TargetKind(strings.ToLower(strings.TrimSpace(s))); k {
	case TargetStdout, TargetFile, TargetClipboard, TargetPreview:
		return k, nil
	case "":
		return TargetStdout, nil
	}
	return TargetStdout, fmt.Errorf("unknown output target %q", s)
}

// Target consumes results. Targets are not safe for concurrent use, Close
// must be called once after the last result.
type Target interface {
	Emit(res *Result) error
	Close() error
}

// NewTarget creates output target of requested kind. Multi tells target that
// more than a single result is expected so results need to be labeled.
func NewTarget(kind TargetKind, dst string, multi bool, env *state.LocalEnv) (Target, error) {
	switch kind {
	case TargetStdout:
		return &streamTarget{w: os.Stdout, headers: multi}, nil
	case TargetFile:
		return &fileTarget{dst: dst, env: env, log: env.Named("generate")}, nil
	case TargetClipboard:
		return &clipboardTarget{write: writeClipboard, headers: multi}, nil
	case TargetPreview:
		return &previewTarget{path: previewPath(dst), overwrite: env.Overwrite, log: env.Named("generate")}, nil
	}
	return nil, fmt.Errorf("unsupported output target %q", kind)
}

func header(res *Result) string {
	return fmt.Sprintf("/* %s */\n", res.Source)
}

// streamTarget writes results one after another to the stream.
type streamTarget struct {
	w       io.Writer
	headers bool
	count   int
}

func (t *streamTarget) Emit(res *Result) error {
	var b strings.Builder
	if t.count > 0 {
		b.WriteString("\n")
	}
	if t.headers {
		b.WriteString(header(res))
	}
	b.WriteString(res.Text)
	t.count++
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *streamTarget) Close() error {
	return nil
}

// fileTarget writes every result into its own file under destination
// directory.
type fileTarget struct {
	dst string
	env *state.LocalEnv
	log *zap.Logger
}

func (t *fileTarget) Emit(res *Result) error {
	outputName := buildOutputPath(res, t.dst, t.env)
	if err := prepareDestination(outputName, t.env.Overwrite, t.log); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, []byte(res.Text), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	t.log.Info("Skeleton written", zap.String("from", res.Source), zap.String("to", outputName))
	return nil
}

func (t *fileTarget) Close() error {
	return nil
}

// prepareDestination makes sure file could be created at path.
func prepareDestination(path string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", path)
		}
		log.Warn("Overwriting existing file", zap.String("file", path))
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
