package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"skel/generate"
	"skel/source"
	"skel/state"
)

// Run is the "watch" command action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Named("watch")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if lang := cmd.String("lang"); len(lang) > 0 {
		if env.Lang, err = source.ParseLanguage(lang); err != nil {
			return fmt.Errorf("bad --lang value: %w", err)
		}
	}
	debounce := env.Cfg.Watch.Debounce
	if cmd.IsSet("debounce") {
		debounce = cmd.Duration("debounce")
	}
	if debounce < 0 {
		return fmt.Errorf("bad --debounce value: %s", debounce)
	}
	// results are replaced on every change
	env.Overwrite = true

	pipe, err := generate.NewPipeline(&env.Cfg.Generator, env.Lang, env.CodePage, log)
	if err != nil {
		return err
	}

	var target generate.Target
	if len(dst) == 0 {
		target = newConsoleTarget(os.Stdout)
	} else if target, err = generate.NewTarget(generate.TargetFile, dst, true, env); err != nil {
		return err
	}
	defer func() {
		if e := target.Close(); e != nil && err == nil {
			err = e
		}
	}()

	fw, err := NewFileWatcher(FileWatcherConfig{
		Path:       src,
		Debounce:   debounce,
		Accept:     pipe.Accepts,
		SkipHidden: true,
	}, log)
	if err != nil {
		return err
	}

	regen, err := NewRegenerator(pipe, src, target, log)
	if err != nil {
		return err
	}
	log.Info("Watching for changes", zap.String("source", src), zap.String("destination", dst), zap.Stringer("languages", pipe.Languages()))
	if regen.single {
		regen.Regenerate(src)
	}

	return fw.Watch(ctx, regen.Regenerate)
}

// Regenerator renders changed files and publishes results. Results of renders
// overtaken by newer changes of the same file are dropped.
type Regenerator struct {
	pipe   *generate.Pipeline
	root   string
	single bool
	target generate.Target
	seq    *sequencer
	log    *zap.Logger

	// serializes publishing
	mu sync.Mutex
}

// NewRegenerator prepares regeneration for watched path, file or directory.
// Result names are relative to the directory.
func NewRegenerator(pipe *generate.Pipeline, watched string, target generate.Target, log *zap.Logger) (*Regenerator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	info, err := os.Stat(watched)
	if err != nil {
		return nil, err
	}
	r := &Regenerator{
		pipe:   pipe,
		root:   watched,
		target: target,
		seq:    newSequencer(),
		log:    log,
	}
	if !info.IsDir() {
		r.root, r.single = filepath.Dir(watched), true
	}
	return r, nil
}

func (r *Regenerator) name(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return rel
}

// Regenerate renders file at path and publishes result unless a newer
// regeneration of the same file started meanwhile.
func (r *Regenerator) Regenerate(path string) {
	seq := r.seq.begin(path)
	name := r.name(path)

	var res generate.Result
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		res = generate.Result{Source: name, Text: source.NoInputPlaceholder}
	case err != nil:
		r.log.Error("Unable to read file", zap.String("file", path), zap.Error(err))
		return
	default:
		res = r.pipe.Process(name, data)
	}

	r.publish(path, seq, &res)
}

// publish emits result of regeneration number seq, stale results are dropped.
// Once the newest result for the path is out the path is forgotten.
func (r *Regenerator) publish(path string, seq uint64, res *generate.Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.seq.current(path, seq) {
		r.log.Debug("Stale result dropped", zap.String("file", path), zap.Uint64("seq", seq))
		return false
	}
	defer r.seq.done(path, seq)

	if err := r.target.Emit(res); err != nil {
		r.log.Error("Unable to publish result", zap.String("file", path), zap.Error(err))
		return false
	}
	r.log.Debug("Result published", zap.String("file", path), zap.Uint64("seq", seq), zap.Bool("rendered", res.Rendered))
	return true
}

// consoleTarget writes every result preceded by separator line.
type consoleTarget struct {
	w   io.Writer
	now func() time.Time
}

func newConsoleTarget(w io.Writer) *consoleTarget {
	return &consoleTarget{w: w, now: time.Now}
}

func (t *consoleTarget) Emit(res *generate.Result) error {
	_, err := fmt.Fprintf(t.w, "/* ==== %s @ %s ==== */\n%s\n", res.Source, t.now().Format(time.TimeOnly), res.Text)
	return err
}

func (t *consoleTarget) Close() error {
	return nil
}
