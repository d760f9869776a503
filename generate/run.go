package generate

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"skel/archive"
	"skel/source"
	"skel/state"
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// Run is the "generate" command action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Named("generate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src != StdinName {
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
	}

	kind, err := ParseTarget(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output target requested, switching to stdout", zap.Error(err))
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 && (kind == TargetFile || kind == TargetPreview) {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if len(dst) > 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	if len(dst) > 0 && (kind == TargetStdout || kind == TargetClipboard) {
		log.Warn("Destination is ignored for selected output target", zap.String("destination", dst), zap.String("target", string(kind)))
	}
	if kind == TargetClipboard && !ClipboardAvailable() {
		return errors.New("clipboard is not supported on this system")
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	if env.Lang, err = parseForcedLanguage(cmd.String("lang")); err != nil {
		return err
	}
	env.CodePage = parseCodePage(cmd.String("charset"), log)

	pipe, err := NewPipeline(&env.Cfg.Generator, env.Lang, env.CodePage, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("target", string(kind)))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, pipe, src, dst, kind, log)
}

func parseForcedLanguage(s string) (source.Language, error) {
	if len(s) == 0 {
		return source.LangUnknown, nil
	}
	l, err := source.ParseLanguage(s)
	if err != nil {
		return source.LangUnknown, fmt.Errorf("bad --lang value: %w", err)
	}
	return l, nil
}

// parseCodePage resolves IANA character set name, unknown names are ignored
// and automatic detection is used instead.
func parseCodePage(cp string, log *zap.Logger) encoding.Encoding {
	if len(cp) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(cp)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully decoding all input", zap.String("charset", n))
	return enc
}

// process handles the core generation logic independently of CLI framework.
// It determines the input type (stdin, directory, archive, or single file) and
// processes accordingly.
func process(ctx context.Context, pipe *Pipeline, src, dst string, kind TargetKind, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	if src == StdinName {
		return withTarget(kind, dst, false, env, func(t Target) error {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("unable to read standard input: %w", err)
			}
			return processData(ctx, pipe, data, StdinName, t, log)
		})
	}

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return withTarget(kind, dst, true, env, func(t Target) error {
				if err := processDir(ctx, pipe, head, t, log); err != nil {
					return fmt.Errorf("unable to process directory: %w", err)
				}
				return nil
			})
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			multi := len(tail) == 0 || strings.HasSuffix(tail, "/") || !pipe.Accepts(tail)
			return withTarget(kind, dst, multi, env, func(t Target) error {
				if err := processArchive(ctx, pipe, head, tail, "", t, log); err != nil {
					return fmt.Errorf("unable to process archive: %w", err)
				}
				return nil
			})
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		// single file is always processed, unsupported input gets placeholder
		return withTarget(kind, dst, false, env, func(t Target) error {
			data, err := os.ReadFile(head)
			if err != nil {
				return fmt.Errorf("unable to read input: %w", err)
			}
			return processData(ctx, pipe, data, filepath.Base(head), t, log)
		})
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

func withTarget(kind TargetKind, dst string, multi bool, env *state.LocalEnv, fn func(Target) error) (err error) {
	target, err := NewTarget(kind, dst, multi, env)
	if err != nil {
		return err
	}
	defer closeTarget(target, &err)
	return fn(target)
}

func closeTarget(t Target, err *error) {
	if e := t.Close(); e != nil && *err == nil {
		*err = fmt.Errorf("unable to finalize output: %w", e)
	}
}

// processDir walks directory tree finding template files and processes them in
// natural order.
func processDir(ctx context.Context, pipe *Pipeline, dir string, target Target, log *zap.Logger) error {
	var files, archives []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".zip") {
			archives = append(archives, path)
			return nil
		}
		if pipe.Accepts(path) {
			files = append(files, path)
			return nil
		}
		log.Debug("Skipping file, not recognized as template or archive", zap.String("file", path))
		return nil
	})
	if err != nil {
		return err
	}

	if len(files) == 0 && len(archives) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}

	sort.Sort(natural.StringSlice(files))
	sort.Sort(natural.StringSlice(archives))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			continue
		}
		if err := processData(ctx, pipe, data, rel, target, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}

	for _, path := range archives {
		if err := ctx.Err(); err != nil {
			return err
		}
		isArchive, err := isArchiveFile(path)
		if err != nil || !isArchive {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		pathOut := filepath.Dir(strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator)))
		if err := processArchive(ctx, pipe, path, "", pathOut, target, log); err != nil {
			log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
		}
	}
	return nil
}

// processArchive walks all template files inside archive under "pathIn" and
// processes them. Results are named relative to "pathOut".
func processArchive(ctx context.Context, pipe *Pipeline, path, pathIn, pathOut string, target Target, log *zap.Logger) error {
	count := 0

	err := archive.Walk(path, pathIn, pipe.Accepts, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			return nil
		}

		name := decodeEntryName(ctx, f, log)
		if err := processData(ctx, pipe, data, filepath.Join(pathOut, filepath.FromSlash(name)), target, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("archive", path), zap.String("path", pathIn))
	}
	return err
}

// decodeEntryName applies forced code page to legacy (non UTF-8) entry names.
func decodeEntryName(ctx context.Context, f *zip.File, log *zap.Logger) string {
	cp := state.EnvFromContext(ctx).CodePage
	if cp == nil || !f.NonUTF8 {
		return f.Name
	}
	n, err := cp.NewDecoder().String(f.Name)
	if err != nil {
		name, _ := ianaindex.IANA.Name(cp)
		log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", name), zap.String("path", f.Name), zap.Error(err))
		return f.Name
	}
	return n
}

// processData renders single input. "src" is part of the source path (always
// including file name) relative to the original path.
func processData(ctx context.Context, pipe *Pipeline, data []byte, src string, target Target, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var res Result

	log.Debug("Generation starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Generation ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("from", src), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("generation panic: %v", r)
		} else {
			log.Debug("Generation completed", zap.Duration("elapsed", time.Since(start)), zap.String("from", src), zap.Bool("rendered", res.Rendered))
		}
	}(time.Now())

	res = pipe.Process(src, data)

	// Store generation result for debugging
	if env.Rpt != nil {
		id := uuid.NewString()
		env.Rpt.StoreData(fmt.Sprintf("result-%s%s", id, env.Cfg.Output.Extension), []byte(res.Text))
		if res.Rendered {
			env.Rpt.StoreData(fmt.Sprintf("outline-%s.txt", id), []byte(src+"\n"+pipe.Outline(data)))
		}
	}

	return target.Emit(&res)
}

// isArchiveFile sniffs file header.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, 262)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return source.IsArchive(buf[:n]), nil
}
