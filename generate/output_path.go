package generate

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"skel/config"
	"skel/state"
)

// buildOutputPath names the skeleton file for a result under dst. Without
// name template "blocks/card.html.twig" becomes "blocks/card.scss" (or
// "card.scss" with --nodirs). Template expansion may add subdirectories,
// every produced segment is cleaned and optionally transliterated.
func buildOutputPath(res *Result, dst string, env *state.LocalEnv) string {
	dir := skeletonDir(res.Source, dst, env)

	if tmpl := env.Cfg.Output.NameTemplate; tmpl != "" {
		if name := expandOutputNameTemplate(res, env); name != "" {
			return skeletonPath(dir, name, env)
		}
	}
	return filepath.Join(dir, skeletonFileName(sourceBase(res.Source), env))
}

// skeletonDir mirrors relative directory of the source under dst unless
// --nodirs was requested.
func skeletonDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func skeletonFileName(base string, env *state.LocalEnv) string {
	return cleanPathSegment(base, env) + env.Cfg.Output.Extension
}

// expandOutputNameTemplate returns empty string when template could not be
// expanded, default name is used then.
func expandOutputNameTemplate(res *Result, env *state.LocalEnv) string {
	name, err := expandTemplate(res, config.OutputNameTemplateFieldName, env.Cfg.Output.NameTemplate)
	if err != nil {
		env.Named("generate").Warn("Unable to prepare skeleton file name", zap.String("source", res.Source), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(filepath.FromSlash(name))
}

// skeletonPath joins expanded template name (last segment is the file name,
// extension is appended) to dir.
func skeletonPath(dir, name string, env *state.LocalEnv) string {
	segments := splitPath(name)
	if len(segments) == 0 {
		return dir
	}

	last := len(segments) - 1
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dir)
	for _, s := range segments[:last] {
		parts = append(parts, cleanPathSegment(s, env))
	}
	parts = append(parts, skeletonFileName(segments[last], env))
	return filepath.Join(parts...)
}

// splitPath returns non empty path segments.
func splitPath(path string) []string {
	var segments []string
	for s := range strings.SplitSeq(path, string(filepath.Separator)) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
