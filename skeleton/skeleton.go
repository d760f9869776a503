// Package skeleton renders markup element trees into nested SCSS skeletons.
//
// Every element with structural (non utility) classes opens one selector block
// per class, children are nested inside. Classes derived from the nearest
// enclosing block use parent references:
//
//	<div class="card"><h2 class="card__title"></h2></div>
//
// becomes
//
//	.card {
//	  &__title {
//	  }
//
//	}
//
// Elements without structural classes are transparent: their children are
// rendered as if they were children of the enclosing element.
package skeleton

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"skel/bem"
	"skel/markup"
)

// EmptyPlaceholder is returned when no structural classes were found.
const EmptyPlaceholder = "/* No classes found (after filtering Bootstrap classes) */\n"

// ErrorPlaceholder returns text reported instead of a skeleton when markup
// could not be parsed or traversed.
func ErrorPlaceholder(msg string) string {
	return fmt.Sprintf("/* Error parsing: %s */\n", msg)
}

// Classifier tells utility classes from structural ones.
type Classifier interface {
	IsUtility(token string) bool
}

// DescendMode controls how children of elements with several structural
// classes are rendered.
type DescendMode int

const (
	// DescendEveryClass renders children inside the block of every structural
	// class of the element, so they are repeated once per class.
	DescendEveryClass DescendMode = iota
	// DescendFirstClass renders children only inside the block of the first
	// structural class, remaining classes get empty blocks.
	DescendFirstClass
)

// ParseDescendMode converts configuration value ("every" or "first").
func ParseDescendMode(s string) (DescendMode, error) {
	switch s {
	case "every", "":
		return DescendEveryClass, nil
	case "first":
		return DescendFirstClass, nil
	}
	return DescendEveryClass, fmt.Errorf("unknown descend mode %q", s)
}

// Renderer is stateless between calls and could be used concurrently.
type Renderer struct {
	filter  Classifier
	descend DescendMode
	log     *zap.Logger
}

type Option func(*Renderer)

func WithDescend(mode DescendMode) Option {
	return func(r *Renderer) {
		r.descend = mode
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates renderer using filter to drop utility classes.
func New(filter Classifier, opts ...Option) *Renderer {
	r := &Renderer{
		filter:  filter,
		descend: DescendEveryClass,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("skeleton")
	return r
}

// Generate parses markup and renders it. It never fails, problems are
// reported inside returned text.
func (r *Renderer) Generate(src io.Reader, p markup.Parser) string {
	doc, err := p.Parse(src)
	if err != nil {
		r.log.Debug("Unable to parse markup", zap.Error(err))
		return ErrorPlaceholder(err.Error())
	}
	return r.RenderDocument(doc)
}

// RenderDocument renders children of the document body (or document element,
// or the parse root, whichever is found first).
func (r *Renderer) RenderDocument(doc markup.Document) (out string) {
	defer func() {
		if p := recover(); p != nil {
			out = r.recovered(p)
		}
	}()
	return r.Render(markup.StartNode(doc))
}

// Render walks children of root, root itself is never examined for classes.
func (r *Renderer) Render(root markup.Node) (out string) {
	defer func() {
		if p := recover(); p != nil {
			out = r.recovered(p)
		}
	}()

	bw := &blockWriter{}
	for _, child := range root.Children() {
		r.walk(bw, child, "", 0)
	}

	out = bw.String()
	r.log.Debug("Skeleton rendered", zap.Int("blocks", bw.blocks), zap.Int("bytes", len(out)))
	if out == "" {
		return EmptyPlaceholder
	}
	return out
}

func (r *Renderer) recovered(p any) string {
	var msg string
	switch v := p.(type) {
	case error:
		msg = v.Error()
	default:
		msg = fmt.Sprint(v)
	}
	r.log.Warn("Markup traversal failed", zap.String("reason", msg))
	return ErrorPlaceholder(msg)
}

// walk renders node n. block is the base of the nearest enclosing structural
// class, empty at the top level.
func (r *Renderer) walk(bw *blockWriter, n markup.Node, block string, depth int) {
	classes := r.structural(markup.Classes(n))
	if len(classes) == 0 {
		for _, child := range n.Children() {
			r.walk(bw, child, block, depth)
		}
		return
	}

	for i, cls := range classes {
		bw.open(depth, bem.FormatSelector(cls, block))
		if i == 0 || r.descend == DescendEveryClass {
			base := bem.BlockBase(cls)
			for _, child := range n.Children() {
				r.walk(bw, child, base, depth+1)
			}
		}
		bw.close(depth)
	}
}

// structural drops utility classes and duplicates keeping the first occurrence.
func (r *Renderer) structural(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if r.filter.IsUtility(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
