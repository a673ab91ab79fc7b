package interp

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Match is one token found in a template.
type Match struct {
	// Tag is the matched text, delimiters included.
	Tag string

	// Token is the trimmed token body.
	Token string

	// Start and End are byte offsets of Tag.
	Start int
	End   int
}

// Engine renders templates for one Config. It is
// immutable once built.
type Engine struct {
	cfg      Config
	matcher  *regexp.Regexp
	resolver resolver
}

// New defaults cfg and compiles its matcher. Delimiters are
// literal text; only PathPattern is treated as a regexp,
// and a PathPattern that does not compile is the only
// error New returns.
func New(cfg Config) (*Engine, error) {
	const errCtx = "building engine"

	cfg = cfg.withDefaults()

	matcher, err := regexp.Compile(pattern(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var res resolver = variableResolver{}
	if cfg.Functions {
		res = functionResolver{}
	}

	return &Engine{
		cfg:      cfg,
		matcher:  matcher,
		resolver: res,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(cfg Config) *Engine {
	en, err := New(cfg)
	if err != nil {
		panic(err)
	}

	return en
}

// pattern builds the token matcher source:
// start, optional spaces, the captured path, optional
// spaces, end. Matching ignores case.
func pattern(cfg Config) string {
	return "(?i)" +
		regexp.QuoteMeta(cfg.Start) +
		`\s*(` + cfg.PathPattern + `)\s*` +
		regexp.QuoteMeta(cfg.End)
}

// Config returns the defaulted configuration.
func (en *Engine) Config() Config {
	return en.cfg
}

// Pattern returns the source of the compiled matcher.
func (en *Engine) Pattern() string {
	return en.matcher.String()
}

// Scan returns every non-overlapping token of tpl, left
// to right.
func (en *Engine) Scan(tpl string) []Match {
	locs := en.matcher.FindAllStringSubmatchIndex(tpl, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))

	for _, loc := range locs {
		matches = append(matches, Match{
			Tag:   tpl[loc[0]:loc[1]],
			Token: strings.TrimSpace(tpl[loc[2]:loc[3]]),
			Start: loc[0],
			End:   loc[1],
		})
	}

	return matches
}

// Render substitutes every token of tpl resolved against
// data. All tokens are found before any is replaced, so
// substituted text is never scanned again in this call.
//
// In strict mode the first unresolved token aborts the
// render with an *UnresolvedVariableError or a
// *MissingFunctionError. In lenient mode the token's
// original text is kept. Errors returned by callables are
// passed back unchanged.
func (en *Engine) Render(
	tpl string,
	data map[string]any,
) (string, error) {
	matches := en.Scan(tpl)
	if len(matches) == 0 {
		return tpl, nil
	}

	var sb strings.Builder

	sb.Grow(len(tpl))

	last := 0

	for _, ma := range matches {
		sb.WriteString(tpl[last:ma.Start])

		val, err := en.resolver.resolve(ma, data)
		if err != nil {
			if !en.cfg.Lenient || !errors.Is(err, ErrUnresolved) {
				return "", err
			}

			en.cfg.Logger.Debug(
				"passing through unresolved token",
				"tag", ma.Tag,
				"reason", err.Error(),
			)

			val = ma.Tag
		}

		sb.WriteString(val)

		last = ma.End
	}

	sb.WriteString(tpl[last:])

	return sb.String(), nil
}
