package interp_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/nanotpl/interp"
)

func TestNew_variable_mode_defaults(t *testing.T) {
	t.Parallel()

	en, err := interp.New(interp.Config{})
	require.NoError(t, err)

	cfg := en.Config()
	assert.Equal(t, "${", cfg.Start)
	assert.Equal(t, "}", cfg.End)
	assert.Equal(t, interp.DefaultVariablePath, cfg.PathPattern)
	assert.True(t, cfg.Warn())
	assert.False(t, cfg.Functions)
	assert.NotNil(t, cfg.Logger)
}

func TestNew_function_mode_defaults(t *testing.T) {
	t.Parallel()

	en, err := interp.New(interp.Config{Functions: true})
	require.NoError(t, err)

	cfg := en.Config()
	assert.Equal(t, "#{", cfg.Start)
	assert.Equal(t, "}", cfg.End)
	assert.Equal(t, interp.DefaultFunctionPath, cfg.PathPattern)
}

func TestNew_custom_start_keeps_default_end(t *testing.T) {
	t.Parallel()

	en, err := interp.New(interp.Config{
		Functions: true,
		Start:     "@{",
	})
	require.NoError(t, err)

	assert.Equal(t, "@{", en.Config().Start)
	assert.Equal(t, "}", en.Config().End)
}

func TestNew_bad_path_pattern(t *testing.T) {
	t.Parallel()

	_, err := interp.New(interp.Config{PathPattern: "[a-z"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building engine")

	assert.Panics(t, func() {
		interp.MustNew(interp.Config{PathPattern: "(("})
	})
}

func TestPattern_escapes_delimiters(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{Start: "$(", End: ")"})

	assert.Equal(
		t,
		`(?i)\$\(\s*(`+interp.DefaultVariablePath+`)\s*\)`,
		en.Pattern(),
	)
}

func TestScan_returns_tags_and_trimmed_tokens(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})

	got := en.Scan("a ${ x } b ${y.z}")

	require.Len(t, got, 2)
	assert.Equal(t, interp.Match{
		Tag: "${ x }", Token: "x", Start: 2, End: 8,
	}, got[0])
	assert.Equal(t, interp.Match{
		Tag: "${y.z}", Token: "y.z", Start: 11, End: 17,
	}, got[1])

	assert.Nil(t, en.Scan("nothing ${} here"))
}

func TestRender_basic_substitution(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})

	tests := []struct {
		name string
		tpl  string
		data map[string]any
		want string
	}{
		{
			name: "single",
			tpl:  "Hello ${name}!",
			data: map[string]any{"name": "Jane"},
			want: "Hello Jane!",
		},
		{
			name: "multiple",
			tpl:  "${greeting} ${name}!",
			data: map[string]any{"greeting": "Hi", "name": "Jane"},
			want: "Hi Jane!",
		},
		{
			name: "repeated",
			tpl:  "${x} and ${x}",
			data: map[string]any{"x": "ok"},
			want: "ok and ok",
		},
		{
			name: "no tokens",
			tpl:  "no vars here",
			data: map[string]any{},
			want: "no vars here",
		},
		{
			name: "empty template",
			tpl:  "",
			data: map[string]any{"x": 1},
			want: "",
		},
		{
			name: "adjacent",
			tpl:  "${a}${b}",
			data: map[string]any{"a": "1", "b": "2"},
			want: "12",
		},
		{
			name: "at start and end",
			tpl:  "${x}! say ${x}",
			data: map[string]any{"x": "hi"},
			want: "hi! say hi",
		},
		{
			name: "whitespace inside delimiters",
			tpl:  "${ name}|${name }|${ name }",
			data: map[string]any{"name": "Jane"},
			want: "Jane|Jane|Jane",
		},
		{
			name: "underscore and dollar names",
			tpl:  "${_private} ${$special}",
			data: map[string]any{"_private": "yes", "$special": "yes"},
			want: "yes yes",
		},
		{
			name: "empty delimiters are not a token",
			tpl:  "${}",
			data: map[string]any{},
			want: "${}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := en.Render(tt.tpl, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_nested_paths(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})

	got, err := en.Render("${user.name}", map[string]any{
		"user": map[string]any{"name": "Jane"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", got)

	got, err = en.Render("${a.b.c.d}", map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": map[string]any{"d": "deep"},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "deep", got)
}

func TestRender_falsy_values(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})

	got, err := en.Render(
		"${count} ${flag} ${empty}",
		map[string]any{"count": 0, "flag": false, "empty": ""},
	)
	require.NoError(t, err)
	assert.Equal(t, "0 false ", got)
}

func TestRender_nil_is_defined(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})

	got, err := en.Render("${v}", map[string]any{"v": nil})
	require.NoError(t, err)
	assert.Equal(t, "null", got)
}

func TestRender_strict_missing_segment(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})

	tests := []struct {
		name    string
		tpl     string
		data    map[string]any
		segment string
	}{
		{
			name:    "missing top level",
			tpl:     "${missing}",
			data:    map[string]any{},
			segment: "missing",
		},
		{
			name:    "missing nested",
			tpl:     "${user.name}",
			data:    map[string]any{"user": map[string]any{}},
			segment: "name",
		},
		{
			name: "through a scalar",
			tpl:  "${user.name.first}",
			data: map[string]any{
				"user": map[string]any{"name": "Jane"},
			},
			segment: "first",
		},
		{
			name: "through nil",
			tpl:  "${a.b.c}",
			data: map[string]any{
				"a": map[string]any{"b": nil},
			},
			segment: "c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := en.Render("x "+tt.tpl, tt.data)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.ErrorIs(t, err, interp.ErrUnresolved)

			var uv *interp.UnresolvedVariableError

			require.ErrorAs(t, err, &uv)
			assert.Equal(t, tt.segment, uv.Segment)
			assert.Equal(t, tt.tpl, uv.Tag)
			assert.Contains(t, err.Error(), tt.segment)
			assert.Contains(t, err.Error(), "missing")
		})
	}
}

func TestRender_lenient_pass_through(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{Lenient: true})

	tests := []struct {
		name string
		tpl  string
		data map[string]any
		want string
	}{
		{
			name: "missing top level",
			tpl:  "Hello ${name}!",
			data: map[string]any{},
			want: "Hello ${name}!",
		},
		{
			name: "missing nested",
			tpl:  "${user.name}",
			data: map[string]any{"user": map[string]any{}},
			want: "${user.name}",
		},
		{
			name: "through nil",
			tpl:  "${a.b.c}",
			data: map[string]any{"a": map[string]any{"b": nil}},
			want: "${a.b.c}",
		},
		{
			name: "through a scalar",
			tpl:  "${user.name.first}",
			data: map[string]any{
				"user": map[string]any{"name": "Jane"},
			},
			want: "${user.name.first}",
		},
		{
			name: "mixed",
			tpl:  "${found} ${ missing }",
			data: map[string]any{"found": "yes"},
			want: "yes ${ missing }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := en.Render(tt.tpl, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := en.Render(got, tt.data)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestRender_custom_delimiters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		start string
		end   string
		tpl   string
	}{
		{start: "{{", end: "}}", tpl: "Hello {{name}}!"},
		{start: "@#[", end: "]#", tpl: "Hello @#[name]#!"},
		{start: "$(", end: ")", tpl: "Hello $(name)!"},
		{start: "[", end: "]", tpl: "Hello [name]!"},
		{start: "%", end: "%", tpl: "Hello %name%!"},
		{start: "|", end: "|", tpl: "Hello |name|!"},
		{start: "${{", end: "}}", tpl: "Hello ${{ name }}!"},
		{start: `\`, end: `\`, tpl: `Hello \name\!`},
		{start: "^", end: "+", tpl: "Hello ^name+!"},
	}

	for _, tt := range tests {
		t.Run(tt.start+tt.end, func(t *testing.T) {
			t.Parallel()

			en := interp.MustNew(interp.Config{
				Start: tt.start,
				End:   tt.end,
			})

			got, err := en.Render(
				tt.tpl, map[string]any{"name": "Jane"},
			)
			require.NoError(t, err)
			assert.Equal(t, "Hello Jane!", got)
		})
	}
}

func TestRender_delimiters_match_literally(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{
		Start:   "[",
		End:     "]",
		Lenient: true,
	})

	// "[" must not act as a character class.
	got, err := en.Render("n] [name] (name)", map[string]any{
		"name": "Jane",
	})
	require.NoError(t, err)
	assert.Equal(t, "n] Jane (name)", got)

	dot := interp.MustNew(interp.Config{Start: ".", End: "."})

	got, err = dot.Render("x.a.y", map[string]any{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, "x1y", got)
}

func TestRender_delimiter_isolation(t *testing.T) {
	t.Parallel()

	dollar := interp.MustNew(interp.Config{})
	braces := interp.MustNew(interp.Config{Start: "{{", End: "}}"})

	got, err := dollar.Render(
		"${x} and {{y}}", map[string]any{"x": "A"},
	)
	require.NoError(t, err)
	assert.Equal(t, "A and {{y}}", got)

	got, err = braces.Render(got, map[string]any{"y": "B"})
	require.NoError(t, err)
	assert.Equal(t, "A and B", got)
}

func TestRender_case_sensitivity(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})

	got, err := en.Render("${Name}", map[string]any{"Name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", got)

	_, err = en.Render("${NAME}", map[string]any{"name": "Jane"})
	require.ErrorIs(t, err, interp.ErrUnresolved)
}

func TestRender_delimiters_ignore_case(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{Start: "<var:", End: ">"})

	got, err := en.Render(
		"<VAR:x> <Var:x>", map[string]any{"x": "1"},
	)
	require.NoError(t, err)
	assert.Equal(t, "1 1", got)
}

func TestRender_substitution_not_rescanned(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})

	got, err := en.Render("${a}", map[string]any{
		"a": "${b}",
		"b": "nope",
	})
	require.NoError(t, err)
	assert.Equal(t, "${b}", got)
}

func TestRender_custom_path_pattern(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{
		PathPattern: `[a-z][a-z\-.]*`,
	})

	got, err := en.Render(
		"${app.build-id}",
		map[string]any{
			"app": map[string]any{"build-id": "42"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestRender_concurrent_use(t *testing.T) {
	t.Parallel()

	en := interp.MustNew(interp.Config{})
	data := map[string]any{
		"user": map[string]any{"name": "Jane"},
	}

	var wg sync.WaitGroup

	errs := make(chan error, 32)

	for i := range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			want := fmt.Sprintf("%d:Jane", i)

			got, err := en.Render(
				fmt.Sprintf("%d:${user.name}", i), data,
			)
			if err != nil {
				errs <- err
				return
			}

			if got != want {
				errs <- errors.New(got + " != " + want)
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func FuzzRender(f *testing.F) {
	f.Add("Hello ${name}!")
	f.Add("${a}${b}")
	f.Add("no tags here")
	f.Add("${")
	f.Add("}")
	f.Add("${ key.sub }")
	f.Add("${${k}}")
	f.Add("")

	en := interp.MustNew(interp.Config{Lenient: true})

	f.Fuzz(func(t *testing.T, tpl string) {
		// Nothing resolves against an empty context, so
		// the template must come back unchanged.
		got, err := en.Render(tpl, map[string]any{})
		if err != nil {
			t.Fatalf("lenient render failed: %v", err)
		}

		if got != tpl {
			t.Fatalf("not passed through: %q -> %q", tpl, got)
		}
	})
}
