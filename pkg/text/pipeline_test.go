package text

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Apply(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		steps        []Step
		want         string
		wantCount    int
		wantMatches  []int
		wantModified bool
	}{
		{
			name:    "simple_replacement",
			content: "Hello World",
			steps: []Step{
				NewLiteral("world", "World", "Universe"),
			},
			want:         "Hello Universe",
			wantCount:    1,
			wantMatches:  []int{1},
			wantModified: true,
		},
		{
			name:    "literal_replaces_every_occurrence",
			content: "Hello World World",
			steps: []Step{
				NewLiteral("world", "World", "Universe"),
			},
			want:         "Hello Universe Universe",
			wantCount:    2,
			wantMatches:  []int{2},
			wantModified: true,
		},
		{
			name:    "steps_run_on_cumulative_output",
			content: "a",
			steps: []Step{
				NewLiteral("a_to_b", "a", "b"),
				NewLiteral("b_to_c", "b", "c"),
			},
			want:         "c",
			wantCount:    2,
			wantMatches:  []int{1, 1},
			wantModified: true,
		},
		{
			name:    "insert_after_first_anchor_only",
			content: "anchor;\nanchor;\n",
			steps: []Step{
				InsertAfter("insert", "anchor;", "\nblock"),
			},
			want:         "anchor;\nblock\nanchor;\n",
			wantCount:    1,
			wantMatches:  []int{1},
			wantModified: true,
		},
		{
			name:    "insert_before_marker",
			content: "top\n// MARKER\n",
			steps: []Step{
				InsertBefore("insert", "// MARKER", "inserted\n"),
			},
			want:         "top\ninserted\n// MARKER\n",
			wantCount:    1,
			wantMatches:  []int{1},
			wantModified: true,
		},
		{
			name:    "pattern_reinserts_group",
			content: "x === '/api/a' && x === '/api/b/c'",
			steps: []Step{
				MustPattern("eq", `x === '/api/([^']+)'`, `x === f('${1}')`),
			},
			want:         "x === f('a') && x === f('b/c')",
			wantCount:    2,
			wantMatches:  []int{2},
			wantModified: true,
		},
		{
			name:    "no_match_is_recorded",
			content: "Hello World",
			steps: []Step{
				NewLiteral("goodbye", "Goodbye", "Hi"),
				MustPattern("digits", `[0-9]+`, "#"),
			},
			want:         "Hello World",
			wantCount:    0,
			wantMatches:  []int{0, 0},
			wantModified: false,
		},
		{
			name:    "empty_content",
			content: "",
			steps: []Step{
				NewLiteral("world", "World", "Universe"),
			},
			want:         "",
			wantCount:    0,
			wantMatches:  []int{0},
			wantModified: false,
		},
		{
			name:    "crlf_content_matches_lf_steps",
			content: "a\r\nb\r\n",
			steps: []Step{
				NewLiteral("insert", "a\nb", "a\nc\nb"),
			},
			want:         "a\r\nc\r\nb\r\n",
			wantCount:    1,
			wantMatches:  []int{1},
			wantModified: true,
		},
		{
			name:    "crlf_content_without_match_is_untouched",
			content: "a\r\nb\rc",
			steps: []Step{
				NewLiteral("miss", "zzz", "y"),
			},
			want:         "a\r\nb\rc",
			wantCount:    0,
			wantMatches:  []int{0},
			wantModified: false,
		},
		{
			name:         "empty_steps",
			content:      "Hello World",
			steps:        []Step{},
			want:         "Hello World",
			wantCount:    0,
			wantMatches:  []int{},
			wantModified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := NewPipeline(tt.steps...)
			result := pipeline.Apply(context.Background(), tt.content)

			require.NotNil(t, result)
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)

			require.Len(t, result.Steps, len(tt.wantMatches))
			for i, want := range tt.wantMatches {
				assert.Equal(t, tt.steps[i].Name(), result.Steps[i].Name, "step %d name", i)
				assert.Equal(t, want, result.Steps[i].Matches, "step %d matches", i)
			}
		})
	}
}

func TestReplacementResult_Unmatched(t *testing.T) {
	result := NewPipeline(
		NewLiteral("hit", "a", "b"),
		NewLiteral("miss", "zzz", "y"),
	).Apply(context.Background(), "abc")

	unmatched := result.Unmatched()
	require.Len(t, unmatched, 1)
	assert.Equal(t, "miss", unmatched[0].Name)
	assert.Equal(t, KindLiteral, unmatched[0].Kind)
	assert.False(t, unmatched[0].Matched())
}

func TestPipeline_Validate(t *testing.T) {
	tests := []struct {
		name      string
		steps     []Step
		wantError string
	}{
		{
			name: "valid_steps",
			steps: []Step{
				NewLiteral("one", "foo", "bar"),
				MustPattern("two", "f(o+)", "${1}"),
			},
		},
		{
			name:      "missing_name",
			steps:     []Step{NewLiteral("", "foo", "bar")},
			wantError: "name is required",
		},
		{
			name: "duplicate_name",
			steps: []Step{
				NewLiteral("one", "foo", "bar"),
				NewLiteral("one", "baz", "qux"),
			},
			wantError: `name "one" already used by step 0`,
		},
		{
			name:      "missing_old_text",
			steps:     []Step{NewLiteral("one", "", "bar")},
			wantError: "old text is required",
		},
		{
			name:      "missing_pattern",
			steps:     []Step{&Pattern{StepName: "one"}},
			wantError: "pattern is required",
		},
		{
			name:  "empty_steps",
			steps: []Step{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPipeline(tt.steps...).Validate()

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestNewPattern_InvalidExpression(t *testing.T) {
	_, err := NewPattern("broken", "(unclosed", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `compiling pattern for step "broken"`)

	assert.Panics(t, func() {
		MustPattern("broken", "(unclosed", "")
	})
}

func TestLineEndings(t *testing.T) {
	assert.True(t, HasCRLF("a\r\nb"))
	assert.False(t, HasCRLF("a\nb\r"))
	assert.Equal(t, "a\nb\nc\n", NormalizeLF("a\r\nb\rc\n"))
	assert.Equal(t, "a\r\nb\r\nc\r\n", ToCRLF("a\nb\r\nc\r"))
}

func TestStepKind_String(t *testing.T) {
	assert.Equal(t, "literal", KindLiteral.String())
	assert.Equal(t, "pattern", KindPattern.String())
	assert.Equal(t, "unknown", StepKind(42).String())
}
