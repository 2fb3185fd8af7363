package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineDiff(t *testing.T) {
	t.Run("identical_content", func(t *testing.T) {
		assert.Empty(t, LineDiff("a\nb\n", "a\nb\n"))
	})

	t.Run("changed_line", func(t *testing.T) {
		got := LineDiff("a\nb\nc\n", "a\nB\nc\n")
		assert.Contains(t, got, " a\n")
		assert.Contains(t, got, "-b\n")
		assert.Contains(t, got, "+B\n")
		assert.Contains(t, got, " c\n")
	})

	t.Run("inserted_block", func(t *testing.T) {
		got := LineDiff("anchor\nend\n", "anchor\nnew one\nnew two\nend\n")
		assert.Contains(t, got, "+new one\n")
		assert.Contains(t, got, "+new two\n")
		assert.NotContains(t, got, "-anchor")
	})

	t.Run("long_unchanged_runs_are_folded", func(t *testing.T) {
		var lines []string
		for i := 0; i < 20; i++ {
			lines = append(lines, "same")
		}
		before := strings.Join(lines, "\n") + "\nold\n" + strings.Join(lines, "\n") + "\n"
		after := strings.Join(lines, "\n") + "\nnew\n" + strings.Join(lines, "\n") + "\n"

		got := LineDiff(before, after)
		assert.Contains(t, got, "...\n")
		assert.Contains(t, got, "-old\n")
		assert.Contains(t, got, "+new\n")
		assert.Less(t, strings.Count(got, "same"), 10)
	})
}
