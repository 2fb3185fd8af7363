// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

// 🔖 StepKind tells how a step finds the text it rewrites
type StepKind int

const (
	KindLiteral StepKind = iota // exact substring match
	KindPattern                 // regular expression with capture groups
)

// String returns a string representation of StepKind
func (k StepKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// 🔄 Step is a single ordered text transformation
type Step interface {
	// Name identifies the step in logs and reports
	Name() string

	// Kind reports how the step matches
	Kind() StepKind

	// Description is a one line summary for humans
	Description() string

	// Apply rewrites content and returns the result with the number of matches.
	// A step that matches nothing returns content unchanged and zero.
	Apply(content string) (string, int)
}

// 📊 StepResult records what a single step did
type StepResult struct {
	Name    string
	Kind    StepKind
	Matches int
}

// Matched reports whether the step found anything to rewrite
func (r StepResult) Matched() bool {
	return r.Matches > 0
}

// 📦 ReplacementResult contains the results of running a pipeline
type ReplacementResult struct {
	// WasModified indicates if any step changed the content
	WasModified bool

	// ReplacementCount is the number of matches across all steps
	ReplacementCount int

	// OriginalContent is the content before any step ran
	OriginalContent []byte

	// ModifiedContent is the content after the last step
	ModifiedContent []byte

	// Steps holds one entry per step, in pipeline order
	Steps []StepResult
}

// Unmatched returns the steps that matched nothing
func (r *ReplacementResult) Unmatched() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if !s.Matched() {
			out = append(out, s)
		}
	}
	return out
}
