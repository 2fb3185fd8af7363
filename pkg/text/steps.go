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

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ✂️ Literal replaces an exact substring
type Literal struct {
	StepName string
	Summary  string

	// Old is the exact text to find
	Old string

	// New replaces Old
	New string

	// Once limits the step to the first occurrence
	Once bool
}

var _ Step = (*Literal)(nil)

// NewLiteral creates a step replacing every occurrence of old with replacement
func NewLiteral(name, old, replacement string) *Literal {
	return &Literal{StepName: name, Old: old, New: replacement}
}

// InsertAfter creates a step placing block right after the first occurrence of anchor
func InsertAfter(name, anchor, block string) *Literal {
	return &Literal{StepName: name, Old: anchor, New: anchor + block, Once: true}
}

// InsertBefore creates a step placing block right before every occurrence of marker
func InsertBefore(name, marker, block string) *Literal {
	return &Literal{StepName: name, Old: marker, New: block + marker}
}

func (l *Literal) Name() string        { return l.StepName }
func (l *Literal) Kind() StepKind      { return KindLiteral }
func (l *Literal) Description() string { return l.Summary }

// WithDescription sets the human summary and returns the step
func (l *Literal) WithDescription(summary string) *Literal {
	l.Summary = summary
	return l
}

func (l *Literal) Apply(content string) (string, int) {
	if l.Old == "" {
		return content, 0
	}

	count := strings.Count(content, l.Old)
	if count == 0 {
		return content, 0
	}

	if l.Once {
		return strings.Replace(content, l.Old, l.New, 1), 1
	}
	return strings.ReplaceAll(content, l.Old, l.New), count
}

// 🧩 Pattern substitutes every match of a regular expression.
// Template follows regexp.Expand syntax, so ${1} re-inserts the first group.
type Pattern struct {
	StepName string
	Summary  string
	Regexp   *regexp.Regexp
	Template string
}

var _ Step = (*Pattern)(nil)

// NewPattern compiles expr and creates a global substitution step
func NewPattern(name, expr, template string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling pattern for step %q: %w", name, err)
	}
	return &Pattern{StepName: name, Regexp: re, Template: template}, nil
}

// MustPattern is like NewPattern but panics on a bad expression
func MustPattern(name, expr, template string) *Pattern {
	p, err := NewPattern(name, expr, template)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) Name() string        { return p.StepName }
func (p *Pattern) Kind() StepKind      { return KindPattern }
func (p *Pattern) Description() string { return p.Summary }

// WithDescription sets the human summary and returns the step
func (p *Pattern) WithDescription(summary string) *Pattern {
	p.Summary = summary
	return p
}

func (p *Pattern) Apply(content string) (string, int) {
	if p.Regexp == nil {
		return content, 0
	}

	matches := p.Regexp.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}
	return p.Regexp.ReplaceAllString(content, p.Template), len(matches)
}
