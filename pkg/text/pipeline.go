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
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Pipeline runs steps in order on the cumulative content
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new Pipeline
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the steps in execution order
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Apply runs every step on content. It never fails: a step that matches
// nothing is recorded with zero matches and the next step runs on the same text.
// Steps always see LF line endings; CRLF content is converted back afterwards.
func (p *Pipeline) Apply(ctx context.Context, content string) *ReplacementResult {
	logger := zerolog.Ctx(ctx)

	result := &ReplacementResult{
		OriginalContent: []byte(content),
		Steps:           make([]StepResult, 0, len(p.steps)),
	}

	crlf := HasCRLF(content)
	currentContent := content
	if crlf {
		logger.Debug().Msg("normalizing CRLF line endings")
		currentContent = NormalizeLF(content)
	}

	for _, step := range p.steps {
		newContent, matches := step.Apply(currentContent)

		if newContent != currentContent {
			result.WasModified = true
		}
		result.ReplacementCount += matches
		result.Steps = append(result.Steps, StepResult{
			Name:    step.Name(),
			Kind:    step.Kind(),
			Matches: matches,
		})

		logger.Debug().
			Str("step", step.Name()).
			Str("kind", step.Kind().String()).
			Int("matches", matches).
			Msg("applied step")

		currentContent = newContent
	}

	switch {
	case !result.WasModified:
		result.ModifiedContent = []byte(content)
	case crlf:
		result.ModifiedContent = []byte(ToCRLF(currentContent))
	default:
		result.ModifiedContent = []byte(currentContent)
	}
	return result
}

// Validate checks that every step can run and names are unique
func (p *Pipeline) Validate() error {
	seen := make(map[string]int, len(p.steps))
	for i, step := range p.steps {
		if step == nil {
			return errors.Errorf("step %d: step is nil", i)
		}
		if step.Name() == "" {
			return errors.Errorf("step %d: name is required", i)
		}
		if prev, ok := seen[step.Name()]; ok {
			return errors.Errorf("step %d: name %q already used by step %d", i, step.Name(), prev)
		}
		seen[step.Name()] = i

		switch s := step.(type) {
		case *Literal:
			if s.Old == "" {
				return errors.Errorf("step %d (%s): old text is required", i, s.StepName)
			}
		case *Pattern:
			if s.Regexp == nil {
				return errors.Errorf("step %d (%s): pattern is required", i, s.StepName)
			}
		}
	}
	return nil
}
