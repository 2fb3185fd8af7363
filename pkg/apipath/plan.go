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

package apipath

import (
	"regexp"
	"strings"

	"github.com/walteh/proxypatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// Step names, in execution order
const (
	StepInsertConfig    = "insert-config-block"
	StepEqualityChecks  = "rewrite-equality-checks"
	StepPrefixChecks    = "rewrite-prefix-checks"
	StepInsertRoute     = "insert-config-route"
	StepPublicEndpoints = "rewrite-public-endpoints"
	StepProtectedPaths  = "rewrite-protected-paths"
	StepDebugGuard      = "rewrite-debug-guard"
)

// 🗺️ Plan is the ordered list of edits for one set of options
type Plan struct {
	options  Options
	pipeline *text.Pipeline
}

// NewPlan validates opts and builds the step list
func NewPlan(opts Options) (*Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}

	prefix := regexp.QuoteMeta(opts.LegacyPrefix)

	// prefix is quoted, so both expressions always compile
	equality := text.MustPattern(StepEqualityChecks,
		`u\.pathname === '`+prefix+`([^']+)'`,
		`u.pathname === `+opts.Helper+`('${1}')`)

	startsWith := text.MustPattern(StepPrefixChecks,
		`u\.pathname\.startsWith\('`+prefix+`([^']+)'\)`,
		`u.pathname.startsWith(`+opts.Helper+`('${1}'))`)

	pipeline := text.NewPipeline(
		text.InsertAfter(StepInsertConfig, AnchorLine, configBlock(opts)).
			WithDescription("declare "+opts.EnvVar+" and "+opts.Helper+"() after the SESSION_FILE line"),
		equality.
			WithDescription("u.pathname === '"+opts.LegacyPrefix+"x' -> "+helperCall(opts, "x")),
		startsWith.
			WithDescription("u.pathname.startsWith('"+opts.LegacyPrefix+"x') -> startsWith("+helperCall(opts, "x")+")"),
		text.InsertBefore(StepInsertRoute, MarkerBlock, routeBlock(opts)).
			WithDescription("add GET "+opts.Route+" before the protected routes section"),
		text.NewLiteral(StepPublicEndpoints, publicEndpoints.legacy(opts), publicEndpoints.patched(opts)).
			WithDescription("wrap the "+publicEndpoints.Name+" entries in "+opts.Helper+"()"),
		text.NewLiteral(StepProtectedPaths, protectedPaths.legacy(opts), protectedPaths.patched(opts)).
			WithDescription("wrap the "+protectedPaths.Name+" entries in "+opts.Helper+"()"),
		text.NewLiteral(StepDebugGuard, legacyDebugGuard(opts), patchedDebugGuard(opts)).
			WithDescription("debug logging guard checks "+opts.EnvVar+" instead of '"+opts.LegacyPrefix+"'"),
	)

	if err := pipeline.Validate(); err != nil {
		return nil, errors.Errorf("validating pipeline: %w", err)
	}

	return &Plan{options: opts, pipeline: pipeline}, nil
}

// DefaultPlan returns the plan for DefaultOptions
func DefaultPlan() *Plan {
	p, err := NewPlan(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return p
}

// Options returns the options the plan was built from
func (p *Plan) Options() Options {
	return p.options
}

// Pipeline returns the steps as a runnable pipeline
func (p *Plan) Pipeline() *text.Pipeline {
	return p.pipeline
}

// Steps returns the steps in execution order
func (p *Plan) Steps() []text.Step {
	return p.pipeline.Steps()
}

// IsApplied reports whether content already carries the base path declaration.
// Running the plan again on such content would insert a second config block.
func (p *Plan) IsApplied(content string) bool {
	return strings.Contains(content, baseDeclaration(p.options))
}
