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

	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultTarget is the file patched when nothing else is configured
	DefaultTarget = "utils/proxyConfigAPI.js"

	// SuccessMessage is printed once the patch has been written
	SuccessMessage = "Fixed all API paths"

	DefaultBasePath     = "/devproxy/api"
	DefaultEnvVar       = "PROXY_API_BASE_PATH"
	DefaultHelper       = "apiPath"
	DefaultLegacyPrefix = "/api/"
	DefaultRoute        = "/config"
	DefaultVersion      = "1.0.0"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// unsafeChars would end or escape a single quoted JavaScript string
const unsafeChars = "'\\\n"

// 🔧 Options parameterizes the generated JavaScript. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	// BasePath is the fallback base path baked into the config block
	BasePath string

	// EnvVar names both the JavaScript constant and the environment variable it reads
	EnvVar string

	// Helper is the name of the generated path-joining function
	Helper string

	// LegacyPrefix is the hardcoded prefix being replaced, with both slashes
	LegacyPrefix string

	// Route is the path answered by the inserted config endpoint
	Route string

	// Version is reported by the inserted config endpoint
	Version string
}

// DefaultOptions returns the options reproducing the stock patch
func DefaultOptions() Options {
	return Options{
		BasePath:     DefaultBasePath,
		EnvVar:       DefaultEnvVar,
		Helper:       DefaultHelper,
		LegacyPrefix: DefaultLegacyPrefix,
		Route:        DefaultRoute,
		Version:      DefaultVersion,
	}
}

// WithDefaults fills every empty field from DefaultOptions
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.BasePath == "" {
		o.BasePath = d.BasePath
	}
	if o.EnvVar == "" {
		o.EnvVar = d.EnvVar
	}
	if o.Helper == "" {
		o.Helper = d.Helper
	}
	if o.LegacyPrefix == "" {
		o.LegacyPrefix = d.LegacyPrefix
	}
	if o.Route == "" {
		o.Route = d.Route
	}
	if o.Version == "" {
		o.Version = d.Version
	}
	return o
}

// 🔍 Validate checks that the options produce well formed JavaScript
func (o Options) Validate() error {
	if !strings.HasPrefix(o.BasePath, "/") {
		return errors.Errorf("base_path %q must start with /", o.BasePath)
	}
	if strings.ContainsAny(o.BasePath, unsafeChars) {
		return errors.Errorf("base_path %q must not contain quotes, backslashes or newlines", o.BasePath)
	}
	if !identifierRe.MatchString(o.EnvVar) {
		return errors.Errorf("env_var %q is not a valid identifier", o.EnvVar)
	}
	if !identifierRe.MatchString(o.Helper) {
		return errors.Errorf("helper %q is not a valid identifier", o.Helper)
	}
	if len(o.LegacyPrefix) < 2 || !strings.HasPrefix(o.LegacyPrefix, "/") || !strings.HasSuffix(o.LegacyPrefix, "/") {
		return errors.Errorf("legacy_prefix %q must start and end with /", o.LegacyPrefix)
	}
	if strings.ContainsAny(o.LegacyPrefix, unsafeChars) {
		return errors.Errorf("legacy_prefix %q must not contain quotes, backslashes or newlines", o.LegacyPrefix)
	}
	if !strings.HasPrefix(o.Route, "/") || strings.ContainsAny(o.Route, unsafeChars) {
		return errors.Errorf("route %q must start with / and contain no quotes or backslashes", o.Route)
	}
	if o.Version == "" || strings.ContainsAny(o.Version, unsafeChars) {
		return errors.Errorf("version %q must be non-empty and contain no quotes or backslashes", o.Version)
	}
	return nil
}
