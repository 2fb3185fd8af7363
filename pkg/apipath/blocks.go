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
	"fmt"
	"strings"
)

// AnchorLine is the statement the configuration block is inserted after
const AnchorLine = "const SESSION_FILE = path.join(ARTIFACTS_DIR, 'admin-session.json');"

// MarkerBlock opens the protected routes section; the config route goes right above it
const MarkerBlock = "    // ========================================\n" +
	"    // PROTECTED ROUTES - Require Authentication\n" +
	"    // ========================================"

// 📋 pathArray is one of the literal path arrays rewritten in place
type pathArray struct {
	Comment  string
	Name     string
	Elements []string // sub-paths, without the legacy prefix
}

var publicEndpoints = pathArray{
	Comment: "Public endpoints that don't require authentication",
	Name:    "publicEndpoints",
	Elements: []string{
		"ai/health",
		"ai/stats",
		"ai/thoughts",
		"overrides/conflicts",
	},
}

var protectedPaths = pathArray{
	Comment: "Protect all admin/management endpoints (except public ones)",
	Name:    "protectedPaths",
	Elements: []string{
		"apps/",
		"config/",
		"overrides/",
		"reports/",
		"ai/",
		"resolve-conflict",
		"rename-route",
	},
}

// render writes the array declaration with each element passed through format
func (a pathArray) render(format func(sub string) string) string {
	items := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		items[i] = "      " + format(e)
	}
	return "    // " + a.Comment + "\n" +
		"    const " + a.Name + " = [\n" +
		strings.Join(items, ",\n") + "\n" +
		"    ];"
}

// legacy renders the array as it appears before patching
func (a pathArray) legacy(o Options) string {
	return a.render(func(sub string) string {
		return "'" + o.LegacyPrefix + sub + "'"
	})
}

// patched renders the array with every element wrapped in the helper
func (a pathArray) patched(o Options) string {
	return a.render(func(sub string) string {
		return helperCall(o, sub)
	})
}

func helperCall(o Options, sub string) string {
	return fmt.Sprintf("%s('%s')", o.Helper, sub)
}

// configBlock is the base path declaration and helper inserted after AnchorLine
func configBlock(o Options) string {
	return "\n" +
		"// ========================================\n" +
		"// API BASE PATH CONFIGURATION\n" +
		"// Centralized configuration for API endpoint namespacing\n" +
		"// ========================================\n" +
		baseDeclaration(o) + " process.env." + o.EnvVar + " || '" + o.BasePath + "';\n" +
		"\n" +
		"// Helper to build API paths consistently\n" +
		"function " + o.Helper + "(path) {\n" +
		"  // Remove leading slash from path if present to avoid double slashes\n" +
		"  const cleanPath = path.startsWith('/') ? path.slice(1) : path;\n" +
		"  return `${" + o.EnvVar + "}/${cleanPath}`;\n" +
		"}\n"
}

// baseDeclaration is the start of the constant declaration, also used to detect a patched file
func baseDeclaration(o Options) string {
	return "const " + o.EnvVar + " ="
}

// routeBlock is the GET config branch inserted before MarkerBlock
func routeBlock(o Options) string {
	return "\n" +
		"    \n" +
		"    // GET " + o.Route + " - Public endpoint for frontend configuration\n" +
		"    // Returns API base path and other client configuration\n" +
		"    if (req.method === 'GET' && u.pathname === '" + o.Route + "'){\n" +
		"      return send(res, 200, {\n" +
		"        apiBasePath: " + o.EnvVar + ",\n" +
		"        version: '" + o.Version + "'\n" +
		"      });\n" +
		"    }\n" +
		"\n"
}

func legacyDebugGuard(o Options) string {
	return "if (u.pathname.startsWith('" + o.LegacyPrefix + "')) {"
}

func patchedDebugGuard(o Options) string {
	return "if (u.pathname.startsWith(" + o.EnvVar + ")) {"
}
