package apipath

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/proxypatch/pkg/text"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "reading testdata %s", name)
	return string(data)
}

// minimalTarget holds only the anchor line, the marker block and both arrays
func minimalTarget() string {
	o := DefaultOptions()
	return AnchorLine + "\n" +
		"\n" +
		MarkerBlock + "\n" +
		"\n" +
		publicEndpoints.legacy(o) + "\n" +
		"\n" +
		protectedPaths.legacy(o) + "\n"
}

func TestPlan_MatchesGolden(t *testing.T) {
	input := readTestdata(t, "proxyConfigAPI.js")
	want := readTestdata(t, "proxyConfigAPI.js.golden")

	result := DefaultPlan().Pipeline().Apply(context.Background(), input)

	assert.Equal(t, want, string(result.ModifiedContent))
	assert.True(t, result.WasModified)
	assert.Empty(t, result.Unmatched(), "every step should match the fixture")
}

func TestPlan_CRLFMatchesGolden(t *testing.T) {
	input := text.ToCRLF(readTestdata(t, "proxyConfigAPI.js"))
	want := text.ToCRLF(readTestdata(t, "proxyConfigAPI.js.golden"))

	result := DefaultPlan().Pipeline().Apply(context.Background(), input)

	assert.Equal(t, want, string(result.ModifiedContent))
	assert.Empty(t, result.Unmatched(), "every step should match the fixture")
	assert.NotRegexp(t, regexp.MustCompile(`[^\r]\n`), string(result.ModifiedContent), "line endings should stay CRLF")
}

func TestPlan_StepCounts(t *testing.T) {
	input := readTestdata(t, "proxyConfigAPI.js")

	result := DefaultPlan().Pipeline().Apply(context.Background(), input)

	got := map[string]int{}
	for _, s := range result.Steps {
		got[s.Name] = s.Matches
	}
	assert.Equal(t, map[string]int{
		StepInsertConfig:    1,
		StepEqualityChecks:  3,
		StepPrefixChecks:    2,
		StepInsertRoute:     1,
		StepPublicEndpoints: 1,
		StepProtectedPaths:  1,
		StepDebugGuard:      1,
	}, got)
}

func TestPlan_StepOrder(t *testing.T) {
	var names []string
	for _, s := range DefaultPlan().Steps() {
		names = append(names, s.Name())
		assert.NotEmpty(t, s.Description(), "step %s should describe itself", s.Name())
	}
	assert.Equal(t, []string{
		StepInsertConfig,
		StepEqualityChecks,
		StepPrefixChecks,
		StepInsertRoute,
		StepPublicEndpoints,
		StepProtectedPaths,
		StepDebugGuard,
	}, names)
}

func TestPlan_MinimalTarget(t *testing.T) {
	o := DefaultOptions()
	result := DefaultPlan().Pipeline().Apply(context.Background(), minimalTarget())
	out := string(result.ModifiedContent)

	// config block appears once, right after the anchor
	assert.Equal(t, 1, strings.Count(out, "API BASE PATH CONFIGURATION"))
	assert.True(t, strings.HasPrefix(out, AnchorLine+configBlock(o)), "config block should follow the anchor")

	// config route sits right before the marker
	assert.Contains(t, out, routeBlock(o)+MarkerBlock)
	assert.Equal(t, 1, strings.Count(out, "u.pathname === '/config'"))

	// both arrays rewritten
	assert.Contains(t, out, publicEndpoints.patched(o))
	assert.Contains(t, out, protectedPaths.patched(o))
	assert.NotContains(t, out, "'/api/")

	unmatched := result.Unmatched()
	names := make([]string, 0, len(unmatched))
	for _, s := range unmatched {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{StepEqualityChecks, StepPrefixChecks, StepDebugGuard}, names)
}

func TestPlan_NoRawLegacyChecksRemain(t *testing.T) {
	input := readTestdata(t, "proxyConfigAPI.js")
	out := string(DefaultPlan().Pipeline().Apply(context.Background(), input).ModifiedContent)

	assert.NotRegexp(t, regexp.MustCompile(`u\.pathname === '/api/[^']+'`), out)
	assert.NotRegexp(t, regexp.MustCompile(`u\.pathname\.startsWith\('/api/[^']+'\)`), out)

	// each literal check became a helper call over the de-prefixed path
	equality := regexp.MustCompile(`u\.pathname === '/api/([^']+)'`)
	for _, m := range equality.FindAllStringSubmatch(input, -1) {
		assert.Contains(t, out, "u.pathname === apiPath('"+m[1]+"')")
	}
	startsWith := regexp.MustCompile(`u\.pathname\.startsWith\('/api/([^']+)'\)`)
	for _, m := range startsWith.FindAllStringSubmatch(input, -1) {
		assert.Contains(t, out, "u.pathname.startsWith(apiPath('"+m[1]+"'))")
	}
}

func TestPlan_ArraysKeepCountAndOrder(t *testing.T) {
	o := DefaultOptions()
	for _, arr := range []pathArray{publicEndpoints, protectedPaths} {
		t.Run(arr.Name, func(t *testing.T) {
			out := string(DefaultPlan().Pipeline().Apply(context.Background(), arr.legacy(o)).ModifiedContent)

			calls := regexp.MustCompile(`apiPath\('([^']*)'\)`).FindAllStringSubmatch(out, -1)
			require.Len(t, calls, len(arr.Elements))
			for i, call := range calls {
				assert.Equal(t, arr.Elements[i], call[1], "element %d", i)
			}
		})
	}
}

func TestPlan_ReformattedArrayIsSkipped(t *testing.T) {
	o := DefaultOptions()
	reformatted := strings.ReplaceAll(publicEndpoints.legacy(o), "      '", "  '")

	result := DefaultPlan().Pipeline().Apply(context.Background(), reformatted)

	assert.Equal(t, reformatted, string(result.ModifiedContent))
	assert.False(t, result.WasModified)
}

func TestPlan_SecondRunDuplicatesConfigBlock(t *testing.T) {
	input := readTestdata(t, "proxyConfigAPI.js")
	want := readTestdata(t, "proxyConfigAPI.js.twice.golden")
	plan := DefaultPlan()

	once := plan.Pipeline().Apply(context.Background(), input)
	require.True(t, plan.IsApplied(string(once.ModifiedContent)))

	twice := plan.Pipeline().Apply(context.Background(), string(once.ModifiedContent))
	out := string(twice.ModifiedContent)

	// known defect of the raw plan: the anchor survives, so the block goes in again
	assert.Equal(t, 2, strings.Count(out, "API BASE PATH CONFIGURATION"))
	assert.Equal(t, want, out)
}

func TestPlan_IsApplied(t *testing.T) {
	plan := DefaultPlan()
	assert.False(t, plan.IsApplied(readTestdata(t, "proxyConfigAPI.js")))
	assert.True(t, plan.IsApplied(readTestdata(t, "proxyConfigAPI.js.golden")))
}

func TestPlan_CustomOptions(t *testing.T) {
	opts := Options{
		BasePath:     "/proxy/v2",
		EnvVar:       "DEVPROXY_BASE",
		Helper:       "route",
		LegacyPrefix: "/api/",
		Route:        "/client-config",
		Version:      "2.3.0",
	}
	plan, err := NewPlan(opts)
	require.NoError(t, err)

	out := string(plan.Pipeline().Apply(context.Background(), readTestdata(t, "proxyConfigAPI.js")).ModifiedContent)

	assert.Contains(t, out, "const DEVPROXY_BASE = process.env.DEVPROXY_BASE || '/proxy/v2';")
	assert.Contains(t, out, "function route(path) {")
	assert.Contains(t, out, "return `${DEVPROXY_BASE}/${cleanPath}`;")
	assert.Contains(t, out, "u.pathname === route('admin/login')")
	assert.Contains(t, out, "u.pathname.startsWith(route('apps/'))")
	assert.Contains(t, out, "u.pathname === '/client-config'")
	assert.Contains(t, out, "version: '2.3.0'")
	assert.Contains(t, out, "if (u.pathname.startsWith(DEVPROXY_BASE)) {")
	assert.Contains(t, out, "      route('rename-route')\n")
	assert.True(t, plan.IsApplied(out))
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(o *Options)
		wantError string
	}{
		{
			name:   "defaults",
			mutate: func(o *Options) {},
		},
		{
			name:      "relative_base_path",
			mutate:    func(o *Options) { o.BasePath = "devproxy/api" },
			wantError: "must start with /",
		},
		{
			name:      "quoted_base_path",
			mutate:    func(o *Options) { o.BasePath = "/dev'proxy" },
			wantError: "must not contain quotes",
		},
		{
			name:      "backslash_base_path",
			mutate:    func(o *Options) { o.BasePath = `/devproxy\api` },
			wantError: "backslashes",
		},
		{
			name:      "trailing_backslash_base_path",
			mutate:    func(o *Options) { o.BasePath = `/devproxy\` },
			wantError: "base_path",
		},
		{
			name:      "env_var_with_dash",
			mutate:    func(o *Options) { o.EnvVar = "PROXY-BASE" },
			wantError: "env_var",
		},
		{
			name:      "helper_with_dollar",
			mutate:    func(o *Options) { o.Helper = "$api" },
			wantError: "helper",
		},
		{
			name:      "prefix_without_trailing_slash",
			mutate:    func(o *Options) { o.LegacyPrefix = "/api" },
			wantError: "legacy_prefix",
		},
		{
			name:      "bare_slash_prefix",
			mutate:    func(o *Options) { o.LegacyPrefix = "/" },
			wantError: "legacy_prefix",
		},
		{
			name:      "backslash_prefix",
			mutate:    func(o *Options) { o.LegacyPrefix = `/a\pi/` },
			wantError: "legacy_prefix",
		},
		{
			name:      "relative_route",
			mutate:    func(o *Options) { o.Route = "config" },
			wantError: "route",
		},
		{
			name:      "backslash_route",
			mutate:    func(o *Options) { o.Route = `/config\` },
			wantError: "route",
		},
		{
			name:      "backslash_version",
			mutate:    func(o *Options) { o.Version = `1.0\'0` },
			wantError: "version",
		},
		{
			name:      "empty_version",
			mutate:    func(o *Options) { o.Version = "" },
			wantError: "version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)

			err := opts.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)

				_, err = NewPlan(opts)
				require.Error(t, err, "NewPlan should reject invalid options")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	got := Options{Helper: "route"}.WithDefaults()

	want := DefaultOptions()
	want.Helper = "route"
	assert.Equal(t, want, got)
}
