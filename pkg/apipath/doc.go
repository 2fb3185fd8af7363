/*
Package apipath holds the edit plan that moves a dev proxy's hardcoded /api/
routes under a configurable base path.

	+------------------+      +-----------------+      +-------------+
	| proxyConfigAPI.js| ---> |  Plan (7 steps) | ---> | patched file|
	+------------------+      +-----------------+      +-------------+

🎯 Steps, in order:
 1. insert-config-block: declare PROXY_API_BASE_PATH and apiPath() after the SESSION_FILE line
 2. rewrite-equality-checks: u.pathname === '/api/x' becomes u.pathname === apiPath('x')
 3. rewrite-prefix-checks: u.pathname.startsWith('/api/x') becomes startsWith(apiPath('x'))
 4. insert-config-route: add a GET /config branch above the protected routes marker
 5. rewrite-public-endpoints and rewrite-protected-paths: wrap both path arrays in apiPath()
 6. rewrite-debug-guard: the debug log guard tests PROXY_API_BASE_PATH instead of '/api/'

Every step works on plain text. A step whose anchor, marker or array block is
missing matches nothing and leaves the text as it was; callers inspect the
per-step match counts to find out.

The plan is not idempotent: the anchor line survives the first run, so a
second run inserts another config block. Use Plan.IsApplied to detect a file
that was already patched.

🔍 Example:

	plan, err := apipath.NewPlan(apipath.DefaultOptions())
	if err != nil {
		return err
	}
	result := plan.Pipeline().Apply(ctx, content)
	for _, step := range result.Unmatched() {
		log.Printf("step %s matched nothing", step.Name)
	}
*/
package apipath
