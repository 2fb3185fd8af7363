/*
Package config loads proxypatch settings from a file next to the project.

	            +-------------+
	            |   Config    |
	            +------+------+
	                   |
	   +--------+------+-----+--------+
	   |        |            |        |
	+--+---+ +--+--+     +---+--+ +---+--+
	| YAML | | HCL |     | TOML | | JSON |
	+------+ +-----+     +------+ +------+

The parser is picked from the file extension. Every format rejects keys it
does not know, so a misspelled setting fails loudly instead of being ignored.

🎯 Settings:

	root           directory every target is resolved under (default ".")
	targets        files or doublestar globs to patch (default utils/proxyConfigAPI.js)
	base_path      fallback base path baked into the config block
	env_var        constant and environment variable holding the base path
	helper         name of the generated path helper
	legacy_prefix  hardcoded prefix being replaced
	route          path answered by the inserted config endpoint
	version        version reported by the config endpoint
	backup         keep <target>.bak before writing
	async          patch targets concurrently
	concurrency    limit for async mode (default 4)

HCL files can read the environment:

	base_path = env.PROXY_API_BASE_PATH
	targets   = ["utils/*.js"]

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, config.DefaultFile, false)
	if err != nil {
		return err
	}
	plan, err := apipath.NewPlan(cfg.PlanOptions())
*/
package config
