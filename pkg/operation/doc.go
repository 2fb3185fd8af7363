/*
Package operation patches target files with an apipath plan.

	+----------------+        +------------------+
	| OperationRunner| -----> |  PatchOperation  |  one per target
	| (sync / async) |        +--------+---------+
	+----------------+                 |
	                     read -> guard -> apply -> backup -> write
	                                   |
	                         +---------+---------+
	                         |                   |
	                  status.Manager         log.Logger
	                 (files, outcome)    (warnings, rows)

🔄 Flow of a PatchOperation:
 1. Read the target through the status manager, keeping its permissions
 2. Skip it when it already carries the base path declaration, unless Force is set
 3. Run the pipeline; every step that matched nothing is a warning
 4. Stop here for DryRun, or when nothing changed
 5. Optionally back up, then write atomically
 6. Record the outcome with the status manager and the logger

Steps that match nothing never fail an operation. Only I/O errors do.

🔍 Example:

	op, err := operation.NewPatchOperation(operation.Options{
		Plan:   apipath.DefaultPlan(),
		Files:  files,
		Logger: logger,
		Target: apipath.DefaultTarget,
	})
	if err != nil {
		return err
	}
	err = operation.NewRunner(zerolog.Ctx(ctx), false, 0).Run(ctx, op)
*/
package operation
