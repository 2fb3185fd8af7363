/*
Package status manages target files and tracks what happened to each of them.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Tracking|
	| (Storage) |           | (status)|
	+-----------+           +---------+

🎯 Purpose:
- Resolves target paths beneath a base directory, refusing paths that escape it
- Expands doublestar glob patterns into target files
- Reads targets and writes them back atomically (temp file + rename)
- Keeps optional .bak copies
- Records a FileStatus per target for reporting

📝 Design:
Everything that touches the disk lives here, so the operation package only
deals with text. Writes keep the original file mode.

🔍 Example:

	mgr, err := status.New(".")
	if err != nil {
		return err
	}
	content, mode, err := mgr.ReadFile(ctx, "utils/proxyConfigAPI.js")
	if err != nil {
		return err
	}
	err = mgr.WriteFileAtomic(ctx, "utils/proxyConfigAPI.js", patched, mode)
*/
package status
