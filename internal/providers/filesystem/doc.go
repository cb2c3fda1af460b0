// Package filesystem exposes the directory tree engine and the host file
// helpers as "filesystem.*" tools.
//
// This package is organized into specialized modules:
//   - basic: read, read_text, write, append, delete, exists
//   - operations: single-file copy and move, directory creation
//   - directory: recursive copy, move, delete, clear and file listing
//   - archives: zip and tar archives through the engine
//   - metadata: file info and tree summaries
//   - search: doublestar glob search
//   - paths: path splitting and URL query removal
//
// Every caller-supplied path passes through the configured
// pathpolicy.Policy before reaching the disk, and results report paths
// relative to the policy root.
//
// Example Usage:
//
//	provider := filesystem.NewProvider(&filesystem.FilesystemOps{Engine: engine, Host: host})
//	result, err := provider.Execute(ctx, "filesystem.dir.copy", params, appCtx)
package filesystem
