package filesystem

import (
	"context"

	"github.com/hafly/toolkit/internal/shared/types"
)

// DirectoryOps exposes the recursive tree operations
type DirectoryOps struct {
	*FilesystemOps
}

// GetTools returns directory tool definitions
func (d *DirectoryOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.dir.copy",
			Name:        "Copy Directory",
			Description: "Recursively copy a directory; failed entries are reported and skipped",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source directory", Required: true},
				{Name: "destination", Type: "string", Description: "Destination directory", Required: true},
				{Name: "overwrite", Type: "boolean", Description: "Replace existing files (default: true)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.dir.move",
			Name:        "Move Directory",
			Description: "Copy a directory tree and then delete the source",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source directory", Required: true},
				{Name: "destination", Type: "string", Description: "Destination directory", Required: true},
				{Name: "overwrite", Type: "boolean", Description: "Replace existing files (default: true)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.dir.delete",
			Name:        "Delete Directory",
			Description: "Recursively delete a directory's contents and optionally the directory itself",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
				{Name: "delete_root", Type: "boolean", Description: "Remove the directory itself (default: true)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.dir.clear",
			Name:        "Clear Directory",
			Description: "Delete everything inside a directory, keeping the directory",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.dir.files",
			Name:        "List Tree Files",
			Description: "List every regular file below a directory, depth first",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
			},
			Returns: "array",
		},
	}
}

// CopyTree copies a directory tree
func (d *DirectoryOps) CopyTree(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	source, destination, err := d.pair(params)
	if err != nil {
		return types.Failure(err.Error())
	}
	overwrite := types.GetBool(params, "overwrite", true)

	report, err := d.Engine.CopyTree(source, destination, overwrite)
	return d.treeResult("copy", report, err, map[string]interface{}{
		"source":      d.display(source),
		"destination": d.display(destination),
	})
}

// MoveTree moves a directory tree
func (d *DirectoryOps) MoveTree(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	source, destination, err := d.pair(params)
	if err != nil {
		return types.Failure(err.Error())
	}
	overwrite := types.GetBool(params, "overwrite", true)

	report, err := d.Engine.MoveTree(source, destination, overwrite)
	return d.treeResult("move", report, err, map[string]interface{}{
		"source":      d.display(source),
		"destination": d.display(destination),
	})
}

// DeleteTree deletes a directory tree
func (d *DirectoryOps) DeleteTree(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := d.target(params)
	if err != nil {
		return types.Failure(err.Error())
	}
	deleteRoot := types.GetBool(params, "delete_root", true)

	report, err := d.Engine.DeleteTree(path, deleteRoot)
	return d.treeResult("delete", report, err, map[string]interface{}{
		"path":        d.display(path),
		"delete_root": deleteRoot,
	})
}

// ClearTree empties a directory
func (d *DirectoryOps) ClearTree(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := d.target(params)
	if err != nil {
		return types.Failure(err.Error())
	}

	report, err := d.Engine.ClearTree(path)
	return d.treeResult("clear", report, err, map[string]interface{}{
		"path": d.display(path),
	})
}

// ListFiles lists the files of a tree
func (d *DirectoryOps) ListFiles(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := d.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	files, err := d.Engine.ListTreeFiles(path)
	if err != nil {
		return types.Failure(err.Error())
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, d.display(f))
	}
	return types.Success(map[string]interface{}{
		"files": out,
		"count": len(out),
	})
}

func (d *DirectoryOps) pair(params map[string]interface{}) (string, string, error) {
	source, err := d.path(params, "source")
	if err != nil {
		return "", "", err
	}
	destination, err := d.path(params, "destination")
	if err != nil {
		return "", "", err
	}
	return source, destination, nil
}

// target passes "" and "." straight through so the engine refuses them
// instead of the policy widening them to the root.
func (d *DirectoryOps) target(params map[string]interface{}) (string, error) {
	raw, err := types.GetString(params, "path", false)
	if err != nil {
		return "", err
	}
	if raw == "" || raw == "." {
		return raw, nil
	}
	return d.Policy.Resolve(raw)
}
