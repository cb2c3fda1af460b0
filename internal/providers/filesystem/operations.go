package filesystem

import (
	"context"

	"github.com/hafly/toolkit/internal/shared/types"
)

// OperationsOps handles single-file copy, move and folder creation
type OperationsOps struct {
	*FilesystemOps
}

// GetTools returns file operation tool definitions
func (o *OperationsOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.copy",
			Name:        "Copy File",
			Description: "Copy a single file, creating missing parent directories",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source file", Required: true},
				{Name: "destination", Type: "string", Description: "Destination file", Required: true},
				{Name: "overwrite", Type: "boolean", Description: "Replace an existing destination (default: false)", Required: false},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.move",
			Name:        "Move File",
			Description: "Move or rename a single file, creating missing parent directories",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source file", Required: true},
				{Name: "destination", Type: "string", Description: "Destination file", Required: true},
				{Name: "overwrite", Type: "boolean", Description: "Replace an existing destination (default: false)", Required: false},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.dir.create",
			Name:        "Create Directory",
			Description: "Create a directory and its parents; existing directories are fine",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
			},
			Returns: "boolean",
		},
	}
}

// Copy copies one file
func (o *OperationsOps) Copy(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	return o.transfer(params, "copied", o.Host.Copy)
}

// Move renames one file
func (o *OperationsOps) Move(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	return o.transfer(params, "moved", o.Host.Move)
}

// CreateDir creates a directory tree
func (o *OperationsOps) CreateDir(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := o.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	if err := o.Host.CreateDir(path); err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"created": true,
		"path":    o.display(path),
	})
}

func (o *OperationsOps) transfer(params map[string]interface{}, verb string, fn func(from, to string, overwrite bool) error) (*types.Result, error) {
	source, err := o.path(params, "source")
	if err != nil {
		return types.Failure(err.Error())
	}
	destination, err := o.path(params, "destination")
	if err != nil {
		return types.Failure(err.Error())
	}
	overwrite := types.GetBool(params, "overwrite", false)

	if err := fn(source, destination, overwrite); err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		verb:          true,
		"source":      o.display(source),
		"destination": o.display(destination),
	})
}
