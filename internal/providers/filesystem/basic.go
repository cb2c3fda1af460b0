package filesystem

import (
	"context"
	"errors"

	"github.com/hafly/toolkit/internal/shared/types"
	"github.com/hafly/toolkit/internal/treeops"
)

// BasicOps handles basic file operations
type BasicOps struct {
	*FilesystemOps
}

// GetTools returns basic file operation tool definitions
func (b *BasicOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.read",
			Name:        "Read File",
			Description: "Read file contents",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.read_text",
			Name:        "Read Text",
			Description: "Read a text file, detecting its charset and decoding it to UTF-8",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.write",
			Name:        "Write File",
			Description: "Write data to file (overwrites existing, creates parents)",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
				{Name: "data", Type: "string", Description: "Data to write", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.append",
			Name:        "Append to File",
			Description: "Append text under an exclusive lock, creating the file when missing",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
				{Name: "data", Type: "string", Description: "Text to append", Required: true},
				{Name: "newline", Type: "boolean", Description: "Append a line ending (default: true)", Required: false},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.delete",
			Name:        "Delete File",
			Description: "Delete a single file",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File path", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.exists",
			Name:        "Path Exists",
			Description: "Check whether a file or directory exists",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Path to check", Required: true},
			},
			Returns: "object",
		},
	}
}

// Read returns the raw contents of a file
func (b *BasicOps) Read(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := b.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	data, err := b.Host.ReadFile(path)
	if err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"content": string(data),
		"size":    len(data),
	})
}

// ReadText returns file contents decoded to UTF-8
func (b *BasicOps) ReadText(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := b.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	text, err := b.Host.ReadText(path)
	if err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"content":    text.Content,
		"charset":    text.Charset,
		"confidence": text.Confidence,
	})
}

// Write replaces a file with data
func (b *BasicOps) Write(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := b.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}
	if _, ok := params["data"]; !ok {
		return types.Failure("data parameter required")
	}
	data, err := types.GetString(params, "data", false)
	if err != nil {
		return types.Failure(err.Error())
	}

	if err := b.Host.WriteFile(path, []byte(data)); err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"written": true,
		"path":    b.display(path),
		"size":    len(data),
	})
}

// Append adds text to the end of a file
func (b *BasicOps) Append(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := b.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}
	text, err := types.GetString(params, "data", false)
	if err != nil {
		return types.Failure(err.Error())
	}
	newline := types.GetBool(params, "newline", true)

	if err := b.Host.AppendFile(path, text, newline); err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"appended": true,
		"path":     b.display(path),
	})
}

// Delete removes a single file
func (b *BasicOps) Delete(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := b.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	if err := b.Host.Delete(path); err != nil {
		if errors.Is(err, treeops.ErrNotFound) {
			return types.FailureWith(err.Error(), map[string]interface{}{"deleted": false})
		}
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{"deleted": true})
}

// Exists reports whether a path exists and whether it is a directory
func (b *BasicOps) Exists(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := b.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"exists": b.Host.Exists(path),
		"is_dir": b.Host.IsDir(path),
	})
}
