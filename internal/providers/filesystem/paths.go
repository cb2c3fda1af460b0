package filesystem

import (
	"context"

	"github.com/hafly/toolkit/internal/hostfs"
	"github.com/hafly/toolkit/internal/shared/types"
)

// PathOps splits paths and URLs without touching the disk
type PathOps struct {
	*FilesystemOps
}

// GetTools returns path tool definitions
func (p *PathOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.path.info",
			Name:        "Path Info",
			Description: "Split a path into directory part, base name and suffix",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Path to split", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.url.clear_query",
			Name:        "Clear URL Query",
			Description: "Drop the query string from a URL",
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "URL", Required: true},
			},
			Returns: "string",
		},
	}
}

// Info splits a path. The input is purely textual, so no policy applies.
func (p *PathOps) Info(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := types.GetString(params, "path", true)
	if err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"dir":    hostfs.DirPart(path),
		"base":   hostfs.BaseName(path),
		"suffix": hostfs.Suffix(path),
	})
}

// ClearQuery strips the query from a URL
func (p *PathOps) ClearQuery(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	url, err := types.GetString(params, "url", true)
	if err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"url": hostfs.ClearURLQuery(url),
	})
}
