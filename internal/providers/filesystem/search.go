package filesystem

import (
	"context"

	"github.com/hafly/toolkit/internal/hostfs"
	"github.com/hafly/toolkit/internal/shared/types"
)

// SearchOps handles file search operations
type SearchOps struct {
	*FilesystemOps
}

// GetTools returns search operation tool definitions
func (s *SearchOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.find",
			Name:        "Find Files",
			Description: "Find files below a directory matching a glob pattern (supports **)",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory to search", Required: true},
				{Name: "pattern", Type: "string", Description: "Glob pattern (e.g. **/*.log)", Required: true},
				{Name: "limit", Type: "number", Description: "Maximum results (default: unlimited)", Required: false},
			},
			Returns: "array",
		},
	}
}

// Find searches a tree with a doublestar pattern
func (s *SearchOps) Find(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	root, err := s.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}
	pattern, err := types.GetString(params, "pattern", true)
	if err != nil {
		return types.Failure(err.Error())
	}
	limit, err := types.GetNumber(params, "limit", false)
	if err != nil {
		return types.Failure(err.Error())
	}

	matches, err := hostfs.Find(ctx, root, pattern)
	if err != nil {
		return types.Failure(err.Error())
	}

	out := make([]string, 0, len(matches))
	truncated := false
	for _, m := range matches {
		if s.denied(m) {
			continue
		}
		if limit > 0 && len(out) >= int(limit) {
			truncated = true
			break
		}
		out = append(out, s.display(m))
	}

	return types.Success(map[string]interface{}{
		"matches":   out,
		"count":     len(out),
		"truncated": truncated,
	})
}

// denied hides matches the policy would refuse to operate on
func (s *SearchOps) denied(path string) bool {
	_, err := s.Policy.Resolve(path)
	return err != nil
}
