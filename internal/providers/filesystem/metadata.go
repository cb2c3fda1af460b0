package filesystem

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/hostfs"
	"github.com/hafly/toolkit/internal/shared/types"
)

// MetadataOps handles file metadata operations
type MetadataOps struct {
	*FilesystemOps
}

// GetTools returns metadata operation tool definitions
func (m *MetadataOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.info",
			Name:        "File Info",
			Description: "Get file metadata including the sniffed MIME type",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "File or directory path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.dir.summary",
			Name:        "Directory Summary",
			Description: "Count files, directories and bytes below a directory",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Directory path", Required: true},
			},
			Returns: "object",
		},
	}
}

// Info returns metadata for a path
func (m *MetadataOps) Info(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := m.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.Failure(err.Error())
	}

	fi := FileInfo{
		Name:      info.Name(),
		Path:      m.display(path),
		Size:      info.Size(),
		IsDir:     info.IsDir(),
		Mode:      info.Mode().String(),
		Modified:  info.ModTime(),
		Extension: filepath.Ext(path),
	}
	if !info.IsDir() {
		if ft, err := hostfs.Detect(path); err == nil {
			fi.MIME = ft.MIME
		} else {
			m.logger().Debug("mime detection failed", zap.String("path", path), zap.Error(err))
		}
	}

	return types.Success(map[string]interface{}{
		"name":      fi.Name,
		"path":      fi.Path,
		"size":      fi.Size,
		"is_dir":    fi.IsDir,
		"mode":      fi.Mode,
		"modified":  fi.Modified.Unix(),
		"extension": fi.Extension,
		"mime":      fi.MIME,
	})
}

// Summary aggregates a directory tree
func (m *MetadataOps) Summary(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := m.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	summary, err := hostfs.Summarize(ctx, path)
	if err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(map[string]interface{}{
		"path":  m.display(path),
		"files": summary.Files,
		"dirs":  summary.Dirs,
		"bytes": summary.Bytes,
	})
}
