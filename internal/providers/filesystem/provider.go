package filesystem

import (
	"context"
	"fmt"

	"github.com/hafly/toolkit/internal/shared/types"
)

// Provider exposes the tree engine and host file operations as tools
type Provider struct {
	basicOps      *BasicOps
	operationsOps *OperationsOps
	directoryOps  *DirectoryOps
	archivesOps   *ArchivesOps
	metadataOps   *MetadataOps
	searchOps     *SearchOps
	pathOps       *PathOps
}

// NewProvider wires every ops group onto the shared collaborators
func NewProvider(ops *FilesystemOps) *Provider {
	return &Provider{
		basicOps:      &BasicOps{FilesystemOps: ops},
		operationsOps: &OperationsOps{FilesystemOps: ops},
		directoryOps:  &DirectoryOps{FilesystemOps: ops},
		archivesOps:   &ArchivesOps{FilesystemOps: ops},
		metadataOps:   &MetadataOps{FilesystemOps: ops},
		searchOps:     &SearchOps{FilesystemOps: ops},
		pathOps:       &PathOps{FilesystemOps: ops},
	}
}

// Definition returns service metadata with all module tools
func (p *Provider) Definition() types.Service {
	tools := []types.Tool{}
	tools = append(tools, p.basicOps.GetTools()...)
	tools = append(tools, p.operationsOps.GetTools()...)
	tools = append(tools, p.directoryOps.GetTools()...)
	tools = append(tools, p.archivesOps.GetTools()...)
	tools = append(tools, p.metadataOps.GetTools()...)
	tools = append(tools, p.searchOps.GetTools()...)
	tools = append(tools, p.pathOps.GetTools()...)

	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "Recursive directory tree operations, archives and single-file helpers",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read", "write", "append", "delete", "copy", "move",
			"tree", "recursive", "clear",
			"archive", "zip", "tar", "gzip", "zstd",
			"info", "mime", "charset", "summary", "glob",
		},
		Tools: tools,
	}
}

// Execute routes to appropriate module
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	// Basic operations
	case "filesystem.read":
		return p.basicOps.Read(ctx, params, appCtx)
	case "filesystem.read_text":
		return p.basicOps.ReadText(ctx, params, appCtx)
	case "filesystem.write":
		return p.basicOps.Write(ctx, params, appCtx)
	case "filesystem.append":
		return p.basicOps.Append(ctx, params, appCtx)
	case "filesystem.delete":
		return p.basicOps.Delete(ctx, params, appCtx)
	case "filesystem.exists":
		return p.basicOps.Exists(ctx, params, appCtx)

	// Single-file operations
	case "filesystem.copy":
		return p.operationsOps.Copy(ctx, params, appCtx)
	case "filesystem.move":
		return p.operationsOps.Move(ctx, params, appCtx)
	case "filesystem.dir.create":
		return p.operationsOps.CreateDir(ctx, params, appCtx)

	// Tree operations
	case "filesystem.dir.copy":
		return p.directoryOps.CopyTree(ctx, params, appCtx)
	case "filesystem.dir.move":
		return p.directoryOps.MoveTree(ctx, params, appCtx)
	case "filesystem.dir.delete":
		return p.directoryOps.DeleteTree(ctx, params, appCtx)
	case "filesystem.dir.clear":
		return p.directoryOps.ClearTree(ctx, params, appCtx)
	case "filesystem.dir.files":
		return p.directoryOps.ListFiles(ctx, params, appCtx)

	// Archive operations
	case "filesystem.archive.create":
		return p.archivesOps.Create(ctx, params, appCtx)
	case "filesystem.archive.extract":
		return p.archivesOps.Extract(ctx, params, appCtx)
	case "filesystem.archive.list":
		return p.archivesOps.List(ctx, params, appCtx)

	// Metadata and search
	case "filesystem.info":
		return p.metadataOps.Info(ctx, params, appCtx)
	case "filesystem.dir.summary":
		return p.metadataOps.Summary(ctx, params, appCtx)
	case "filesystem.find":
		return p.searchOps.Find(ctx, params, appCtx)

	// Path helpers
	case "filesystem.path.info":
		return p.pathOps.Info(ctx, params, appCtx)
	case "filesystem.url.clear_query":
		return p.pathOps.ClearQuery(ctx, params, appCtx)

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}
