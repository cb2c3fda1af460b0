package filesystem

import (
	"context"

	"github.com/hafly/toolkit/internal/hostfs"
	"github.com/hafly/toolkit/internal/shared/types"
	"github.com/hafly/toolkit/internal/treeops"
)

// ArchivesOps handles archive creation and extraction
type ArchivesOps struct {
	*FilesystemOps
}

// GetTools returns archive tool definitions
func (a *ArchivesOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.archive.create",
			Name:        "Create Archive",
			Description: "Archive every file below a directory (.zip, .tar, .tar.gz, .tgz, .tar.zst)",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Directory to archive", Required: true},
				{Name: "output", Type: "string", Description: "Archive file path; replaced if present", Required: true},
				{Name: "naming", Type: "string", Description: "Entry naming: flat, flat-strict or relative", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.archive.extract",
			Name:        "Extract Archive",
			Description: "Extract an archive into a directory, creating it when missing",
			Parameters: []types.Parameter{
				{Name: "archive", Type: "string", Description: "Archive file path", Required: true},
				{Name: "destination", Type: "string", Description: "Destination directory", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.archive.list",
			Name:        "List Archive",
			Description: "List archive members",
			Parameters: []types.Parameter{
				{Name: "archive", Type: "string", Description: "Archive file path", Required: true},
			},
			Returns: "array",
		},
	}
}

// Create builds an archive from a directory
func (a *ArchivesOps) Create(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	source, err := a.path(params, "source")
	if err != nil {
		return types.Failure(err.Error())
	}
	output, err := a.path(params, "output")
	if err != nil {
		return types.Failure(err.Error())
	}

	opts, err := a.archiverFor(output)
	if err != nil {
		return types.Failure(err.Error())
	}
	if raw, _ := types.GetString(params, "naming", false); raw != "" {
		naming, err := treeops.ParseNaming(raw)
		if err != nil {
			return types.Failure(err.Error())
		}
		opts = append(opts, treeops.WithNaming(naming))
	}

	engine := a.Engine.With(opts...)
	report, err := engine.CreateArchive(source, output)
	return a.treeResult("archive", report, err, map[string]interface{}{
		"source": a.display(source),
		"output": a.display(output),
		"naming": engine.Naming().String(),
	})
}

// Extract unpacks an archive
func (a *ArchivesOps) Extract(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	archive, err := a.path(params, "archive")
	if err != nil {
		return types.Failure(err.Error())
	}
	destination, err := a.path(params, "destination")
	if err != nil {
		return types.Failure(err.Error())
	}

	opts, err := a.archiverFor(archive)
	if err != nil {
		return types.Failure(err.Error())
	}

	report, err := a.Engine.With(opts...).ExtractArchive(archive, destination)
	return a.treeResult("extract", report, err, map[string]interface{}{
		"archive":     a.display(archive),
		"destination": a.display(destination),
	})
}

// List returns archive members
func (a *ArchivesOps) List(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	archive, err := a.path(params, "archive")
	if err != nil {
		return types.Failure(err.Error())
	}

	opts, err := a.archiverFor(archive)
	if err != nil {
		return types.Failure(err.Error())
	}

	entries, err := a.Engine.With(opts...).ListArchive(archive)
	if err != nil {
		return types.Failure(err.Error())
	}

	var totalSize int64
	members := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		members = append(members, map[string]interface{}{
			"name":   e.Name,
			"size":   e.Size,
			"is_dir": e.IsDir,
		})
		totalSize += e.Size
	}

	return types.Success(map[string]interface{}{
		"entries":    members,
		"count":      len(members),
		"total_size": totalSize,
	})
}

func (a *ArchivesOps) archiverFor(path string) ([]treeops.Option, error) {
	archiver, err := hostfs.ArchiverFor(path)
	if err != nil {
		return nil, err
	}
	return []treeops.Option{treeops.WithArchiver(archiver)}, nil
}
