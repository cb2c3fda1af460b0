package files

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/hostfs"
	"github.com/hafly/toolkit/internal/pathpolicy"
	"github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/shared/id"
	"github.com/hafly/toolkit/internal/shared/types"
)

// ErrDownloadStatus is returned when the server answers outside 2xx.
var ErrDownloadStatus = errors.New("download failed")

// DefaultDownloadTimeout bounds a whole download.
const DefaultDownloadTimeout = 10 * time.Second

// Download describes a finished download
type Download struct {
	Path        string        `json:"path"`
	Size        int64         `json:"size"`
	Status      int           `json:"status"`
	ContentType string        `json:"content_type"`
	Duration    time.Duration `json:"duration"`
}

// DownloadsOps handles file downloads
type DownloadsOps struct {
	*client.HTTPOps
	Host    *hostfs.OS
	Policy  pathpolicy.Policy
	Timeout time.Duration
	Logger  *zap.Logger
}

// GetTools returns download tool definitions
func (d *DownloadsOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "http.download",
			Name:        "Download File",
			Description: "Download a URL to a local file; a failed download leaves nothing behind",
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "File URL", Required: true},
				{Name: "path", Type: "string", Description: "Save location (parents are created)", Required: true},
				{Name: "referer", Type: "string", Description: "Referer header", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "http.download_local",
			Name:        "Copy Local File",
			Description: "Copy a local file to a save location, replacing it",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Local source file", Required: true},
				{Name: "path", Type: "string", Description: "Save location", Required: true},
			},
			Returns: "object",
		},
	}
}

// Fetch streams remote into local. The body lands in a partial file
// next to local and is renamed into place only on a 2xx status.
func (d *DownloadsOps) Fetch(ctx context.Context, remote, local, referer, userAgent string) (*Download, error) {
	if remote == "" {
		return nil, client.ErrEmptyURL
	}
	if err := d.Host.CreateDir(filepath.Dir(local)); err != nil {
		return nil, err
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	partial := fmt.Sprintf("%s.%s.part", local, id.NewTransferID())
	resp, err := d.Client.Do(ctx, "download", http.MethodGet, remote, func(req *resty.Request) {
		req.SetOutput(partial)
		if referer != "" {
			req.SetHeader("Referer", referer)
		}
		if userAgent != "" {
			req.SetHeader("User-Agent", userAgent)
		}
	})
	if err != nil {
		d.discard(partial)
		return nil, err
	}
	if !resp.IsSuccess() {
		d.discard(partial)
		return nil, fmt.Errorf("%w: HTTP %d", ErrDownloadStatus, resp.StatusCode())
	}

	if err := d.Host.Move(partial, local, true); err != nil {
		d.discard(partial)
		return nil, err
	}

	info, err := os.Stat(local)
	if err != nil {
		return nil, err
	}
	return &Download{
		Path:        local,
		Size:        info.Size(),
		Status:      resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Duration:    resp.Time(),
	}, nil
}

// Download executes the http.download tool
func (d *DownloadsOps) Download(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	remote, err := types.GetString(params, "url", true)
	if err != nil {
		return types.Failure(err.Error())
	}
	local, err := d.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}
	referer, err := types.GetString(params, "referer", false)
	if err != nil {
		return types.Failure(err.Error())
	}
	userAgent := ""
	if appCtx != nil {
		userAgent = appCtx.UserAgent
	}

	dl, err := d.Fetch(ctx, remote, local, referer, userAgent)
	if err != nil {
		return types.Failure(fmt.Sprintf("download failed: %v", err))
	}

	return types.Success(map[string]interface{}{
		"downloaded":   true,
		"path":         d.Policy.Relative(dl.Path),
		"size":         dl.Size,
		"status":       dl.Status,
		"time_ms":      dl.Duration.Milliseconds(),
		"content_type": dl.ContentType,
	})
}

// CopyLocal executes the http.download_local tool
func (d *DownloadsOps) CopyLocal(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	source, err := d.path(params, "source")
	if err != nil {
		return types.Failure(err.Error())
	}
	local, err := d.path(params, "path")
	if err != nil {
		return types.Failure(err.Error())
	}

	if err := d.Host.Copy(source, local, true); err != nil {
		return types.Failure(fmt.Sprintf("copy failed: %v", err))
	}

	info, err := os.Stat(local)
	if err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{
		"copied": true,
		"path":   d.Policy.Relative(local),
		"size":   info.Size(),
	})
}

func (d *DownloadsOps) path(params map[string]interface{}, key string) (string, error) {
	raw, err := types.GetString(params, key, true)
	if err != nil {
		return "", err
	}
	return d.Policy.Resolve(raw)
}

func (d *DownloadsOps) discard(partial string) {
	if err := os.Remove(partial); err != nil && !errors.Is(err, os.ErrNotExist) && d.Logger != nil {
		d.Logger.Warn("partial download not removed", zap.String("path", partial), zap.Error(err))
	}
}
