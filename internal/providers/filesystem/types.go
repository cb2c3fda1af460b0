package filesystem

import (
	"time"

	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/hostfs"
	"github.com/hafly/toolkit/internal/infrastructure/monitoring"
	"github.com/hafly/toolkit/internal/pathpolicy"
	"github.com/hafly/toolkit/internal/shared/types"
	"github.com/hafly/toolkit/internal/treeops"
)

// FileInfo represents file metadata
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	IsDir     bool      `json:"is_dir"`
	Mode      string    `json:"mode"`
	Modified  time.Time `json:"modified"`
	Extension string    `json:"extension,omitempty"`
	MIME      string    `json:"mime,omitempty"`
}

// FilesystemOps carries the collaborators shared by every ops group
type FilesystemOps struct {
	Engine  *treeops.Engine
	Host    *hostfs.OS
	Policy  pathpolicy.Policy
	Logger  *zap.Logger
	Metrics *monitoring.Metrics
}

// path reads a required path parameter and applies the policy
func (ops *FilesystemOps) path(params map[string]interface{}, key string) (string, error) {
	raw, err := types.GetString(params, key, true)
	if err != nil {
		return "", err
	}
	return ops.Policy.Resolve(raw)
}

// display maps a resolved path back to what the caller sees
func (ops *FilesystemOps) display(resolved string) string {
	return ops.Policy.Relative(resolved)
}

// treeResult turns an engine report into a tool result and records it
func (ops *FilesystemOps) treeResult(op string, report *treeops.Report, err error, data map[string]interface{}) (*types.Result, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	if report != nil {
		data["processed"] = report.Processed
		data["failures"] = report.Messages()
		if ops.Metrics != nil {
			ops.Metrics.RecordTree(op, report.Processed, len(report.Failures))
		}
		if len(report.Failures) > 0 {
			ops.logger().Warn("tree operation finished with failures",
				zap.String("operation", op),
				zap.Int("processed", report.Processed),
				zap.Int("failed", len(report.Failures)))
		}
	}

	if err != nil {
		return types.FailureWith(err.Error(), data)
	}
	data["ok"] = report == nil || report.OK()
	return types.Success(data)
}

func (ops *FilesystemOps) logger() *zap.Logger {
	if ops.Logger == nil {
		return zap.NewNop()
	}
	return ops.Logger
}
