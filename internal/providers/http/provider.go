package http

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/hostfs"
	"github.com/hafly/toolkit/internal/pathpolicy"
	"github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/providers/http/config"
	"github.com/hafly/toolkit/internal/providers/http/files"
	"github.com/hafly/toolkit/internal/providers/http/requests"
	"github.com/hafly/toolkit/internal/shared/types"
)

// Provider exposes page fetches, downloads and client settings as tools
type Provider struct {
	requestsOps   *requests.RequestsOps
	downloadsOps  *files.DownloadsOps
	configOps     *config.ConfigOps
	connectionOps *config.ConnectionOps
	resilienceOps *config.ResilienceOps
}

// Options holds the collaborators shared by the HTTP modules
type Options struct {
	Client          *client.Client
	Host            *hostfs.OS
	Policy          pathpolicy.Policy
	DownloadTimeout time.Duration
	Logger          *zap.Logger
}

// NewProvider wires every module onto one client
func NewProvider(opts Options) *Provider {
	ops := &client.HTTPOps{Client: opts.Client}
	host := opts.Host
	if host == nil {
		host = hostfs.NewOS()
	}

	return &Provider{
		requestsOps: &requests.RequestsOps{HTTPOps: ops},
		downloadsOps: &files.DownloadsOps{
			HTTPOps: ops,
			Host:    host,
			Policy:  opts.Policy,
			Timeout: opts.DownloadTimeout,
			Logger:  opts.Logger,
		},
		configOps:     &config.ConfigOps{HTTPOps: ops},
		connectionOps: &config.ConnectionOps{HTTPOps: ops},
		resilienceOps: &config.ResilienceOps{HTTPOps: ops},
	}
}

// Definition returns service metadata with all module tools
func (h *Provider) Definition() types.Service {
	tools := []types.Tool{}
	tools = append(tools, h.requestsOps.GetTools()...)
	tools = append(tools, h.downloadsOps.GetTools()...)
	tools = append(tools, h.configOps.GetTools()...)
	tools = append(tools, h.connectionOps.GetTools()...)
	tools = append(tools, h.resilienceOps.GetTools()...)

	return types.Service{
		ID:          "http",
		Name:        "HTTP Service",
		Description: "Page fetches and downloads with retry, rate limiting and a circuit breaker",
		Category:    types.CategoryHTTP,
		Capabilities: []string{
			"fetch", "get", "post", "form", "redirects",
			"downloads", "atomic",
			"resilience", "retry", "rate-limiting", "circuit-breaker",
			"connection", "proxy", "ssl", "timeout", "headers",
		},
		Tools: tools,
	}
}

// Execute routes to appropriate module
func (h *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	// Requests
	case "http.fetch":
		return h.requestsOps.Fetch(ctx, params, appCtx)

	// Downloads
	case "http.download":
		return h.downloadsOps.Download(ctx, params, appCtx)
	case "http.download_local":
		return h.downloadsOps.CopyLocal(ctx, params, appCtx)

	// Config
	case "http.setHeader":
		return h.configOps.SetHeader(ctx, params, appCtx)
	case "http.getHeaders":
		return h.configOps.GetHeaders(ctx, params, appCtx)
	case "http.setTimeout":
		return h.configOps.SetTimeout(ctx, params, appCtx)

	// Connection
	case "http.setProxy":
		return h.connectionOps.SetProxy(ctx, params, appCtx)
	case "http.removeProxy":
		return h.connectionOps.RemoveProxy(ctx, params, appCtx)
	case "http.setVerifySSL":
		return h.connectionOps.SetVerifySSL(ctx, params, appCtx)

	// Resilience
	case "http.setRateLimit":
		return h.resilienceOps.SetRateLimit(ctx, params, appCtx)
	case "http.getRateLimit":
		return h.resilienceOps.GetRateLimit(ctx, params, appCtx)

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}
