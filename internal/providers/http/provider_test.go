package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/pathpolicy"
	"github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/shared/types"
)

func newProvider(t *testing.T, root string) *Provider {
	t.Helper()
	settings := client.DefaultSettings()
	settings.RetryMax = 0
	c, err := client.NewClient(settings)
	require.NoError(t, err)
	return NewProvider(Options{
		Client:          c,
		Policy:          pathpolicy.Policy{Root: root},
		DownloadTimeout: 2 * time.Second,
		Logger:          zap.NewNop(),
	})
}

func TestDefinition(t *testing.T) {
	def := newProvider(t, t.TempDir()).Definition()
	assert.Equal(t, "http", def.ID)
	assert.Equal(t, types.CategoryHTTP, def.Category)

	ids := map[string]bool{}
	for _, tool := range def.Tools {
		assert.False(t, ids[tool.ID], "duplicate tool %s", tool.ID)
		ids[tool.ID] = true
		assert.True(t, strings.HasPrefix(tool.ID, "http."), tool.ID)
	}
	for _, id := range []string{
		"http.fetch", "http.download", "http.download_local",
		"http.setHeader", "http.getHeaders", "http.setTimeout",
		"http.setProxy", "http.removeProxy", "http.setVerifySSL",
		"http.setRateLimit", "http.getRateLimit",
	} {
		assert.True(t, ids[id], "missing tool %s", id)
	}
}

func TestExecuteRoutesEveryTool(t *testing.T) {
	root := t.TempDir()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello " + r.Header.Get("X-Token")))
	}))
	t.Cleanup(server.Close)
	require.NoError(t, os.WriteFile(filepath.Join(root, "in.txt"), []byte("local"), 0o644))

	p := newProvider(t, root)
	ctx := context.Background()

	steps := []struct {
		tool   string
		params map[string]interface{}
		check  func(t *testing.T, r *types.Result)
	}{
		{tool: "http.setHeader", params: map[string]interface{}{"key": "X-Token", "value": "t1"}},
		{tool: "http.setTimeout", params: map[string]interface{}{"seconds": "5s"}},
		{tool: "http.setRateLimit", params: map[string]interface{}{"requests_per_second": 100.0}},
		{tool: "http.setProxy", params: map[string]interface{}{"proxy_url": "http://127.0.0.1:3128"}},
		{tool: "http.removeProxy", params: map[string]interface{}{}},
		{tool: "http.setVerifySSL", params: map[string]interface{}{"verify": true}},
		{
			tool:   "http.fetch",
			params: map[string]interface{}{"url": server.URL},
			check: func(t *testing.T, r *types.Result) {
				assert.Equal(t, "hello t1", r.Data["body"])
			},
		},
		{
			tool:   "http.download",
			params: map[string]interface{}{"url": server.URL, "path": "out/page.txt"},
			check: func(t *testing.T, r *types.Result) {
				data, err := os.ReadFile(filepath.Join(root, "out", "page.txt"))
				require.NoError(t, err)
				assert.Equal(t, "hello t1", string(data))
			},
		},
		{tool: "http.download_local", params: map[string]interface{}{"source": "in.txt", "path": "copy.txt"}},
		{
			tool: "http.getHeaders",
			check: func(t *testing.T, r *types.Result) {
				assert.Equal(t, 5.0, r.Data["timeout_seconds"])
				assert.Equal(t, "", r.Data["proxy"])
			},
		},
		{
			tool: "http.getRateLimit",
			check: func(t *testing.T, r *types.Result) {
				assert.Equal(t, 100.0, r.Data["requests_per_second"])
			},
		},
	}

	for _, step := range steps {
		t.Run(step.tool, func(t *testing.T) {
			result, err := p.Execute(ctx, step.tool, step.params, &types.Context{})
			require.NoError(t, err)
			require.True(t, result.Success, "tool %s failed", step.tool)
			if step.check != nil {
				step.check(t, result)
			}
		})
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	result, err := newProvider(t, t.TempDir()).Execute(context.Background(), "http.get", nil, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "unknown tool: http.get")
}
