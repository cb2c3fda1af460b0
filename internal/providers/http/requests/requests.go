package requests

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/shared/types"
)

// Options shapes a Fetch call. The request is a POST when Post or Form
// is set, otherwise a GET.
type Options struct {
	// Post is sent as the raw request body.
	Post []byte
	// Form is sent urlencoded; it wins over Post.
	Form      map[string]string
	Query     map[string]string
	Referer   string
	Cookie    string
	Headers   map[string]string
	UserAgent string
}

func (o Options) method() string {
	if o.Post != nil || o.Form != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

// Fetch retrieves url. Any status is returned with its body; only
// transport failures and an empty url are errors.
func Fetch(ctx context.Context, c *client.Client, url string, opts Options) (*resty.Response, error) {
	return c.Do(ctx, "fetch", opts.method(), url, func(req *resty.Request) {
		for k, v := range opts.Headers {
			req.SetHeader(k, v)
		}
		if opts.UserAgent != "" {
			req.SetHeader("User-Agent", opts.UserAgent)
		}
		if opts.Referer != "" {
			req.SetHeader("Referer", opts.Referer)
		}
		if opts.Cookie != "" {
			req.SetHeader("Cookie", opts.Cookie)
		}
		if len(opts.Query) > 0 {
			req.SetQueryParams(opts.Query)
		}
		switch {
		case opts.Form != nil:
			req.SetFormData(opts.Form)
		case opts.Post != nil:
			// curl labels raw post fields as a form
			if req.Header.Get("Content-Type") == "" {
				req.SetHeader("Content-Type", "application/x-www-form-urlencoded")
			}
			req.SetBody(opts.Post)
		}
	})
}

// RequestsOps handles page fetches
type RequestsOps struct {
	*client.HTTPOps
}

// GetTools returns request tool definitions
func (r *RequestsOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "http.fetch",
			Name:        "Fetch URL",
			Description: "Fetch a URL, following redirects. POSTs when post is given; non-2xx responses are returned with their body",
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "Request URL", Required: true},
				{Name: "post", Type: "any", Description: "POST body: string sent raw, object sent as form data", Required: false},
				{Name: "query", Type: "object", Description: "Query parameters", Required: false},
				{Name: "referer", Type: "string", Description: "Referer header", Required: false},
				{Name: "cookie", Type: "string", Description: "Cookie header", Required: false},
				{Name: "headers", Type: "any", Description: "Headers as an object or a list of \"Name: value\" lines", Required: false},
				{Name: "user_agent", Type: "string", Description: "User agent; defaults to the caller's, then the client's", Required: false},
			},
			Returns: "object",
		},
	}
}

// Fetch executes the http.fetch tool
func (r *RequestsOps) Fetch(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	url, err := types.GetString(params, "url", true)
	if err != nil {
		return types.Failure(err.Error())
	}

	opts, err := OptionsFromParams(params)
	if err != nil {
		return types.Failure(err.Error())
	}
	if opts.UserAgent == "" && appCtx != nil {
		opts.UserAgent = appCtx.UserAgent
	}

	resp, err := Fetch(ctx, r.Client, url, opts)
	if err != nil {
		return types.Failure(fmt.Sprintf("request failed: %v", err))
	}

	data := client.ResponseToMap(resp)
	data["method"] = opts.method()
	return types.Success(data)
}

// OptionsFromParams reads fetch options from tool parameters
func OptionsFromParams(params map[string]interface{}) (Options, error) {
	var opts Options

	switch post := params["post"].(type) {
	case nil:
	case string:
		opts.Post = []byte(post)
	case map[string]interface{}:
		opts.Form = stringMap(post)
	default:
		return opts, fmt.Errorf("post must be string or object")
	}

	headers, err := ParseHeaders(params["headers"])
	if err != nil {
		return opts, err
	}
	opts.Headers = headers
	opts.Query = stringMap(types.GetMap(params, "query"))

	for key, dst := range map[string]*string{
		"referer":    &opts.Referer,
		"cookie":     &opts.Cookie,
		"user_agent": &opts.UserAgent,
	} {
		v, err := types.GetString(params, key, false)
		if err != nil {
			return opts, err
		}
		*dst = v
	}
	return opts, nil
}

// ParseHeaders accepts an object or a list of "Name: value" lines
func ParseHeaders(v interface{}) (map[string]string, error) {
	switch h := v.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return stringMap(h), nil
	case map[string]string:
		return h, nil
	case []string:
		return parseLines(h)
	case []interface{}:
		lines := make([]string, 0, len(h))
		for _, item := range h {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("header lines must be strings")
			}
			lines = append(lines, s)
		}
		return parseLines(lines)
	default:
		return nil, fmt.Errorf("headers must be object or list")
	}
}

func parseLines(lines []string) (map[string]string, error) {
	out := make(map[string]string, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed header line %q", line)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

func stringMap(m map[string]interface{}) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}
