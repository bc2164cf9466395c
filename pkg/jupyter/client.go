// Package jupyter is a small client for the notebook server REST api: kernelspecs and
// contents, enough to create a scratch notebook bound to a kernel and clean it up.
package jupyter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// KernelSpec is a kernelspec as listed by /api/kernelspecs.
type KernelSpec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
}

// kernelSpecsResponse is the /api/kernelspecs payload.
type kernelSpecsResponse struct {
	Default     string `json:"default"`
	KernelSpecs map[string]struct {
		Name string `json:"name"`
		Spec struct {
			DisplayName string `json:"display_name"`
			Language    string `json:"language"`
		} `json:"spec"`
	} `json:"kernelspecs"`
}

// Client talks to a notebook server.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// New makes a client for the server at baseURL. token may be empty.
func New(baseURL, token string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	return &Client{baseURL: u, token: token, http: &http.Client{Timeout: 30 * time.Second}}, nil
}

// DashboardURL returns the tree (dashboard) page url.
func (c *Client) DashboardURL() string {
	return c.pageURL("tree")
}

// NotebookURL returns the page url of a notebook at path.
func (c *Client) NotebookURL(path string) string {
	return c.pageURL("notebooks/" + strings.TrimLeft(path, "/"))
}

// pageURL builds a browser url, passing the token as query parameter.
func (c *Client) pageURL(p string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + p
	if c.token != "" {
		q := u.Query()
		q.Set("token", c.token)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// KernelSpecs lists kernelspecs sorted by name.
func (c *Client) KernelSpecs(ctx context.Context) ([]KernelSpec, error) {
	var resp kernelSpecsResponse
	if err := c.do(ctx, http.MethodGet, "api/kernelspecs", nil, &resp); err != nil {
		return nil, fmt.Errorf("list kernelspecs: %w", err)
	}
	res := make([]KernelSpec, 0, len(resp.KernelSpecs))
	for name, ks := range resp.KernelSpecs {
		if ks.Name != "" {
			name = ks.Name
		}
		res = append(res, KernelSpec{Name: name, DisplayName: ks.Spec.DisplayName, Language: ks.Spec.Language})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

// ResolveKernel picks the kernelspec for prefix and suffix. a spec named exactly
// "prefix-suffix" wins, otherwise the first name (sorted) starting with "prefix-" and
// ending with "-suffix". empty prefix or suffix matches anything on that side.
func (c *Client) ResolveKernel(ctx context.Context, prefix, suffix string) (KernelSpec, error) {
	specs, err := c.KernelSpecs(ctx)
	if err != nil {
		return KernelSpec{}, err
	}
	return MatchKernel(specs, prefix, suffix)
}

// MatchKernel applies the ResolveKernel rule to a list of specs sorted by name.
func MatchKernel(specs []KernelSpec, prefix, suffix string) (KernelSpec, error) {
	exact := strings.Trim(prefix+"-"+suffix, "-")
	for _, ks := range specs {
		if ks.Name == exact {
			return ks, nil
		}
	}
	for _, ks := range specs {
		if prefix != "" && !strings.HasPrefix(ks.Name, prefix+"-") {
			continue
		}
		if suffix != "" && !strings.HasSuffix(ks.Name, "-"+suffix) {
			continue
		}
		return ks, nil
	}
	names := make([]string, 0, len(specs))
	for _, ks := range specs {
		names = append(names, ks.Name)
	}
	return KernelSpec{}, fmt.Errorf("no kernel matches prefix %q suffix %q, available: %s",
		prefix, suffix, strings.Join(names, ", "))
}

// notebookModel is the contents api model for a new notebook.
type notebookModel struct {
	Type    string          `json:"type"`
	Format  string          `json:"format"`
	Content notebookContent `json:"content"`
}

type notebookContent struct {
	Cells         []any            `json:"cells"`
	Metadata      notebookMetadata `json:"metadata"`
	NBFormat      int              `json:"nbformat"`
	NBFormatMinor int              `json:"nbformat_minor"`
}

type notebookMetadata struct {
	KernelSpec kernelSpecMeta `json:"kernelspec"`
}

type kernelSpecMeta struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language,omitempty"`
}

// CreateNotebook saves an empty nbformat 4 notebook at path whose metadata selects spec.
func (c *Client) CreateNotebook(ctx context.Context, path string, spec KernelSpec) error {
	model := notebookModel{
		Type:   "notebook",
		Format: "json",
		Content: notebookContent{
			Cells: []any{},
			Metadata: notebookMetadata{KernelSpec: kernelSpecMeta{
				Name: spec.Name, DisplayName: spec.DisplayName, Language: spec.Language,
			}},
			NBFormat:      4,
			NBFormatMinor: 2,
		},
	}
	if err := c.do(ctx, http.MethodPut, "api/contents/"+escapePath(path), model, nil); err != nil {
		return fmt.Errorf("create notebook %s: %w", path, err)
	}
	return nil
}

// DeleteNotebook removes the notebook at path.
func (c *Client) DeleteNotebook(ctx context.Context, path string) error {
	if err := c.do(ctx, http.MethodDelete, "api/contents/"+escapePath(path), nil, nil); err != nil {
		return fmt.Errorf("delete notebook %s: %w", path, err)
	}
	return nil
}

// do sends a json request to an api path and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, apiPath string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := strings.TrimRight(c.baseURL.String(), "/") + "/" + apiPath
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("make request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, apiPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, apiPath, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// escapePath escapes each segment of a contents path.
func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
