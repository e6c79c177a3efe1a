// Package comfy talks to a ComfyUI-compatible generation server: capability
// schemas, catalog listings, workflow retrieval, and prompt submission. The
// classification core never depends on this package being reachable; every
// consumer treats failures as absence.
package comfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ravi-parthasarathy/retune/pkg/fields"
)

const defaultRequestTimeout = 30 * time.Second

// Client is an HTTP client for one server instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL (e.g. "http://127.0.0.1:8188").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Workflow retrieves a stored workflow document by name, byte-for-byte as
// the server holds it. No canonicalization happens here.
func (c *Client) Workflow(ctx context.Context, name string) ([]byte, error) {
	path := "/userdata/" + url.PathEscape("workflows/"+name)
	return c.get(ctx, path)
}

// ObjectInfo fetches the server's full capability listing and converts it to
// a classification schema.
func (c *Client) ObjectInfo(ctx context.Context) (fields.Schema, error) {
	body, err := c.get(ctx, "/object_info")
	if err != nil {
		return nil, err
	}
	return parseObjectInfo(body), nil
}

// NodeSchema fetches the capability listing for a single declared node type.
func (c *Client) NodeSchema(ctx context.Context, declaredType string) (map[string]fields.SchemaField, error) {
	body, err := c.get(ctx, "/object_info/"+url.PathEscape(declaredType))
	if err != nil {
		return nil, err
	}
	schema := parseObjectInfo(body)
	return schema[declaredType], nil
}

// catalogSources maps a catalog name to the loader node whose published
// enumeration lists that catalog's files.
var catalogSources = map[string]struct{ class, field string }{
	"checkpoints":      {"CheckpointLoaderSimple", "ckpt_name"},
	"loras":            {"LoraLoader", "lora_name"},
	"vae":              {"VAELoader", "vae_name"},
	"diffusion_models": {"UNETLoader", "unet_name"},
	"text_encoders":    {"DualCLIPLoader", "clip_name1"},
	"input":            {"LoadImage", "image"},
}

// List returns the file names of one catalog via the matching loader node's
// published enumeration.
func (c *Client) List(ctx context.Context, catalog string) ([]string, error) {
	src, ok := catalogSources[catalog]
	if !ok {
		return nil, fmt.Errorf("no catalog source for %q", catalog)
	}
	meta, err := c.NodeSchema(ctx, src.class)
	if err != nil {
		return nil, err
	}
	return meta[src.field].Options, nil
}

// Submit queues a named-encoding document for execution and returns the
// server-assigned prompt ID. The document is passed through opaquely.
func (c *Client) Submit(ctx context.Context, doc []byte, clientID string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"prompt":    json.RawMessage(doc),
		"client_id": clientID,
	})
	if err != nil {
		return "", fmt.Errorf("submit: encode payload: %w", err)
	}
	body, err := c.post(ctx, "/prompt", payload)
	if err != nil {
		return "", err
	}
	id := gjson.GetBytes(body, "prompt_id").String()
	if id == "" {
		return "", fmt.Errorf("submit: server returned no prompt_id")
	}
	return id, nil
}

// ─── transport helpers ────────────────────────────────────────────────────────

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return body, nil
}

// ─── object_info parsing ──────────────────────────────────────────────────────

// parseObjectInfo converts the server's capability listing into a Schema.
// Each input entry is an array: [type-or-options, config?]. A nested array
// in the first position is an enumeration.
func parseObjectInfo(raw []byte) fields.Schema {
	schema := fields.Schema{}
	gjson.ParseBytes(raw).ForEach(func(class, info gjson.Result) bool {
		byField := map[string]fields.SchemaField{}
		for _, section := range []string{"input.required", "input.optional"} {
			info.Get(section).ForEach(func(name, entry gjson.Result) bool {
				if meta, ok := parseInputEntry(entry); ok {
					byField[name.String()] = meta
				}
				return true
			})
		}
		if len(byField) > 0 {
			schema[class.String()] = byField
		}
		return true
	})
	return schema
}

func parseInputEntry(entry gjson.Result) (fields.SchemaField, bool) {
	if !entry.IsArray() {
		return fields.SchemaField{}, false
	}
	parts := entry.Array()
	if len(parts) == 0 {
		return fields.SchemaField{}, false
	}

	var meta fields.SchemaField
	switch {
	case parts[0].IsArray():
		for _, o := range parts[0].Array() {
			meta.Options = append(meta.Options, o.String())
		}
	case parts[0].Type == gjson.String:
		meta.Type = parts[0].String()
	default:
		return fields.SchemaField{}, false
	}

	if len(parts) > 1 && parts[1].IsObject() {
		cfg := parts[1]
		if mn := cfg.Get("min"); mn.Exists() {
			meta.Min = mn.Float()
			meta.HasBounds = true
		}
		if mx := cfg.Get("max"); mx.Exists() {
			meta.Max = mx.Float()
			meta.HasBounds = true
		}
		meta.Step = cfg.Get("step").Float()
		meta.Multiline = cfg.Get("multiline").Bool()
	}
	return meta, true
}
