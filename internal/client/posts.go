package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultPostsLimit = 20
	DefaultPostsSort  = "-createdAt"

	// relations the feed always expands
	postsPopulate = "user,author,createdBy"
)

// NewPost is a post to publish. When Image or Media is set the post is sent as multipart/form-data,
// otherwise as JSON made of Content and Fields.
type NewPost struct {
	Content string
	Image   *File
	Media   *File

	// Fields are extra members sent alongside content
	Fields map[string]any
}

func (p NewPost) body() Body {
	if p.Image != nil || p.Media != nil {
		form := NewForm().AddField("content", p.Content)
		for name, v := range p.Fields {
			form.AddField(name, fmt.Sprint(v))
		}
		// the posts endpoint accepts uploads under a single field name
		if p.Image != nil {
			form.AddFile("image", *p.Image)
		}
		if p.Media != nil {
			form.AddFile("image", *p.Media)
		}
		return form
	}

	payload := make(map[string]any, len(p.Fields)+1)
	for name, v := range p.Fields {
		payload[name] = v
	}
	payload["content"] = p.Content
	return JSON(payload)
}

// CreatePost publishes a post on the backend posts endpoint
func (c *Client) CreatePost(ctx context.Context, post NewPost) (json.RawMessage, error) {
	res, err := c.call(ctx, &request{
		operation: "create_post",
		method:    http.MethodPost,
		baseURL:   c.backendURL,
		path:      "/api/v1/posts",
		body:      post.body(),
		fallback:  "Failed to create post",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

// GetPosts lists posts. Caller params are kept; sort and limit are defaulted and
// the author relations are always populated.
func (c *Client) GetPosts(ctx context.Context, params url.Values) (json.RawMessage, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	if query.Get("sort") == "" {
		query.Set("sort", DefaultPostsSort)
	}
	if query.Get("limit") == "" {
		query.Set("limit", strconv.Itoa(DefaultPostsLimit))
	}
	query.Set("populate", postsPopulate)

	res, err := c.call(ctx, &request{
		operation: "get_posts",
		method:    http.MethodGet,
		baseURL:   c.backendURL,
		path:      "/api/posts",
		query:     query,
		fallback:  "Failed to load posts",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}
