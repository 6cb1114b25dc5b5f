// Package docmost is a minimal client for the Docmost HTTP API, covering the
// endpoints the MCP tools need: authentication, space and page listing, page
// retrieval and page create/move/delete. Docmost has no official Go SDK, so
// requests are issued directly and responses navigated with gjson.
package docmost

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const defaultPageSize = 50

// Client talks to a single Docmost workspace. It is safe for concurrent use
// once authenticated; Login and SetToken are expected to be called once
// during setup.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     *logrus.Entry
}

// Space is a Docmost space (a top-level page collection).
type Space struct {
	ID   string
	Slug string
	Name string
}

// Page is a Docmost page. Content holds the raw rich-text document JSON and
// may be empty for listing results.
type Page struct {
	ID           string
	SlugID       string
	Title        string
	SpaceID      string
	ParentPageID string
	Content      string
}

// PageList is one page of a paginated page listing.
type PageList struct {
	Pages       []Page
	HasNextPage bool
}

// SpaceList is one page of a paginated space listing.
type SpaceList struct {
	Spaces      []Space
	HasNextPage bool
}

// CreatePageRequest describes a page to create. ParentPageID is optional;
// Content, when set, must be rich-text document JSON.
type CreatePageRequest struct {
	SpaceID      string
	Title        string
	ParentPageID string
	Content      string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logrus.WithField("component", "docmost"),
	}
}

// SetToken installs an API token, skipping Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates with email and password and stores the access token
// for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := c.post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	token := gjson.GetBytes(body, "tokens.accessToken")
	if !token.Exists() {
		return errors.New("login response contains no access token")
	}
	c.token = token.String()
	return nil
}

// ListSpaces returns one page of the workspace's spaces. Pages are 1-based.
func (c *Client) ListSpaces(ctx context.Context, page int) (*SpaceList, error) {
	body, err := c.post(ctx, "/api/spaces", map[string]interface{}{
		"page":  page,
		"limit": defaultPageSize,
	})
	if err != nil {
		return nil, err
	}
	list := &SpaceList{HasNextPage: gjson.GetBytes(body, "meta.hasNextPage").Bool()}
	gjson.GetBytes(body, "data").ForEach(func(_, item gjson.Result) bool {
		list.Spaces = append(list.Spaces, Space{
			ID:   item.Get("id").String(),
			Slug: item.Get("slug").String(),
			Name: item.Get("name").String(),
		})
		return true
	})
	return list, nil
}

// ListPages returns one page of a space's pages. Pages are 1-based.
func (c *Client) ListPages(ctx context.Context, spaceID string, page int) (*PageList, error) {
	body, err := c.post(ctx, "/api/pages", map[string]interface{}{
		"spaceId": spaceID,
		"page":    page,
		"limit":   defaultPageSize,
	})
	if err != nil {
		return nil, err
	}
	return pageListFromBody(body), nil
}

// Search runs a workspace-wide title/content search. spaceID may be empty.
func (c *Client) Search(ctx context.Context, query, spaceID string, page int) (*PageList, error) {
	payload := map[string]interface{}{
		"query": query,
		"page":  page,
		"limit": defaultPageSize,
	}
	if spaceID != "" {
		payload["spaceId"] = spaceID
	}
	body, err := c.post(ctx, "/api/search", payload)
	if err != nil {
		return nil, err
	}
	return pageListFromBody(body), nil
}

// GetPage fetches a single page including its rich-text content.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	body, err := c.post(ctx, "/api/pages/info", map[string]string{"pageId": pageID})
	if err != nil {
		return nil, err
	}
	page := pageFromResult(gjson.GetBytes(body, "data"))
	return &page, nil
}

// ChildPages lists the direct children of a page.
func (c *Client) ChildPages(ctx context.Context, pageID string) ([]Page, error) {
	body, err := c.post(ctx, "/api/pages/children", map[string]string{"pageId": pageID})
	if err != nil {
		return nil, err
	}
	var pages []Page
	gjson.GetBytes(body, "data").ForEach(func(_, item gjson.Result) bool {
		pages = append(pages, pageFromResult(item))
		return true
	})
	return pages, nil
}

// CreatePage creates a page and returns the server's view of it.
func (c *Client) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	payload := map[string]interface{}{
		"spaceId": req.SpaceID,
		"title":   req.Title,
	}
	if req.ParentPageID != "" {
		payload["parentPageId"] = req.ParentPageID
	}
	if req.Content != "" {
		payload["content"] = json.RawMessage(req.Content)
	}
	body, err := c.post(ctx, "/api/pages/create", payload)
	if err != nil {
		return nil, err
	}
	page := pageFromResult(gjson.GetBytes(body, "data"))
	return &page, nil
}

// MovePage reparents a page. An empty parentPageID moves it to the space root.
func (c *Client) MovePage(ctx context.Context, pageID, parentPageID string) error {
	payload := map[string]interface{}{"pageId": pageID}
	if parentPageID != "" {
		payload["parentPageId"] = parentPageID
	}
	_, err := c.post(ctx, "/api/pages/move", payload)
	return err
}

// DeletePage deletes a page and all of its children.
func (c *Client) DeletePage(ctx context.Context, pageID string) error {
	_, err := c.post(ctx, "/api/pages/delete", map[string]string{"pageId": pageID})
	return err
}

func pageListFromBody(body []byte) *PageList {
	list := &PageList{HasNextPage: gjson.GetBytes(body, "meta.hasNextPage").Bool()}
	gjson.GetBytes(body, "data").ForEach(func(_, item gjson.Result) bool {
		list.Pages = append(list.Pages, pageFromResult(item))
		return true
	})
	return list
}

func pageFromResult(item gjson.Result) Page {
	page := Page{
		ID:           item.Get("id").String(),
		SlugID:       item.Get("slugId").String(),
		Title:        item.Get("title").String(),
		SpaceID:      item.Get("spaceId").String(),
		ParentPageID: item.Get("parentPageId").String(),
	}
	// Content arrives either as a JSON object or as a pre-serialized string.
	content := item.Get("content")
	if content.Exists() {
		if content.Type == gjson.String {
			page.Content = content.String()
		} else {
			page.Content = content.Raw
		}
	}
	return page
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal payload for %s", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response from %s", path)
	}

	c.logger.WithFields(logrus.Fields{
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	if resp.StatusCode >= http.StatusBadRequest {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, errors.Errorf("%s returned %d: %s", path, resp.StatusCode, msg)
	}
	return body, nil
}
