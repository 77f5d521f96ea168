package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/apierr"
)

// Reddit API configuration.
const (
	defaultAuthURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIURL  = "https://oauth.reddit.com"

	defaultSort       = "top"
	defaultTimeFilter = "week"
	defaultFetchLimit = 25

	defaultHTTPTimeout = 30 * time.Second

	// Response size limit to prevent OOM from malformed responses (10MB).
	maxResponseSize = 10 * 1024 * 1024

	// tokenSlack renews the token slightly before Reddit expires it.
	tokenSlack = 30 * time.Second
)

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches stories from Reddit with app-only OAuth2. It caches the
// bearer token and renews it transparently when it expires.
type Client struct {
	clientID     string
	clientSecret string
	userAgent    string
	authURL      string
	apiURL       string
	httpClient   httpDoer

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAuthURL sets a custom token endpoint (for testing).
func WithAuthURL(u string) ClientOption {
	return func(c *Client) { c.authURL = strings.TrimSuffix(u, "/") }
}

// WithAPIURL sets a custom API base URL (for testing).
func WithAPIURL(u string) ClientOption {
	return func(c *Client) { c.apiURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(h httpDoer) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a Reddit client. clientID and clientSecret are required;
// userAgent identifies the app per Reddit's API rules.
func NewClient(clientID, clientSecret, userAgent string, opts ...ClientOption) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if userAgent == "" {
		userAgent = "automated-tiktok-poster (by /u/unknown)"
	}

	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		authURL:      defaultAuthURL,
		apiURL:       defaultAPIURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return c, nil
}

// ListingOptions controls how posts are fetched from a subreddit.
type ListingOptions struct {
	// Sort is one of "hot", "new", "rising", "controversial", "top".
	// Empty defaults to "top".
	Sort string

	// TimeFilter applies to "top" and "controversial": hour, day, week,
	// month, year, all. Empty defaults to "week".
	TimeFilter string

	// Limit is the maximum number of posts to request. Zero defaults to 25.
	Limit int
}

func (o ListingOptions) withDefaults() ListingOptions {
	if o.Sort == "" {
		o.Sort = defaultSort
	}
	if o.TimeFilter == "" {
		o.TimeFilter = defaultTimeFilter
	}
	if o.Limit <= 0 {
		o.Limit = defaultFetchLimit
	}
	return o
}

// TestConnection verifies credentials by acquiring an access token.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.bearerToken(ctx)
	return err
}

// FetchPosts returns text stories from one subreddit. Link, image, and
// video posts are skipped, as are self posts with no body.
func (c *Client) FetchPosts(ctx context.Context, subreddit string, opts ListingOptions) ([]Story, error) {
	opts = opts.withDefaults()

	q := url.Values{}
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("raw_json", "1")
	switch opts.Sort {
	case "top", "controversial":
		q.Set("t", opts.TimeFilter)
	}

	endpoint := fmt.Sprintf("%s/r/%s/%s.json?%s", c.apiURL, url.PathEscape(subreddit), opts.Sort, q.Encode())
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", subreddit, err)
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("parse r/%s listing: %w", subreddit, err)
	}

	stories := make([]Story, 0, len(listing.Data.Children))
	now := time.Now()
	for _, child := range listing.Data.Children {
		if story, ok := child.Data.toStory(now); ok {
			stories = append(stories, story)
		}
	}
	return stories, nil
}

// FetchPostByID fetches one post by its Reddit ID (e.g. "abc123").
// Returns ErrPostNotFound when the post is missing or not a text post.
func (c *Client) FetchPostByID(ctx context.Context, postID string) (Story, error) {
	endpoint := fmt.Sprintf("%s/by_id/t3_%s.json?raw_json=1", c.apiURL, url.PathEscape(postID))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return Story{}, fmt.Errorf("fetch post %s: %w", postID, err)
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return Story{}, fmt.Errorf("parse post %s: %w", postID, err)
	}
	if len(listing.Data.Children) == 0 {
		return Story{}, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}

	story, ok := listing.Data.Children[0].Data.toStory(time.Now())
	if !ok {
		return Story{}, fmt.Errorf("%w: %s is not a usable text post", ErrPostNotFound, postID)
	}
	return story, nil
}

// FetchMultiple fetches posts from several subreddits. A failing subreddit
// is skipped so one bad name does not sink the whole fetch.
func (c *Client) FetchMultiple(ctx context.Context, subreddits []string, perSubreddit int, opts ListingOptions, log io.Writer) []Story {
	if log == nil {
		log = io.Discard
	}
	if perSubreddit > 0 {
		opts.Limit = perSubreddit
	}

	var all []Story
	for _, name := range subreddits {
		stories, err := c.FetchPosts(ctx, name, opts)
		if err != nil {
			fmt.Fprintf(log, "warning: skipping r/%s: %v\n", name, err)
			continue
		}
		all = append(all, stories...)
	}
	return all
}

// get performs an authenticated GET and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string) (_ []byte, err error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrPostNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", apierr.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w (status %d)", apierr.ErrRateLimit, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// bearerToken returns a cached token, fetching a fresh one when needed.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	token, expiresIn, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn)*time.Second - tokenSlack)
	return c.token, nil
}

// authenticate performs the client-credentials grant.
func (c *Client) authenticate(ctx context.Context) (_ string, _ int, err error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", 0, fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: token endpoint returned %d", apierr.ErrAuthFailed, resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", 0, fmt.Errorf("failed to parse auth response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token", apierr.ErrAuthFailed)
	}
	if tok.ExpiresIn <= 0 {
		tok.ExpiresIn = 3600
	}
	return tok.AccessToken, tok.ExpiresIn, nil
}

// Reddit API wire types.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data postData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Over18      bool    `json:"over_18"`
	CreatedUTC  float64 `json:"created_utc"`
	IsSelf      bool    `json:"is_self"`
}

// toStory converts a post to a Story. Non-text posts and posts with an
// empty body are rejected.
func (p postData) toStory(fetchedAt time.Time) (Story, bool) {
	if !p.IsSelf || strings.TrimSpace(p.SelfText) == "" {
		return Story{}, false
	}

	author := p.Author
	if author == "" {
		author = "[deleted]"
	}

	return Story{
		ID:           p.ID,
		Subreddit:    p.Subreddit,
		Title:        p.Title,
		OriginalText: p.SelfText,
		URL:          "https://reddit.com" + p.Permalink,
		Author:       author,
		Score:        p.Score,
		NumComments:  p.NumComments,
		IsNSFW:       p.Over18,
		CreatedUTC:   p.CreatedUTC,
		FetchedAt:    fetchedAt,
	}, true
}
