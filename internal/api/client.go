package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/yt-insights/ytviews/internal/config"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// MaxPlaylistItems is the page size requested from playlistItems. Only the
// first page is ever fetched.
const MaxPlaylistItems = 50

// YouTubeClient handles direct HTTP requests to YouTube API
type YouTubeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *log.Entry
}

// NewYouTubeClient creates a new YouTube client
func NewYouTubeClient(cfg *config.Config, logger *log.Entry) *YouTubeClient {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &YouTubeClient{
		apiKey:  cfg.YouTubeAPIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/") + "/",
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     logger,
	}
}

// Query issues a GET against endpoint with params plus the API key. Transport
// errors, non-2xx statuses and unreadable bodies are logged and returned as a
// failed result.
func (c *YouTubeClient) Query(ctx context.Context, endpoint string, params url.Values) Result[[]byte] {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return c.failed(endpoint, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.failed(endpoint, err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return c.failed(endpoint, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failed(endpoint, fmt.Errorf("read body: %w", err))
	}
	return Ok(body)
}

func (c *YouTubeClient) failed(endpoint string, err error) Result[[]byte] {
	c.log.WithField("endpoint", endpoint).
		Warnf("Error querying YouTube API: %s", c.maskAPIKey(err.Error()))
	return Failed[[]byte](err)
}

// maskAPIKey hides the API key in logs for security
func (c *YouTubeClient) maskAPIKey(s string) string {
	if c.apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.apiKey, "***")
}

// queryJSON runs Query and decodes the body into T. A body that is not
// valid JSON is a failed result, same as a transport error.
func queryJSON[T any](ctx context.Context, c *YouTubeClient, endpoint string, params url.Values) Result[*T] {
	body, err := c.Query(ctx, endpoint, params).Get()
	if err != nil {
		return Failed[*T](err)
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		err = fmt.Errorf("decode %s response: %w", endpoint, err)
		c.log.WithField("endpoint", endpoint).Warnf("Error querying YouTube API: %v", err)
		return Failed[*T](err)
	}
	return Ok(&out)
}

// ResolveChannel searches for query restricted to channels and returns the
// first result's channel ID. Any failure degrades to ("", false).
func (c *YouTubeClient) ResolveChannel(ctx context.Context, query string) (string, bool) {
	res := queryJSON[youtube.SearchListResponse](ctx, c, "search", url.Values{
		"part": {"id"},
		"q":    {query},
		"type": {"channel"},
	})
	if !res.OK() {
		return "", false
	}

	response, _ := res.Get()
	if len(response.Items) == 0 {
		c.log.Infof("No channel found for %q", query)
		return "", false
	}
	item := response.Items[0]
	if item == nil || item.Id == nil || item.Id.ChannelId == "" {
		c.log.Warnf("Search result for %q has no channel ID", query)
		return "", false
	}
	return item.Id.ChannelId, true
}

// GetUploadsPlaylistID returns the ID of the channel's uploads playlist
func (c *YouTubeClient) GetUploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	if channelID == "" {
		return "", ErrChannelNotFound
	}
	c.log.Debugf("Resolving uploads playlist for channel %s", channelID)

	response, err := queryJSON[youtube.ChannelListResponse](ctx, c, "channels", url.Values{
		"part": {"contentDetails"},
		"id":   {channelID},
	}).Get()
	if err != nil {
		return "", fmt.Errorf("failed to fetch channel details: %w", err)
	}

	if len(response.Items) == 0 || response.Items[0] == nil {
		return "", missingField("channels", "items[0]")
	}
	details := response.Items[0].ContentDetails
	if details == nil {
		return "", missingField("channels", "items[0].contentDetails")
	}
	if details.RelatedPlaylists == nil {
		return "", missingField("channels", "items[0].contentDetails.relatedPlaylists")
	}
	if details.RelatedPlaylists.Uploads == "" {
		return "", missingField("channels", "items[0].contentDetails.relatedPlaylists.uploads")
	}
	return details.RelatedPlaylists.Uploads, nil
}

// playlistItemsResponse keeps the presence of "items", which
// youtube.PlaylistItemListResponse drops.
type playlistItemsResponse struct {
	Items *[]*youtube.PlaylistItem `json:"items"`
}

// ListPlaylistItems returns the first page of playlist items in the order
// the platform lists them.
func (c *YouTubeClient) ListPlaylistItems(ctx context.Context, playlistID string) ([]*youtube.PlaylistItem, error) {
	c.log.Debugf("Listing playlist items for %s", playlistID)

	response, err := queryJSON[playlistItemsResponse](ctx, c, "playlistItems", url.Values{
		"part":       {"snippet"},
		"playlistId": {playlistID},
		"maxResults": {fmt.Sprint(MaxPlaylistItems)},
	}).Get()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
	}
	if response.Items == nil {
		return nil, missingField("playlistItems", "items")
	}
	return *response.Items, nil
}

// videoStatisticsResponse mirrors the videos?part=statistics payload with
// counts left as strings so an absent viewCount is not read as zero.
type videoStatisticsResponse struct {
	Items []*struct {
		ID         string `json:"id"`
		Statistics *struct {
			ViewCount *string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// GetViewCount fetches the current view count of one video
func (c *YouTubeClient) GetViewCount(ctx context.Context, videoID string) (int64, error) {
	response, err := queryJSON[videoStatisticsResponse](ctx, c, "videos", url.Values{
		"id":   {videoID},
		"part": {"statistics"},
	}).Get()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch statistics for %s: %w", videoID, err)
	}

	if len(response.Items) == 0 || response.Items[0] == nil {
		return 0, missingField("videos", "items[0]")
	}
	stats := response.Items[0].Statistics
	if stats == nil {
		return 0, missingField("videos", "items[0].statistics")
	}
	if stats.ViewCount == nil {
		return 0, missingField("videos", "items[0].statistics.viewCount")
	}

	views, err := strconv.ParseUint(*stats.ViewCount, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid view count %q for %s: %w", *stats.ViewCount, videoID, err)
	}
	return int64(views), nil
}
