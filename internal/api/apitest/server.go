// Package apitest runs an in-process fake of the YouTube Data API endpoints
// the pipeline uses.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// APIKey is the key the fake accepts unless Server.Key is changed
const APIKey = "test-key"

// Video is one upload on a fake channel
type Video struct {
	ID          string
	Title       string
	Thumbnail   string
	PublishedAt string
	Views       int64

	// HideStatistics drops the statistics object from the videos response
	HideStatistics bool

	// HideViewCount keeps statistics but drops its viewCount
	HideViewCount bool
}

// Channel is a fake channel with its uploads playlist
type Channel struct {
	ID        string
	Name      string
	UploadsID string
	Videos    []Video
}

// Server is an httptest server answering search, channels, playlistItems
// and videos requests from a fixed set of channels.
type Server struct {
	*httptest.Server

	Key      string
	channels []Channel

	mu        sync.Mutex
	calls     map[string]int
	failures  map[string]int
	overrides map[string]string
}

// NewServer starts a fake API and closes it when the test ends
func NewServer(t testing.TB, channels ...Channel) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		Key:       APIKey,
		channels:  channels,
		calls:     make(map[string]int),
		failures:  make(map[string]int),
		overrides: make(map[string]string),
	}

	router := gin.New()
	v3 := router.Group("/youtube/v3", s.count, s.checkKey)
	v3.GET("/search", s.search)
	v3.GET("/channels", s.channelsList)
	v3.GET("/playlistItems", s.playlistItems)
	v3.GET("/videos", s.videos)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to put in config.Config.BaseURL
func (s *Server) BaseURL() string {
	return s.URL + "/youtube/v3/"
}

// Fail makes every request to endpoint answer with status
func (s *Server) Fail(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = status
}

// Respond makes every request to endpoint answer 200 with the raw JSON body
func (s *Server) Respond(endpoint, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[endpoint] = body
}

// Calls returns how many requests endpoint received
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

// TotalCalls returns the number of requests across all endpoints
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func endpointOf(c *gin.Context) string {
	path := c.FullPath()
	return path[len("/youtube/v3/"):]
}

func apiError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    status,
			"message": message,
		},
	})
}

func (s *Server) count(c *gin.Context) {
	endpoint := endpointOf(c)

	s.mu.Lock()
	s.calls[endpoint]++
	status, failing := s.failures[endpoint]
	body, overridden := s.overrides[endpoint]
	s.mu.Unlock()

	switch {
	case failing:
		apiError(c, status, http.StatusText(status))
	case overridden:
		c.Data(http.StatusOK, "application/json; charset=UTF-8", []byte(body))
		c.Abort()
	}
}

func (s *Server) checkKey(c *gin.Context) {
	if c.Query("key") != s.Key {
		apiError(c, http.StatusBadRequest, "API key not valid. Please pass a valid API key.")
	}
}

func (s *Server) search(c *gin.Context) {
	if c.Query("type") != "channel" {
		apiError(c, http.StatusBadRequest, "only channel searches are supported")
		return
	}

	q := c.Query("q")
	items := []gin.H{}
	for _, ch := range s.channels {
		if ch.Name == q || ch.ID == q {
			items = append(items, gin.H{
				"kind": "youtube#searchResult",
				"id": gin.H{
					"kind":      "youtube#channel",
					"channelId": ch.ID,
				},
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"kind": "youtube#searchListResponse", "items": items})
}

func (s *Server) channelsList(c *gin.Context) {
	if c.Query("part") != "contentDetails" {
		apiError(c, http.StatusBadRequest, "unexpected part")
		return
	}

	items := []gin.H{}
	for _, ch := range s.channels {
		if ch.ID == c.Query("id") {
			items = append(items, gin.H{
				"kind": "youtube#channel",
				"id":   ch.ID,
				"contentDetails": gin.H{
					"relatedPlaylists": gin.H{"uploads": ch.UploadsID},
				},
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"kind": "youtube#channelListResponse", "items": items})
}

func (s *Server) playlistItems(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("maxResults"))
	if err != nil || limit < 1 {
		limit = 5
	}

	items := []gin.H{}
	for _, ch := range s.channels {
		if ch.UploadsID != c.Query("playlistId") {
			continue
		}
		for _, v := range ch.Videos {
			if len(items) == limit {
				break
			}
			items = append(items, gin.H{
				"kind": "youtube#playlistItem",
				"snippet": gin.H{
					"publishedAt": v.PublishedAt,
					"channelId":   ch.ID,
					"title":       v.Title,
					"thumbnails": gin.H{
						"high": gin.H{"url": v.Thumbnail, "width": 480, "height": 360},
					},
					"playlistId": ch.UploadsID,
					"resourceId": gin.H{"kind": "youtube#video", "videoId": v.ID},
				},
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"kind": "youtube#playlistItemListResponse", "items": items})
}

func (s *Server) videos(c *gin.Context) {
	if c.Query("part") != "statistics" {
		apiError(c, http.StatusBadRequest, "unexpected part")
		return
	}

	items := []gin.H{}
	for _, ch := range s.channels {
		for _, v := range ch.Videos {
			if v.ID != c.Query("id") {
				continue
			}
			item := gin.H{"kind": "youtube#video", "id": v.ID}
			if !v.HideStatistics {
				stats := gin.H{"likeCount": "0"}
				if !v.HideViewCount {
					stats["viewCount"] = strconv.FormatInt(v.Views, 10)
				}
				item["statistics"] = stats
			}
			items = append(items, item)
		}
	}
	c.JSON(http.StatusOK, gin.H{"kind": "youtube#videoListResponse", "items": items})
}
