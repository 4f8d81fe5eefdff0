package api

import (
	"context"
	"fmt"

	"github.com/yt-insights/ytviews/internal/models"
	"google.golang.org/api/youtube/v3"
)

// GetChannelVideos enumerates the channel's uploads and fetches the view
// count of each one, serially and in playlist order. The first item that
// cannot be resolved aborts the whole batch.
func (c *YouTubeClient) GetChannelVideos(ctx context.Context, channelID string) ([]models.VideoRecord, error) {
	playlistID, err := c.GetUploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	items, err := c.ListPlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	c.log.Infof("Found %d videos in playlist %s", len(items), playlistID)

	videos := make([]models.VideoRecord, 0, len(items))
	for i, item := range items {
		record, err := recordFromItem(item, i)
		if err != nil {
			return nil, err
		}

		count, err := c.GetViewCount(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		record.Count = count

		c.log.Debugf("%s: %d views", record.ID, record.Count)
		videos = append(videos, record)
	}
	return videos, nil
}

// recordFromItem copies the snippet fields of a playlist item into a record
// without its view count.
func recordFromItem(item *youtube.PlaylistItem, index int) (models.VideoRecord, error) {
	field := func(path string) error {
		return missingField("playlistItems", fmt.Sprintf("items[%d].snippet%s", index, path))
	}

	if item == nil || item.Snippet == nil {
		return models.VideoRecord{}, field("")
	}
	snippet := item.Snippet

	if snippet.ResourceId == nil || snippet.ResourceId.VideoId == "" {
		return models.VideoRecord{}, field(".resourceId.videoId")
	}
	if snippet.Thumbnails == nil || snippet.Thumbnails.High == nil || snippet.Thumbnails.High.Url == "" {
		return models.VideoRecord{}, field(".thumbnails.high.url")
	}
	if snippet.PublishedAt == "" {
		return models.VideoRecord{}, field(".publishedAt")
	}

	return models.VideoRecord{
		ID:        snippet.ResourceId.VideoId,
		Title:     snippet.Title,
		Thumbnail: snippet.Thumbnails.High.Url,
		Date:      snippet.PublishedAt,
	}, nil
}
