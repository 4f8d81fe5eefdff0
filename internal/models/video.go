package models

// VideoRecord is one uploaded video with its view count at query time.
// Field order matches the persisted JSON layout.
type VideoRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Count     int64  `json:"count"`
	Thumbnail string `json:"thumbnail"`
	Date      string `json:"date"`
}
