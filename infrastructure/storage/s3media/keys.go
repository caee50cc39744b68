package s3media

import (
	"fmt"
	"net/url"
)

// VideoKey builds the object key for an uploaded video. The filename is
// escaped so user input cannot introduce extra path segments.
func VideoKey(userID, projectID, videoID, filename string) string {
	return fmt.Sprintf("videos/%s/%s/%s/%s", userID, projectID, videoID, url.PathEscape(filename))
}

// TranscriptKey builds the object key for a video's transcript document
func TranscriptKey(userID, projectID, videoID string) string {
	return fmt.Sprintf("transcripts/%s/%s/%s.json", userID, projectID, videoID)
}
