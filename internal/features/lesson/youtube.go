package lesson

import "regexp"

var youtubeIDPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// YouTubeID extracts the 11 character video id from a YouTube link.
func YouTubeID(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	match := youtubeIDPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// EmbedURL returns the embeddable player URL for a YouTube link.
func EmbedURL(url string) (string, bool) {
	id, ok := YouTubeID(url)
	if !ok {
		return "", false
	}
	return "https://www.youtube.com/embed/" + id, true
}
