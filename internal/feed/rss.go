package feed

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"
	"podstudio/internal/models"
)

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders a workspace's published episodes as a podcast feed.
// Only episodes that reached the published workflow status appear here.
func GenerateRSS(workspace *models.Workspace, episodes []models.Episode, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)

	description := "A podcast published with PodStudio."
	if workspace.Description != nil {
		description = *workspace.Description
	}

	p := podcast.New(
		workspace.Name,
		fmt.Sprintf("%s/rss/%s", baseURL, workspace.FeedUUID),
		description,
		&time.Time{}, &time.Time{},
	)

	for _, episode := range episodes {
		item := podcast.Item{
			Title:   episode.Title,
			PubDate: episode.PublishedAt,
		}
		if episode.Description != nil {
			item.Description = *episode.Description
		} else if notes, ok := episode.Content["show_notes"]; ok {
			item.Description = notes
		}
		if item.Description == "" {
			item.Description = episode.Title
		}
		if episode.AudioURL != nil && episode.AudioSizeBytes != nil {
			item.AddEnclosure(*episode.AudioURL, podcast.M4A, *episode.AudioSizeBytes)
		} else {
			// The feed validator requires a link when there is no enclosure.
			item.Link = fmt.Sprintf("%s/episodes/%d", baseURL, episode.ID)
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}
