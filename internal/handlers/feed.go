package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"podstudio/internal/db"
	"podstudio/internal/feed"
)

// GetRSSFeed serves a workspace's public podcast feed. Only published
// episodes appear; the feed UUID is the only credential.
func (h *Handlers) GetRSSFeed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uuid := vars["uuid"]

	workspace, err := db.GetWorkspaceByFeedUUID(uuid)
	if err != nil {
		http.Error(w, "Workspace not found", http.StatusNotFound)
		return
	}

	episodes, err := db.GetPublishedEpisodes(workspace.ID)
	if err != nil {
		log.Printf("Error getting published episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(&workspace, episodes, r)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}
