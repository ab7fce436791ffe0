package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"podstudio/internal/db"
	"podstudio/internal/models"
)

func (h *Handlers) GetVersions(w http.ResponseWriter, r *http.Request) {
	id, err := episodeID(r)
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}

	versions, err := db.GetVersionsByEpisodeID(id)
	if err != nil {
		http.Error(w, "Failed to load versions", http.StatusInternalServerError)
		return
	}
	if versions == nil {
		versions = []models.Version{}
	}

	writeJSON(w, http.StatusOK, versions)
}

// RestoreVersion writes a historical snapshot back as the current content.
// The restore itself is snapshotted, so history stays append-only and the
// restore is undoable.
func (h *Handlers) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}
	versionNumber, err := strconv.Atoi(vars["version"])
	if err != nil {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return
	}

	version, err := db.GetVersion(id, versionNumber)
	if err != nil {
		http.Error(w, "Version not found", http.StatusNotFound)
		return
	}

	var content models.Sections
	if err := json.Unmarshal([]byte(version.ContentSnapshot), &content); err != nil {
		http.Error(w, "Stored snapshot is corrupt", http.StatusInternalServerError)
		return
	}

	if err := db.UpdateEpisodeContent(id, content); err != nil {
		http.Error(w, "Failed to restore content", http.StatusInternalServerError)
		return
	}

	description := fmt.Sprintf("Restored version %d", versionNumber)
	restored, err := db.InsertVersion(id, version.ContentSnapshot, user.ID, &description)
	if err != nil {
		http.Error(w, "Content restored but snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, restored)
}
