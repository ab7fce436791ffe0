package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"podstudio/internal/db"
	"podstudio/internal/models"
)

const notificationPageSize = 50

type notificationsView struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	notifications, err := db.GetNotificationsByUserID(user.ID, notificationPageSize)
	if err != nil {
		http.Error(w, "Failed to load notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, notificationsView{
		Notifications: notifications,
		UnreadCount:   models.UnreadCount(notifications),
	})
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := db.MarkNotificationRead(id, user.ID); err != nil {
		http.Error(w, "Failed to mark notification read", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if err := db.MarkAllNotificationsRead(user.ID); err != nil {
		http.Error(w, "Failed to mark notifications read", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
