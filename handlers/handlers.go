package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"teamsync/chat"
	"teamsync/feed"
	"teamsync/identity"
	"teamsync/models"
	"teamsync/store"
)

var activeStore store.Store

// Init wires the handler package to the collection store picked at boot.
func Init(st store.Store) {
	activeStore = st
}

// Engines are cheap per-request values carrying the session identity.
func feedEngine(user models.User) *feed.Engine {
	return feed.NewEngine(activeStore, identity.NewContext(user))
}

func chatEngine(user models.User) *chat.Engine {
	return chat.NewEngine(activeStore, identity.NewContext(user))
}

func jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// engineError converts an engine failure into the single user-facing
// message this operation gets. Store failures keep their detail in the log
// only.
func engineError(w http.ResponseWriter, err error) {
	if models.IsValidation(err) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, store.ErrUnavailable) {
		log.Printf("Store error: %v", err)
		jsonError(w, http.StatusInternalServerError, "The server could not reach the data store. Please try again.")
		return
	}
	log.Printf("Unexpected error: %v", err)
	jsonError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
