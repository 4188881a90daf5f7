package handlers

import (
	"net/http"
)

// SearchMembers matches roster members against a query, excluding the
// session user. The "searched" flag is the sentinel the UI needs to tell an
// untyped query apart from a search with zero matches.
func SearchMembers(w http.ResponseWriter, r *http.Request) {
	user, loggedIn := RequireLogin(r)
	if !loggedIn {
		jsonError(w, http.StatusUnauthorized, "Unauthorized access. Please log in.")
		return
	}

	matches, searched, err := chatEngine(user).SearchPeers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"searched": searched,
		"members":  matches,
	})
}
