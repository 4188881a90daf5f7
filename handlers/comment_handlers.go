package handlers

import (
	"net/http"

	"teamsync/utils"
)

// CommentSubmit appends a comment to a post. A vanished post is treated the
// same as success, matching the engine's no-op contract.
func CommentSubmit(w http.ResponseWriter, r *http.Request) {
	user, loggedIn := RequireLogin(r)
	if !loggedIn {
		jsonError(w, http.StatusUnauthorized, "Unauthorized: User is not logged in")
		return
	}

	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	text := utils.EscapeString(r.FormValue("comment"))
	postID := r.FormValue("post_id")
	if postID == "" {
		jsonError(w, http.StatusBadRequest, "Missing post_id")
		return
	}

	if err := feedEngine(user).AppendComment(r.Context(), postID, text); err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, map[string]string{"message": "Comment submitted successfully"})
}
