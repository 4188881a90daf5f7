package handlers

import (
	"net/http"

	"teamsync/utils"
)

// ShowPosts returns the full feed, most recent first. An empty feed is an
// empty JSON array, not an error.
func ShowPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "Invalid request method.")
		return
	}

	user, loggedIn := RequireLogin(r)
	if !loggedIn {
		jsonError(w, http.StatusUnauthorized, "Unauthorized access. Please log in.")
		return
	}

	posts, err := feedEngine(user).List(r.Context())
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, posts)
}

// PostSubmit publishes a new post under the session identity.
func PostSubmit(w http.ResponseWriter, r *http.Request) {
	user, loggedIn := RequireLogin(r)
	if !loggedIn {
		jsonError(w, http.StatusUnauthorized, "You need to log in to publish a post.")
		return
	}

	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "Invalid request method.")
		return
	}

	text := utils.EscapeString(r.FormValue("content"))
	const maxContent = 1000
	if len(text) > maxContent {
		jsonError(w, http.StatusBadRequest, "Post cannot be longer than 1000 characters.")
		return
	}

	post, err := feedEngine(user).Publish(r.Context(), text)
	if err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"message": "Post published successfully.",
		"post":    post,
	})
}

// HandleInteract toggles the session user's like on a post. A post that no
// longer exists is reported as success: the toggle is moot, not failed.
func HandleInteract(w http.ResponseWriter, r *http.Request) {
	user, loggedIn := RequireLogin(r)
	if !loggedIn {
		jsonError(w, http.StatusUnauthorized, "You need to log in to like a post.")
		return
	}

	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "Invalid request method.")
		return
	}

	postID := r.FormValue("post_id")
	if postID == "" {
		jsonError(w, http.StatusBadRequest, "Missing post_id")
		return
	}

	if err := feedEngine(user).ToggleLike(r.Context(), postID, user.Code); err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, map[string]string{"message": "Like updated."})
}
