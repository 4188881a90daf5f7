package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"teamsync/models"
)

// Sessions are in-memory: token cookie -> resolved user. A restart logs
// everyone out, which is acceptable at this scale.
var (
	sessionMu    sync.Mutex
	sessionStore = make(map[string]models.User)
)

func putSession(token string, user models.User) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	sessionStore[token] = user
}

func dropSession(token string) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	delete(sessionStore, token)
}

// RequireLogin resolves the session cookie to a user. The bool reports
// whether the request carries a live session.
func RequireLogin(r *http.Request) (models.User, bool) {
	cookie, _ := r.Cookie("session_token")
	if cookie == nil {
		return models.User{}, false
	}

	sessionMu.Lock()
	defer sessionMu.Unlock()
	user, ok := sessionStore[cookie.Value]
	return user, ok
}

func CheckSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, loggedIn := RequireLogin(r)
	w.Header().Set("Content-Type", "application/json")
	if loggedIn {
		fmt.Fprintf(w, `{"loggedIn": true, "code": %q, "name": %q}`+"\n", user.Code, user.Name)
	} else {
		fmt.Fprintln(w, `{"loggedIn": false}`)
	}
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Expires: time.Now().Add(-1 * time.Hour),
	})
}
