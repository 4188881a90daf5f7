package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strings"

	"teamsync/chat"
	"teamsync/models"
	"teamsync/utils"
)

// MatchCollection holds the scheduled fixtures.
const MatchCollection = "matches"

// ShowTeam returns the roster (without code hashes) and the fixture list,
// the contents of the team tab.
func ShowTeam(w http.ResponseWriter, r *http.Request) {
	if _, loggedIn := RequireLogin(r); !loggedIn {
		jsonError(w, http.StatusUnauthorized, "Unauthorized access. Please log in.")
		return
	}

	rosterSnap, err := activeStore.ReadAll(r.Context(), chat.RosterCollection)
	if err != nil {
		engineError(w, err)
		return
	}
	matchSnap, err := activeStore.ReadAll(r.Context(), MatchCollection)
	if err != nil {
		engineError(w, err)
		return
	}

	members := make([]models.Member, 0, len(rosterSnap))
	for key, raw := range rosterSnap {
		var member models.Member
		if err := json.Unmarshal(raw, &member); err != nil {
			log.Printf("Skipping undecodable roster record %s: %v", key, err)
			continue
		}
		member.CodeHash = ""
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	matches := make([]models.Match, 0, len(matchSnap))
	for key, raw := range matchSnap {
		var match models.Match
		if err := json.Unmarshal(raw, &match); err != nil {
			log.Printf("Skipping undecodable match record %s: %v", key, err)
			continue
		}
		matches = append(matches, match)
	}
	sort.Slice(matches, func(i, j int) bool {
		return utils.ParseTimestamp(matches[i].MatchTime).Before(utils.ParseTimestamp(matches[j].MatchTime))
	})

	jsonResponse(w, map[string]interface{}{
		"members": members,
		"matches": matches,
	})
}

// MatchSubmit schedules a fixture.
func MatchSubmit(w http.ResponseWriter, r *http.Request) {
	if _, loggedIn := RequireLogin(r); !loggedIn {
		jsonError(w, http.StatusUnauthorized, "You need to log in to schedule a match.")
		return
	}

	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "Invalid request method.")
		return
	}

	match := models.Match{
		Opponent: utils.EscapeString(strings.TrimSpace(r.FormValue("opponent"))),
		Location: utils.EscapeString(strings.TrimSpace(r.FormValue("location"))),
		Kind:     utils.EscapeString(strings.TrimSpace(r.FormValue("kind"))),
	}
	if match.Opponent == "" {
		jsonError(w, http.StatusBadRequest, "Opponent name is required.")
		return
	}

	when := strings.TrimSpace(r.FormValue("match_time"))
	if when == "" || utils.ParseTimestamp(when).IsZero() {
		jsonError(w, http.StatusBadRequest, "Match time must be an RFC3339 timestamp.")
		return
	}
	match.MatchTime = when

	if err := activeStore.Append(r.Context(), MatchCollection, match); err != nil {
		engineError(w, err)
		return
	}

	jsonResponse(w, map[string]string{"message": "Match scheduled."})
}
