package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/bcrypt"

	"teamsync/chat"
	"teamsync/models"
	"teamsync/utils"
)

// LoginHandler resolves name + access code against the roster and opens a
// session. Codes are stored bcrypt-hashed, so lookup is by name first.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := utils.EscapeString(strings.TrimSpace(r.FormValue("name")))
	code := r.FormValue("code")
	if name == "" || code == "" {
		jsonError(w, http.StatusBadRequest, "Name and access code are required")
		return
	}

	member, ok, err := findMember(r, name)
	if err != nil {
		engineError(w, err)
		return
	}
	if !ok {
		jsonError(w, http.StatusUnauthorized, "Invalid name or access code")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.CodeHash), []byte(code)); err != nil {
		jsonError(w, http.StatusUnauthorized, "Invalid name or access code")
		return
	}

	token, _ := uuid.NewV4()
	putSession(token.String(), models.User{Code: member.Code, Name: member.Name})

	http.SetCookie(w, &http.Cookie{
		Name:    "session_token",
		Value:   token.String(),
		Expires: time.Now().Add(12 * time.Hour),
	})

	jsonResponse(w, map[string]string{
		"message": "Login successful!",
		"code":    member.Code,
		"name":    member.Name,
	})
}

// RegisterHandler adds a member to the roster. The access code doubles as
// the member's stable identity code, so it is validated for uniqueness of
// name and for being separator-free before the bcrypt hash is stored.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseForm(); err != nil {
		jsonError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	name := utils.EscapeString(strings.TrimSpace(r.FormValue("name")))
	position := utils.EscapeString(strings.TrimSpace(r.FormValue("position")))
	code := strings.TrimSpace(r.FormValue("code"))
	number, _ := strconv.Atoi(r.FormValue("number"))

	fields, valid := ValidateRegistration(name, position, code, number)
	if !valid {
		w.WriteHeader(http.StatusBadRequest)
		jsonResponse(w, map[string]interface{}{
			"error":  "Validation error",
			"fields": fields,
		})
		return
	}

	if _, exists, err := findMember(r, name); err != nil {
		engineError(w, err)
		return
	} else if exists {
		jsonError(w, http.StatusConflict, "Name already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "Error hashing access code")
		return
	}

	member := models.Member{
		Code:     code,
		Name:     name,
		Position: position,
		Number:   number,
		CodeHash: string(hash),
	}
	if err := activeStore.Append(r.Context(), chat.RosterCollection, member); err != nil {
		log.Printf("Error writing roster record: %v", err)
		engineError(w, err)
		return
	}

	jsonResponse(w, map[string]string{"message": "Registration successful! Please log in."})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session_token")
	if err != nil {
		http.Error(w, "You are not logged in", http.StatusBadRequest)
		return
	}

	dropSession(cookie.Value)
	expireCookie(w, "session_token")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func findMember(r *http.Request, name string) (models.Member, bool, error) {
	snap, err := activeStore.ReadAll(r.Context(), chat.RosterCollection)
	if err != nil {
		return models.Member{}, false, err
	}

	for _, raw := range snap {
		var member models.Member
		if err := json.Unmarshal(raw, &member); err != nil {
			continue
		}
		if strings.EqualFold(member.Name, name) {
			return member, true, nil
		}
	}
	return models.Member{}, false, nil
}
