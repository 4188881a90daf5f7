package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamsync/models"
	"teamsync/store"
)

func setupTest(t *testing.T) {
	t.Helper()
	Init(store.NewMemoryStore())
	sessionMu.Lock()
	sessionStore = make(map[string]models.User)
	sessionMu.Unlock()
}

func postForm(t *testing.T, handler http.HandlerFunc, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, name, code string) *http.Cookie {
	t.Helper()

	rec := postForm(t, RegisterHandler, "/register", url.Values{
		"name":     {name},
		"position": {"Forward"},
		"number":   {"9"},
		"code":     {code},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = postForm(t, LoginHandler, "/login", url.Values{
		"name": {name},
		"code": {code},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_token" {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestLoginRejectsWrongCode(t *testing.T) {
	setupTest(t)
	registerAndLogin(t, "Player One", "code-one")

	rec := postForm(t, LoginHandler, "/login", url.Values{
		"name": {"Player One"},
		"code": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRejectsSeparatorInCode(t *testing.T) {
	setupTest(t)

	rec := postForm(t, RegisterHandler, "/register", url.Values{
		"name":   {"Player One"},
		"number": {"9"},
		"code":   {"bad_code"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	setupTest(t)
	registerAndLogin(t, "Player One", "code-one")

	rec := postForm(t, RegisterHandler, "/register", url.Values{
		"name":   {"Player One"},
		"number": {"10"},
		"code":   {"code-two"},
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFeedEndpointsRequireLogin(t *testing.T) {
	setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/show_posts", nil)
	rec := httptest.NewRecorder()
	ShowPosts(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postForm(t, PostSubmit, "/post_submit", url.Values{"content": {"hi"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublishLikeCommentFlow(t *testing.T) {
	setupTest(t)
	cookie := registerAndLogin(t, "Player One", "code-one")

	rec := postForm(t, PostSubmit, "/post_submit", url.Values{"content": {"match tomorrow!"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Empty post is rejected before any write.
	rec = postForm(t, PostSubmit, "/post_submit", url.Values{"content": {"   "}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/show_posts", nil)
	req.AddCookie(cookie)
	listRec := httptest.NewRecorder()
	ShowPosts(listRec, req)
	require.Equal(t, http.StatusOK, listRec.Code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	postID := posts[0].ID

	rec = postForm(t, HandleInteract, "/interact", url.Values{"post_id": {postID}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postForm(t, CommentSubmit, "/comment_submit", url.Values{
		"post_id": {postID},
		"comment": {"see you there"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/show_posts", nil)
	req.AddCookie(cookie)
	listRec = httptest.NewRecorder()
	ShowPosts(listRec, req)
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].Likes)
	assert.Equal(t, []string{"code-one"}, posts[0].LikedBy)
	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, "see you there", posts[0].Comments[0].Text)
}

func TestSearchMembersSentinel(t *testing.T) {
	setupTest(t)
	cookie := registerAndLogin(t, "Player One", "code-one")
	registerAndLogin(t, "Player Two", "code-two")

	get := func(query string) map[string]json.RawMessage {
		req := httptest.NewRequest(http.MethodGet, "/search_members?q="+url.QueryEscape(query), nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		SearchMembers(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	body := get("")
	assert.JSONEq(t, "false", string(body["searched"]))

	body = get("two")
	assert.JSONEq(t, "true", string(body["searched"]))
	var members []models.Member
	require.NoError(t, json.Unmarshal(body["members"], &members))
	require.Len(t, members, 1)
	assert.Equal(t, "code-two", members[0].Code)
	assert.Empty(t, members[0].CodeHash)
}

func TestTeamPageSortsRosterAndFixtures(t *testing.T) {
	setupTest(t)
	cookie := registerAndLogin(t, "Zinedine", "code-one")
	registerAndLogin(t, "Andrea", "code-two")

	// Scheduled out of chronological order.
	rec := postForm(t, MatchSubmit, "/match_submit", url.Values{
		"opponent":   {"FC Later"},
		"match_time": {"2026-10-02T18:00:00.000Z"},
		"kind":       {"league"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = postForm(t, MatchSubmit, "/match_submit", url.Values{
		"opponent":   {"FC Sooner"},
		"match_time": {"2026-09-10T18:00:00.000Z"},
		"kind":       {"friendly"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = postForm(t, MatchSubmit, "/match_submit", url.Values{
		"opponent":   {"FC Invalid"},
		"match_time": {"tomorrowish"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/show_team", nil)
	req.AddCookie(cookie)
	teamRec := httptest.NewRecorder()
	ShowTeam(teamRec, req)
	require.Equal(t, http.StatusOK, teamRec.Code)

	var body struct {
		Members []models.Member `json:"members"`
		Matches []models.Match  `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(teamRec.Body.Bytes(), &body))

	require.Len(t, body.Members, 2)
	assert.Equal(t, "Andrea", body.Members[0].Name)
	assert.Empty(t, body.Members[0].CodeHash)

	require.Len(t, body.Matches, 2)
	assert.Equal(t, "FC Sooner", body.Matches[0].Opponent)
	assert.Equal(t, "FC Later", body.Matches[1].Opponent)
}

func TestCheckSessionHandler(t *testing.T) {
	setupTest(t)
	cookie := registerAndLogin(t, "Player One", "code-one")

	req := httptest.NewRequest(http.MethodGet, "/check-session", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	CheckSessionHandler(rec, req)
	assert.Contains(t, rec.Body.String(), `"loggedIn": true`)

	req = httptest.NewRequest(http.MethodGet, "/check-session", nil)
	rec = httptest.NewRecorder()
	CheckSessionHandler(rec, req)
	assert.Contains(t, rec.Body.String(), `"loggedIn": false`)
}
