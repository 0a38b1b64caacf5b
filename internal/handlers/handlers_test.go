package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flood-watch/internal/database"
	"flood-watch/internal/engine"
	"flood-watch/internal/middleware"
	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
)

// newTestServer wires the full stack over the in-memory store, seeded with
// the default accounts but an empty board.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := database.NewMemoryStore()
	if err := database.EnsureSeedUsers(context.Background(), store); err != nil {
		t.Fatalf("Seeding users failed: %v", err)
	}

	system := actor.NewActorSystem()
	boardEngine := engine.NewEngine(system, utils.NewMetricsCollector(), store)
	server := NewServer(system, system.Root, boardEngine, utils.NewMetricsCollector(), store)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.HandleFunc("/user/register", server.HandleUserRegistration())
	mux.HandleFunc("/user/login", server.HandleUserLogin())
	mux.HandleFunc("/posts", server.HandlePosts())
	mux.HandleFunc("/posts/get", server.HandleGetPost())
	mux.HandleFunc("/posts/answer", server.HandleSubmitAnswer())
	mux.HandleFunc("/posts/vote", server.HandleVote())
	mux.HandleFunc("/posts/tag", server.HandleToggleTag())
	mux.HandleFunc("/posts/accept", server.HandleAcceptAnswer())
	mux.HandleFunc("/tags", server.HandleKnownTags())

	ts := httptest.NewServer(middleware.JWTMiddleware(mux))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Encoding request failed: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Building request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 400 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Decoding response failed: %v", err)
		}
	}
	return resp
}

func loginAs(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()

	var resp struct {
		Token string `json:"token"`
	}
	r := doJSON(t, http.MethodPost, ts.URL+"/user/login", "", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if r.StatusCode != http.StatusOK {
		t.Fatalf("Login as %s failed with status %d", username, r.StatusCode)
	}
	return resp.Token
}

func TestBoardEndToEnd(t *testing.T) {
	ts := newTestServer(t)

	adminToken := loginAs(t, ts, "admin", "admin123")
	userToken := loginAs(t, ts, "user", "user123")

	// Citizen asks a question.
	var post models.Post
	resp := doJSON(t, http.MethodPost, ts.URL+"/posts", userToken, map[string]string{
		"title":   "Is the 5th street bridge closed?",
		"content": "Saw barriers this morning",
		"tags":    "Routes, bridges, ROUTES",
	}, &post)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"routes", "bridges"}, post.CommunityTags)

	// Coordinator posts an official answer.
	var answer models.Answer
	resp = doJSON(t, http.MethodPost, ts.URL+"/posts/answer", adminToken, map[string]string{
		"postId":  post.ID.String(),
		"content": "Closed until the water recedes, use Mill Road",
	}, &answer)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, answer.IsOfficial)

	// The question now reads as answered.
	var fetched struct {
		Post models.Post `json:"post"`
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/posts/get?id="+post.ID.String(), userToken, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, fetched.Post.IsAnswered)
	assert.True(t, fetched.Post.HasOfficialAnswer)

	// Citizen upvotes the post.
	var vote struct {
		Post    models.Post `json:"post"`
		Outcome string      `json:"outcome"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/posts/vote", userToken, map[string]string{
		"postId":    post.ID.String(),
		"direction": "up",
	}, &vote)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cast", vote.Outcome)
	assert.Equal(t, 1, vote.Post.Score)

	// Author accepts the official answer.
	var accepted models.Post
	resp = doJSON(t, http.MethodPost, ts.URL+"/posts/accept", userToken, map[string]string{
		"postId":   post.ID.String(),
		"answerId": answer.ID.String(),
	}, &accepted)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, accepted.Answers[0].Accepted)

	// The board query sees the new question.
	var posts []models.Post
	resp = doJSON(t, http.MethodGet, ts.URL+"/posts?search=bridge", userToken, nil, &posts)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, posts, 1)
}

func TestModerationRequiresCoordinator(t *testing.T) {
	ts := newTestServer(t)

	adminToken := loginAs(t, ts, "admin", "admin123")
	userToken := loginAs(t, ts, "user", "user123")

	var post models.Post
	doJSON(t, http.MethodPost, ts.URL+"/posts", userToken, map[string]string{
		"title": "Power outage near the levee", "content": "Anyone else?", "tags": "",
	}, &post)

	body := map[string]string{"postId": post.ID.String(), "tag": "urgent"}

	resp := doJSON(t, http.MethodPost, ts.URL+"/posts/tag", userToken, body, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var tagged models.Post
	resp = doJSON(t, http.MethodPost, ts.URL+"/posts/tag", adminToken, body, &tagged)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, tagged.ModerationTags, "urgent")
}

func TestAuthenticationRequired(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/posts", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/posts", "not-a-token", map[string]string{
		"title": "x", "content": "y",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Health stays open.
	resp = doJSON(t, http.MethodGet, ts.URL+"/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegistrationAndLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	var user models.User
	resp := doJSON(t, http.MethodPost, ts.URL+"/user/register", "", map[string]string{
		"username": "newcomer",
		"password": "secret123",
	}, &user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "newcomer", user.Username)

	// Duplicate registration is refused.
	resp = doJSON(t, http.MethodPost, ts.URL+"/user/register", "", map[string]string{
		"username": "newcomer",
		"password": "another456",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	token := loginAs(t, ts, "newcomer", "secret123")
	assert.NotEmpty(t, token)

	// Wrong password is rejected.
	resp = doJSON(t, http.MethodPost, ts.URL+"/user/login", "", map[string]string{
		"username": "newcomer",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestKnownTagsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	userToken := loginAs(t, ts, "user", "user123")

	doJSON(t, http.MethodPost, ts.URL+"/posts", userToken, map[string]string{
		"title": "Generator fuel storage", "content": "How much is safe to keep?", "tags": "generators",
	}, nil)

	var tags struct {
		Moderation []string `json:"moderationTags"`
		Community  []string `json:"communityTags"`
	}
	resp := doJSON(t, http.MethodGet, ts.URL+"/tags", userToken, nil, &tags)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, tags.Moderation, "answered")
	assert.Contains(t, tags.Community, "generators")
}
