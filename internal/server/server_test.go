package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolup/poolup/internal/auth"
	"github.com/poolup/poolup/internal/service"
	"github.com/poolup/poolup/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	srv := New(
		auth.NewPasswordAuthenticator(store),
		jwtManager,
		service.NewUserService(store),
		service.NewGroupService(store),
		service.NewTransactionService(store),
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// call sends a JSON request and decodes the response envelope.
func call(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

// register creates an account and returns its token and user ID.
func register(t *testing.T, ts *httptest.Server, username string) (token, userID string) {
	t.Helper()

	status, envelope := call(t, ts, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, status)

	data := envelope["data"].(map[string]any)
	user := data["user"].(map[string]any)
	return data["token"].(string), user["id"].(string)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	token, _ := register(t, ts, "alice")
	require.NotEmpty(t, token)

	// Login with the same credentials.
	status, envelope := call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "correct horse",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope["status"])

	// Wrong password is a 401.
	status, envelope = call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "error", envelope["status"])

	// Profile requires a token.
	status, _ = call(t, ts, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, envelope = call(t, ts, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	user := envelope["data"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
}

func TestUpdateProfile(t *testing.T) {
	ts := newTestServer(t)
	token, _ := register(t, ts, "alice")
	register(t, ts, "bob")

	status, envelope := call(t, ts, http.MethodPut, "/api/users/me", token, map[string]any{
		"username": "alice2",
	})
	assert.Equal(t, http.StatusOK, status)
	user := envelope["data"].(map[string]any)
	assert.Equal(t, "alice2", user["username"])

	// Taking bob's username collides.
	status, _ = call(t, ts, http.MethodPut, "/api/users/me", token, map[string]any{
		"username": "bob",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGroupEndpoints(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := register(t, ts, "alice")
	memberToken, memberID := register(t, ts, "bob")

	// Create.
	status, envelope := call(t, ts, http.MethodPost, "/api/groups", adminToken, map[string]any{
		"name":          "House Fund",
		"description":   "deposit for the flat",
		"target_amount": 1000,
	})
	require.Equal(t, http.StatusCreated, status)
	group := envelope["data"].(map[string]any)
	groupID := group["id"].(string)
	assert.Equal(t, float64(0), group["current_amount"])
	assert.Equal(t, float64(0), group["progress"])

	// Non-members cannot read it.
	status, _ = call(t, ts, http.MethodGet, "/api/groups/"+groupID, memberToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Join, then read.
	status, _ = call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/join", memberToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, ts, http.MethodGet, "/api/groups/"+groupID, memberToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// Double join is rejected.
	status, _ = call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/join", memberToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Member cannot update; admin can.
	status, _ = call(t, ts, http.MethodPut, "/api/groups/"+groupID, memberToken, map[string]any{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, status)
	status, envelope = call(t, ts, http.MethodPut, "/api/groups/"+groupID, adminToken, map[string]any{
		"name": "Bigger House Fund",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bigger House Fund", envelope["data"].(map[string]any)["name"])

	// Sole admin cannot leave while members remain.
	status, _ = call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/leave", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Promote bob, then alice may leave.
	status, _ = call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/promote", adminToken, map[string]any{
		"user_id": memberID,
	})
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, ts, http.MethodPost, "/api/groups/"+groupID+"/leave", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// Unknown group is a 404.
	status, _ = call(t, ts, http.MethodPost, "/api/groups/nonexistent/join", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// TestSavingsScenario drives the whole flow over HTTP: contribute, bounce an
// oversized withdrawal, approve a valid one, replay the decision.
func TestSavingsScenario(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := register(t, ts, "alice")

	status, envelope := call(t, ts, http.MethodPost, "/api/groups", adminToken, map[string]any{
		"name":          "House Fund",
		"target_amount": 1000,
	})
	require.Equal(t, http.StatusCreated, status)
	groupID := envelope["data"].(map[string]any)["id"].(string)

	// Contribute 200.
	status, envelope = call(t, ts, http.MethodPost, "/api/transactions", adminToken, map[string]any{
		"group_id": groupID,
		"amount":   200,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "approved", envelope["data"].(map[string]any)["status"])

	// Withdrawal of 500 exceeds the balance.
	status, _ = call(t, ts, http.MethodPost, "/api/withdrawals", adminToken, map[string]any{
		"group_id": groupID,
		"amount":   500,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Withdrawal of 150 is pending.
	status, envelope = call(t, ts, http.MethodPost, "/api/withdrawals", adminToken, map[string]any{
		"group_id": groupID,
		"amount":   150,
	})
	require.Equal(t, http.StatusCreated, status)
	withdrawal := envelope["data"].(map[string]any)
	assert.Equal(t, "pending", withdrawal["status"])
	withdrawalID := withdrawal["id"].(string)

	// Approve it: balance drops to 50.
	status, envelope = call(t, ts, http.MethodPut, "/api/withdrawals/"+withdrawalID, adminToken, map[string]any{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", envelope["data"].(map[string]any)["status"])

	status, envelope = call(t, ts, http.MethodGet, "/api/groups/"+groupID, adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	group := envelope["data"].(map[string]any)
	assert.Equal(t, float64(50), group["current_amount"])
	assert.Equal(t, float64(5), group["progress"])

	// Replaying the decision fails.
	status, _ = call(t, ts, http.MethodPut, "/api/withdrawals/"+withdrawalID, adminToken, map[string]any{
		"status": "approved",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Summary sees one member with 200 contributed, 150 withdrawn.
	status, envelope = call(t, ts, http.MethodGet, "/api/groups/"+groupID+"/summary", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	summaryData := envelope["data"].(map[string]any)
	totals := summaryData["member_totals"].([]any)
	require.Len(t, totals, 1)
	member := totals[0].(map[string]any)
	assert.Equal(t, float64(200), member["contributed"])
	assert.Equal(t, float64(150), member["withdrawn"])
}

func TestTransactionVisibility(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, _ := register(t, ts, "alice")
	bobToken, _ := register(t, ts, "bob")

	status, envelope := call(t, ts, http.MethodPost, "/api/groups", aliceToken, map[string]any{
		"name":          "Private Pool",
		"target_amount": 100,
	})
	require.Equal(t, http.StatusCreated, status)
	groupID := envelope["data"].(map[string]any)["id"].(string)

	status, envelope = call(t, ts, http.MethodPost, "/api/transactions", aliceToken, map[string]any{
		"group_id": groupID,
		"amount":   40,
	})
	require.Equal(t, http.StatusCreated, status)
	txID := envelope["data"].(map[string]any)["id"].(string)

	// Member sees it; outsider gets a 404, not a 403.
	status, _ = call(t, ts, http.MethodGet, "/api/transactions/"+txID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, ts, http.MethodGet, "/api/transactions/"+txID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Group listing is members-only.
	status, _ = call(t, ts, http.MethodGet, "/api/groups/"+groupID+"/transactions", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
