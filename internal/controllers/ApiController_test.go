package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyd/internal/common/clock"
	"hobbyd/internal/common/uuid"
	"hobbyd/internal/models"
	"hobbyd/internal/repositories"
	"hobbyd/internal/services"
	"hobbyd/internal/statistic"
	"hobbyd/internal/structures"
	"hobbyd/internal/testutil"
)

// --- local mocks (scoped to controller tests) ---

type mockService struct {
	services.TrackerServiceInterface

	summaryCalls int
	summary      *models.StatsSummary
	recentWindow statistic.Window
	err          error
}

func (m *mockService) Summary(_ context.Context, _ string) (*models.StatsSummary, error) {
	m.summaryCalls++
	return m.summary, m.err
}

func (m *mockService) RecentSessions(_ context.Context, _ string, window statistic.Window) ([]*models.SessionWithHobby, error) {
	m.recentWindow = window
	return []*models.SessionWithHobby{}, m.err
}

func (m *mockService) DeleteSession(_ context.Context, _, _ string) error {
	return m.err
}

// --- helpers ---

func testConfig() *structures.Config {
	return &structures.Config{Tracker: structures.TrackerConfig{
		Timezone:         "UTC",
		RecentWindowDays: 30,
		RecentLimit:      200,
		StatsConcurrency: 2,
	}}
}

func newMockController(svc *mockService) (*ApiController, *testutil.MockCache) {
	cache := testutil.NewMockCache()
	return NewApiController(testConfig(), &testutil.MockLogger{}, svc, cache), cache
}

// newTrackerController wires a real service over the in-memory store, with
// today fixed at 2024-01-10.
func newTrackerController(t *testing.T) (*ApiController, *testutil.MockCache) {
	t.Helper()
	conf := testConfig()
	engine, err := statistic.NewEngine(conf, clock.Fixed(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	logger := &testutil.MockLogger{}
	svc := services.NewTrackerService(conf, repositories.NewMemory(), engine, uuid.New(), logger)
	cache := testutil.NewMockCache()
	return NewApiController(conf, logger, svc, cache), cache
}

func do(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// --- request handling ---

func TestCreateUser_InvalidJSON(t *testing.T) {
	ac, _ := newTrackerController(t)

	rr := do(ac.CreateUser, http.MethodPost, "/users", "not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[errorResponse](t, rr).Error, "malformed")
}

func TestCreateUser_OversizedBody(t *testing.T) {
	ac, _ := newTrackerController(t)

	big := `{"name":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	rr := do(ac.CreateUser, http.MethodPost, "/users", big)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateUser_ValidationMessage(t *testing.T) {
	ac, _ := newTrackerController(t)

	rr := do(ac.CreateUser, http.MethodPost, "/users", `{"name":"A"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[errorResponse](t, rr).Error, "2-50 characters")
}

func TestTrackerFlow(t *testing.T) {
	ac, _ := newTrackerController(t)

	rr := do(ac.CreateUser, http.MethodPost, "/users", `{"name":"Ada","location":"London"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	user := decode[models.User](t, rr)
	assert.Equal(t, "London", user.Location)

	rr = do(ac.CreateHobby, http.MethodPost, "/hobbies", `{"userId":"`+user.ID+`","name":"Guitar","icon":"🎸"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	hobby := decode[models.Hobby](t, rr)

	for _, body := range []string{
		`{"userId":"` + user.ID + `","hobbyId":"` + hobby.ID + `","date":"2024-01-10","durationMinutes":60}`,
		`{"userId":"` + user.ID + `","hobbyId":"` + hobby.ID + `","date":"2024-01-09","durationMinutes":30}`,
	} {
		rr = do(ac.CreateSession, http.MethodPost, "/sessions", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr = do(ac.CreateSession, http.MethodPost, "/sessions",
		`{"userId":"`+user.ID+`","hobbyId":"`+hobby.ID+`","date":"2024-01-11","durationMinutes":30}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(ac.HobbyStats, http.MethodGet, "/hobbies/stats?user="+user.ID+"&id="+hobby.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.HobbyStats{TotalHours: 1.5, TotalSessions: 2, CurrentStreak: 2, LongestStreak: 2}, decode[models.HobbyStats](t, rr))

	rr = do(ac.HobbiesOverview, http.MethodGet, "/hobbies/overview?user="+user.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	overview := decode[[]map[string]any](t, rr)
	require.Len(t, overview, 1)
	assert.Equal(t, "Guitar", overview[0]["name"])

	rr = do(ac.RecentSessions, http.MethodGet, "/sessions/recent?user="+user.ID+"&days=0", "")
	require.Equal(t, http.StatusOK, rr.Code)
	recent := decode[[]map[string]any](t, rr)
	require.Len(t, recent, 1)
	assert.Equal(t, "2024-01-10", recent[0]["date"])
	assert.Equal(t, "🎸", recent[0]["hobbyIcon"])

	rr = do(ac.Summary, http.MethodGet, "/stats?user="+user.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[models.StatsSummary](t, rr)
	assert.Equal(t, 1.5, summary.TotalHours)
	require.NotNil(t, summary.MostPracticedHobby)
	assert.Equal(t, hobby.ID, summary.MostPracticedHobby.ID)

	rr = do(ac.DeleteHobby, http.MethodDelete, "/hobbies?user=intruder&id="+hobby.ID, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(ac.DeleteHobby, http.MethodDelete, "/hobbies?user="+user.ID+"&id="+hobby.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, decode[deleteHobbyResponse](t, rr).DeletedSessions)

	rr = do(ac.Summary, http.MethodGet, "/stats?user="+user.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatsSummary{}, decode[models.StatsSummary](t, rr))

	rr = do(ac.GetUser, http.MethodGet, "/users?id="+user.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[models.User](t, rr).Hobbies)
}

func TestNotFoundMapping(t *testing.T) {
	ac, _ := newTrackerController(t)

	assert.Equal(t, http.StatusNotFound, do(ac.GetUser, http.MethodGet, "/users?id=ghost", "").Code)
	assert.Equal(t, http.StatusNotFound, do(ac.HobbyStats, http.MethodGet, "/hobbies/stats?user=u&id=ghost", "").Code)
	assert.Equal(t, http.StatusNotFound, do(ac.DeleteSession, http.MethodDelete, "/sessions?user=u&id=ghost", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(ac.Summary, http.MethodGet, "/stats", "").Code)
}

// --- caching ---

func TestSummary_ServedFromCache(t *testing.T) {
	svc := &mockService{summary: &models.StatsSummary{TotalHobbies: 2}}
	ac, cache := newMockController(svc)

	for i := 0; i < 3; i++ {
		rr := do(ac.Summary, http.MethodGet, "/stats?user=u1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Equal(t, 2, decode[models.StatsSummary](t, rr).TotalHobbies)
	}
	assert.Equal(t, 1, svc.summaryCalls)
	assert.Equal(t, 1, cache.Len())
}

func TestWriteInvalidatesOnlyThatUser(t *testing.T) {
	svc := &mockService{summary: &models.StatsSummary{}}
	ac, _ := newMockController(svc)

	do(ac.Summary, http.MethodGet, "/stats?user=u1", "")
	do(ac.Summary, http.MethodGet, "/stats?user=u2", "")
	assert.Equal(t, 2, svc.summaryCalls)

	rr := do(ac.DeleteSession, http.MethodDelete, "/sessions?user=u1&id=s1", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	do(ac.Summary, http.MethodGet, "/stats?user=u1", "")
	do(ac.Summary, http.MethodGet, "/stats?user=u2", "")
	assert.Equal(t, 3, svc.summaryCalls)
}

func generationEntries(ac *ApiController) int {
	n := 0
	ac.generations.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestReadsDoNotTrackUnknownUsers(t *testing.T) {
	svc := &mockService{summary: &models.StatsSummary{}}
	ac, _ := newMockController(svc)

	for i := 0; i < 100; i++ {
		do(ac.Summary, http.MethodGet, fmt.Sprintf("/stats?user=nobody-%d", i), "")
		do(ac.RecentSessions, http.MethodGet, fmt.Sprintf("/sessions/recent?user=nobody-%d", i), "")
	}
	assert.Equal(t, 0, generationEntries(ac))

	do(ac.Summary, http.MethodGet, "/stats?user=u1", "")
	rr := do(ac.DeleteSession, http.MethodDelete, "/sessions?user=u1&id=s1", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 1, generationEntries(ac))

	calls := svc.summaryCalls
	do(ac.Summary, http.MethodGet, "/stats?user=u1", "")
	assert.Equal(t, calls+1, svc.summaryCalls)
}

func TestErrorsAreNotCached(t *testing.T) {
	svc := &mockService{err: errors.New("store offline")}
	ac, cache := newMockController(svc)

	rr := do(ac.Summary, http.MethodGet, "/stats?user=u1", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decode[errorResponse](t, rr).Error)
	assert.Equal(t, 0, cache.Len())
}

// --- query parsing ---

func TestRecentSessions_WindowParam(t *testing.T) {
	tests := []struct {
		query    string
		expected statistic.Window
	}{
		{"", 30},
		{"&days=7", 7},
		{"&days=0", 0},
		{"&days=all", statistic.AllTime},
		{"&days=-1", statistic.AllTime},
	}
	for _, tt := range tests {
		svc := &mockService{}
		ac, _ := newMockController(svc)

		rr := do(ac.RecentSessions, http.MethodGet, "/sessions/recent?user=u1"+tt.query, "")
		require.Equal(t, http.StatusOK, rr.Code, tt.query)
		assert.Equal(t, tt.expected, svc.recentWindow, tt.query)
	}
}

func TestRecentSessions_BadDays(t *testing.T) {
	ac, _ := newMockController(&mockService{})

	rr := do(ac.RecentSessions, http.MethodGet, "/sessions/recent?user=u1&days=week", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
