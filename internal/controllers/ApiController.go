package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"hobbyd/internal/providers"
	"hobbyd/internal/services"
	"hobbyd/internal/statistic"
	"hobbyd/internal/structures"
	"hobbyd/internal/validation"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger       providers.Logger
	service      services.TrackerServiceInterface
	cache        providers.CacheProviderInterface
	recentWindow statistic.Window
	generations  sync.Map // user id -> *atomic.Uint64
}

func NewApiController(conf *structures.Config, logger providers.Logger, service services.TrackerServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:       logger,
		service:      service,
		cache:        cache,
		recentWindow: statistic.Window(conf.Tracker.RecentWindowDays),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type deleteHobbyResponse struct {
	DeletedSessions int `json:"deletedSessions"`
}

// generation is 0 for users that were never written to. Reads never add
// entries, only invalidate does.
func (ac *ApiController) generation(userID string) uint64 {
	if g, ok := ac.generations.Load(userID); ok {
		return g.(*atomic.Uint64).Load()
	}
	return 0
}

// invalidate makes every cached response of userID unreachable.
func (ac *ApiController) invalidate(userID string) {
	g, _ := ac.generations.LoadOrStore(userID, new(atomic.Uint64))
	g.(*atomic.Uint64).Add(1)
}

func (ac *ApiController) cacheKey(kind, userID string, parts ...string) string {
	key := fmt.Sprintf("%s:%s:%d", kind, userID, ac.generation(userID))
	if len(parts) > 0 {
		key += ":" + strings.Join(parts, ":")
	}
	return key
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrHobbyNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		message = "Internal Server Error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", services.ErrInvalidInput)
	}
	return nil
}

// windowParam reads the days query parameter. Missing means the configured
// default, "all" or a negative number means no bound.
func (ac *ApiController) windowParam(raw string) (statistic.Window, error) {
	switch raw {
	case "":
		return ac.recentWindow, nil
	case "all":
		return statistic.AllTime, nil
	}
	days, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: days must be a number", services.ErrInvalidInput)
	}
	if days < 0 {
		return statistic.AllTime, nil
	}
	return statistic.Window(days), nil
}

func (ac *ApiController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req validation.CreateUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	user, err := ac.service.CreateUser(r.Context(), req.Name, req.Location)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (ac *ApiController) GetUser(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("user", id), func() (any, error) {
		return ac.service.GetUser(r.Context(), id)
	})
}

func (ac *ApiController) ListHobbies(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("hobbies", userID), func() (any, error) {
		return ac.service.ListHobbies(r.Context(), userID)
	})
}

func (ac *ApiController) CreateHobby(w http.ResponseWriter, r *http.Request) {
	var req validation.CreateHobbyRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	hobby, err := ac.service.CreateHobby(r.Context(), req.UserID, req.Name, req.Icon)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.invalidate(req.UserID)
	writeJSON(w, http.StatusCreated, hobby)
}

func (ac *ApiController) DeleteHobby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user")
	deleted, err := ac.service.DeleteHobby(r.Context(), userID, q.Get("id"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.invalidate(userID)
	writeJSON(w, http.StatusOK, deleteHobbyResponse{DeletedSessions: deleted})
}

func (ac *ApiController) HobbyStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, hobbyID := q.Get("user"), q.Get("id")
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("hobby_stats", userID, hobbyID), func() (any, error) {
		return ac.service.HobbyStats(r.Context(), userID, hobbyID)
	})
}

func (ac *ApiController) HobbiesOverview(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("overview", userID), func() (any, error) {
		return ac.service.HobbiesWithStats(r.Context(), userID)
	})
}

func (ac *ApiController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req validation.CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	session, err := ac.service.CreateSession(r.Context(), req.UserID, req.HobbyID, req.Date, req.DurationMinutes)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.invalidate(req.UserID)
	writeJSON(w, http.StatusCreated, session)
}

func (ac *ApiController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user")
	if err := ac.service.DeleteSession(r.Context(), userID, q.Get("id")); err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.invalidate(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) RecentSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user")
	window, err := ac.windowParam(q.Get("days"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("recent", userID, cast.ToString(int(window))), func() (any, error) {
		return ac.service.RecentSessions(r.Context(), userID, window)
	})
}

func (ac *ApiController) Summary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("summary", userID), func() (any, error) {
		return ac.service.Summary(r.Context(), userID)
	})
}
