package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"hobbyd/internal/providers"
	"hobbyd/internal/repositories"
	"hobbyd/internal/structures"
)

const healthTimeout = 2 * time.Second

type HealthController struct {
	repo      repositories.Repository
	logger    providers.Logger
	driver    string
	startTime time.Time
}

type healthResponse struct {
	Status        string         `json:"status"`
	Uptime        string         `json:"uptime"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Store         string         `json:"store"`
	Records       map[string]int `json:"records,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Store:         hc.driver,
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	counts, err := hc.repo.Counts(ctx)
	if err != nil {
		hc.logger.Warnf(providers.TypeApp, "Health check could not reach the store: %s", err)
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	} else {
		resp.Records = counts.Totals
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, repo repositories.Repository, logger providers.Logger) *HealthController {
	driver := conf.Store.Driver
	if driver == "" {
		driver = structures.DriverMemory
	}
	return &HealthController{
		repo:      repo,
		logger:    logger,
		driver:    driver,
		startTime: time.Now(),
	}
}
