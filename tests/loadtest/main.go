package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

const (
	baseURL         = "http://127.0.0.1:8090"
	numWorkers      = 50
	testDuration    = 10 * time.Second
	numUsers        = 100
	hobbiesPerUser  = 4
	historyDays     = 90
	seedConcurrency = 16
)

var hobbyNames = []string{"Guitar", "Chess", "Running", "Painting", "Yoga", "Baking", "Reading", "Climbing"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type fixture struct {
	userID   string
	hobbyIDs []string
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type endpointStats struct {
	count     int64
	errors    int64
	latencies []float64
}

func main() {
	fmt.Println("=== hobbyd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Users: %d | Hobbies/user: %d | History: %d days\n\n", numUsers, hobbiesPerUser, historyDays)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Seeding users and hobbies ---")
	fixtures, err := seed()
	if err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}
	fmt.Printf("Seeded %d users\n", len(fixtures))

	fmt.Println("\n--- Phase 1: Logging sessions (POST /sessions) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doCreateSession(rng, pick(rng, fixtures))
	})

	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		f := pick(rng, fixtures)
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doCreateSession(rng, f)
		case r < 0.65:
			return doGet("/stats", "user="+f.userID)
		case r < 0.80:
			return doGet("/hobbies/overview", "user="+f.userID)
		case r < 0.90:
			return doGet("/sessions/recent", "user="+f.userID)
		default:
			return doGet("/hobbies/stats", "user="+f.userID+"&id="+f.hobbyIDs[rng.Intn(len(f.hobbyIDs))])
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		f := pick(rng, fixtures)
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doCreateSession(rng, f)
		case r < 0.40:
			return doGet("/stats", "user="+f.userID)
		case r < 0.70:
			return doGet("/hobbies/overview", "user="+f.userID)
		case r < 0.85:
			return doGet("/sessions/recent", "user="+f.userID+"&days=all")
		default:
			return doGet("/hobbies", "user="+f.userID)
		}
	})
}

func pick(rng *rand.Rand, fixtures []fixture) fixture {
	return fixtures[rng.Intn(len(fixtures))]
}

func seed() ([]fixture, error) {
	fixtures := make([]fixture, numUsers)
	g := new(errgroup.Group)
	g.SetLimit(seedConcurrency)

	for i := range fixtures {
		g.Go(func() error {
			var user struct {
				ID string `json:"id"`
			}
			if err := postJSON("/users", map[string]string{"name": fmt.Sprintf("user %d", i)}, &user); err != nil {
				return err
			}
			f := fixture{userID: user.ID}
			for j := 0; j < hobbiesPerUser; j++ {
				var hobby struct {
					ID string `json:"id"`
				}
				body := map[string]string{"userId": user.ID, "name": hobbyNames[(i+j)%len(hobbyNames)]}
				if err := postJSON("/hobbies", body, &hobby); err != nil {
					return err
				}
				f.hobbyIDs = append(f.hobbyIDs, hobby.ID)
			}
			fixtures[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fixtures, nil
}

func postJSON(path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*endpointStats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &endpointStats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, float64(r.latency.Microseconds()))
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*endpointStats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 90))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		avg, _ := stats.Mean(s.latencies)
		p50, _ := stats.Percentile(s.latencies, 50)
		p95, _ := stats.Percentile(s.latencies, 95)
		p99, _ := stats.Percentile(s.latencies, 99)

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtMicros(avg), fmtMicros(p50), fmtMicros(p95), fmtMicros(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 90))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doCreateSession(rng *rand.Rand, f fixture) result {
	body := map[string]any{
		"userId":          f.userID,
		"hobbyId":         f.hobbyIDs[rng.Intn(len(f.hobbyIDs))],
		"date":            time.Now().AddDate(0, 0, -rng.Intn(historyDays)).Format(time.DateOnly),
		"durationMinutes": rng.Intn(180) + 1,
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/sessions", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /sessions", 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /sessions", resp.StatusCode, lat, resp.StatusCode != http.StatusCreated}
}

func doGet(path, query string) result {
	endpoint := "GET " + path
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path + "?" + query)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func fmtMicros(us float64) string {
	if us < 1000 {
		return fmt.Sprintf("%.0fµs", us)
	}
	return fmt.Sprintf("%.1fms", us/1000.0)
}
