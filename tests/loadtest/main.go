package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numAthletes  = 200
	numActivity  = 2000
)

var activityTypes = []string{"Ride", "Run", "VirtualRide", "Hike", "Swim"}

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

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== kudosd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Athletes: %d | Activities: %d\n\n", numAthletes, numActivity)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
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

	// Phase 1: Ingest-only
	fmt.Println("\n--- Phase 1: Ingest (POST /activities) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doIngest(rng)
	})

	// Phase 2: Mixed ingest and evaluation
	fmt.Println("\n--- Phase 2: Mixed load (60% ingest, 20% evaluate, 20% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.60:
			return doIngest(rng)
		case r < 0.80:
			return doEvaluate(rng)
		case r < 0.90:
			return doGetRules()
		default:
			return doGetReviewCount()
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% ingest, 90% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doIngest(rng)
		case r < 0.55:
			return doGetRules()
		case r < 0.75:
			return doGetStats()
		case r < 0.90:
			return doGetReviewCount()
		default:
			return doGetSettings()
		}
	})
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

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
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

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 90))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 90))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func randomActivity(rng *rand.Rand) map[string]interface{} {
	athlete := rng.Intn(numAthletes)
	activityType := activityTypes[rng.Intn(len(activityTypes))]

	body := map[string]interface{}{
		"id":           fmt.Sprintf("act_%d", rng.Intn(numActivity)),
		"athleteId":    fmt.Sprintf("ath_%d", athlete),
		"athleteName":  fmt.Sprintf("Athlete %d", athlete),
		"activityType": activityType,
		"distance": map[string]interface{}{
			"value": rng.Float64() * 120,
			"unit":  "miles",
		},
		"movingTime":   float64(rng.Intn(6*3600) + 600),
		"hasPR":        rng.Float64() < 0.05,
		"commentCount": rng.Intn(20),
		"hasKudos":     rng.Float64() < 0.3,
	}
	if rng.Float64() < 0.5 {
		body["elevation"] = map[string]interface{}{
			"value": rng.Float64() * 12000,
			"unit":  "feet",
		}
	}
	return body
}

func doIngest(rng *rand.Rand) result {
	data, _ := json.Marshal(randomActivity(rng))
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/activities", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /activities", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /activities", resp.StatusCode, lat, resp.StatusCode != 202}
}

func doEvaluate(rng *rand.Rand) result {
	data, _ := json.Marshal(randomActivity(rng))
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/evaluate", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /evaluate", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /evaluate", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGet(endpoint string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + endpoint)
	lat := time.Since(start)
	if err != nil {
		return result{"GET " + endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET " + endpoint, resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetRules() result       { return doGet("/rules") }
func doGetStats() result       { return doGet("/stats") }
func doGetReviewCount() result { return doGet("/review-queue/count") }
func doGetSettings() result    { return doGet("/settings") }

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
