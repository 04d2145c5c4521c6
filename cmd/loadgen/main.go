package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/atharv3903/borderroute/internal/model"
)

type result struct {
	latencies []time.Duration
	total     int64
	errors    int64
	hits      int64
	noRoute   int64
}

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "borderroute base URL")
	clients := flag.Int("clients", 1, "concurrent closed-loop clients")
	rate := flag.Int("rate", 0, "open-loop requests per second (0 = closed loop)")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	flag.Parse()

	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        500,
			MaxIdleConnsPerHost: 500,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: 5 * time.Second,
	}

	codes, err := loadCodes(client, *server)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Loaded %d countries", len(codes))

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	rec := &recorder{}
	if *rate > 0 {
		log.Printf("Running open-loop loadgen for %v at %d rps…", *duration, *rate)
		runOpen(ctx, client, *server, codes, *rate, rec)
	} else {
		log.Printf("Running closed-loop loadgen for %v with %d clients…", *duration, *clients)
		runClosed(ctx, client, *server, codes, *clients, rec)
	}
	res := rec.res

	stats := model.CacheStats{}
	if resp, err := client.Get(*server + "/debug/cache_stats"); err == nil {
		json.NewDecoder(resp.Body).Decode(&stats)
		resp.Body.Close()
	}

	fmt.Println("\n========== LOADGEN SUMMARY ==========")
	fmt.Printf("Total Requests: %d\n", res.total)
	fmt.Printf("Errors: %d\n", res.errors)
	fmt.Printf("No land route: %d\n", res.noRoute)
	if res.total > 0 {
		fmt.Printf("RouteCache Hit Rate (client): %.1f%%\n", float64(res.hits)/float64(res.total)*100)
		fmt.Printf("Throughput: %.2f rps\n", float64(res.total)/duration.Seconds())
	}
	if stats.Gets > 0 {
		fmt.Printf("RouteCache Hit Rate (server): %.1f%% (gets=%d, hits=%d, puts=%d, entries=%d)\n",
			float64(stats.Hits)/float64(stats.Gets)*100, stats.Gets, stats.Hits, stats.Puts, stats.Entries)
	}

	if len(res.latencies) > 0 {
		sort.Slice(res.latencies, func(i, j int) bool { return res.latencies[i] < res.latencies[j] })
		var sum time.Duration
		for _, l := range res.latencies {
			sum += l
		}
		fmt.Printf("Avg Latency: %v\n", sum/time.Duration(len(res.latencies)))
		fmt.Printf("P50: %v  P95: %v  P99: %v\n",
			percentile(res.latencies, 0.50), percentile(res.latencies, 0.95), percentile(res.latencies, 0.99))
		fmt.Printf("Fastest: %v\n", res.latencies[0])
		fmt.Printf("Slowest: %v\n", res.latencies[len(res.latencies)-1])
	}
	fmt.Println("=====================================")
}

type recorder struct {
	mu  sync.Mutex
	res result
}

// fire issues one routing request for a random pair and records the outcome.
func (r *recorder) fire(client *http.Client, server string, codes []string, rnd *rand.Rand) {
	src := codes[rnd.Intn(len(codes))]
	dst := codes[rnd.Intn(len(codes))]
	for dst == src {
		dst = codes[rnd.Intn(len(codes))]
	}

	start := time.Now()
	resp, err := client.Get(fmt.Sprintf("%s/routing/%s/%s", server, src, dst))
	lat := time.Since(start)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.res.total++
	if err != nil {
		r.res.errors++
		return
	}
	defer resp.Body.Close()

	r.res.latencies = append(r.res.latencies, lat)
	if resp.Header.Get("X-Cache") == "HIT" {
		r.res.hits++
	}
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		r.res.noRoute++
	case resp.StatusCode != http.StatusOK:
		r.res.errors++
	}
}

// runClosed keeps clients requests in flight: each worker waits for its
// response before sending the next.
func runClosed(ctx context.Context, client *http.Client, server string, codes []string, clients int, rec *recorder) {
	var wg sync.WaitGroup
	for w := 0; w < clients; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				rec.fire(client, server, codes, rnd)
			}
		}(time.Now().UnixNano() + int64(w))
	}
	wg.Wait()
}

// runOpen sends rate requests per second regardless of how fast the server
// answers.
func runOpen(ctx context.Context, client *http.Client, server string, codes []string, rate int, rec *recorder) {
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	var wg sync.WaitGroup
	seed := time.Now().UnixNano()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-ticker.C:
			seed++
			wg.Add(1)
			go func(seed int64) {
				defer wg.Done()
				rec.fire(client, server, codes, rand.New(rand.NewSource(seed)))
			}(seed)
		}
	}
}

func loadCodes(client *http.Client, server string) ([]string, error) {
	resp, err := client.Get(server + "/countries")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /countries: %s", resp.Status)
	}

	var list []model.CountrySummary
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(list))
	for _, c := range list {
		codes = append(codes, c.Code)
	}
	if len(codes) < 2 {
		return nil, fmt.Errorf("need at least two countries, got %d", len(codes))
	}
	return codes, nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	i := int(float64(len(sorted)) * p)
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}
