//go:build ignore

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gaadilink/backend/internal/config"
	"github.com/gaadilink/backend/internal/database"
	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/google/uuid"
)

const baseURL = "http://localhost:8080"

var loadCities = []struct {
	Name  string
	State string
}{
	{"Mumbai", "Maharashtra"},
	{"Pune", "Maharashtra"},
	{"Bangalore", "Karnataka"},
	{"Delhi", "Delhi"},
}

type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalLatency    int64
	MinLatency      int64
	MaxLatency      int64
}

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Println("GaadiLink Load Test")
	fmt.Println("===================")

	// Users and catalog rows are provisioned directly; identity lives behind
	// the gateway, not this API.
	fmt.Println("\n1. Creating test data...")
	userIDs, carTypeIDs := createTestData()

	if len(userIDs) == 0 || len(carTypeIDs) == 0 {
		log.Fatal("Failed to create test data")
	}

	fmt.Printf("Created %d users and %d car types\n", len(userIDs), len(carTypeIDs))

	// Test 1: Requirement creation
	fmt.Println("\n2. Testing Requirement Creation (100 requirements, 10 concurrent)...")
	stats := testRequirementCreation(userIDs, carTypeIDs, 100, 10)
	printStats("Requirement Creation", stats)

	// Test 2: Inbox listing throughput
	fmt.Println("\n3. Testing Inbox Listing (1000 requests, 50 concurrent)...")
	stats = testInboxListing(userIDs, 1000, 50)
	printStats("Inbox Listing", stats)

	// Test 3: Mixed load
	fmt.Println("\n4. Testing Mixed Load (30 seconds)...")
	stats = testMixedLoad(userIDs, carTypeIDs, 30*time.Second)
	printStats("Mixed Load", stats)

	fmt.Println("\nLoad test completed!")
}

func createTestData() ([]string, []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db.DB)
	businessCityRepo := repository.NewBusinessCityRepository(db.DB)

	carTypeIDs := make([]string, 0, 3)
	for _, name := range []string{"Sedan", "SUV", "Innova"} {
		id := uuid.New().String()
		_, err := db.ExecContext(ctx,
			`INSERT INTO car_types (id, name, is_active, created_at) VALUES ($1, $2, true, NOW())`,
			id, name)
		if err != nil {
			log.Fatalf("Failed to create car type: %v", err)
		}
		carTypeIDs = append(carTypeIDs, id)
	}

	userIDs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		user := &models.User{
			FullName:    fmt.Sprintf("LoadTest User %d", i),
			PhoneNumber: fmt.Sprintf("98%08d", rand.Intn(100000000)),
			IsVerified:  true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			continue
		}
		userIDs = append(userIDs, user.ID)

		city := loadCities[rand.Intn(len(loadCities))]
		businessCityRepo.Create(ctx, &models.BusinessCity{
			UserID:   user.ID,
			CityName: city.Name,
			State:    city.State,
		})
	}

	return userIDs, carTypeIDs
}

func testRequirementCreation(userIDs, carTypeIDs []string, numRequests, concurrency int) *Stats {
	stats := &Stats{MinLatency: int64(^uint64(0) >> 1)}
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, userID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			from := loadCities[rand.Intn(len(loadCities))]
			to := loadCities[rand.Intn(len(loadCities))]
			for to.Name == from.Name {
				to = loadCities[rand.Intn(len(loadCities))]
			}

			payload := map[string]interface{}{
				"from_city":   from.Name,
				"to_city":     to.Name,
				"pickup_date": time.Now().AddDate(0, 0, 1+rand.Intn(7)).Format("2006-01-02"),
				"pickup_time": fmt.Sprintf("%02d:00", 6+rand.Intn(16)),
				"car_type":    carTypeIDs[rand.Intn(len(carTypeIDs))],
				"trip_type":   "ONEWAY",
				"budget":      float64(2000 + rand.Intn(8000)),
			}
			body, _ := json.Marshal(payload)

			req, _ := http.NewRequest("POST", baseURL+"/v1/requirements", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-User-ID", userID)
			req.Header.Set("Idempotency-Key", fmt.Sprintf("load-test-req-%d-%d", idx, time.Now().UnixNano()))

			start := time.Now()
			resp, err := http.DefaultClient.Do(req)
			latency := time.Since(start).Milliseconds()

			record(stats, latency, err == nil && resp != nil && resp.StatusCode == 201, resp)
		}(i, userIDs[rand.Intn(len(userIDs))])
	}

	wg.Wait()
	return stats
}

func testInboxListing(userIDs []string, numRequests, concurrency int) *Stats {
	stats := &Stats{MinLatency: int64(^uint64(0) >> 1)}
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(userID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			req, _ := http.NewRequest("GET", baseURL+"/v1/requirements?page=1&limit=10", nil)
			req.Header.Set("X-User-ID", userID)

			start := time.Now()
			resp, err := http.DefaultClient.Do(req)
			latency := time.Since(start).Milliseconds()

			record(stats, latency, err == nil && resp != nil && resp.StatusCode == 200, resp)
		}(userIDs[rand.Intn(len(userIDs))])
	}

	wg.Wait()
	return stats
}

func testMixedLoad(userIDs, carTypeIDs []string, duration time.Duration) *Stats {
	stats := &Stats{MinLatency: int64(^uint64(0) >> 1)}
	var wg sync.WaitGroup
	done := make(chan struct{})

	// Listing workers (high frequency)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					userID := userIDs[rand.Intn(len(userIDs))]
					path := "/v1/requirements"
					if rand.Intn(100) < 30 {
						path = "/v1/requirements/my"
					}

					req, _ := http.NewRequest("GET", baseURL+path, nil)
					req.Header.Set("X-User-ID", userID)

					start := time.Now()
					resp, err := http.DefaultClient.Do(req)
					latency := time.Since(start).Milliseconds()

					record(stats, latency, err == nil && resp != nil && resp.StatusCode == 200, resp)
					time.Sleep(10 * time.Millisecond)
				}
			}
		}()
	}

	time.Sleep(duration)
	close(done)
	wg.Wait()

	return stats
}

func record(stats *Stats, latency int64, ok bool, resp *http.Response) {
	atomic.AddInt64(&stats.TotalRequests, 1)
	atomic.AddInt64(&stats.TotalLatency, latency)

	if resp != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	if !ok {
		atomic.AddInt64(&stats.FailedRequests, 1)
		return
	}
	atomic.AddInt64(&stats.SuccessRequests, 1)

	for {
		old := atomic.LoadInt64(&stats.MinLatency)
		if latency >= old || atomic.CompareAndSwapInt64(&stats.MinLatency, old, latency) {
			break
		}
	}
	for {
		old := atomic.LoadInt64(&stats.MaxLatency)
		if latency <= old || atomic.CompareAndSwapInt64(&stats.MaxLatency, old, latency) {
			break
		}
	}
}

func printStats(name string, stats *Stats) {
	avgLatency := float64(0)
	if stats.TotalRequests > 0 {
		avgLatency = float64(stats.TotalLatency) / float64(stats.TotalRequests)
	}

	fmt.Printf("\n%s Results:\n", name)
	fmt.Printf("  Total Requests:   %d\n", stats.TotalRequests)
	fmt.Printf("  Successful:       %d\n", stats.SuccessRequests)
	fmt.Printf("  Failed:           %d\n", stats.FailedRequests)
	fmt.Printf("  Success Rate:     %.2f%%\n", float64(stats.SuccessRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("  Avg Latency:      %.2f ms\n", avgLatency)
	if stats.MinLatency != int64(^uint64(0)>>1) {
		fmt.Printf("  Min Latency:      %d ms\n", stats.MinLatency)
	}
	fmt.Printf("  Max Latency:      %d ms\n", stats.MaxLatency)
	fmt.Printf("  Throughput:       %.0f req/s\n", float64(stats.TotalRequests)/(float64(stats.TotalLatency)/1000))
}
