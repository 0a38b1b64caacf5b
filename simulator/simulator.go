package simulator

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
	"time"
)

// SimConfig controls the shape of the generated load.
type SimConfig struct {
	NumUsers       int
	SimulationTime time.Duration
	PostFrequency  float64 // posts per user per hour
	AnswerFreq     float64 // answers per user per hour
	VoteFrequency  float64 // votes per user per hour
	QueryFrequency float64 // board queries per user per hour
	AdminUsername  string
	AdminPassword  string
	BoardURL       string
}

// SimulationStats aggregates outcomes across all workers.
type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	TotalPosts       int
	TotalAnswers     int
	TotalVotes       int
	TotalQueries     int
	TagToggles       int
	RequestLatencies []time.Duration
}

// SimMetrics is the read-only summary returned after a run.
type SimMetrics struct {
	TotalUsers      int
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalPosts      int
	TotalAnswers    int
	TotalVotes      int
	TotalQueries    int
	TagToggles      int
	AverageLatency  time.Duration
}

// SimulatedUser is a registered account with its session token.
type SimulatedUser struct {
	ID       string
	Username string
	Token    string
	IsAdmin  bool
	Posts    []string // IDs of posts created by this user
}

// Simulator drives a running board over HTTP.
type Simulator struct {
	config  SimConfig
	stats   *SimulationStats
	users   []*SimulatedUser
	postIDs []string
	client  *http.Client
	mu      sync.RWMutex
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats: &SimulationStats{
			StartTime:        time.Now(),
			RequestLatencies: make([]time.Duration, 0),
		},
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Run registers the user base, logs in the admin account, then generates
// posts, answers, votes, tag toggles, and queries until the context ends.
func (s *Simulator) Run(ctx context.Context) error {
	log.Printf("Starting board simulation...")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateActivities(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.reportProgress(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *Simulator) initialize(ctx context.Context) error {
	log.Printf("Phase 1: Registering %d users...", s.config.NumUsers)
	if err := s.createUsers(ctx); err != nil {
		return err
	}

	log.Printf("Phase 2: Logging in admin account %q...", s.config.AdminUsername)
	admin, err := s.login(ctx, s.config.AdminUsername, s.config.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin login failed: %v", err)
	}
	s.mu.Lock()
	s.users = append(s.users, admin)
	s.mu.Unlock()

	log.Printf("Initialization completed with %d sessions", len(s.users))
	return nil
}

func (s *Simulator) createUsers(ctx context.Context) error {
	runID := rand.Intn(100000)
	for i := 0; i < s.config.NumUsers; i++ {
		username := fmt.Sprintf("sim_%d_user_%d", runID, i)
		password := "simpass123"

		body := map[string]string{"username": username, "password": password}
		if _, err := s.doRequest(ctx, http.MethodPost, "/user/register", "", body); err != nil {
			log.Printf("Failed to register %s: %v", username, err)
			continue
		}

		user, err := s.login(ctx, username, password)
		if err != nil {
			log.Printf("Failed to log in %s: %v", username, err)
			continue
		}

		s.mu.Lock()
		s.users = append(s.users, user)
		s.mu.Unlock()

		// Keep registration gentle on the actor mailbox.
		time.Sleep(50 * time.Millisecond)
	}

	if len(s.users) == 0 {
		return fmt.Errorf("no users could be registered")
	}
	return nil
}

func (s *Simulator) login(ctx context.Context, username, password string) (*SimulatedUser, error) {
	body := map[string]string{"username": username, "password": password}
	raw, err := s.doRequest(ctx, http.MethodPost, "/user/login", "", body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Token    string `json:"token"`
		UserID   string `json:"userId"`
		Username string `json:"username"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	return &SimulatedUser{
		ID:       resp.UserID,
		Username: resp.Username,
		Token:    resp.Token,
		IsAdmin:  resp.IsAdmin,
	}, nil
}

// doRequest sends a JSON request and records latency and outcome.
func (s *Simulator) doRequest(ctx context.Context, method, path, token string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.BoardURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	s.stats.mu.Lock()
	s.stats.TotalRequests++
	s.stats.RequestLatencies = append(s.stats.RequestLatencies, latency)
	if err != nil || resp.StatusCode >= 400 {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}
	s.stats.mu.Unlock()

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, raw)
	}
	return raw, nil
}

func (s *Simulator) reportProgress(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.stats.mu.RLock()
			log.Printf("Progress: %d requests (%d ok, %d failed), %d posts, %d answers, %d votes",
				s.stats.TotalRequests, s.stats.SuccessRequests, s.stats.FailedRequests,
				s.stats.TotalPosts, s.stats.TotalAnswers, s.stats.TotalVotes)
			s.stats.mu.RUnlock()
		}
	}
}

// GetMetrics returns a summary of the completed run.
func (s *Simulator) GetMetrics() SimMetrics {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	var total time.Duration
	for _, l := range s.stats.RequestLatencies {
		total += l
	}
	var avg time.Duration
	if len(s.stats.RequestLatencies) > 0 {
		avg = total / time.Duration(len(s.stats.RequestLatencies))
	}

	return SimMetrics{
		TotalUsers:      len(s.users),
		TotalRequests:   s.stats.TotalRequests,
		SuccessRequests: s.stats.SuccessRequests,
		FailedRequests:  s.stats.FailedRequests,
		TotalPosts:      s.stats.TotalPosts,
		TotalAnswers:    s.stats.TotalAnswers,
		TotalVotes:      s.stats.TotalVotes,
		TotalQueries:    s.stats.TotalQueries,
		TagToggles:      s.stats.TagToggles,
		AverageLatency:  avg,
	}
}
