package main

import (
	"context"
	"log"
	"time"

	"flood-watch/simulator"
)

func main() {
	config := simulator.SimConfig{
		NumUsers:       10,
		SimulationTime: 5 * time.Minute,
		PostFrequency:  60.0,
		AnswerFreq:     120.0,
		VoteFrequency:  300.0,
		QueryFrequency: 120.0,
		AdminUsername:  "admin",
		AdminPassword:  "admin123",
		BoardURL:       "http://localhost:8080",
	}

	log.Printf("Starting simulation with configuration:")
	log.Printf("- Board URL: %s", config.BoardURL)
	log.Printf("- Number of users: %d", config.NumUsers)
	log.Printf("- Simulation time: %v", config.SimulationTime)
	log.Printf("- Post frequency: %.2f posts/user/hour", config.PostFrequency)
	log.Printf("- Answer frequency: %.2f answers/user/hour", config.AnswerFreq)
	log.Printf("- Vote frequency: %.2f votes/user/hour", config.VoteFrequency)

	sim := simulator.NewSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.SimulationTime)
	defer cancel()

	if err := sim.Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	metrics := sim.GetMetrics()
	log.Printf("\nSimulation completed. Final metrics:")
	log.Printf("- Total sessions: %d", metrics.TotalUsers)
	log.Printf("- Total requests: %d (%d ok, %d failed)", metrics.TotalRequests, metrics.SuccessRequests, metrics.FailedRequests)
	log.Printf("- Posts created: %d", metrics.TotalPosts)
	log.Printf("- Answers submitted: %d", metrics.TotalAnswers)
	log.Printf("- Votes cast: %d", metrics.TotalVotes)
	log.Printf("- Queries run: %d", metrics.TotalQueries)
	log.Printf("- Tag toggles: %d", metrics.TagToggles)
	log.Printf("- Average latency: %v", metrics.AverageLatency)
}
