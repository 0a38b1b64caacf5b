package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

var sampleTitles = []string{
	"Which roads stay passable during a flash flood?",
	"Sandbag pickup locations this weekend?",
	"How high did the river get in the 2019 flood?",
	"Does the mall parking garage count as high ground?",
	"Best way to waterproof a basement on a budget?",
	"Is the Highway 9 bridge safe to cross right now?",
	"Where can I check real-time river gauge readings?",
	"What should go in a 72-hour emergency kit?",
}

var sampleContents = []string{
	"Asking for my street specifically, we flooded twice last year.",
	"City website is down again, hoping someone here knows.",
	"Trying to plan an evacuation route for my family.",
	"Neighbors have conflicting information, looking for a reliable answer.",
}

var sampleTags = []string{
	"evacuation", "supplies", "routes", "shelter",
	"insurance", "preparation", "sandbags", "river-levels",
}

var sampleAnswers = []string{
	"The community center on 5th has supplies through Sunday.",
	"Check the county gauge page, it updates every 15 minutes.",
	"We used the Oak Street route last time and it stayed dry.",
	"Emergency services recommended against that in the last briefing.",
}

var moderationToggles = []string{"urgent", "verified", "important", "resolved"}

// simulateActivities generates posts, answers, votes, tag toggles, and
// queries at the configured per-user frequencies until the context ends.
func (s *Simulator) simulateActivities(ctx context.Context) {
	n := float64(len(s.users))
	postTicker := time.NewTicker(frequencyToInterval(s.config.PostFrequency * n))
	answerTicker := time.NewTicker(frequencyToInterval(s.config.AnswerFreq * n))
	voteTicker := time.NewTicker(frequencyToInterval(s.config.VoteFrequency * n))
	queryTicker := time.NewTicker(frequencyToInterval(s.config.QueryFrequency * n))
	defer postTicker.Stop()
	defer answerTicker.Stop()
	defer voteTicker.Stop()
	defer queryTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-postTicker.C:
			s.createRandomPost(ctx)
		case <-answerTicker.C:
			s.submitRandomAnswer(ctx)
		case <-voteTicker.C:
			s.castRandomVote(ctx)
		case <-queryTicker.C:
			s.runRandomQuery(ctx)
		}
	}
}

// frequencyToInterval converts events-per-hour into a ticker interval,
// clamped so a tiny simulation still makes progress.
func frequencyToInterval(perHour float64) time.Duration {
	if perHour <= 0 {
		return time.Hour
	}
	interval := time.Duration(float64(time.Hour) / perHour)
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return interval
}

func (s *Simulator) randomUser() *SimulatedUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.users) == 0 {
		return nil
	}
	return s.users[rand.Intn(len(s.users))]
}

func (s *Simulator) randomPostID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.postIDs) == 0 {
		return ""
	}
	return s.postIDs[rand.Intn(len(s.postIDs))]
}

func (s *Simulator) createRandomPost(ctx context.Context) {
	user := s.randomUser()
	if user == nil {
		return
	}

	tags := sampleTags[rand.Intn(len(sampleTags))]
	if rand.Float64() < 0.5 {
		tags += ", " + sampleTags[rand.Intn(len(sampleTags))]
	}

	body := map[string]string{
		"title":   sampleTitles[rand.Intn(len(sampleTitles))],
		"content": sampleContents[rand.Intn(len(sampleContents))],
		"tags":    tags,
	}

	raw, err := s.doRequest(ctx, http.MethodPost, "/posts", user.Token, body)
	if err != nil {
		log.Printf("Create post failed for %s: %v", user.Username, err)
		return
	}

	var post struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &post); err != nil || post.ID == "" {
		return
	}

	s.mu.Lock()
	s.postIDs = append(s.postIDs, post.ID)
	user.Posts = append(user.Posts, post.ID)
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.TotalPosts++
	s.stats.mu.Unlock()
}

func (s *Simulator) submitRandomAnswer(ctx context.Context) {
	user := s.randomUser()
	postID := s.randomPostID()
	if user == nil || postID == "" {
		return
	}

	body := map[string]string{
		"postId":  postID,
		"content": sampleAnswers[rand.Intn(len(sampleAnswers))],
	}
	if _, err := s.doRequest(ctx, http.MethodPost, "/posts/answer", user.Token, body); err != nil {
		log.Printf("Answer failed for %s: %v", user.Username, err)
		return
	}

	s.stats.mu.Lock()
	s.stats.TotalAnswers++
	s.stats.mu.Unlock()

	// Admins occasionally follow an answer with a moderation tag change.
	if user.IsAdmin && rand.Float64() < 0.3 {
		s.toggleRandomTag(ctx, user, postID)
	}
}

func (s *Simulator) castRandomVote(ctx context.Context) {
	user := s.randomUser()
	postID := s.randomPostID()
	if user == nil || postID == "" {
		return
	}

	direction := "up"
	if rand.Float64() < 0.25 {
		direction = "down"
	}

	body := map[string]string{"postId": postID, "direction": direction}
	if _, err := s.doRequest(ctx, http.MethodPost, "/posts/vote", user.Token, body); err != nil {
		log.Printf("Vote failed for %s: %v", user.Username, err)
		return
	}

	s.stats.mu.Lock()
	s.stats.TotalVotes++
	s.stats.mu.Unlock()
}

func (s *Simulator) toggleRandomTag(ctx context.Context, admin *SimulatedUser, postID string) {
	body := map[string]string{
		"postId": postID,
		"tag":    moderationToggles[rand.Intn(len(moderationToggles))],
	}
	if _, err := s.doRequest(ctx, http.MethodPost, "/posts/tag", admin.Token, body); err != nil {
		log.Printf("Tag toggle failed: %v", err)
		return
	}

	s.stats.mu.Lock()
	s.stats.TagToggles++
	s.stats.mu.Unlock()
}

func (s *Simulator) runRandomQuery(ctx context.Context) {
	user := s.randomUser()
	if user == nil {
		return
	}

	params := url.Values{}
	switch rand.Intn(4) {
	case 0:
		params.Set("search", "flood")
	case 1:
		params.Set("tag", sampleTags[rand.Intn(len(sampleTags))])
	case 2:
		params.Set("sort", []string{"votes", "recent", "answered"}[rand.Intn(3)])
	}

	path := "/posts"
	if encoded := params.Encode(); encoded != "" {
		path = fmt.Sprintf("/posts?%s", encoded)
	}
	if _, err := s.doRequest(ctx, http.MethodGet, path, user.Token, nil); err != nil {
		log.Printf("Query failed for %s: %v", user.Username, err)
		return
	}

	s.stats.mu.Lock()
	s.stats.TotalQueries++
	s.stats.mu.Unlock()
}
