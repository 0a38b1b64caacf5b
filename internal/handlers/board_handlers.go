package handlers

import (
	"encoding/json"
	"net/http"

	"flood-watch/internal/engine/actors"
	"flood-watch/internal/forum"
	"flood-watch/internal/models"

	"github.com/google/uuid"
)

// CreatePostRequest represents a request to create a new question
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"` // comma-separated, as typed in the form
}

// SubmitAnswerRequest represents a request to answer a question
type SubmitAnswerRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

// VoteRequest represents a request to vote on a post or one of its answers
type VoteRequest struct {
	PostID    string `json:"postId"`
	AnswerID  string `json:"answerId,omitempty"` // empty targets the post
	Direction string `json:"direction"`
}

// ToggleTagRequest represents a request to flip a moderation tag
type ToggleTagRequest struct {
	PostID string `json:"postId"`
	Tag    string `json:"tag"`
}

// AcceptAnswerRequest represents a request to toggle the accepted flag
type AcceptAnswerRequest struct {
	PostID   string `json:"postId"`
	AnswerID string `json:"answerId"`
}

// HandlePosts serves the board listing (GET) and question creation (POST).
func (s *Server) HandlePosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.Metrics.IncrementRequests()
			query := r.URL.Query()

			result, appErr := s.askBoard(&actors.QueryPostsMsg{
				Search:    query.Get("search"),
				TagFilter: query.Get("tag"),
				Sort:      forum.SortMode(query.Get("sort")),
			})
			if appErr != nil {
				s.respondAppError(w, appErr)
				return
			}
			respondJSON(w, result)

		case http.MethodPost:
			s.Metrics.IncrementRequests()
			var req CreatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			author, appErr := s.actingUser(r)
			if appErr != nil {
				s.respondAppError(w, appErr)
				return
			}

			result, appErr := s.askBoard(&actors.CreatePostMsg{
				Title:   req.Title,
				Content: req.Content,
				Tags:    forum.SplitTagList(req.Tags),
				Author:  author,
			})
			if appErr != nil {
				s.respondAppError(w, appErr)
				return
			}
			respondJSON(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleGetPost serves a single question with its answers in display order.
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		postID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		result, appErr := s.askBoard(&actors.GetPostMsg{PostID: postID})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		post := result.(*models.Post)
		respondJSON(w, map[string]interface{}{
			"post":         post,
			"displayOrder": forum.DisplayOrder(post.Answers),
		})
	}
}

// HandleSubmitAnswer appends an answer to a question.
func (s *Server) HandleSubmitAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req SubmitAnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		author, appErr := s.actingUser(r)
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		result, appErr := s.askBoard(&actors.SubmitAnswerMsg{
			PostID:  postID,
			Content: req.Content,
			Author:  author,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}
		respondJSON(w, result)
	}
}

// HandleVote casts a vote on a post or an answer.
func (s *Server) HandleVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		var answerID *uuid.UUID
		if req.AnswerID != "" {
			parsed, err := uuid.Parse(req.AnswerID)
			if err != nil {
				http.Error(w, "Invalid answer ID format", http.StatusBadRequest)
				return
			}
			answerID = &parsed
		}

		voter, appErr := s.actingUser(r)
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		result, appErr := s.askBoard(&actors.VoteMsg{
			PostID:    postID,
			AnswerID:  answerID,
			UserID:    voter.ID,
			Direction: models.VoteDirection(req.Direction),
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}
		respondJSON(w, result)
	}
}

// HandleToggleTag flips a moderation tag on a question.
func (s *Server) HandleToggleTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ToggleTagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		acting, appErr := s.actingUser(r)
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		result, appErr := s.askBoard(&actors.ToggleModerationTagMsg{
			PostID: postID,
			Tag:    req.Tag,
			Actor:  acting,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}
		respondJSON(w, result)
	}
}

// HandleAcceptAnswer toggles the accepted flag on an answer.
func (s *Server) HandleAcceptAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req AcceptAnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}
		answerID, err := uuid.Parse(req.AnswerID)
		if err != nil {
			http.Error(w, "Invalid answer ID format", http.StatusBadRequest)
			return
		}

		acting, appErr := s.actingUser(r)
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		result, appErr := s.askBoard(&actors.AcceptAnswerMsg{
			PostID:   postID,
			AnswerID: answerID,
			Actor:    acting,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}
		respondJSON(w, result)
	}
}

// HandleKnownTags serves the filter-menu vocabulary.
func (s *Server) HandleKnownTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		result, appErr := s.askBoard(&actors.GetKnownTagsMsg{})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}
		respondJSON(w, result)
	}
}
