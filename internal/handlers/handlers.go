package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"flood-watch/internal/database"
	"flood-watch/internal/engine"
	"flood-watch/internal/engine/actors"
	"flood-watch/internal/middleware"
	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Store          database.Store
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	boardEngine *engine.Engine,
	metrics *utils.MetricsCollector,
	store database.Store,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         boardEngine,
		Metrics:        metrics,
		Store:          store,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// respondJSON writes a JSON response body.
func respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// respondAppError maps an application error to its HTTP status.
func (s *Server) respondAppError(w http.ResponseWriter, appErr *utils.AppError) {
	s.Metrics.IncrementErrors()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(utils.AppErrorToHTTPStatus(appErr.Code))
	json.NewEncoder(w).Encode(map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

// askBoard sends a message to the board actor and unwraps the reply.
func (s *Server) askBoard(msg interface{}) (interface{}, *utils.AppError) {
	future := s.Context.RequestFuture(s.Engine.GetBoardActor(), msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError("board")
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

// askUsers sends a message to the user actor and unwraps the reply.
func (s *Server) askUsers(msg interface{}) (interface{}, *utils.AppError) {
	future := s.Context.RequestFuture(s.Engine.GetUserActor(), msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError("users")
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

// actingUser builds the acting identity for the request from the JWT claims
// plus the stored account's display fields.
func (s *Server) actingUser(r *http.Request) (models.ActingUser, *utils.AppError) {
	claims := middleware.ClaimsFromRequest(r)
	if claims == nil {
		return models.ActingUser{}, utils.NewUnauthorizedError("missing credentials")
	}

	result, appErr := s.askUsers(&actors.GetUserMsg{UserID: claims.UserID})
	if appErr != nil {
		return models.ActingUser{}, appErr
	}
	user := result.(*models.User)

	return models.ActingUser{
		ID:       user.ID.String(),
		Username: user.Username,
		Avatar:   user.Avatar,
		IsAdmin:  user.IsAdmin,
	}, nil
}

// HandleHealth reports post/user counts plus collected metrics.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		postCount, appErr := s.askBoard(&actors.GetCountsMsg{})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}
		userCount, appErr := s.askUsers(&actors.GetUserCountMsg{})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		respondJSON(w, map[string]interface{}{
			"status":      "healthy",
			"post_count":  postCount,
			"user_count":  userCount,
			"server_time": time.Now(),
			"metrics":     s.Metrics.Snapshot(),
		})
	}
}
