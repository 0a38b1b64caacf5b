package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"flood-watch/internal/api"
	"flood-watch/internal/database"
	"flood-watch/internal/middleware"
	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for the identity provider.
type (
	RegisterUserMsg struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	LoginMsg struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	GetUserMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	GetUserCountMsg struct{}
)

// UserActor manages accounts: registration, login, and lookups. It keeps
// users in memory and writes through to the store.
type UserActor struct {
	usersByID   map[uuid.UUID]*models.User
	usersByName map[string]*models.User
	store       database.Store
}

func NewUserActor(store database.Store) actor.Actor {
	return &UserActor{
		usersByID:   make(map[uuid.UUID]*models.User),
		usersByName: make(map[string]*models.User),
		store:       store,
	}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("UserActor started with PID: %v", context.Self())
		a.loadFromStore()

	case *RegisterUserMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *GetUserMsg:
		if user, exists := a.usersByID[msg.UserID]; exists {
			context.Respond(user)
		} else {
			context.Respond(utils.NewUserNotFoundError(msg.UserID.String()))
		}
	case *GetUserCountMsg:
		context.Respond(len(a.usersByID))
	default:
		log.Printf("UserActor: Unknown message type: %T", msg)
	}
}

func (a *UserActor) loadFromStore() {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 10*time.Second)
	defer cancel()

	users, err := a.store.GetAllUsers(ctx)
	if err != nil {
		log.Printf("UserActor: Failed to load users from store: %v", err)
		return
	}
	for _, user := range users {
		a.usersByID[user.ID] = user
		a.usersByName[user.Username] = user
	}
	log.Printf("UserActor: Loaded %d users from store", len(users))
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	username := strings.TrimSpace(msg.Username)
	if username == "" || msg.Password == "" {
		context.Respond(utils.NewValidationError("username and password are required"))
		return
	}
	if _, exists := a.usersByName[username]; exists {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "username already taken", nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "failed to hash password", err))
		return
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: string(hashed),
		IsAdmin:        false,
		Avatar:         "/placeholder.svg",
		CreatedAt:      time.Now(),
	}

	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 10*time.Second)
	defer cancel()
	if err := a.store.SaveUser(ctx, user); err != nil {
		log.Printf("UserActor: Failed to persist user %s: %v", username, err)
	}

	a.usersByID[user.ID] = user
	a.usersByName[user.Username] = user

	context.Respond(user)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	user, exists := a.usersByName[strings.TrimSpace(msg.Username)]
	if !exists {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid username or password", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid username or password", nil))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to generate token", err))
		return
	}

	context.Respond(&api.LoginResponse{
		Success:  true,
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
}
