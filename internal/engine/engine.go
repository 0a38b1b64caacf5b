package engine

import (
	"flood-watch/internal/database"
	"flood-watch/internal/engine/actors"
	"flood-watch/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine spawns and exposes the long-lived actors: the board actor holding
// the post-collection snapshot and the user actor backing the identity
// provider.
type Engine struct {
	boardActor *actor.PID
	userActor  *actor.PID
}

func NewEngine(system *actor.ActorSystem, metrics *utils.MetricsCollector, store database.Store) *Engine {
	context := system.Root

	boardProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewBoardActor(metrics, store)
	})
	boardPID := context.Spawn(boardProps)

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(store)
	})
	userPID := context.Spawn(userProps)

	return &Engine{
		boardActor: boardPID,
		userActor:  userPID,
	}
}

// GetBoardActor returns the PID of the board actor
func (e *Engine) GetBoardActor() *actor.PID {
	return e.boardActor
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}
