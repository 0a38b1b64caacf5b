package actors

import (
	stdctx "context"
	"log"
	"time"

	"flood-watch/internal/database"
	"flood-watch/internal/forum"
	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for board operations. Every mutation flows through the
// board actor's mailbox, which serializes writers over the collection
// snapshot.
type (
	CreatePostMsg struct {
		Title   string            `json:"title"`
		Content string            `json:"content"`
		Tags    []string          `json:"tags"`
		Author  models.ActingUser `json:"author"`
	}

	GetPostMsg struct {
		PostID uuid.UUID `json:"postId"`
	}

	QueryPostsMsg struct {
		Search    string         `json:"search"`
		TagFilter string         `json:"tagFilter"`
		Sort      forum.SortMode `json:"sort"`
	}

	SubmitAnswerMsg struct {
		PostID  uuid.UUID         `json:"postId"`
		Content string            `json:"content"`
		Author  models.ActingUser `json:"author"`
	}

	// VoteMsg targets the post itself when AnswerID is nil, otherwise the
	// given answer.
	VoteMsg struct {
		PostID    uuid.UUID            `json:"postId"`
		AnswerID  *uuid.UUID           `json:"answerId,omitempty"`
		UserID    string               `json:"userId"`
		Direction models.VoteDirection `json:"direction"`
	}

	ToggleModerationTagMsg struct {
		PostID uuid.UUID         `json:"postId"`
		Tag    string            `json:"tag"`
		Actor  models.ActingUser `json:"actor"`
	}

	AcceptAnswerMsg struct {
		PostID   uuid.UUID         `json:"postId"`
		AnswerID uuid.UUID         `json:"answerId"`
		Actor    models.ActingUser `json:"actor"`
	}

	GetKnownTagsMsg struct{}

	GetCountsMsg struct{}
)

// VoteResult pairs the updated post with what the vote actually did, so a
// toggle-off can be told apart from a failure.
type VoteResult struct {
	Post    *models.Post      `json:"post"`
	Outcome forum.VoteOutcome `json:"outcome"`
}

// KnownTags is the filter-menu payload: the fixed moderation vocabulary
// plus every community tag seen so far.
type KnownTags struct {
	Moderation []string `json:"moderationTags"`
	Community  []string `json:"communityTags"`
}

// BoardActor owns the post-collection snapshot. It loads the collection
// from the store on start, applies every command in mailbox order, and
// writes the whole collection back after each mutation.
type BoardActor struct {
	postsByID map[uuid.UUID]*models.Post
	order     []uuid.UUID // newest first
	registry  *forum.TagRegistry
	metrics   *utils.MetricsCollector
	store     database.Store
}

// NewBoardActor creates a new BoardActor instance
func NewBoardActor(metrics *utils.MetricsCollector, store database.Store) actor.Actor {
	return &BoardActor{
		postsByID: make(map[uuid.UUID]*models.Post),
		registry:  forum.NewTagRegistry(forum.DefaultCommunityTags),
		metrics:   metrics,
		store:     store,
	}
}

// Receive handles incoming messages
func (a *BoardActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("BoardActor started with PID: %v", context.Self())
		a.loadFromStore()

	case *actor.Stopping:
		log.Printf("BoardActor stopping")

	case *CreatePostMsg:
		a.handleCreatePost(context, msg)
	case *GetPostMsg:
		a.handleGetPost(context, msg)
	case *QueryPostsMsg:
		a.handleQueryPosts(context, msg)
	case *SubmitAnswerMsg:
		a.handleSubmitAnswer(context, msg)
	case *VoteMsg:
		a.handleVote(context, msg)
	case *ToggleModerationTagMsg:
		a.handleToggleTag(context, msg)
	case *AcceptAnswerMsg:
		a.handleAcceptAnswer(context, msg)
	case *GetKnownTagsMsg:
		context.Respond(&KnownTags{
			Moderation: forum.ModerationTags(),
			Community:  a.registry.Known(),
		})
	case *GetCountsMsg:
		context.Respond(len(a.postsByID))
	default:
		log.Printf("BoardActor: Unknown message type: %T", msg)
	}
}

func (a *BoardActor) loadFromStore() {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 10*time.Second)
	defer cancel()

	posts, err := a.store.LoadPosts(ctx)
	if err != nil {
		log.Printf("BoardActor: Failed to load posts from store: %v", err)
		return
	}

	// LoadPosts returns newest first; keep that as the board order.
	for _, post := range posts {
		a.postsByID[post.ID] = post
		a.order = append(a.order, post.ID)
		a.registry.Register(post.CommunityTags)
	}

	tags, err := a.store.LoadKnownTags(ctx)
	if err != nil {
		log.Printf("BoardActor: Failed to load known tags: %v", err)
	} else {
		a.registry.Register(tags)
	}

	log.Printf("BoardActor: Loaded %d posts from store", len(posts))
}

// snapshot returns the posts in board order. The slice is fresh; the posts
// are the live aggregates.
func (a *BoardActor) snapshot() []*models.Post {
	posts := make([]*models.Post, 0, len(a.order))
	for _, id := range a.order {
		if post := a.postsByID[id]; post != nil {
			posts = append(posts, post)
		}
	}
	return posts
}

// persist writes the whole collection back to the store. The in-memory
// snapshot stays authoritative; a store failure is logged and surfaced to
// the store's own retry policy, never retried here.
func (a *BoardActor) persist() {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 10*time.Second)
	defer cancel()

	if err := a.store.ReplacePosts(ctx, a.snapshot()); err != nil {
		log.Printf("BoardActor: Failed to persist posts: %v", err)
	}
}

func (a *BoardActor) persistKnownTags() {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 10*time.Second)
	defer cancel()

	if err := a.store.SaveKnownTags(ctx, a.registry.Known()); err != nil {
		log.Printf("BoardActor: Failed to persist known tags: %v", err)
	}
}

func (a *BoardActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()

	post, err := forum.NewPost(msg.Title, msg.Content, msg.Tags, msg.Author)
	if err != nil {
		context.Respond(err)
		return
	}

	a.postsByID[post.ID] = post
	a.order = append([]uuid.UUID{post.ID}, a.order...)

	if added := a.registry.Register(post.CommunityTags); len(added) > 0 {
		a.persistKnownTags()
	}
	a.persist()

	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(post)
}

func (a *BoardActor) handleGetPost(context actor.Context, msg *GetPostMsg) {
	if post, exists := a.postsByID[msg.PostID]; exists {
		context.Respond(post)
	} else {
		context.Respond(utils.NewNotFoundError("post not found"))
	}
}

func (a *BoardActor) handleQueryPosts(context actor.Context, msg *QueryPostsMsg) {
	startTime := time.Now()

	posts := forum.Query(a.snapshot(), forum.QueryOptions{
		Search:    msg.Search,
		TagFilter: msg.TagFilter,
		Sort:      msg.Sort,
	})

	a.metrics.AddOperationLatency("query_posts", time.Since(startTime))
	context.Respond(posts)
}

func (a *BoardActor) handleSubmitAnswer(context actor.Context, msg *SubmitAnswerMsg) {
	startTime := time.Now()

	post, exists := a.postsByID[msg.PostID]
	if !exists {
		context.Respond(utils.NewNotFoundError("post not found"))
		return
	}

	answer, err := forum.SubmitAnswer(post, msg.Content, msg.Author)
	if err != nil {
		context.Respond(err)
		return
	}
	a.persist()

	a.metrics.AddOperationLatency("submit_answer", time.Since(startTime))
	context.Respond(answer)
}

func (a *BoardActor) handleVote(context actor.Context, msg *VoteMsg) {
	startTime := time.Now()

	post, exists := a.postsByID[msg.PostID]
	if !exists {
		context.Respond(utils.NewNotFoundError("post not found"))
		return
	}

	var outcome forum.VoteOutcome
	var err error
	operation := "vote_post"
	if msg.AnswerID == nil {
		outcome, err = forum.VotePost(post, msg.UserID, msg.Direction)
	} else {
		operation = "vote_answer"
		outcome, err = forum.VoteAnswer(post, *msg.AnswerID, msg.UserID, msg.Direction)
	}
	if err != nil {
		context.Respond(err)
		return
	}
	a.persist()

	a.metrics.AddOperationLatency(operation, time.Since(startTime))
	context.Respond(&VoteResult{Post: post, Outcome: outcome})
}

func (a *BoardActor) handleToggleTag(context actor.Context, msg *ToggleModerationTagMsg) {
	startTime := time.Now()

	post, exists := a.postsByID[msg.PostID]
	if !exists {
		context.Respond(utils.NewNotFoundError("post not found"))
		return
	}

	if err := forum.ToggleModerationTag(post, msg.Tag, msg.Actor); err != nil {
		context.Respond(err)
		return
	}
	a.persist()

	a.metrics.AddOperationLatency("toggle_tag", time.Since(startTime))
	context.Respond(post)
}

func (a *BoardActor) handleAcceptAnswer(context actor.Context, msg *AcceptAnswerMsg) {
	startTime := time.Now()

	post, exists := a.postsByID[msg.PostID]
	if !exists {
		context.Respond(utils.NewNotFoundError("post not found"))
		return
	}

	if _, err := forum.AcceptAnswer(post, msg.AnswerID, msg.Actor); err != nil {
		context.Respond(err)
		return
	}
	a.persist()

	a.metrics.AddOperationLatency("accept_answer", time.Since(startTime))
	context.Respond(post)
}
