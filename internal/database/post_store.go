// internal/database/post_store.go
package database

import (
	"context"
	"fmt"
	"time"

	"flood-watch/internal/forum"
	"flood-watch/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID             string            `bson:"_id"`
	Title          string            `bson:"title"`
	Content        string            `bson:"content"`
	AuthorID       string            `bson:"authorid"`
	AuthorUsername string            `bson:"authorusername"`
	AuthorAvatar   string            `bson:"authoravatar,omitempty"`
	CommunityTags  []string          `bson:"tags"`
	ModerationTags []string          `bson:"admintags"`
	Score          int               `bson:"score"`
	VoteLedger     map[string]string `bson:"uservotes,omitempty"`
	Answers        []AnswerDocument  `bson:"answers"`
	CreatedAt      time.Time         `bson:"createdat"`
}

// AnswerDocument represents the MongoDB schema for an answer.
type AnswerDocument struct {
	ID             string            `bson:"id"`
	Content        string            `bson:"content"`
	AuthorID       string            `bson:"authorid"`
	AuthorUsername string            `bson:"authorusername"`
	AuthorAvatar   string            `bson:"authoravatar,omitempty"`
	IsOfficial     bool              `bson:"isofficial"`
	Score          int               `bson:"score"`
	VoteLedger     map[string]string `bson:"uservotes,omitempty"`
	CreatedAt      time.Time         `bson:"createdat"`
	Accepted       bool              `bson:"accepted,omitempty"`
}

// The derived flags are intentionally not persisted: they are recomputed
// from tags and answers on load.

func postToDocument(post *models.Post) PostDocument {
	doc := PostDocument{
		ID:             post.ID.String(),
		Title:          post.Title,
		Content:        post.Content,
		AuthorID:       post.AuthorID,
		AuthorUsername: post.AuthorUsername,
		AuthorAvatar:   post.AuthorAvatar,
		CommunityTags:  post.CommunityTags,
		ModerationTags: post.ModerationTags,
		Score:          post.Score,
		VoteLedger:     ledgerToDocument(post.VoteLedger),
		Answers:        make([]AnswerDocument, 0, len(post.Answers)),
		CreatedAt:      post.CreatedAt,
	}
	for _, answer := range post.Answers {
		doc.Answers = append(doc.Answers, AnswerDocument{
			ID:             answer.ID.String(),
			Content:        answer.Content,
			AuthorID:       answer.AuthorID,
			AuthorUsername: answer.AuthorUsername,
			AuthorAvatar:   answer.AuthorAvatar,
			IsOfficial:     answer.IsOfficial,
			Score:          answer.Score,
			VoteLedger:     ledgerToDocument(answer.VoteLedger),
			CreatedAt:      answer.CreatedAt,
			Accepted:       answer.Accepted,
		})
	}
	return doc
}

func documentToPost(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}

	post := &models.Post{
		ID:             id,
		Title:          doc.Title,
		Content:        doc.Content,
		AuthorID:       doc.AuthorID,
		AuthorUsername: doc.AuthorUsername,
		AuthorAvatar:   doc.AuthorAvatar,
		CommunityTags:  emptyIfNil(doc.CommunityTags),
		ModerationTags: emptyIfNil(doc.ModerationTags),
		Score:          doc.Score,
		VoteLedger:     documentToLedger(doc.VoteLedger),
		Answers:        make([]*models.Answer, 0, len(doc.Answers)),
		CreatedAt:      doc.CreatedAt,
	}

	for i := range doc.Answers {
		answerDoc := &doc.Answers[i]
		answerID, err := uuid.Parse(answerDoc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid answer ID: %v", err)
		}
		post.Answers = append(post.Answers, &models.Answer{
			ID:             answerID,
			PostID:         id,
			Content:        answerDoc.Content,
			AuthorID:       answerDoc.AuthorID,
			AuthorUsername: answerDoc.AuthorUsername,
			AuthorAvatar:   answerDoc.AuthorAvatar,
			IsOfficial:     answerDoc.IsOfficial,
			Score:          answerDoc.Score,
			VoteLedger:     documentToLedger(answerDoc.VoteLedger),
			CreatedAt:      answerDoc.CreatedAt,
			Accepted:       answerDoc.Accepted,
		})
	}

	forum.RecomputeDerived(post)
	return post, nil
}

func ledgerToDocument(ledger models.VoteLedger) map[string]string {
	if len(ledger) == 0 {
		return nil
	}
	out := make(map[string]string, len(ledger))
	for userID, direction := range ledger {
		out[userID] = string(direction)
	}
	return out
}

func documentToLedger(doc map[string]string) models.VoteLedger {
	out := make(models.VoteLedger, len(doc))
	for userID, direction := range doc {
		out[userID] = models.VoteDirection(direction)
	}
	return out
}

func emptyIfNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// LoadPosts fetches the whole post collection, newest first.
func (m *MongoDB) LoadPosts(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}})
	cursor, err := m.Posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %v", err)
		}
		post, err := documentToPost(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, cursor.Err()
}

// ReplacePosts swaps the entire stored collection for the given snapshot.
func (m *MongoDB) ReplacePosts(ctx context.Context, posts []*models.Post) error {
	if _, err := m.Posts.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear posts: %v", err)
	}
	if len(posts) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(posts))
	for _, post := range posts {
		docs = append(docs, postToDocument(post))
	}
	if _, err := m.Posts.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to write posts: %v", err)
	}
	return nil
}

// knownTagsDocID is the fixed key of the single known-tags document.
const knownTagsDocID = "known_tags"

type knownTagsDocument struct {
	ID   string   `bson:"_id"`
	Tags []string `bson:"tags"`
}

// LoadKnownTags returns the advisory known-tag list, or nil when the
// registry has never been saved.
func (m *MongoDB) LoadKnownTags(ctx context.Context) ([]string, error) {
	var doc knownTagsDocument
	err := m.Tags.FindOne(ctx, bson.M{"_id": knownTagsDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load known tags: %v", err)
	}
	return doc.Tags, nil
}

// SaveKnownTags overwrites the advisory known-tag list.
func (m *MongoDB) SaveKnownTags(ctx context.Context, tags []string) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": knownTagsDocID}
	update := bson.M{"$set": knownTagsDocument{ID: knownTagsDocID, Tags: tags}}

	_, err := m.Tags.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save known tags: %v", err)
	}
	return nil
}
