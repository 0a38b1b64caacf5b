// internal/database/user_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	HashedPassword string    `bson:"hashedPassword"`
	IsAdmin        bool      `bson:"isAdmin"`
	Avatar         string    `bson:"avatar,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func userToDocument(user *models.User) UserDocument {
	return UserDocument{
		ID:             user.ID.String(),
		Username:       user.Username,
		HashedPassword: user.HashedPassword,
		IsAdmin:        user.IsAdmin,
		Avatar:         user.Avatar,
		CreatedAt:      user.CreatedAt,
	}
}

func documentToUser(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}
	return &models.User{
		ID:             id,
		Username:       doc.Username,
		HashedPassword: doc.HashedPassword,
		IsAdmin:        doc.IsAdmin,
		Avatar:         doc.Avatar,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": userToDocument(user)}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}
	return documentToUser(&doc)
}

// GetUserByUsername retrieves a user from MongoDB by username
func (m *MongoDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(username)
	}
	if err != nil {
		return nil, err
	}
	return documentToUser(&doc)
}

// GetAllUsers retrieves every stored user
func (m *MongoDB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	cursor, err := m.Users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		user, err := documentToUser(&doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, cursor.Err()
}
