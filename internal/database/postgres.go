// internal/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"flood-watch/internal/forum"
	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresDB implements Store on PostgreSQL. The post collection is held as
// one jsonb snapshot row, matching the whole-collection replace semantics of
// the board; only users get a relational table.
type PostgresDB struct {
	DB *sqlx.DB
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS board_snapshots (
	name       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	is_admin        BOOLEAN NOT NULL DEFAULT FALSE,
	avatar          TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL
);
`

const (
	snapshotPosts = "posts"
	snapshotTags  = "known_tags"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	if _, err := db.Exec(pgSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL!")

	return &PostgresDB{DB: db}, nil
}

func (db *PostgresDB) Close(ctx context.Context) error {
	return db.DB.Close()
}

func (db *PostgresDB) loadSnapshot(ctx context.Context, name string, target interface{}) (bool, error) {
	var raw []byte
	err := db.DB.GetContext(ctx, &raw,
		`SELECT data FROM board_snapshots WHERE name = $1`, name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s snapshot: %v", name, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("failed to decode %s snapshot: %v", name, err)
	}
	return true, nil
}

func (db *PostgresDB) saveSnapshot(ctx context.Context, name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %v", name, err)
	}
	_, err = db.DB.ExecContext(ctx,
		`INSERT INTO board_snapshots (name, data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		name, raw)
	if err != nil {
		return fmt.Errorf("failed to write %s snapshot: %v", name, err)
	}
	return nil
}

// LoadPosts fetches the whole post collection snapshot.
func (db *PostgresDB) LoadPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	found, err := db.loadSnapshot(ctx, snapshotPosts, &posts)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	for _, post := range posts {
		if post.VoteLedger == nil {
			post.VoteLedger = models.VoteLedger{}
		}
		for _, answer := range post.Answers {
			if answer.VoteLedger == nil {
				answer.VoteLedger = models.VoteLedger{}
			}
		}
		forum.RecomputeDerived(post)
	}
	return posts, nil
}

// ReplacePosts swaps the stored snapshot for the given collection.
func (db *PostgresDB) ReplacePosts(ctx context.Context, posts []*models.Post) error {
	return db.saveSnapshot(ctx, snapshotPosts, posts)
}

// LoadKnownTags returns the advisory known-tag list.
func (db *PostgresDB) LoadKnownTags(ctx context.Context) ([]string, error) {
	var tags []string
	if _, err := db.loadSnapshot(ctx, snapshotTags, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// SaveKnownTags overwrites the advisory known-tag list.
func (db *PostgresDB) SaveKnownTags(ctx context.Context, tags []string) error {
	return db.saveSnapshot(ctx, snapshotTags, tags)
}

type userRow struct {
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	HashedPassword string    `db:"hashed_password"`
	IsAdmin        bool      `db:"is_admin"`
	Avatar         string    `db:"avatar"`
	CreatedAt      time.Time `db:"created_at"`
}

func rowToUser(row *userRow) (*models.User, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}
	return &models.User{
		ID:             id,
		Username:       row.Username,
		HashedPassword: row.HashedPassword,
		IsAdmin:        row.IsAdmin,
		Avatar:         row.Avatar,
		CreatedAt:      row.CreatedAt,
	}, nil
}

// SaveUser creates or updates a user row.
func (db *PostgresDB) SaveUser(ctx context.Context, user *models.User) error {
	_, err := db.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, hashed_password, is_admin, avatar, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			hashed_password = EXCLUDED.hashed_password,
			is_admin = EXCLUDED.is_admin,
			avatar = EXCLUDED.avatar`,
		user.ID.String(), user.Username, user.HashedPassword,
		user.IsAdmin, user.Avatar, user.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return utils.NewAppError(utils.ErrUserAlreadyExists, "username already taken", err)
	}
	return err
}

// GetUser retrieves a user by ID.
func (db *PostgresDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var row userRow
	err := db.DB.GetContext(ctx, &row,
		`SELECT id, username, hashed_password, is_admin, avatar, created_at
		 FROM users WHERE id = $1`, id.String())
	if err == sql.ErrNoRows {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}
	return rowToUser(&row)
}

// GetUserByUsername retrieves a user by username.
func (db *PostgresDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var row userRow
	err := db.DB.GetContext(ctx, &row,
		`SELECT id, username, hashed_password, is_admin, avatar, created_at
		 FROM users WHERE username = $1`, username)
	if err == sql.ErrNoRows {
		return nil, utils.NewUserNotFoundError(username)
	}
	if err != nil {
		return nil, err
	}
	return rowToUser(&row)
}

// GetAllUsers retrieves every stored user.
func (db *PostgresDB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	var rows []userRow
	err := db.DB.SelectContext(ctx, &rows,
		`SELECT id, username, hashed_password, is_admin, avatar, created_at
		 FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(rows))
	for i := range rows {
		user, err := rowToUser(&rows[i])
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
