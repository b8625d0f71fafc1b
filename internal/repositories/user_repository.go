package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messaging-service/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, email, displayName, passwordHash string) (models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	FilterExisting(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, display_name, password_hash, is_active, is_staff, is_admin, created_at`

// CreateUser inserts a new active user.
func (r *UserRepo) CreateUser(ctx context.Context, email, displayName, passwordHash string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`INSERT INTO users (id, email, display_name, password_hash) VALUES ($1, $2, $3, $4)
         RETURNING `+userColumns,
		uuid.New(), email, displayName, passwordHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByID fetches a user by id.
func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUserByEmail fetches a user by login email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// FilterExisting returns the subset of ids that resolve to users, preserving
// input order. Unresolvable ids are dropped, not reported.
func (r *UserRepo) FilterExisting(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var found []uuid.UUID
	if err := r.db.SelectContext(ctx, &found, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	foundSet := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		foundSet[id] = struct{}{}
	}

	result := make([]uuid.UUID, 0, len(found))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := foundSet[id]; ok {
			result = append(result, id)
		}
	}
	return result, nil
}

// DeleteUser removes the user and cascades over their messages, their
// notifications and their participant rows in one transaction. A partial
// failure rolls everything back.
func (r *UserRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM messages WHERE sender_id=$1 OR receiver_id=$1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM notifications WHERE recipient_id=$1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM conversation_participants WHERE user_id=$1`, id); err != nil {
		return err
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
		return err
	}
	var count int64
	if count, err = res.RowsAffected(); err != nil {
		return err
	}
	if count == 0 {
		err = ErrUserNotFound
		return err
	}

	return tx.Commit()
}
