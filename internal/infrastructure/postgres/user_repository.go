package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-venue-booking/internal/domain/user"
)

const userColumns = `id, first_name, last_name, email, password, is_admin`

// uniqueViolation は PostgreSQL の一意制約違反コード
const uniqueViolation = "23505"

// userRow はDBの行を表す構造体
type userRow struct {
	ID        sql.NullInt64  `db:"id"`
	FirstName sql.NullString `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	Email     sql.NullString `db:"email"`
	Password  sql.NullString `db:"password"`
	IsAdmin   sql.NullBool   `db:"is_admin"`
}

// toEntity はuserRowをUserエンティティに変換する
func (r *userRow) toEntity() (*user.User, error) {
	if !r.ID.Valid || !r.FirstName.Valid || !r.LastName.Valid ||
		!r.Email.Valid || !r.Password.Valid || !r.IsAdmin.Valid {
		return nil, user.ErrUserDecode
	}
	return &user.User{
		ID:           r.ID.Int64,
		FirstName:    r.FirstName.String,
		LastName:     r.LastName.String,
		Email:        r.Email.String,
		PasswordHash: r.Password.String,
		IsAdmin:      r.IsAdmin.Bool,
	}, nil
}

// UserRepository はユーザーリポジトリのPostgreSQL実装
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository はUserRepositoryを作成する
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create は新しいユーザーを作成する
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO customer (first_name, last_name, email, password, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsAdmin,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("ユーザー作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからユーザーを取得する
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM customer WHERE id = $1`, id)
}

// GetByEmail はメールアドレスからユーザーを取得する
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM customer WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗しました: %w", err)
	}
	return row.toEntity()
}

// ExistsByEmail はメールアドレスが使用済みかを返す
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM customer WHERE email = $1)`
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("メールアドレスの確認に失敗しました: %w", err)
	}
	return exists, nil
}

var _ user.Repository = (*UserRepository)(nil)
