package user

import "context"

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	// Create は新しいユーザーを作成する
	Create(ctx context.Context, user *User) error

	// GetByID はIDからユーザーを取得する
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail はメールアドレスからユーザーを取得する
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail はメールアドレスが使用済みかを返す
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
