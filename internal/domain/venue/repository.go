package venue

import "context"

// Repository は会場リポジトリのインターフェース
type Repository interface {
	// Create は新しい会場を作成する
	Create(ctx context.Context, venue *Venue) error

	// GetByID はIDから会場を取得する
	GetByID(ctx context.Context, id int64) (*Venue, error)

	// List は会場一覧を取得する
	List(ctx context.Context) ([]*Venue, error)

	// Update は会場を更新する
	Update(ctx context.Context, venue *Venue) error
}
