package event

import "context"

// ConflictQuery は空き確認で使う検索条件
type ConflictQuery struct {
	VenueID       int64
	Date          string
	EarliestStart int
	LatestEnd     int
	// ExcludeID が 0 以外なら、そのイベント自身は競合対象から外す
	ExcludeID int64
}

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成し、採番された ID を設定する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id int64) (*Event, error)

	// List は全イベントを取得する
	List(ctx context.Context) ([]*Event, error)

	// ListByVenue は会場のイベントを取得する
	ListByVenue(ctx context.Context, venueID int64) ([]*Event, error)

	// ListByUser はユーザーのイベントを取得する
	ListByUser(ctx context.Context, userID int64) ([]*Event, error)

	// ListNotCancelled はキャンセルされていないイベントを取得する
	ListNotCancelled(ctx context.Context) ([]*Event, error)

	// HasConflict は条件に当たるキャンセルされていないイベントがあるかを返す
	HasConflict(ctx context.Context, q ConflictQuery) (bool, error)

	// Reschedule はキャンセルされていないイベントの会場・日時・人数を上書きする
	// 書き込み時点でキャンセル済みなら ErrEventCancelled を返す
	Reschedule(ctx context.Context, event *Event) error

	// Cancel はイベントをキャンセル済みにする。キャンセル済みでもエラーにしない
	Cancel(ctx context.Context, id int64) error
}
