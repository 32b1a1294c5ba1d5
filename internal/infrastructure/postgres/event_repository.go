package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
)

const eventColumns = `id, user_id, venue_id, date, start_time, end_time, guests, is_cancelled`

// eventRow はDBの行を表す構造体
// NULL を取りうる型で受け、toEntity で欠損を検出する
type eventRow struct {
	ID          sql.NullInt64  `db:"id"`
	UserID      sql.NullInt64  `db:"user_id"`
	VenueID     sql.NullInt64  `db:"venue_id"`
	Date        sql.NullString `db:"date"`
	StartTime   sql.NullInt64  `db:"start_time"`
	EndTime     sql.NullInt64  `db:"end_time"`
	Guests      sql.NullInt64  `db:"guests"`
	IsCancelled sql.NullBool   `db:"is_cancelled"`
}

// toEntity はeventRowをEventエンティティに変換する
// 値が 0 や false でも列が存在すれば受け入れる
func (r *eventRow) toEntity() (*event.Event, error) {
	if !r.ID.Valid || !r.UserID.Valid || !r.VenueID.Valid || !r.Date.Valid ||
		!r.StartTime.Valid || !r.EndTime.Valid || !r.Guests.Valid || !r.IsCancelled.Valid {
		return nil, event.ErrEventDecode
	}

	day, month, year, err := event.DecodeDate(r.Date.String)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", event.ErrEventDecode, err)
	}

	return &event.Event{
		ID:          r.ID.Int64,
		UserID:      r.UserID.Int64,
		VenueID:     r.VenueID.Int64,
		Day:         day,
		Month:       month,
		Year:        year,
		StartTime:   int(r.StartTime.Int64),
		EndTime:     int(r.EndTime.Int64),
		Guests:      int(r.Guests.Int64),
		IsCancelled: r.IsCancelled.Bool,
	}, nil
}

func toEvents(rows []eventRow) ([]*event.Event, error) {
	events := make([]*event.Event, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	date, err := e.DateKey()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO event (user_id, venue_id, date, start_time, end_time, guests, is_cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		e.UserID, e.VenueID, date, e.StartTime, e.EndTime, e.Guests, e.IsCancelled,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE id = $1`

	var row eventRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity()
}

// List は全イベントを取得する
func (r *EventRepository) List(ctx context.Context) ([]*event.Event, error) {
	return r.selectEvents(ctx, `SELECT `+eventColumns+` FROM event ORDER BY id`)
}

// ListByVenue は会場のイベントを取得する
func (r *EventRepository) ListByVenue(ctx context.Context, venueID int64) ([]*event.Event, error) {
	return r.selectEvents(ctx, `SELECT `+eventColumns+` FROM event WHERE venue_id = $1 ORDER BY id`, venueID)
}

// ListByUser はユーザーのイベントを取得する
func (r *EventRepository) ListByUser(ctx context.Context, userID int64) ([]*event.Event, error) {
	return r.selectEvents(ctx, `SELECT `+eventColumns+` FROM event WHERE user_id = $1 ORDER BY id`, userID)
}

// ListNotCancelled はキャンセルされていないイベントを取得する
func (r *EventRepository) ListNotCancelled(ctx context.Context) ([]*event.Event, error) {
	return r.selectEvents(ctx, `SELECT `+eventColumns+` FROM event WHERE is_cancelled = $1 ORDER BY id`, false)
}

func (r *EventRepository) selectEvents(ctx context.Context, query string, args ...interface{}) ([]*event.Event, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}
	return toEvents(rows)
}

// HasConflict は同じ会場・日付で条件に当たるキャンセルされていないイベントがあるかを返す
func (r *EventRepository) HasConflict(ctx context.Context, q event.ConflictQuery) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM event
			WHERE venue_id = $1
			  AND date = $2
			  AND (start_time >= $3 OR end_time <= $4)
			  AND is_cancelled = $5
			  AND id <> $6
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query,
		q.VenueID, q.Date, q.EarliestStart, q.LatestEnd, false, q.ExcludeID,
	)
	if err != nil {
		return false, fmt.Errorf("空き状況の確認に失敗しました: %w", err)
	}
	return exists, nil
}

// Reschedule はキャンセルされていないイベントの枠を上書きする
// is_cancelled は書き換えないので、並行したキャンセルを取り消すことはない
func (r *EventRepository) Reschedule(ctx context.Context, e *event.Event) error {
	date, err := e.DateKey()
	if err != nil {
		return err
	}

	query := `
		UPDATE event
		SET venue_id = $1, date = $2, start_time = $3, end_time = $4, guests = $5
		WHERE id = $6 AND is_cancelled = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		e.VenueID, date, e.StartTime, e.EndTime, e.Guests, e.ID, false,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// 対象が無いのか、キャンセル済みなのかを区別する
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM event WHERE id = $1)`, e.ID); err != nil {
		return fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	if exists {
		return event.ErrEventCancelled
	}
	return event.ErrEventNotFound
}

// Cancel はイベントをキャンセル済みにする
func (r *EventRepository) Cancel(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE event SET is_cancelled = $1 WHERE id = $2`, true, id)
	if err != nil {
		return fmt.Errorf("イベントのキャンセルに失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
