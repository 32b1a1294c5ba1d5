package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

const venueColumns = `id, name, address, postcode, state, capacity, hourly_rate`

// venueRow はDBの行を表す構造体
type venueRow struct {
	ID         sql.NullInt64   `db:"id"`
	Name       sql.NullString  `db:"name"`
	Address    sql.NullString  `db:"address"`
	Postcode   sql.NullString  `db:"postcode"`
	State      sql.NullString  `db:"state"`
	Capacity   sql.NullInt64   `db:"capacity"`
	HourlyRate sql.NullFloat64 `db:"hourly_rate"`
}

// toEntity はvenueRowをVenueエンティティに変換する
func (r *venueRow) toEntity() (*venue.Venue, error) {
	if !r.ID.Valid || !r.Name.Valid || !r.Address.Valid || !r.Postcode.Valid ||
		!r.State.Valid || !r.Capacity.Valid || !r.HourlyRate.Valid {
		return nil, venue.ErrVenueDecode
	}
	return &venue.Venue{
		ID:         r.ID.Int64,
		Name:       r.Name.String,
		Address:    r.Address.String,
		Postcode:   r.Postcode.String,
		State:      venue.State(r.State.String),
		Capacity:   int(r.Capacity.Int64),
		HourlyRate: r.HourlyRate.Float64,
	}, nil
}

// VenueRepository は会場リポジトリのPostgreSQL実装
type VenueRepository struct {
	db *sqlx.DB
}

// NewVenueRepository はVenueRepositoryを作成する
func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

// Create は新しい会場を作成する
func (r *VenueRepository) Create(ctx context.Context, v *venue.Venue) error {
	query := `
		INSERT INTO venue (name, address, postcode, state, capacity, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		v.Name, v.Address, v.Postcode, string(v.State), v.Capacity, v.HourlyRate,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("会場作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから会場を取得する
func (r *VenueRepository) GetByID(ctx context.Context, id int64) (*venue.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venue WHERE id = $1`

	var row venueRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, fmt.Errorf("会場取得に失敗しました: %w", err)
	}
	return row.toEntity()
}

// List は会場一覧を取得する
func (r *VenueRepository) List(ctx context.Context) ([]*venue.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venue ORDER BY id`

	var rows []venueRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("会場一覧取得に失敗しました: %w", err)
	}

	venues := make([]*venue.Venue, 0, len(rows))
	for i := range rows {
		v, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, nil
}

// Update は会場を更新する
func (r *VenueRepository) Update(ctx context.Context, v *venue.Venue) error {
	query := `
		UPDATE venue
		SET name = $1, address = $2, postcode = $3, state = $4, capacity = $5, hourly_rate = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		v.Name, v.Address, v.Postcode, string(v.State), v.Capacity, v.HourlyRate, v.ID,
	)
	if err != nil {
		return fmt.Errorf("会場更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return venue.ErrVenueNotFound
	}
	return nil
}

var _ venue.Repository = (*VenueRepository)(nil)
