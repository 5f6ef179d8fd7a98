package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// eventDetailColumns はEventDetailのスキャンに使用するSELECT句。
// イベントに競技種目・会場・会場の州をINNER JOINする。
// 参照整合性（sport_id, venue_id, state_abbrのFK）によりJOINは必ず1行に解決する。
const eventDetailColumns = `
	e.id, e.name, e.sport_id, e.starts_at, e.description, e.venue_id, e.owner_id,
	e.created_at, e.updated_at,
	s.id, s.name, s.color,
	v.id, v.name, v.city, v.state_abbr, v.zip_code, v.address_1, v.phone,
	v.created_at, v.updated_at,
	st.abbreviation, st.name`

const eventDetailJoins = `
	FROM events e
	JOIN sports s ON s.id = e.sport_id
	JOIN venues v ON v.id = e.venue_id
	JOIN states st ON st.abbreviation = v.state_abbr`

// PostgresEventRepo はPostgreSQLを使用したイベントリポジトリ。
type PostgresEventRepo struct {
	db *sql.DB
}

// NewPostgresEventRepo はPostgresEventRepoを生成する。
func NewPostgresEventRepo(db *sql.DB) *PostgresEventRepo {
	return &PostgresEventRepo{db: db}
}

// scanEventDetail は1行をEventDetailにスキャンする。
func scanEventDetail(row interface {
	Scan(dest ...interface{}) error
}) (*model.EventDetail, error) {
	d := &model.EventDetail{}
	var description, color, zipCode, address1, phone sql.NullString
	var ownerID sql.NullString

	err := row.Scan(
		&d.ID, &d.Name, &d.SportID, &d.StartsAt, &description, &d.VenueID, &ownerID,
		&d.CreatedAt, &d.UpdatedAt,
		&d.Sport.ID, &d.Sport.Name, &color,
		&d.Venue.ID, &d.Venue.Name, &d.Venue.City, &d.Venue.StateAbbr, &zipCode, &address1, &phone,
		&d.Venue.CreatedAt, &d.Venue.UpdatedAt,
		&d.Venue.State.Abbreviation, &d.Venue.State.Name,
	)
	if err != nil {
		return nil, err
	}

	d.Description = description.String
	d.Sport.Color = color.String
	d.Venue.ZipCode = zipCode.String
	d.Venue.Address1 = address1.String
	d.Venue.Phone = phone.String
	if ownerID.Valid {
		d.OwnerID = &ownerID.String
	}
	return d, nil
}

// ListVisible はactorに可視なイベントをstarts_at降順で返す。
// actorIDがnilの場合は公開（owner_id IS NULL）イベントのみ。
func (r *PostgresEventRepo) ListVisible(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
	query := `SELECT` + eventDetailColumns + eventDetailJoins + `
	WHERE e.owner_id IS NULL`
	args := []interface{}{}

	if actorID != nil {
		query += ` OR e.owner_id = $1`
		args = append(args, *actorID)
	}
	query += `
	ORDER BY e.starts_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visible events: %w", err)
	}
	defer rows.Close()

	events := []model.EventDetail{}
	for rows.Next() {
		d, err := scanEventDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}

	return events, nil
}

// FindByID は指定IDのイベントを関連情報付きで取得する。見つからない場合はnilを返す。
func (r *PostgresEventRepo) FindByID(ctx context.Context, id string) (*model.EventDetail, error) {
	query := `SELECT` + eventDetailColumns + eventDetailJoins + `
	WHERE e.id = $1`

	d, err := scanEventDetail(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event by ID: %w", err)
	}
	return d, nil
}

// Create はイベントを作成し、関連情報をJOINした作成結果を返す。
func (r *PostgresEventRepo) Create(ctx context.Context, event *model.Event) (*model.EventDetail, error) {
	var description interface{}
	if event.Description != "" {
		description = event.Description
	}

	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO events (id, name, sport_id, starts_at, description, venue_id, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		event.ID, event.Name, event.SportID, event.StartsAt, description,
		event.VenueID, event.OwnerID, event.CreatedAt, event.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	created, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("event disappeared after insert: %s", id)
	}
	return created, nil
}

// Update は部分更新ペイロードを適用しupdated_atを現在時刻に設定する。
// nilフィールドは変更しない。対象行が存在しない場合はnilを返す。
func (r *PostgresEventRepo) Update(ctx context.Context, id string, patch model.EventPatch) (*model.EventDetail, error) {
	sets := []string{}
	args := []interface{}{}
	n := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if patch.Name != nil {
		appendSet("name", *patch.Name)
	}
	if patch.SportID != nil {
		appendSet("sport_id", *patch.SportID)
	}
	if patch.StartsAt != nil {
		appendSet("starts_at", *patch.StartsAt)
	}
	if patch.Description != nil {
		// 空文字列への更新はNULL化として扱う
		if *patch.Description == "" {
			appendSet("description", nil)
		} else {
			appendSet("description", *patch.Description)
		}
	}
	if patch.VenueID != nil {
		appendSet("venue_id", *patch.VenueID)
	}

	appendSet("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE events SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), n,
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(ctx, id)
}

// Delete は指定IDのイベントを削除する。
// 削除した場合はtrue、対象行が存在しなかった場合はfalseを返す。
// 同一IDへの2回目の呼び出しは(false, nil)となり、エラーにはならない。
func (r *PostgresEventRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ EventRepository = (*PostgresEventRepo)(nil)
