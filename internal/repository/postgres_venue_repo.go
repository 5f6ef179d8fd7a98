package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// venueDetailColumns はVenueDetailのスキャンに使用するSELECT句。
const venueDetailColumns = `
	v.id, v.name, v.city, v.state_abbr, v.zip_code, v.address_1, v.phone,
	v.created_at, v.updated_at,
	st.abbreviation, st.name`

const venueDetailJoins = `
	FROM venues v
	JOIN states st ON st.abbreviation = v.state_abbr`

// PostgresVenueRepo はPostgreSQLを使用した会場リポジトリ。
type PostgresVenueRepo struct {
	db *sql.DB
}

// NewPostgresVenueRepo はPostgresVenueRepoを生成する。
func NewPostgresVenueRepo(db *sql.DB) *PostgresVenueRepo {
	return &PostgresVenueRepo{db: db}
}

// scanVenueDetail は1行をVenueDetailにスキャンする。
func scanVenueDetail(row interface {
	Scan(dest ...interface{}) error
}) (*model.VenueDetail, error) {
	d := &model.VenueDetail{}
	var zipCode, address1, phone sql.NullString

	err := row.Scan(
		&d.ID, &d.Name, &d.City, &d.StateAbbr, &zipCode, &address1, &phone,
		&d.CreatedAt, &d.UpdatedAt,
		&d.State.Abbreviation, &d.State.Name,
	)
	if err != nil {
		return nil, err
	}

	d.ZipCode = zipCode.String
	d.Address1 = address1.String
	d.Phone = phone.String
	return d, nil
}

// List は全会場を州とJOINし、名前順で返す。
func (r *PostgresVenueRepo) List(ctx context.Context) ([]model.VenueDetail, error) {
	query := `SELECT` + venueDetailColumns + venueDetailJoins + `
	ORDER BY v.name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	venues := []model.VenueDetail{}
	for rows.Next() {
		d, err := scanVenueDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue row: %w", err)
		}
		venues = append(venues, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate venue rows: %w", err)
	}

	return venues, nil
}

// FindByID は指定IDの会場を州とJOINして取得する。見つからない場合はnilを返す。
func (r *PostgresVenueRepo) FindByID(ctx context.Context, id string) (*model.VenueDetail, error) {
	query := `SELECT` + venueDetailColumns + venueDetailJoins + `
	WHERE v.id = $1`

	d, err := scanVenueDetail(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find venue by ID: %w", err)
	}
	return d, nil
}

// Create は会場を作成し、州をJOINした作成結果を返す。
func (r *PostgresVenueRepo) Create(ctx context.Context, venue *model.Venue) (*model.VenueDetail, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO venues (id, name, city, state_abbr, zip_code, address_1, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		 RETURNING id`,
		venue.ID, venue.Name, venue.City, venue.StateAbbr,
		venue.ZipCode, venue.Address1, venue.Phone,
		venue.CreatedAt, venue.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert venue: %w", err)
	}

	created, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("venue disappeared after insert: %s", id)
	}
	return created, nil
}

// compile-time interface check
var _ VenueRepository = (*PostgresVenueRepo)(nil)
