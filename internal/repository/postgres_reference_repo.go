package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// PostgresSportRepo はPostgreSQLを使用した競技種目リポジトリ。
// 競技種目はシードで投入される参照データであり、書き込みAPIは持たない。
type PostgresSportRepo struct {
	db *sql.DB
}

// NewPostgresSportRepo はPostgresSportRepoを生成する。
func NewPostgresSportRepo(db *sql.DB) *PostgresSportRepo {
	return &PostgresSportRepo{db: db}
}

// List は全競技種目を名前順で返す。
func (r *PostgresSportRepo) List(ctx context.Context) ([]model.Sport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color FROM sports ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sports: %w", err)
	}
	defer rows.Close()

	sports := []model.Sport{}
	for rows.Next() {
		var s model.Sport
		var color sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &color); err != nil {
			return nil, fmt.Errorf("failed to scan sport row: %w", err)
		}
		s.Color = color.String
		sports = append(sports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sport rows: %w", err)
	}

	return sports, nil
}

// FindByID は指定IDの競技種目を取得する。見つからない場合はnilを返す。
func (r *PostgresSportRepo) FindByID(ctx context.Context, id string) (*model.Sport, error) {
	s := &model.Sport{}
	var color sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM sports WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &color)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sport by ID: %w", err)
	}

	s.Color = color.String
	return s, nil
}

// PostgresStateRepo はPostgreSQLを使用した州リポジトリ。
type PostgresStateRepo struct {
	db *sql.DB
}

// NewPostgresStateRepo はPostgresStateRepoを生成する。
func NewPostgresStateRepo(db *sql.DB) *PostgresStateRepo {
	return &PostgresStateRepo{db: db}
}

// List は全州を名前順で返す。
func (r *PostgresStateRepo) List(ctx context.Context) ([]model.State, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT abbreviation, name FROM states ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	defer rows.Close()

	states := []model.State{}
	for rows.Next() {
		var s model.State
		if err := rows.Scan(&s.Abbreviation, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate state rows: %w", err)
	}

	return states, nil
}

// FindByAbbr は州略称で州を取得する。見つからない場合はnilを返す。
func (r *PostgresStateRepo) FindByAbbr(ctx context.Context, abbr string) (*model.State, error) {
	s := &model.State{}
	err := r.db.QueryRowContext(ctx,
		`SELECT abbreviation, name FROM states WHERE abbreviation = $1`,
		abbr,
	).Scan(&s.Abbreviation, &s.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find state by abbreviation: %w", err)
	}

	return s, nil
}

// compile-time interface checks
var (
	_ SportRepository = (*PostgresSportRepo)(nil)
	_ StateRepository = (*PostgresStateRepo)(nil)
)
