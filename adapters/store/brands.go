// Package store persists the normalized dataset in a SQL database and
// serves the filtered views the UI renders from.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"franmap/domain/brand"
	"franmap/internal/errors"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know
	// a bindvar style for.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// insertChunkSize keeps bulk inserts under driver bindvar limits.
const insertChunkSize = 500

// dimColumns maps filter dimensions onto brands table columns. Query
// builders only ever interpolate column names from this map.
var dimColumns = map[brand.Dimension]string{
	brand.DimCountry:     "country",
	brand.DimProductType: "product_type",
	brand.DimGroupType:   "group_type",
	brand.DimBrandOrigin: "brand_origin",
}

// LoadRecord describes one ingest run of the source file.
type LoadRecord struct {
	ID         string `db:"id" json:"id"`
	SourceFile string `db:"source_file" json:"sourceFile"`
	RowCount   int    `db:"row_count" json:"rowCount"`
	Skipped    int    `db:"skipped_count" json:"skipped"`
	Duplicates int    `db:"duplicate_count" json:"duplicates"`
	LoadedAt   string `db:"loaded_at" json:"loadedAt"`
}

// BrandStore is the brands repository.
type BrandStore struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the configured database and verifies the connection.
func Open(driver, url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

// NewBrandStore creates a brands repository on an open connection.
func NewBrandStore(db *sqlx.DB) *BrandStore {
	return &BrandStore{db: db, driver: db.DriverName()}
}

// Init creates the schema if it does not exist.
func (s *BrandStore) Init(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == "postgres" {
		idColumn = "id SERIAL PRIMARY KEY"
	}

	schema := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS brands (
			%s,
			brand_name TEXT NOT NULL,
			franchise_group TEXT NOT NULL,
			country TEXT NOT NULL,
			product_type TEXT,
			group_type TEXT,
			brand_origin TEXT
		)`, idColumn),
		`CREATE TABLE IF NOT EXISTS loads (
			id TEXT PRIMARY KEY,
			source_file TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			skipped_count INTEGER NOT NULL,
			duplicate_count INTEGER NOT NULL,
			loaded_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to create schema")
		}
	}
	return nil
}

// ReplaceAll swaps the brands table contents for the given records inside
// one transaction and records the ingest run. Returns the load ID.
func (s *BrandStore) ReplaceAll(ctx context.Context, records []brand.Brand, sourceFile string, skipped, duplicates int) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to begin load transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM brands`); err != nil {
		return "", errors.Wrap(err, "failed to clear brands table")
	}

	const insert = `INSERT INTO brands (brand_name, franchise_group, country, product_type, group_type, brand_origin)
		VALUES (:brand_name, :franchise_group, :country, :product_type, :group_type, :brand_origin)`

	for start := 0; start < len(records); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(records) {
			end = len(records)
		}
		if _, err := tx.NamedExecContext(ctx, insert, records[start:end]); err != nil {
			return "", errors.Wrap(err, "failed to insert brands")
		}
	}

	load := LoadRecord{
		ID:         uuid.New().String(),
		SourceFile: sourceFile,
		RowCount:   len(records),
		Skipped:    skipped,
		Duplicates: duplicates,
		LoadedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	const insertLoad = `INSERT INTO loads (id, source_file, row_count, skipped_count, duplicate_count, loaded_at)
		VALUES (:id, :source_file, :row_count, :skipped_count, :duplicate_count, :loaded_at)`
	if _, err := tx.NamedExecContext(ctx, insertLoad, load); err != nil {
		return "", errors.Wrap(err, "failed to record load")
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "failed to commit load transaction")
	}
	return load.ID, nil
}

// Distinct returns the sorted distinct values of a filter dimension,
// used to populate the dropdown options.
func (s *BrandStore) Distinct(ctx context.Context, dim brand.Dimension) ([]string, error) {
	column, ok := dimColumns[dim]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown dimension %q", dim))
	}

	query := fmt.Sprintf(`SELECT DISTINCT %s FROM brands WHERE %s <> '' ORDER BY %s`, column, column, column)
	var values []string
	if err := s.db.SelectContext(ctx, &values, query); err != nil {
		return nil, errors.Wrapf(err, "failed to load distinct %s values", column)
	}
	return values, nil
}

// filterClause builds the WHERE clause for a filter. Values within one
// dimension are alternatives; dimensions intersect.
func filterClause(f brand.Filter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.Search != "" {
		conditions = append(conditions, `LOWER(brand_name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}
	for _, dim := range brand.Dimensions {
		values := f.Values(dim)
		if len(values) == 0 {
			continue
		}
		conditions = append(conditions, fmt.Sprintf(`%s IN (?)`, dimColumns[dim]))
		args = append(args, values)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns the records matching the filter, ordered by brand name.
// limit <= 0 returns all matches.
func (s *BrandStore) List(ctx context.Context, f brand.Filter, limit int) ([]brand.Brand, error) {
	query := `SELECT id, brand_name, franchise_group, country, product_type, group_type, brand_origin FROM brands`

	where, args := filterClause(f)
	query += where
	query += " ORDER BY brand_name, franchise_group, country"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter query")
	}
	expanded = s.db.Rebind(expanded)

	var records []brand.Brand
	if err := s.db.SelectContext(ctx, &records, expanded, expandedArgs...); err != nil {
		return nil, errors.Wrap(err, "failed to query brands")
	}
	return records, nil
}

// Count returns the number of records matching the filter.
func (s *BrandStore) Count(ctx context.Context, f brand.Filter) (int, error) {
	query := `SELECT COUNT(*) FROM brands`

	where, args := filterClause(f)
	query += where

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build count query")
	}
	expanded = s.db.Rebind(expanded)

	var count int
	if err := s.db.GetContext(ctx, &count, expanded, expandedArgs...); err != nil {
		return 0, errors.Wrap(err, "failed to count brands")
	}
	return count, nil
}

// LastLoad returns the most recent ingest run.
func (s *BrandStore) LastLoad(ctx context.Context) (*LoadRecord, error) {
	const query = `SELECT id, source_file, row_count, skipped_count, duplicate_count, loaded_at
		FROM loads ORDER BY loaded_at DESC LIMIT 1`

	var load LoadRecord
	if err := s.db.GetContext(ctx, &load, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("load record")
		}
		return nil, errors.DatabaseError("failed to read last load record", err)
	}
	return &load, nil
}
