package repositories

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MirrorRepository manages the per-sheet mirror tables (tech_1, packer_3,
// ...) loaded verbatim from the old spreadsheet tabs. Each import replaces
// the table contents wholesale; the tables are read-only otherwise.
type MirrorRepository struct {
	DB *pgxpool.Pool
}

func NewMirrorRepository(db *pgxpool.Pool) *MirrorRepository {
	return &MirrorRepository{DB: db}
}

var mirrorTableName = regexp.MustCompile(`^(tech|packer)_[0-9]+$`)

// Replace recreates one mirror table with col_1..col_N text columns and bulk
// inserts the rows. The table name is validated against a strict pattern
// because it is interpolated into DDL.
func (m *MirrorRepository) Replace(ctx context.Context, table string, columns int, rows [][]string) error {
	if !mirrorTableName.MatchString(table) {
		return fmt.Errorf("invalid mirror table name %q", table)
	}
	if columns < 1 {
		return fmt.Errorf("mirror table %s needs at least one column", table)
	}

	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
		return fmt.Errorf("failed to drop mirror table %s: %w", table, err)
	}

	ddl := fmt.Sprintf(`CREATE TABLE %s (col_0 SERIAL PRIMARY KEY`, table)
	for i := 1; i <= columns; i++ {
		ddl += fmt.Sprintf(`, col_%d TEXT`, i)
	}
	ddl += `)`
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create mirror table %s: %w", table, err)
	}

	cols := make([]string, columns)
	for i := range cols {
		cols[i] = fmt.Sprintf("col_%d", i+1)
	}

	src := pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
		vals := make([]interface{}, columns)
		for j := 0; j < columns; j++ {
			if j < len(rows[i]) {
				vals[j] = rows[i][j]
			} else {
				vals[j] = ""
			}
		}
		return vals, nil
	})

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, cols, src); err != nil {
		return fmt.Errorf("failed to load mirror table %s: %w", table, err)
	}

	return tx.Commit(ctx)
}

// Count returns the number of rows in a mirror table.
func (m *MirrorRepository) Count(ctx context.Context, table string) (int, error) {
	if !mirrorTableName.MatchString(table) {
		return 0, fmt.Errorf("invalid mirror table name %q", table)
	}
	var n int
	err := m.DB.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n)
	return n, err
}
