package catalogsync

import "database/sql"

type PostgresRunRepository struct {
	db *sql.DB
}

const (
	insertRunQuery = `
		INSERT INTO catalog_sync_runs (id, status, imported, updated, skipped, errors, error_message, started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	finishRunQuery = `
		UPDATE catalog_sync_runs
		SET status = $1,
			imported = $2,
			updated = $3,
			skipped = $4,
			errors = $5,
			error_message = $6,
			finished_at = $7
		WHERE id = $8
	`
	getRunByIDQuery = `
		SELECT id, status, imported, updated, skipped, errors, error_message, started_at, finished_at
		FROM catalog_sync_runs
		WHERE id = $1
	`
	listRunsQuery = `
		SELECT id, status, imported, updated, skipped, errors, error_message, started_at, finished_at
		FROM catalog_sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
)

func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func (r *PostgresRunRepository) Create(run Run) (Run, error) {
	_, err := r.db.Exec(
		insertRunQuery,
		run.ID,
		run.Status,
		run.Imported,
		run.Updated,
		run.Skipped,
		run.Errors,
		run.ErrorMessage,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (r *PostgresRunRepository) Finish(run Run) error {
	result, err := r.db.Exec(
		finishRunQuery,
		run.Status,
		run.Imported,
		run.Updated,
		run.Skipped,
		run.Errors,
		run.ErrorMessage,
		run.FinishedAt,
		run.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *PostgresRunRepository) GetByID(id string) (Run, error) {
	run, err := scanRun(r.db.QueryRow(getRunByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, ErrRunNotFound
		}
		return Run{}, err
	}
	return run, nil
}

func (r *PostgresRunRepository) List(limit int) ([]Run, error) {
	rows, err := r.db.Query(listRunsQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (Run, error) {
	run := Run{}
	var errorMessage sql.NullString
	var finishedAt sql.NullString

	if err := scanner.Scan(
		&run.ID,
		&run.Status,
		&run.Imported,
		&run.Updated,
		&run.Skipped,
		&run.Errors,
		&errorMessage,
		&run.StartedAt,
		&finishedAt,
	); err != nil {
		return Run{}, err
	}

	if errorMessage.Valid {
		run.ErrorMessage = &errorMessage.String
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.String
	}

	return run, nil
}
