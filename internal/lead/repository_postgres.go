package lead

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertLeadQuery = `
		INSERT INTO leads (id, name, whatsapp, cpf_cnpj, email, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	listLeadsQuery = `
		SELECT id, name, whatsapp, cpf_cnpj, email, created_at
		FROM leads
		ORDER BY created_at DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(l Lead) (Lead, error) {
	_, err := r.db.Exec(insertLeadQuery, l.ID, l.Name, l.WhatsApp, l.CpfCnpj, l.Email, l.CreatedAt)
	if err != nil {
		return Lead{}, err
	}
	return l, nil
}

func (r *PostgresRepository) List() ([]Lead, error) {
	rows, err := r.db.Query(listLeadsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Lead, 0)
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.WhatsApp, &l.CpfCnpj, &l.Email, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
