package user

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listUsersQuery = `
		SELECT user_id, email, password, full_name, whatsapp, role, created_at, updated_at
		FROM profiles
		ORDER BY user_id
	`
	getUserByIDQuery = `
		SELECT user_id, email, password, full_name, whatsapp, role, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	getUserByEmailQuery = `
		SELECT user_id, email, password, full_name, whatsapp, role, created_at, updated_at
		FROM profiles
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO profiles (email, password, full_name, whatsapp, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id
	`
	updateUserQuery = `
		UPDATE profiles
		SET email = $1,
			full_name = $2,
			whatsapp = $3,
			role = $4,
			updated_at = $5
		WHERE user_id = $6
	`
	deleteUserQuery = `DELETE FROM profiles WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(listUsersQuery)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByEmailQuery, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(u User) (User, error) {
	var id int
	err := r.db.QueryRow(
		insertUserQuery,
		u.Email,
		u.Password,
		u.FullName,
		u.WhatsApp,
		u.Role,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *PostgresRepository) Update(id int, u User) (User, error) {
	result, err := r.db.Exec(
		updateUserQuery,
		u.Email,
		u.FullName,
		u.WhatsApp,
		u.Role,
		u.UpdatedAt,
		id,
	)
	if err != nil {
		return User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteUserQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(scanner rowScanner) (User, error) {
	u := User{}
	var createdAt sql.NullString
	var updatedAt sql.NullString

	if err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.FullName,
		&u.WhatsApp,
		&u.Role,
		&createdAt,
		&updatedAt,
	); err != nil {
		return User{}, err
	}

	if createdAt.Valid {
		u.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.String
	}

	return u, nil
}
