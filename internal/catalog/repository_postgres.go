package catalog

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, external_product_id, name, description_html, price, compare_at_price, images, main_image, is_active, source, updated_from_source_at, created_at, updated_at`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM catalog_products
		ORDER BY name
	`
	listActiveProductsQuery = `
		SELECT ` + productColumns + `
		FROM catalog_products
		WHERE is_active
		ORDER BY name
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM catalog_products
		WHERE id = $1
	`
	getProductByExternalIDQuery = `
		SELECT ` + productColumns + `
		FROM catalog_products
		WHERE external_product_id = $1
	`
	insertProductQuery = `
		INSERT INTO catalog_products (id, external_product_id, name, description_html, price, compare_at_price, images, main_image, is_active, source, updated_from_source_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	updateProductQuery = `
		UPDATE catalog_products
		SET external_product_id = $1,
			name = $2,
			description_html = $3,
			price = $4,
			compare_at_price = $5,
			images = $6,
			main_image = $7,
			is_active = $8,
			source = $9,
			updated_from_source_at = $10,
			updated_at = $11
		WHERE id = $12
	`
	deleteProductQuery = `DELETE FROM catalog_products WHERE id = $1`
	countProductsQuery = `SELECT COUNT(*) FROM catalog_products`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(onlyActive bool) ([]Product, error) {
	query := listProductsQuery
	if onlyActive {
		query = listActiveProductsQuery
	}
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) GetByExternalID(externalID int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByExternalIDQuery, externalID))
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	_, err := r.db.Exec(
		insertProductQuery,
		p.ID,
		p.ExternalProductID,
		p.Name,
		p.DescriptionHTML,
		p.Price,
		p.CompareAtPrice,
		pq.Array(p.Images),
		p.MainImage,
		p.IsActive,
		p.Source,
		p.UpdatedFromSourceAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id string, p Product) (Product, error) {
	result, err := r.db.Exec(
		updateProductQuery,
		p.ExternalProductID,
		p.Name,
		p.DescriptionHTML,
		p.Price,
		p.CompareAtPrice,
		pq.Array(p.Images),
		p.MainImage,
		p.IsActive,
		p.Source,
		p.UpdatedFromSourceAt,
		p.UpdatedAt,
		id,
	)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(id string) error {
	result, err := r.db.Exec(deleteProductQuery, id)
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

func (r *PostgresRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(countProductsQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var (
		externalID     sql.NullInt64
		compareAt      sql.NullFloat64
		mainImage      sql.NullString
		updatedFromSrc sql.NullString
		createdAt      sql.NullString
		updatedAt      sql.NullString
	)

	if err := scanner.Scan(
		&p.ID,
		&externalID,
		&p.Name,
		&p.DescriptionHTML,
		&p.Price,
		&compareAt,
		pq.Array(&p.Images),
		&mainImage,
		&p.IsActive,
		&p.Source,
		&updatedFromSrc,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Product{}, err
	}

	if externalID.Valid {
		p.ExternalProductID = &externalID.Int64
	}
	if compareAt.Valid {
		p.CompareAtPrice = &compareAt.Float64
	}
	if mainImage.Valid {
		p.MainImage = &mainImage.String
	}
	if updatedFromSrc.Valid {
		p.UpdatedFromSourceAt = &updatedFromSrc.String
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.String
	}

	return p, nil
}
