package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"sales_service/internal/apperr"
)

// PostgresStorage implements Storage on a PostgreSQL database. The
// sequence number is allocated by a BIGSERIAL column, so it is unique and
// increasing across all sales (not necessarily gap-free).
type PostgresStorage struct {
	db *sql.DB
}

// ConnectDB opens and pings a database connection.
func ConnectDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// RunMigrations applies every .sql file in migrationsDir in name order.
func RunMigrations(db *sql.DB, migrationsDir string) error {
	if migrationsDir == "" {
		return fmt.Errorf("migrations directory not specified")
	}
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}

// NewPostgresStorage creates a PostgresStorage on an open connection.
func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// Close closes the underlying connection pool.
func (p *PostgresStorage) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Create inserts the sale and its line items in one transaction and fills
// in the allocated sequence number.
func (p *PostgresStorage) Create(ctx context.Context, sale *Sale) (*Sale, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
        INSERT INTO sales (id, user_id, status, total_amount, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING sequence_number`,
		sale.ID, sale.UserID, sale.Status, sale.TotalAmount, sale.CreatedAt, sale.UpdatedAt,
	).Scan(&sale.SequenceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if err := insertProductSales(ctx, tx, sale); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	return sale, nil
}

// GetByID loads a sale and its line items.
func (p *PostgresStorage) GetByID(ctx context.Context, id string) (*Sale, error) {
	sale := &Sale{}
	err := p.db.QueryRowContext(ctx, `
        SELECT id, sequence_number, user_id, status, total_amount, created_at, updated_at
        FROM sales WHERE id = $1`, id,
	).Scan(&sale.ID, &sale.SequenceNumber, &sale.UserID, &sale.Status,
		&sale.TotalAmount, &sale.CreatedAt, &sale.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("sale", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	if err := p.loadProductSales(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Update rewrites the sale row and its line items in one transaction.
func (p *PostgresStorage) Update(ctx context.Context, sale *Sale) (*Sale, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        UPDATE sales SET status = $2, total_amount = $3, updated_at = $4
        WHERE id = $1`,
		sale.ID, sale.Status, sale.TotalAmount, sale.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, apperr.NotFound("sale", sale.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_sales WHERE sale_id = $1`, sale.ID); err != nil {
		return nil, fmt.Errorf("failed to clear product sales: %w", err)
	}
	if err := insertProductSales(ctx, tx, sale); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	return sale, nil
}

// List loads the sales matching the filter ordered by sequence number.
func (p *PostgresStorage) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	query := `
        SELECT id, sequence_number, user_id, status, total_amount, created_at, updated_at
        FROM sales WHERE 1=1`
	args := []any{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY sequence_number"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []*Sale
	for rows.Next() {
		sale := &Sale{}
		if err := rows.Scan(&sale.ID, &sale.SequenceNumber, &sale.UserID, &sale.Status,
			&sale.TotalAmount, &sale.CreatedAt, &sale.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}

	for _, sale := range sales {
		if err := p.loadProductSales(ctx, sale); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (p *PostgresStorage) loadProductSales(ctx context.Context, sale *Sale) error {
	rows, err := p.db.QueryContext(ctx, `
        SELECT product_id, quantity, unit_price, discount, total_amount, status, created_at, updated_at
        FROM product_sales WHERE sale_id = $1 ORDER BY created_at, product_id`, sale.ID)
	if err != nil {
		return fmt.Errorf("failed to load product sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ps := &ProductSale{}
		if err := rows.Scan(&ps.ProductID, &ps.Quantity, &ps.UnitPrice, &ps.Discount,
			&ps.TotalAmount, &ps.Status, &ps.CreatedAt, &ps.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan product sale: %w", err)
		}
		sale.Products = append(sale.Products, ps)
	}
	return rows.Err()
}

func insertProductSales(ctx context.Context, tx *sql.Tx, sale *Sale) error {
	for _, ps := range sale.Products {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO product_sales
                (sale_id, product_id, quantity, unit_price, discount, total_amount, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			sale.ID, ps.ProductID, ps.Quantity, ps.UnitPrice, ps.Discount,
			ps.TotalAmount, ps.Status, ps.CreatedAt, ps.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product sale: %w", err)
		}
	}
	return nil
}
