package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/port"
)

type productRow struct {
	ID       string  `db:"id"`
	Name     string  `db:"name"`
	Quantity int     `db:"quantity"`
	Price    float64 `db:"price"`
}

// dialect holds what differs between the SQL engines behind SQLTable.
type dialect struct {
	name         string
	schema       []string
	loadQuery    string
	isDuplicate  func(error) bool
	isConstraint func(error) bool
}

// SQLTable stores products in a relational products table. Every call takes
// a connection from the pool for its own duration only.
type SQLTable struct {
	db      *sqlx.DB
	dialect dialect
}

func (t *SQLTable) DB() *sqlx.DB { return t.db }

func (t *SQLTable) EnsureSchema(ctx context.Context) error {
	for _, stmt := range t.dialect.schema {
		if _, err := t.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "%s: create schema", t.dialect.name)
		}
	}
	return nil
}

func (t *SQLTable) LoadAll(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := t.db.SelectContext(ctx, &rows, t.dialect.loadQuery); err != nil {
		return nil, errors.Wrapf(err, "%s: select products", t.dialect.name)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, domain.NewProduct(r.ID, r.Name, r.Quantity, r.Price))
	}
	return products, nil
}

func (t *SQLTable) Insert(ctx context.Context, product domain.Product) error {
	row := productRow{
		ID:       product.ID(),
		Name:     product.Name(),
		Quantity: product.Quantity(),
		Price:    product.Price(),
	}

	_, err := t.db.NamedExecContext(ctx, `
		INSERT INTO products (id, name, quantity, price)
		VALUES (:id, :name, :quantity, :price)`, row)
	if err != nil {
		if t.dialect.isDuplicate(err) {
			return errors.Wrapf(port.ErrDuplicateKey, "%s: insert product %s", t.dialect.name, product.ID())
		}
		if t.dialect.isConstraint(err) {
			return errors.Wrapf(port.ErrConstraint, "%s: insert product %s: %v", t.dialect.name, product.ID(), err)
		}
		return errors.Wrapf(err, "%s: insert product %s", t.dialect.name, product.ID())
	}
	return nil
}

func (t *SQLTable) UpdateStock(ctx context.Context, id string, quantity int, price float64) error {
	result, err := t.db.ExecContext(ctx, `
		UPDATE products SET quantity = ?, price = ? WHERE id = ?`,
		quantity, price, id,
	)
	if err != nil {
		if t.dialect.isConstraint(err) {
			return errors.Wrapf(port.ErrConstraint, "%s: update product %s: %v", t.dialect.name, id, err)
		}
		return errors.Wrapf(err, "%s: update product %s", t.dialect.name, id)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "%s: update product %s", t.dialect.name, id)
	}
	if rows == 0 {
		return errors.Wrapf(port.ErrRowMissing, "%s: update product %s", t.dialect.name, id)
	}
	return nil
}

func (t *SQLTable) Delete(ctx context.Context, id string) error {
	if _, err := t.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return errors.Wrapf(err, "%s: delete product %s", t.dialect.name, id)
	}
	return nil
}

func (t *SQLTable) Close() error {
	return t.db.Close()
}
