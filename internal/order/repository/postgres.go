package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/jmoiron/sqlx"
)

const selectOrders = `
        SELECT o.id, o.client_id, o.created_at, o.status, o.apply_vat, o.delivery_cost,
               COALESCE(NULLIF(c.full_name, ''), c.email) AS client_name,
               COALESCE(cd.discount_percentage, 0) AS client_discount
        FROM orders o
        JOIN clients c ON c.id = o.client_id
        LEFT JOIN client_discounts cd ON cd.client_id = o.client_id`

const selectLines = `
        SELECT ol.id, ol.order_id, ol.product_id, ol.quantity,
               p.id AS "product.id", p.seller_id AS "product.seller_id", p.name AS "product.name",
               p.description AS "product.description", p.price AS "product.price",
               p.stock_quantity AS "product.stock_quantity", p.is_active AS "product.is_active",
               p.discount_percentage AS "product.discount_percentage",
               p.created_at AS "product.created_at", p.updated_at AS "product.updated_at"
        FROM order_lines ol
        JOIN products p ON p.id = ol.product_id`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, selectOrders+` WHERE o.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &o.Lines, selectLines+` WHERE ol.order_id = $1 ORDER BY ol.id`, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ClientID != "" {
		conditions = append(conditions, "o.client_id = :client_id")
		args["client_id"] = f.ClientID
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, "o.status IN (:statuses)")
		args["statuses"] = statuses
	}
	if f.CreatedFrom != nil {
		conditions = append(conditions, "o.created_at >= :created_from")
		args["created_from"] = *f.CreatedFrom
	}
	if f.CreatedTo != nil {
		conditions = append(conditions, "o.created_at <= :created_to")
		args["created_to"] = *f.CreatedTo
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query, qargs, err := sqlx.Named(selectOrders+whereClause+" ORDER BY o.created_at, o.id", args)
	if err != nil {
		return nil, err
	}
	query, qargs, err = sqlx.In(query, qargs...)
	if err != nil {
		return nil, err
	}

	var orders []model.Order
	if err := r.DB.SelectContext(ctx, &orders, r.DB.Rebind(query), qargs...); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PGRepository) attachLines(ctx context.Context, orders []model.Order) error {
	ids := make([]string, len(orders))
	byID := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = i
	}

	query, args, err := sqlx.In(selectLines+` WHERE ol.order_id IN (?) ORDER BY ol.order_id, ol.id`, ids)
	if err != nil {
		return err
	}

	var lines []model.OrderLine
	if err := r.DB.SelectContext(ctx, &lines, r.DB.Rebind(query), args...); err != nil {
		return err
	}

	for _, l := range lines {
		i := byID[l.OrderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	return nil
}

func (r *PGRepository) Transact(ctx context.Context, fn func(tx order.TxRepository) error) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type pgTx struct {
	tx *sqlx.Tx
}

func (t *pgTx) LockOrder(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := t.tx.GetContext(ctx, &o, selectOrders+` WHERE o.id = $1 FOR UPDATE OF o`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (t *pgTx) LockLines(ctx context.Context, orderID string) ([]model.OrderLine, error) {
	var lines []model.OrderLine
	err := t.tx.SelectContext(ctx, &lines, selectLines+` WHERE ol.order_id = $1 ORDER BY p.id, ol.id FOR UPDATE OF p`, orderID)
	return lines, err
}

func (t *pgTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	query := `
        UPDATE products
        SET stock_quantity = stock_quantity - $1, updated_at = NOW()
        WHERE id = $2 AND stock_quantity >= $1
    `
	res, err := t.tx.ExecContext(ctx, query, quantity, productID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Rows are locked, so this only happens if the product vanished or stock was edited outside the lock.
		return t.shortage(ctx, productID, quantity)
	}
	return nil
}

// shortage reports the stock actually left for productID after a guarded decrement missed.
func (t *pgTx) shortage(ctx context.Context, productID string, quantity int) error {
	var current struct {
		Name          string `db:"name"`
		StockQuantity int    `db:"stock_quantity"`
	}
	err := t.tx.GetContext(ctx, &current, `SELECT name, stock_quantity FROM products WHERE id = $1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %s not found", productID)
		}
		return err
	}
	return &pricing.StockShortageError{
		ProductID:   productID,
		ProductName: current.Name,
		Requested:   quantity,
		Available:   current.StockQuantity,
	}
}

func (t *pgTx) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), orderID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows != 1 {
		return fmt.Errorf("update status of order %s: %d rows affected", orderID, rows)
	}
	return nil
}
