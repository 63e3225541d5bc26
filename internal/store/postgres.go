package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"ordertrack/internal/model"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// PostgresStore implements Store on top of database/sql with the pgx driver.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const orderColumns = `
	o.id, o.client_id, c.name, o.summary, o.details, o.status,
	o.sale_value, o.amount_paid, o.requested_at, o.delivery_date, COALESCE(o.image_ref, '')`

func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.ClientID, &o.ClientName, &o.Summary, &o.Details, &o.Status,
		&o.SaleValue, &o.AmountPaid, &o.RequestedAt, &o.DeliveryDate, &o.ImageRef)
	return o, err
}

func (s *PostgresStore) CreateOrder(ctx context.Context, o *model.Order) error {
	if !validID(o.ClientID) {
		return fmt.Errorf("client %s: %w", o.ClientID, ErrNotFound)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (id, client_id, summary, details, status, sale_value, amount_paid, requested_at, delivery_date, image_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''))`,
		o.ID, o.ClientID, o.Summary, o.Details, o.Status, o.SaleValue, o.AmountPaid,
		o.RequestedAt, o.DeliveryDate, o.ImageRef,
	)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("client %s: %w", o.ClientID, ErrNotFound)
		}
		return wrapErr("insert order", err)
	}
	return nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (model.Order, error) {
	if !validID(id) {
		return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN clients c ON c.id = o.client_id
		WHERE o.id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return model.Order{}, wrapErr("get order", err)
	}
	return o, nil
}

func (s *PostgresStore) UpdateOrder(ctx context.Context, o model.Order) error {
	if !validID(o.ID) {
		return fmt.Errorf("order %s: %w", o.ID, ErrNotFound)
	}
	if !validID(o.ClientID) {
		return fmt.Errorf("client %s: %w", o.ClientID, ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET
			client_id = $1, summary = $2, details = $3, status = $4,
			sale_value = $5, amount_paid = $6, delivery_date = $7, image_ref = NULLIF($8, '')
		WHERE id = $9`,
		o.ClientID, o.Summary, o.Details, o.Status,
		o.SaleValue, o.AmountPaid, o.DeliveryDate, o.ImageRef,
		o.ID,
	)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("client %s: %w", o.ClientID, ErrNotFound)
		}
		return wrapErr("update order", err)
	}
	return expectOneRow(res, "order", o.ID)
}

func (s *PostgresStore) DeleteOrder(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete order", err)
	}
	return expectOneRow(res, "order", id)
}

func (s *PostgresStore) QueryOrders(ctx context.Context, f OrderFilter, key SortKey, offset, limit int) ([]model.Order, int, error) {
	where, args := orderWhere(f)

	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders o JOIN clients c ON c.id = o.client_id`+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, wrapErr("count orders", err)
	}

	query := `SELECT ` + orderColumns + `
		FROM orders o JOIN clients c ON c.id = o.client_id` + where +
		` ORDER BY ` + orderByClause(key)
	if offset < 0 {
		offset = 0
	}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}
	query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
	args = append(args, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("query orders", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapErr("rows iteration failed", err)
	}

	return orders, total, nil
}

func orderWhere(f OrderFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if f.ActiveOnly {
		args = append(args, model.StatusDone)
		conds = append(conds, fmt.Sprintf("o.status <> $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		conds = append(conds, fmt.Sprintf("(c.name ILIKE $%d OR c.phone ILIKE $%d)", len(args), len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var sortColumns = map[string]string{
	"client_name":       `LOWER(c.name) COLLATE "C"`,
	"status":            "o.status",
	"delivery_date":     "o.delivery_date",
	"request_timestamp": "o.requested_at",
	"id":                "o.id",
}

// orderByClause only ever interpolates whitelisted column names.
func orderByClause(key SortKey) string {
	key = ParseSort(string(key))
	dir := "ASC"
	if key.Desc() {
		dir = "DESC"
	}
	col := sortColumns[key.Field()]
	if col == "o.id" {
		return "o.id " + dir
	}
	return col + " " + dir + ", o.id ASC"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *PostgresStore) StatusTotals(ctx context.Context) ([]StatusTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(sale_value), 0), COALESCE(SUM(amount_paid), 0)
		FROM orders
		GROUP BY status
		ORDER BY CASE status WHEN 'PENDING' THEN 1 WHEN 'IN_PROGRESS' THEN 2 ELSE 3 END`)
	if err != nil {
		return nil, wrapErr("status totals", err)
	}
	defer rows.Close()

	var totals []StatusTotal
	for rows.Next() {
		var t StatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.SaleSum, &t.AmountSum); err != nil {
			return nil, fmt.Errorf("scan status total: %w", err)
		}
		totals = append(totals, t)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr("rows iteration failed", err)
	}
	return totals, nil
}

func (s *PostgresStore) CreateClient(ctx context.Context, c *model.Client) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, phone, email) VALUES ($1, $2, $3, NULLIF($4, ''))`,
		c.ID, c.Name, c.Phone, c.Email,
	)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return fmt.Errorf("client %s: %w", c.ID, ErrAlreadyExists)
		}
		return wrapErr("insert client", err)
	}
	return nil
}

func (s *PostgresStore) GetClient(ctx context.Context, id string) (model.Client, error) {
	if !validID(id) {
		return model.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	var c model.Client
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, COALESCE(email, '') FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return model.Client{}, wrapErr("get client", err)
	}
	return c, nil
}

func (s *PostgresStore) UpdateClient(ctx context.Context, c model.Client) error {
	if !validID(c.ID) {
		return fmt.Errorf("client %s: %w", c.ID, ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE clients SET name = $1, phone = $2, email = NULLIF($3, '') WHERE id = $4`,
		c.Name, c.Phone, c.Email, c.ID,
	)
	if err != nil {
		return wrapErr("update client", err)
	}
	return expectOneRow(res, "client", c.ID)
}

// DeleteClient relies on ON DELETE CASCADE for the client's orders.
func (s *PostgresStore) DeleteClient(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete client", err)
	}
	return expectOneRow(res, "client", id)
}

func (s *PostgresStore) ListClients(ctx context.Context, search string) ([]ClientStats, error) {
	query := `
		SELECT c.id, c.name, c.phone, COALESCE(c.email, ''),
		       COUNT(o.id),
		       COUNT(o.id) FILTER (WHERE o.status <> 'DONE')
		FROM clients c
		LEFT JOIN orders o ON o.client_id = c.id`
	var args []any
	if q := strings.TrimSpace(search); q != "" {
		query += ` WHERE c.name ILIKE $1 OR c.phone ILIKE $1`
		args = append(args, "%"+escapeLike(q)+"%")
	}
	query += ` GROUP BY c.id ORDER BY LOWER(c.name) COLLATE "C" ASC, c.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list clients", err)
	}
	defer rows.Close()

	var out []ClientStats
	for rows.Next() {
		var cs ClientStats
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Phone, &cs.Email, &cs.OrderCount, &cs.ActiveOrderCount); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, cs)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr("rows iteration failed", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *model.User) error {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (id, login, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
		u.ID, u.Login, u.PasswordHash,
	)
	if err := row.Scan(&u.CreatedAt); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return fmt.Errorf("user %s: %w", u.Login, ErrAlreadyExists)
		}
		return wrapErr("insert user", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByLogin(ctx context.Context, login string) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, login, password_hash, created_at FROM users WHERE login = $1`, login,
	).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("user %s: %w", login, ErrNotFound)
		}
		return model.User{}, wrapErr("get user", err)
	}
	return u, nil
}

// validID screens out ids the uuid column would reject outright.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func expectOneRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// wrapErr tags connectivity failures with ErrStoreUnavailable.
func wrapErr(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return true
	case errors.As(err, &connErr), errors.As(err, &netErr):
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
