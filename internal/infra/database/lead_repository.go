package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/lead-ledger/internal/entity"
)

const leadColumns = `id, company_name, contact_name, phone, email, province, city, signup_date, status, commission`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LeadRepository is the ledger store. Every method runs on a connection taken from the
// pool for that call only; nothing is cached between calls.
type LeadRepository struct {
	DB      *sql.DB
	dialect Dialect
}

func NewLeadRepository(db *sql.DB, dialect Dialect) *LeadRepository {
	return &LeadRepository{DB: db, dialect: dialect}
}

func (r *LeadRepository) reader(q querier) *leadReader {
	return &leadReader{q: q, dialect: r.dialect}
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	if err := lead.Validate(); err != nil {
		return err
	}

	query := rebind(r.dialect, `
		INSERT INTO leads (company_name, contact_name, phone, email, province, city, signup_date, status, commission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.DB.QueryRowContext(ctx, query,
		lead.CompanyName,
		lead.ContactName,
		lead.Phone,
		lead.Email,
		lead.Province,
		lead.City,
		lead.SignupDate.Format(entity.DateLayout),
		string(lead.Status),
		amountArg(r.dialect, lead.Commission),
	).Scan(&lead.ID)
	if err != nil {
		return storageErr("insert lead", err)
	}

	return nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status entity.LeadStatus, commission decimal.Decimal, guard entity.TransitionGuard) (*entity.Lead, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin update", err)
	}
	defer func() { _ = tx.Rollback() }()

	selectQuery := `SELECT ` + leadColumns + ` FROM leads WHERE id = ?`
	if r.dialect == DialectPostgres {
		selectQuery += ` FOR UPDATE`
	}

	lead, err := scanLead(tx.QueryRowContext(ctx, rebind(r.dialect, selectQuery), id), r.dialect)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lead %d: %w", id, entity.ErrLeadNotFound)
		}
		return nil, storageErr("load lead", err)
	}

	if guard != nil {
		if err := guard(lead.Status, status); err != nil {
			return nil, err
		}
	}

	res, err := tx.ExecContext(ctx,
		rebind(r.dialect, `UPDATE leads SET status = ?, commission = ? WHERE id = ?`),
		string(status), amountArg(r.dialect, commission), id,
	)
	if err != nil {
		return nil, storageErr("update lead status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("lead %d: %w", id, entity.ErrLeadNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit update", err)
	}

	lead.Status = status
	lead.Commission = commission
	return lead, nil
}

func (r *LeadRepository) ReadSnapshot(ctx context.Context, fn func(entity.LeadReader) error) error {
	opts := &sql.TxOptions{ReadOnly: true}
	if r.dialect == DialectPostgres {
		opts.Isolation = sql.LevelRepeatableRead
	}

	tx, err := r.DB.BeginTx(ctx, opts)
	if err != nil {
		return storageErr("begin snapshot", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(r.reader(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("close snapshot", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	return r.reader(r.DB).FindByID(ctx, id)
}

func (r *LeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	return r.reader(r.DB).ListAll(ctx)
}

func (r *LeadRepository) ListByStatus(ctx context.Context, status entity.LeadStatus) ([]entity.Lead, error) {
	return r.reader(r.DB).ListByStatus(ctx, status)
}

func (r *LeadRepository) CountByStatus(ctx context.Context) (map[entity.LeadStatus]int, error) {
	return r.reader(r.DB).CountByStatus(ctx)
}

func (r *LeadRepository) CountByProvince(ctx context.Context) ([]entity.ProvinceCount, error) {
	return r.reader(r.DB).CountByProvince(ctx)
}

func (r *LeadRepository) SumCommission(ctx context.Context) (decimal.Decimal, error) {
	return r.reader(r.DB).SumCommission(ctx)
}

func (r *LeadRepository) SumCommissionByProvince(ctx context.Context) ([]entity.ProvinceCommission, error) {
	return r.reader(r.DB).SumCommissionByProvince(ctx)
}

func (r *LeadRepository) CountSignupsBetween(ctx context.Context, from, to time.Time) ([]entity.DailySignup, error) {
	return r.reader(r.DB).CountSignupsBetween(ctx, from, to)
}

type leadReader struct {
	q       querier
	dialect Dialect
}

func (r *leadReader) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := rebind(r.dialect, `SELECT `+leadColumns+` FROM leads WHERE id = ?`)

	lead, err := scanLead(r.q.QueryRowContext(ctx, query, id), r.dialect)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lead %d: %w", id, entity.ErrLeadNotFound)
		}
		return nil, storageErr("find lead", err)
	}
	return lead, nil
}

func (r *leadReader) ListAll(ctx context.Context) ([]entity.Lead, error) {
	return r.list(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY id`)
}

func (r *leadReader) ListByStatus(ctx context.Context, status entity.LeadStatus) ([]entity.Lead, error) {
	return r.list(ctx, `SELECT `+leadColumns+` FROM leads WHERE status = ? ORDER BY id`, string(status))
}

func (r *leadReader) list(ctx context.Context, query string, args ...any) ([]entity.Lead, error) {
	rows, err := r.q.QueryContext(ctx, rebind(r.dialect, query), args...)
	if err != nil {
		return nil, storageErr("list leads", err)
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows, r.dialect)
		if err != nil {
			return nil, storageErr("scan lead", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list leads", err)
	}
	return leads, nil
}

func (r *leadReader) CountByStatus(ctx context.Context) (map[entity.LeadStatus]int, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, storageErr("count by status", err)
	}
	defer rows.Close()

	counts := make(map[entity.LeadStatus]int, len(entity.AllStatuses))
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, storageErr("scan status count", err)
		}
		counts[entity.LeadStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("count by status", err)
	}
	return counts, nil
}

func (r *leadReader) CountByProvince(ctx context.Context) ([]entity.ProvinceCount, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT province, COUNT(*) FROM leads GROUP BY province ORDER BY province`)
	if err != nil {
		return nil, storageErr("count by province", err)
	}
	defer rows.Close()

	out := []entity.ProvinceCount{}
	for rows.Next() {
		var pc entity.ProvinceCount
		if err := rows.Scan(&pc.Province, &pc.Count); err != nil {
			return nil, storageErr("scan province count", err)
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("count by province", err)
	}
	return out, nil
}

func (r *leadReader) SumCommission(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(commission), 0) FROM leads`).Scan(r.amount(&total))
	if err != nil {
		return decimal.Zero, storageErr("sum commission", err)
	}
	return total, nil
}

func (r *leadReader) SumCommissionByProvince(ctx context.Context) ([]entity.ProvinceCommission, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT province, COALESCE(SUM(commission), 0)
		FROM leads
		GROUP BY province
		ORDER BY province
	`)
	if err != nil {
		return nil, storageErr("sum commission by province", err)
	}
	defer rows.Close()

	out := []entity.ProvinceCommission{}
	for rows.Next() {
		var pc entity.ProvinceCommission
		if err := rows.Scan(&pc.Province, r.amount(&pc.Commission)); err != nil {
			return nil, storageErr("scan province commission", err)
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sum commission by province", err)
	}
	return out, nil
}

// CountSignupsBetween counts leads per signup date in [from, to], both ends inclusive.
// Dates without signups are not returned.
func (r *leadReader) CountSignupsBetween(ctx context.Context, from, to time.Time) ([]entity.DailySignup, error) {
	query := rebind(r.dialect, `
		SELECT signup_date, COUNT(*)
		FROM leads
		WHERE signup_date BETWEEN ? AND ?
		GROUP BY signup_date
		ORDER BY signup_date
	`)

	rows, err := r.q.QueryContext(ctx, query, from.Format(entity.DateLayout), to.Format(entity.DateLayout))
	if err != nil {
		return nil, storageErr("count signups", err)
	}
	defer rows.Close()

	out := []entity.DailySignup{}
	for rows.Next() {
		var ds entity.DailySignup
		if err := rows.Scan(dateColumn{&ds.Date}, &ds.Count); err != nil {
			return nil, storageErr("scan signup bucket", err)
		}
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("count signups", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner, dialect Dialect) (*entity.Lead, error) {
	var (
		lead   entity.Lead
		status string
	)
	err := row.Scan(
		&lead.ID,
		&lead.CompanyName,
		&lead.ContactName,
		&lead.Phone,
		&lead.Email,
		&lead.Province,
		&lead.City,
		dateColumn{&lead.SignupDate},
		&status,
		amountColumn{&lead.Commission, dialect},
	)
	if err != nil {
		return nil, err
	}
	lead.Status = entity.LeadStatus(status)
	return &lead, nil
}

// dateColumn reads a DATE column whether the driver hands back a time.Time (lib/pq)
// or the stored text (sqlite).
type dateColumn struct {
	t *time.Time
}

func (d dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d.t = time.Time{}
		return nil
	case time.Time:
		*d.t = entity.TruncateDay(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	}
	return fmt.Errorf("unsupported date value %T", src)
}

func (d dateColumn) parse(s string) error {
	if len(s) > len(entity.DateLayout) {
		s = s[:len(entity.DateLayout)]
	}
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d.t = t
	return nil
}

func (r *leadReader) amount(d *decimal.Decimal) amountColumn {
	return amountColumn{d, r.dialect}
}

// amountArg encodes money for the dialect's commission column.
func amountArg(dialect Dialect, d decimal.Decimal) any {
	if dialect == DialectPostgres {
		return d.StringFixed(entity.AmountScale)
	}
	return d.Shift(entity.AmountScale).Round(0).IntPart()
}

// amountColumn reads money back. lib/pq returns NUMERIC as text; sqlite returns the
// stored integer cents.
type amountColumn struct {
	d       *decimal.Decimal
	dialect Dialect
}

func (a amountColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a.d = decimal.Zero
		return nil
	case int64:
		if a.dialect == DialectPostgres {
			*a.d = decimal.NewFromInt(v)
			return nil
		}
		*a.d = decimal.New(v, -entity.AmountScale)
		return nil
	case string:
		return a.parse(v)
	case []byte:
		return a.parse(string(v))
	}
	return fmt.Errorf("unsupported amount value %T", src)
}

func (a amountColumn) parse(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", s, err)
	}
	if a.dialect != DialectPostgres {
		d = d.Shift(-entity.AmountScale)
	}
	*a.d = d
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, entity.ErrStorage, err)
}
