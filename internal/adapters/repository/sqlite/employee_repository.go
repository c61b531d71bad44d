package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/ogurasousui/employee-records-api/internal/core/employee"
)

// EmployeeRepository は SQLite を利用した社員永続化の実装です。
// ローカル起動や単体テスト向けで、トランザクション管理は行いません。
type EmployeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Save は更新を試み、対象行が無ければ新しい ID で挿入します。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e.ID != 0 {
		res, err := r.db.ExecContext(ctx,
			`UPDATE employees SET first_name = ?, last_name = ?, email = ? WHERE id = ?`,
			e.FirstName, e.LastName, e.Email, e.ID)
		if err != nil {
			return nil, translateSQLiteError(err, e.Email)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected > 0 {
			saved := e.Clone()
			return saved, nil
		}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (first_name, last_name, email) VALUES (?, ?, ?)`,
		e.FirstName, e.LastName, e.Email)
	if err != nil {
		return nil, translateSQLiteError(err, e.Email)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	created := e.Clone()
	created.ID = id
	return created, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, first_name, last_name, email FROM employees WHERE id = ?`, id)
	return findOne(row)
}

// FindByEmail はメールアドレスで社員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, first_name, last_name, email FROM employees WHERE email = ? LIMIT 1`, email)
	return findOne(row)
}

// FindAll は全社員を ID 順で返します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	return r.query(ctx, `SELECT id, first_name, last_name, email FROM employees ORDER BY id`)
}

// DeleteByID は社員を削除します。
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	return err
}

// FindByName は姓名が完全一致する社員を 1 件返します。
func (r *EmployeeRepository) FindByName(ctx context.Context, firstName, lastName string) (*employee.Employee, error) {
	matches, err := r.query(ctx,
		`SELECT id, first_name, last_name, email FROM employees WHERE first_name = ? AND last_name = ? ORDER BY id LIMIT 2`,
		firstName, lastName)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, employee.ErrEmployeeNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, employee.ErrAmbiguousResult
	}
}

func (r *EmployeeRepository) query(ctx context.Context, query string, args ...any) ([]*employee.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email); err != nil {
			return nil, err
		}
		employees = append(employees, &e)
	}
	return employees, rows.Err()
}

func findOne(row *sql.Row) (*employee.Employee, bool, error) {
	var e employee.Employee
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &e, true, nil
}

func translateSQLiteError(err error, email string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return &employee.DuplicateResourceError{Email: email}
	}
	return err
}
