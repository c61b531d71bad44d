package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-records-api/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-records-api/internal/platform/db/postgres"
)

const uniqueViolationCode = "23505"

const employeeColumns = `id, first_name, last_name, email`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Save は ID が未採番なら新規作成し、採番済みなら更新します。
// 更新対象の行が存在しない場合は新しい ID で挿入します。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	if e.ID != 0 {
		row := exec.QueryRow(ctx, `
        UPDATE employees
           SET first_name = $1,
               last_name = $2,
               email = $3
         WHERE id = $4
        RETURNING `+employeeColumns+`
    `, e.FirstName, e.LastName, e.Email, e.ID)

		updated, err := scanEmployee(row)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, translatePgError(err, e.Email)
		}
	}

	row := exec.QueryRow(ctx, `
        INSERT INTO employees (first_name, last_name, email)
        VALUES ($1, $2, $3)
        RETURNING `+employeeColumns+`
    `, e.FirstName, e.LastName, e.Email)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err, e.Email)
	}
	return created, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	return findOne(row)
}

// FindByEmail はメールアドレスで社員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE email = $1
         LIMIT 1
    `, email)

	return findOne(row)
}

// FindAll は全社員を ID 順で返します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// DeleteByID は社員を削除します。該当行が無くてもエラーにしません。
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id); err != nil {
		return err
	}
	return nil
}

// FindByName は姓名が完全一致する社員を 1 件返します。
func (r *EmployeeRepository) FindByName(ctx context.Context, firstName, lastName string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE first_name = $1 AND last_name = $2
         ORDER BY id
         LIMIT 2
    `, firstName, lastName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, emp)
	}
	if err := rows.Err(); err != nil {
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

func findOne(row pgx.Row) (*employee.Employee, bool, error) {
	found, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return found, true, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var e employee.Employee
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email); err != nil {
		return nil, err
	}
	return &e, nil
}

func translatePgError(err error, email string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return &employee.DuplicateResourceError{Email: email}
	}
	return err
}
