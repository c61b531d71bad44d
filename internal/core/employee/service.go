package employee

import (
	"context"
	"strings"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (*Employee, bool, error)
	UpdateEmployee(ctx context.Context, e *Employee) (*Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	FindEmployeeByName(ctx context.Context, firstName, lastName string) (*Employee, error)
}

// NewService は Service を生成します。tx が nil の場合はトランザクションを張りません。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	FirstName string
	LastName  string
	Email     string
}

// CreateEmployee は新しい社員を作成します。
// 同じメールアドレスの社員が既に存在する場合は DuplicateResourceError を返し、書き込みは行いません。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailNotExists(txCtx, in.Email); err != nil {
			return err
		}

		result, err := s.repo.Save(txCtx, &Employee{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// ListEmployees は全社員を返します。0 件の場合も空スライスを返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}

	if employees == nil {
		employees = []*Employee{}
	}
	return employees, nil
}

// GetEmployeeByID は社員を取得します。存在しない場合は found=false を返します。
// 採番されない ID (0 以下) も単に見つからないものとして扱います。
func (s *Service) GetEmployeeByID(ctx context.Context, id int64) (*Employee, bool, error) {
	var (
		result *Employee
		found  bool
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, ok, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result, found = emp, ok
		return nil
	}); err != nil {
		return nil, false, err
	}

	return result, found, nil
}

// UpdateEmployee は社員レコードをそのまま保存します。
// 存在確認は呼び出し側の責務で、ID が存在しない場合はストレージが新規行を作成します。
func (s *Service) UpdateEmployee(ctx context.Context, e *Employee) (*Employee, error) {
	if e == nil {
		return nil, ErrNilEmployee
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Save(txCtx, e)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEmployee は社員を削除します。存在しない ID でもエラーにはなりません。
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteByID(txCtx, id)
	})
}

// FindEmployeeByName は姓名が完全一致する社員を 1 件取得します。
// 該当なしは ErrEmployeeNotFound、複数該当は ErrAmbiguousResult です。
func (s *Service) FindEmployeeByName(ctx context.Context, firstName, lastName string) (*Employee, error) {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	if first == "" || last == "" {
		return nil, ErrInvalidName
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.FindByName(txCtx, first, last)
		if err != nil {
			return err
		}
		result = emp
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) ensureEmailNotExists(ctx context.Context, email string) error {
	_, found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if found {
		return &DuplicateResourceError{Email: email}
	}
	return nil
}
