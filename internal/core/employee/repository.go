package employee

import "context"

// Repository は社員永続化の抽象です。
//
// FindByID / FindByEmail は該当なしをエラーではなく found=false で表します。
// DeleteByID は対象が存在しなくても成功します。
type Repository interface {
	Save(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, bool, error)
	FindByEmail(ctx context.Context, email string) (*Employee, bool, error)
	FindAll(ctx context.Context) ([]*Employee, error)
	DeleteByID(ctx context.Context, id int64) error
	FindByName(ctx context.Context, firstName, lastName string) (*Employee, error)
}
