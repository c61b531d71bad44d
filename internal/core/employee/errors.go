package employee

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID         = errors.New("employee: invalid id")
	ErrNilEmployee       = errors.New("employee: nil record")
	ErrInvalidName       = errors.New("employee: invalid name")
	ErrEmployeeNotFound  = errors.New("employee: not found")
	ErrAmbiguousResult   = errors.New("employee: more than one employee matches")
	ErrDuplicateResource = errors.New("employee: duplicate resource")
)

// DuplicateResourceError はメールアドレスが既存社員と重複した場合に返却されます。
type DuplicateResourceError struct {
	Email string
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("employee already exists with given email: %s", e.Email)
}

// Is は errors.Is(err, ErrDuplicateResource) を満たすためのものです。
func (e *DuplicateResourceError) Is(target error) bool {
	return target == ErrDuplicateResource
}
