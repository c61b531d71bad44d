package employee

// Employee は社員エンティティです。
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// Clone は Employee の複製を返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
