package employee

import (
	"context"
	"errors"
	"sort"
	"testing"
)

type fakeEmployeeRepo struct {
	employees map[int64]*Employee
	sequence  int64
	saveCalls int
	findErr   error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[int64]*Employee)}
}

func (r *fakeEmployeeRepo) Save(_ context.Context, e *Employee) (*Employee, error) {
	r.saveCalls++
	clone := e.Clone()
	if _, ok := r.employees[clone.ID]; !ok {
		r.sequence++
		clone.ID = r.sequence
	}
	r.employees[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id int64) (*Employee, bool, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, false, nil
	}
	return emp.Clone(), true, nil
}

func (r *fakeEmployeeRepo) FindByEmail(_ context.Context, email string) (*Employee, bool, error) {
	if r.findErr != nil {
		return nil, false, r.findErr
	}
	for _, emp := range r.employees {
		if emp.Email == email {
			return emp.Clone(), true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeEmployeeRepo) FindAll(_ context.Context) ([]*Employee, error) {
	if len(r.employees) == 0 {
		return nil, nil
	}
	out := make([]*Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		out = append(out, emp.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEmployeeRepo) DeleteByID(_ context.Context, id int64) error {
	delete(r.employees, id)
	return nil
}

func (r *fakeEmployeeRepo) FindByName(_ context.Context, firstName, lastName string) (*Employee, error) {
	var matches []*Employee
	for _, emp := range r.employees {
		if emp.FirstName == firstName && emp.LastName == lastName {
			matches = append(matches, emp)
		}
	}
	switch len(matches) {
	case 0:
		return nil, ErrEmployeeNotFound
	case 1:
		return matches[0].Clone(), nil
	default:
		return nil, ErrAmbiguousResult
	}
}

type recordingTx struct {
	readOnly  int
	readWrite int
}

func (r *recordingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	r.readOnly++
	return fn(ctx)
}

func (r *recordingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	r.readWrite++
	return fn(ctx)
}

func TestService_CreateEmployee_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	tx := &recordingTx{}
	svc := NewService(repo, tx)

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		FirstName: "Santosh",
		LastName:  "k",
		Email:     "sant@gmail.com",
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.ID != 1 {
		t.Fatalf("expected storage assigned id 1, got %d", created.ID)
	}
	if created.FirstName != "Santosh" || created.LastName != "k" || created.Email != "sant@gmail.com" {
		t.Fatalf("unexpected employee: %+v", created)
	}
	if tx.readWrite != 1 {
		t.Fatalf("expected create to run in a read-write transaction")
	}
}

func TestService_CreateEmployee_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	in := CreateEmployeeInput{FirstName: "Santosh", LastName: "k", Email: "sant@gmail.com"}
	if _, err := svc.CreateEmployee(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.CreateEmployee(context.Background(), in)
	if !errors.Is(err, ErrDuplicateResource) {
		t.Fatalf("expected ErrDuplicateResource, got %v", err)
	}

	var dupErr *DuplicateResourceError
	if !errors.As(err, &dupErr) || dupErr.Email != "sant@gmail.com" {
		t.Fatalf("expected DuplicateResourceError carrying the email, got %v", err)
	}
	if repo.saveCalls != 1 {
		t.Fatalf("expected save to be invoked once, got %d", repo.saveCalls)
	}
	if len(repo.employees) != 1 {
		t.Fatalf("expected a single stored row, got %d", len(repo.employees))
	}
}

func TestService_CreateEmployee_StoresEmailAsGiven(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	for _, email := range []string{"", " padded@example.com "} {
		created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{FirstName: "No", LastName: "Check", Email: email})
		if err != nil {
			t.Fatalf("CreateEmployee(%q) returned error: %v", email, err)
		}
		if created.Email != email {
			t.Fatalf("expected email %q to be stored unchanged, got %q", email, created.Email)
		}
	}
	if repo.saveCalls != 2 {
		t.Fatalf("expected 2 writes, got %d", repo.saveCalls)
	}
}

func TestService_CreateEmployee_LookupErrorPropagates(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	repo.findErr = errors.New("connection refused")
	svc := NewService(repo, nil)

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Email: "a@example.com"})
	if !errors.Is(err, repo.findErr) {
		t.Fatalf("expected collaborator error to propagate, got %v", err)
	}
	if repo.saveCalls != 0 {
		t.Fatalf("expected no write when lookup fails")
	}
}

func TestService_ListEmployees_EmptyStore(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil)

	employees, err := svc.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if employees == nil || len(employees) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", employees)
	}
}

func TestService_ListEmployees_ReturnsAll(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Email: email}); err != nil {
			t.Fatalf("unexpected seed error: %v", err)
		}
	}

	employees, err := svc.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(employees))
	}
}

func TestService_GetEmployeeByID_Absent(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeEmployeeRepo(), nil)

	emp, found, err := svc.GetEmployeeByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected no error for absent id, got %v", err)
	}
	if found || emp != nil {
		t.Fatalf("expected empty result, got %+v", emp)
	}
}

func TestService_NonPositiveIDIsAbsent(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	for _, id := range []int64{0, -1} {
		emp, found, err := svc.GetEmployeeByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetEmployeeByID(%d) returned error: %v", id, err)
		}
		if found || emp != nil {
			t.Fatalf("GetEmployeeByID(%d): expected empty result, got %+v", id, emp)
		}
		if err := svc.DeleteEmployee(context.Background(), id); err != nil {
			t.Fatalf("DeleteEmployee(%d) returned error: %v", id, err)
		}
	}
}

func TestService_UpdateEmployee_NilRecord(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	_, err := svc.UpdateEmployee(context.Background(), nil)
	if !errors.Is(err, ErrNilEmployee) {
		t.Fatalf("expected ErrNilEmployee, got %v", err)
	}
	if err.Error() != "employee: nil record" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if repo.saveCalls != 0 {
		t.Fatalf("expected no write for nil record")
	}
}

func TestService_DeleteEmployee_AbsentID(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	if err := svc.DeleteEmployee(context.Background(), 99); err != nil {
		t.Fatalf("expected delete of absent id to succeed, got %v", err)
	}

	if _, found, _ := repo.FindByID(context.Background(), 99); found {
		t.Fatalf("expected id 99 to remain absent")
	}
}

func TestService_DeleteEmployee_RemovesRecord(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{Email: "gone@example.com"})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if err := svc.DeleteEmployee(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}

	if _, found, _ := svc.GetEmployeeByID(context.Background(), created.ID); found {
		t.Fatalf("expected employee to be deleted")
	}
}

func TestService_UpdateEmployee_Idempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		FirstName: "Santosh",
		LastName:  "k",
		Email:     "sant@gmail.com",
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	record := &Employee{ID: created.ID, FirstName: "Manoj", LastName: "k", Email: "manoj@gmail.com"}

	first, err := svc.UpdateEmployee(context.Background(), record)
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	second, err := svc.UpdateEmployee(context.Background(), record)
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if *first != *second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if len(repo.employees) != 1 {
		t.Fatalf("expected a single row after repeated updates, got %d", len(repo.employees))
	}
	stored, _, _ := repo.FindByID(context.Background(), created.ID)
	if stored.FirstName != "Manoj" || stored.Email != "manoj@gmail.com" {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestService_UpdateEmployee_DoesNotCheckExistence(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	saved, err := svc.UpdateEmployee(context.Background(), &Employee{ID: 7, FirstName: "New", Email: "new@example.com"})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected storage to insert a new row")
	}
	if repo.saveCalls != 1 {
		t.Fatalf("expected save to be forwarded")
	}
}

func TestService_FindEmployeeByName(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := NewService(repo, nil)

	if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{FirstName: "Santosh", LastName: "k", Email: "sant@gmail.com"}); err != nil {
		t.Fatalf("unexpected seed error: %v", err)
	}

	found, err := svc.FindEmployeeByName(context.Background(), " Santosh ", "k")
	if err != nil {
		t.Fatalf("FindEmployeeByName returned error: %v", err)
	}
	if found.Email != "sant@gmail.com" {
		t.Fatalf("unexpected employee: %+v", found)
	}

	if _, err := svc.FindEmployeeByName(context.Background(), "Nobody", "Here"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if _, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{FirstName: "Santosh", LastName: "k", Email: "other@gmail.com"}); err != nil {
		t.Fatalf("unexpected seed error: %v", err)
	}
	if _, err := svc.FindEmployeeByName(context.Background(), "Santosh", "k"); !errors.Is(err, ErrAmbiguousResult) {
		t.Fatalf("expected ErrAmbiguousResult, got %v", err)
	}

	if _, err := svc.FindEmployeeByName(context.Background(), "", "k"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestDuplicateResourceError_Message(t *testing.T) {
	t.Parallel()

	err := error(&DuplicateResourceError{Email: "dup@example.com"})
	if err.Error() != "employee already exists with given email: dup@example.com" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, ErrDuplicateResource) {
		t.Fatalf("expected errors.Is to match ErrDuplicateResource")
	}
}
