package course

import (
	"context"
	"testing"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
	"electa/internal/domain"
)

// Mock objects

type noopTx struct{}

func (noopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCourseRepo struct {
	byID map[id.ID]*Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{byID: map[id.ID]*Course{}}
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *Course) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, courseID id.ID) (*Course, error) {
	if c, ok := r.byID[courseID]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("course", courseID.String())
}

func (r *fakeCourseRepo) GetByKey(ctx context.Context, name string) (*Course, error) {
	for _, c := range r.byID {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("course", name)
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *Course) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, courseID id.ID) error {
	delete(r.byID, courseID)
	return nil
}

func (r *fakeCourseRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.byID))
	r.byID = map[id.ID]*Course{}
	return n, nil
}

func (r *fakeCourseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Course], error) {
	result := domain.ListResult[*Course]{}
	for _, c := range r.byID {
		result.Items = append(result.Items, c)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeCourseRepo) Exists(ctx context.Context, courseID id.ID) (bool, error) {
	_, ok := r.byID[courseID]
	return ok, nil
}

func (r *fakeCourseRepo) ExistsByKey(ctx context.Context, name string) (bool, error) {
	_, err := r.GetByKey(ctx, name)
	return err == nil, nil
}

type fakeRefs struct {
	byCourse map[id.ID]int64
	total    int64
}

func (f *fakeRefs) CountByCourse(ctx context.Context, courseID id.ID) (int64, error) {
	return f.byCourse[courseID], nil
}

func (f *fakeRefs) CountAssociations(ctx context.Context) (int64, error) {
	return f.total, nil
}

func setup() (*Service, *fakeCourseRepo, *fakeRefs) {
	repo := newFakeCourseRepo()
	refs := &fakeRefs{byCourse: map[id.ID]int64{}}
	return NewService(repo, refs, noopTx{}), repo, refs
}

func TestCreate_RejectsDuplicateName(t *testing.T) {
	svc, _, _ := setup()
	ctx := context.Background()

	if err := svc.Create(ctx, NewCourse("Algorithms", 30, 0)); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := svc.Create(ctx, NewCourse("Algorithms", 10, 10))
	if !apperror.IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestUpdate_OwnNameIsNotAConflict(t *testing.T) {
	svc, _, _ := setup()
	ctx := context.Background()

	c := NewCourse("Algorithms", 30, 0)
	if err := svc.Create(ctx, c); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	c.TechQuota = 40
	if err := svc.Update(ctx, c); err != nil {
		t.Fatalf("update under own name failed: %v", err)
	}
}

func TestCreate_RejectsNegativeQuota(t *testing.T) {
	svc, _, _ := setup()

	err := svc.Create(context.Background(), NewCourse("Algorithms", -1, 0))
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDelete_RejectedWhileReferenced(t *testing.T) {
	svc, _, refs := setup()
	ctx := context.Background()

	c := NewCourse("Algorithms", 30, 0)
	if err := svc.Create(ctx, c); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	refs.byCourse[c.ID] = 2

	err := svc.Delete(ctx, c.ID)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, err := svc.GetByID(ctx, c.ID); err != nil {
		t.Errorf("course should survive a rejected delete: %v", err)
	}
}

func TestDelete_UnreferencedSucceeds(t *testing.T) {
	svc, repo, _ := setup()
	ctx := context.Background()

	c := NewCourse("Algorithms", 30, 0)
	if err := svc.Create(ctx, c); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Errorf("expected empty repo, got %d rows", len(repo.byID))
	}
}

func TestDeleteAll_RejectedWhileAnyAssociationExists(t *testing.T) {
	svc, _, refs := setup()
	ctx := context.Background()

	if err := svc.Create(ctx, NewCourse("Algorithms", 30, 0)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	refs.total = 1

	_, err := svc.DeleteAll(ctx)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	refs.total = 0
	n, err := svc.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
}
