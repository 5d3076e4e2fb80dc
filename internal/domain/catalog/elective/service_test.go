package elective

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

type fakeElectiveRepo struct {
	byID    map[id.ID]*Elective
	courses map[id.ID][]id.ID
}

func newFakeElectiveRepo() *fakeElectiveRepo {
	return &fakeElectiveRepo{
		byID:    map[id.ID]*Elective{},
		courses: map[id.ID][]id.ID{},
	}
}

func (r *fakeElectiveRepo) Create(ctx context.Context, e *Elective) error {
	r.byID[e.ID] = e
	return nil
}

func (r *fakeElectiveRepo) GetByID(ctx context.Context, electiveID id.ID) (*Elective, error) {
	if e, ok := r.byID[electiveID]; ok {
		return e, nil
	}
	return nil, apperror.NewNotFound("elective", electiveID.String())
}

func (r *fakeElectiveRepo) GetByKey(ctx context.Context, code string) (*Elective, error) {
	for _, e := range r.byID {
		if e.Code == code {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("elective", code)
}

func (r *fakeElectiveRepo) Update(ctx context.Context, e *Elective) error {
	r.byID[e.ID] = e
	return nil
}

func (r *fakeElectiveRepo) Delete(ctx context.Context, electiveID id.ID) error {
	delete(r.byID, electiveID)
	delete(r.courses, electiveID)
	return nil
}

func (r *fakeElectiveRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.byID))
	r.byID = map[id.ID]*Elective{}
	r.courses = map[id.ID][]id.ID{}
	return n, nil
}

func (r *fakeElectiveRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Elective], error) {
	result := domain.ListResult[*Elective]{}
	for _, e := range r.byID {
		result.Items = append(result.Items, e)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeElectiveRepo) Exists(ctx context.Context, electiveID id.ID) (bool, error) {
	_, ok := r.byID[electiveID]
	return ok, nil
}

func (r *fakeElectiveRepo) ExistsByKey(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByKey(ctx, code)
	return err == nil, nil
}

func (r *fakeElectiveRepo) SetCourses(ctx context.Context, electiveID id.ID, courseIDs []id.ID) error {
	r.courses[electiveID] = courseIDs
	return nil
}

func (r *fakeElectiveRepo) ListByCourse(ctx context.Context, courseID id.ID) ([]*Elective, error) {
	var out []*Elective
	for eid, cids := range r.courses {
		for _, cid := range cids {
			if cid == courseID {
				out = append(out, r.byID[eid])
				break
			}
		}
	}
	return out, nil
}

func (r *fakeElectiveRepo) CountByCourse(ctx context.Context, courseID id.ID) (int64, error) {
	list, _ := r.ListByCourse(ctx, courseID)
	return int64(len(list)), nil
}

func (r *fakeElectiveRepo) CountAssociations(ctx context.Context) (int64, error) {
	var n int64
	for _, cids := range r.courses {
		n += int64(len(cids))
	}
	return n, nil
}

type fakeCourseResolver struct {
	known map[id.ID]bool
}

func (f *fakeCourseResolver) Exists(ctx context.Context, cid id.ID) (bool, error) {
	return f.known[cid], nil
}

func setup(knownCourses ...id.ID) (*Service, *fakeElectiveRepo) {
	repo := newFakeElectiveRepo()
	resolver := &fakeCourseResolver{known: map[id.ID]bool{}}
	for _, cid := range knownCourses {
		resolver.known[cid] = true
	}
	return NewService(repo, resolver, noopTx{}), repo
}

func TestCreate_PersistsCourseAssociations(t *testing.T) {
	courseID := id.New()
	svc, repo := setup(courseID)
	ctx := context.Background()

	e := NewElective("CS101", "Intro to Go", "Pike", CategoryTech)
	e.CourseIDs = []id.ID{courseID}

	if err := svc.Create(ctx, e); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := repo.courses[e.ID]; len(got) != 1 || got[0] != courseID {
		t.Errorf("expected association to %s, got %v", courseID, got)
	}
}

func TestCreate_RejectsDuplicateCode(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	if err := svc.Create(ctx, NewElective("CS101", "Intro to Go", "Pike", CategoryTech)); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := svc.Create(ctx, NewElective("CS101", "Other", "Thompson", CategoryTech))
	if !apperror.IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestUpdate_OwnCodeIsNotAConflict(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	e := NewElective("CS101", "Intro to Go", "Pike", CategoryTech)
	if err := svc.Create(ctx, e); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	e.Title = "Intro to Go, 2nd ed."
	if err := svc.Update(ctx, e); err != nil {
		t.Fatalf("update under own code failed: %v", err)
	}
}

func TestCreate_ReportsAllDanglingCourseRefs(t *testing.T) {
	known := id.New()
	missing1, missing2 := id.New(), id.New()
	svc, repo := setup(known)

	e := NewElective("CS101", "Intro to Go", "Pike", CategoryTech)
	e.CourseIDs = []id.ID{known, missing1, missing2}

	err := svc.Create(context.Background(), e)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnknownReference {
		t.Fatalf("expected unknown-reference error, got %v", err)
	}
	ids, _ := appErr.Details["missing_ids"].([]string)
	if len(ids) != 2 {
		t.Errorf("expected both dangling IDs reported, got %v", ids)
	}
	if len(repo.byID) != 0 {
		t.Errorf("rejected create must not persist, found %d rows", len(repo.byID))
	}
}

func TestCreate_CollapsesDuplicateCourseIDs(t *testing.T) {
	courseID := id.New()
	svc, repo := setup(courseID)

	e := NewElective("CS101", "Intro to Go", "Pike", CategoryTech)
	e.CourseIDs = []id.ID{courseID, courseID}

	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := repo.courses[e.ID]; len(got) != 1 {
		t.Errorf("expected duplicates collapsed, got %v", got)
	}
}

func TestCreate_RejectsBadCategory(t *testing.T) {
	svc, _ := setup()

	e := NewElective("CS101", "Intro to Go", "Pike", Category("Sports"))
	err := svc.Create(context.Background(), e)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportBatch_SkipsExistingCodes(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	existing := NewElective("CS101", "Intro to Go", "Pike", CategoryTech)
	if err := svc.Create(ctx, existing); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rows := []*Elective{
		NewElective("CS101", "Duplicate", "Kernighan", CategoryTech),
		NewElective("HU201", "Philosophy", "Russell", CategoryHum),
	}
	result, err := svc.ImportBatch(ctx, rows)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(result.Imported) != 1 || result.Imported[0].Code != "HU201" {
		t.Errorf("expected HU201 imported, got %v", result.Imported)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped row, got %d", len(result.Skipped))
	}
	if result.Skipped[0].Input.Title != "Duplicate" {
		t.Errorf("skipped input should be the rejected row, got %q", result.Skipped[0].Input.Title)
	}
	if result.Skipped[0].Existing.ID != existing.ID {
		t.Errorf("skipped pair should carry the colliding catalog entry")
	}
}

func TestImportBatch_InvalidRowAbortsRemainder(t *testing.T) {
	svc, repo := setup()

	rows := []*Elective{
		NewElective("CS101", "Intro to Go", "Pike", CategoryTech),
		NewElective("", "No code", "Nobody", CategoryTech),
	}
	_, err := svc.ImportBatch(context.Background(), rows)
	if err == nil {
		t.Fatal("expected validation failure to surface")
	}
	// The row before the bad one was already committed.
	if len(repo.byID) != 1 {
		t.Errorf("expected 1 row persisted before failure, got %d", len(repo.byID))
	}
}
