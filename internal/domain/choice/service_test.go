package choice

import (
	"context"
	"errors"
	"sort"
	"testing"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
)

// Mock objects

type noopTx struct{}

func (noopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeChoiceRepo struct {
	rows map[id.ID]*Choice
}

func newFakeChoiceRepo() *fakeChoiceRepo {
	return &fakeChoiceRepo{rows: map[id.ID]*Choice{}}
}

func (r *fakeChoiceRepo) Add(ctx context.Context, c *Choice) error {
	r.rows[c.ID] = c
	return nil
}

func (r *fakeChoiceRepo) Delete(ctx context.Context, choiceID id.ID) error {
	delete(r.rows, choiceID)
	return nil
}

func (r *fakeChoiceRepo) DeleteByUser(ctx context.Context, userID id.ID) (int64, error) {
	var n int64
	for cid, c := range r.rows {
		if c.UserID == userID {
			delete(r.rows, cid)
			n++
		}
	}
	return n, nil
}

func (r *fakeChoiceRepo) GetByUserPriority(ctx context.Context, userID id.ID, priority int) (*Choice, error) {
	for _, c := range r.rows {
		if c.UserID == userID && c.Priority == priority {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("choice", priority)
}

func (r *fakeChoiceRepo) ListByUser(ctx context.Context, userID id.ID) ([]*Choice, error) {
	var out []*Choice
	for _, c := range r.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (r *fakeChoiceRepo) ListByElective(ctx context.Context, electiveID id.ID) ([]*Choice, error) {
	var out []*Choice
	for _, c := range r.rows {
		if c.ElectiveID == electiveID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChoiceRepo) ShiftDown(ctx context.Context, userID id.ID, abovePriority int) error {
	for _, c := range r.rows {
		if c.UserID == userID && c.Priority > abovePriority {
			c.Priority--
		}
	}
	return nil
}

type fakeElectiveResolver struct {
	known map[id.ID]bool
}

func (f *fakeElectiveResolver) Exists(ctx context.Context, eid id.ID) (bool, error) {
	return f.known[eid], nil
}

func newService(known ...id.ID) (*Service, *fakeChoiceRepo) {
	repo := newFakeChoiceRepo()
	resolver := &fakeElectiveResolver{known: map[id.ID]bool{}}
	for _, eid := range known {
		resolver.known[eid] = true
	}
	return NewService(repo, resolver, noopTx{}), repo
}

func makeIDs(n int) []id.ID {
	ids := make([]id.ID, n)
	for i := range ids {
		ids[i] = id.New()
	}
	return ids
}

func assertPriorities(t *testing.T, choices []*Choice, want []id.ID) {
	t.Helper()
	if len(choices) != len(want) {
		t.Fatalf("expected %d choices, got %d", len(want), len(choices))
	}
	for i, c := range choices {
		if c.Priority != i+1 {
			t.Errorf("choice %d: expected priority %d, got %d", i, i+1, c.Priority)
		}
		if c.ElectiveID != want[i] {
			t.Errorf("choice %d: expected elective %s, got %s", i, want[i], c.ElectiveID)
		}
	}
}

func TestReplaceAll_AssignsDensePriorities(t *testing.T) {
	electives := makeIDs(3)
	svc, _ := newService(electives...)
	userID := id.New()

	got, err := svc.ReplaceAll(context.Background(), userID, electives)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPriorities(t, got, electives)
}

func TestReplaceAll_OverwritesPreviousSelection(t *testing.T) {
	old := makeIDs(3)
	next := makeIDs(2)
	svc, repo := newService(append(old, next...)...)
	userID := id.New()

	if _, err := svc.ReplaceAll(context.Background(), userID, old); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	got, err := svc.ReplaceAll(context.Background(), userID, next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPriorities(t, got, next)

	stored, _ := repo.ListByUser(context.Background(), userID)
	if len(stored) != 2 {
		t.Errorf("expected old selection gone, found %d rows", len(stored))
	}
}

func TestReplaceAll_EmptyClearsSelection(t *testing.T) {
	electives := makeIDs(2)
	svc, repo := newService(electives...)
	userID := id.New()

	if _, err := svc.ReplaceAll(context.Background(), userID, electives); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	got, err := svc.ReplaceAll(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty selection, got %d", len(got))
	}
	stored, _ := repo.ListByUser(context.Background(), userID)
	if len(stored) != 0 {
		t.Errorf("expected no stored rows, got %d", len(stored))
	}
}

func TestReplaceAll_RejectsTooMany(t *testing.T) {
	electives := makeIDs(MaxChoices + 1)
	svc, _ := newService(electives...)

	_, err := svc.ReplaceAll(context.Background(), id.New(), electives)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReplaceAll_RejectsDuplicates(t *testing.T) {
	electives := makeIDs(2)
	svc, repo := newService(electives...)
	userID := id.New()

	if _, err := svc.ReplaceAll(context.Background(), userID, electives); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := svc.ReplaceAll(context.Background(), userID, []id.ID{electives[0], electives[0]})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicateChoice {
		t.Fatalf("expected duplicate-choice error, got %v", err)
	}

	stored, _ := repo.ListByUser(context.Background(), userID)
	assertPriorities(t, stored, electives)
}

func TestReplaceAll_SameListTwice(t *testing.T) {
	electives := makeIDs(3)
	svc, repo := newService(electives...)
	userID := id.New()

	if _, err := svc.ReplaceAll(context.Background(), userID, electives); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	got, err := svc.ReplaceAll(context.Background(), userID, electives)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	assertPriorities(t, got, electives)

	stored, _ := repo.ListByUser(context.Background(), userID)
	assertPriorities(t, stored, electives)
}

func TestReplaceAll_ReportsAllUnknownIDs(t *testing.T) {
	known := id.New()
	missing1, missing2 := id.New(), id.New()
	svc, repo := newService(known)
	userID := id.New()

	_, err := svc.ReplaceAll(context.Background(), userID, []id.ID{known, missing1, missing2})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnknownReference {
		t.Fatalf("expected unknown-reference error, got %v", err)
	}

	ids, ok := appErr.Details["missing_ids"].([]string)
	if !ok {
		t.Fatalf("expected missing_ids detail, got %v", appErr.Details)
	}
	if len(ids) != 2 {
		t.Errorf("expected both missing IDs reported, got %v", ids)
	}

	// Rejection must leave nothing behind.
	stored, _ := repo.ListByUser(context.Background(), userID)
	if len(stored) != 0 {
		t.Errorf("expected no rows after rejected replace, got %d", len(stored))
	}
}

func TestRemoveAtPriority_ClosesGap(t *testing.T) {
	electives := makeIDs(4)
	svc, _ := newService(electives...)
	userID := id.New()

	if _, err := svc.ReplaceAll(context.Background(), userID, electives); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	got, err := svc.RemoveAtPriority(context.Background(), userID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPriorities(t, got, []id.ID{electives[0], electives[2], electives[3]})
}

func TestRemoveAtPriority_LastLeavesRestUntouched(t *testing.T) {
	electives := makeIDs(3)
	svc, _ := newService(electives...)
	userID := id.New()

	if _, err := svc.ReplaceAll(context.Background(), userID, electives); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	got, err := svc.RemoveAtPriority(context.Background(), userID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPriorities(t, got, electives[:2])
}

func TestRemoveAtPriority_MissingRank(t *testing.T) {
	electives := makeIDs(2)
	svc, repo := newService(electives...)
	userID := id.New()

	if _, err := svc.ReplaceAll(context.Background(), userID, electives); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// Any unheld rank is a not-found, even one past the selection cap.
	for _, priority := range []int{4, MaxChoices + 4} {
		_, err := svc.RemoveAtPriority(context.Background(), userID, priority)
		if !apperror.IsNotFound(err) {
			t.Errorf("priority %d: expected not-found, got %v", priority, err)
		}
	}

	stored, _ := repo.ListByUser(context.Background(), userID)
	assertPriorities(t, stored, electives)
}

func TestRemoveAtPriority_NonPositive(t *testing.T) {
	svc, _ := newService()

	for _, priority := range []int{0, -1} {
		_, err := svc.RemoveAtPriority(context.Background(), id.New(), priority)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeValidation {
			t.Errorf("priority %d: expected validation error, got %v", priority, err)
		}
	}
}

type failingResolver struct{}

func (failingResolver) Exists(ctx context.Context, eid id.ID) (bool, error) {
	return false, errors.New("resolver down")
}

func TestReplaceAll_ResolverErrorPropagates(t *testing.T) {
	svc := NewService(newFakeChoiceRepo(), failingResolver{}, noopTx{})

	_, err := svc.ReplaceAll(context.Background(), id.New(), makeIDs(1))
	if err == nil {
		t.Fatal("expected error from failing resolver")
	}
}
