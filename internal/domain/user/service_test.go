package user

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

type fakeUserRepo struct {
	byID map[id.ID]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[id.ID]*User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	if u, ok := r.byID[userID]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (r *fakeUserRepo) GetByKey(ctx context.Context, ssoID string) (*User, error) {
	for _, u := range r.byID {
		if u.SSOID == ssoID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", ssoID)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *fakeUserRepo) Update(ctx context.Context, u *User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID id.ID) error {
	delete(r.byID, userID)
	return nil
}

func (r *fakeUserRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.byID))
	r.byID = map[id.ID]*User{}
	return n, nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error) {
	result := domain.ListResult[*User]{}
	for _, u := range r.byID {
		result.Items = append(result.Items, u)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, userID id.ID) (bool, error) {
	_, ok := r.byID[userID]
	return ok, nil
}

func (r *fakeUserRepo) ExistsByKey(ctx context.Context, ssoID string) (bool, error) {
	_, err := r.GetByKey(ctx, ssoID)
	return err == nil, nil
}

func setup() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewService(repo, noopTx{}), repo
}

func TestRegisterSSO_ProvisionsUnknownSubject(t *testing.T) {
	svc, repo := setup()

	u, err := svc.RegisterSSO(context.Background(), "sub-1", "a@example.com", "Ada", RoleStudent)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if u.SSOID != "sub-1" || u.Role != RoleStudent {
		t.Errorf("unexpected user: %+v", u)
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected 1 stored user, got %d", len(repo.byID))
	}
}

func TestRegisterSSO_RefreshesKnownSubject(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	first, err := svc.RegisterSSO(ctx, "sub-1", "a@example.com", "Ada", RoleStudent)
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	second, err := svc.RegisterSSO(ctx, "sub-1", "new@example.com", "Ada L.", RoleInstructor)
	if err != nil {
		t.Fatalf("second register failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("same subject must map to the same account")
	}
	if second.Email != "new@example.com" || second.Name != "Ada L." || second.Role != RoleInstructor {
		t.Errorf("claims not refreshed: %+v", second)
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected 1 stored user, got %d", len(repo.byID))
	}
}

func TestRegisterSSO_RejectsTakenEmail(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	if _, err := svc.RegisterSSO(ctx, "sub-1", "a@example.com", "Ada", RoleStudent); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	_, err := svc.RegisterSSO(ctx, "sub-2", "a@example.com", "Impostor", RoleStudent)
	if !apperror.IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestPromote_ElevatesToAdmin(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	if _, err := svc.RegisterSSO(ctx, "sub-1", "a@example.com", "Ada", RoleStudent); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	u, err := svc.Promote(ctx, "sub-1")
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if !u.IsAdmin() {
		t.Errorf("expected Admin role, got %s", u.Role)
	}

	// Promoting an admin again is a no-op, not an error.
	again, err := svc.Promote(ctx, "sub-1")
	if err != nil {
		t.Fatalf("second promote failed: %v", err)
	}
	if !again.IsAdmin() {
		t.Errorf("expected Admin role to stick, got %s", again.Role)
	}
}

func TestPromote_UnknownSubject(t *testing.T) {
	svc, _ := setup()

	_, err := svc.Promote(context.Background(), "nobody")
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"Admin", "Student", "Instructor"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("expected %q to parse: %v", valid, err)
		}
	}
	if _, err := ParseRole("root"); err == nil {
		t.Error("expected unknown role to fail")
	}
}
