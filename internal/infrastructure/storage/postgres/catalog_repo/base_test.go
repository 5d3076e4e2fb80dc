package catalog_repo

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"electa/internal/core/apperror"
	"electa/internal/core/id"
)

type testRow struct {
	ID      id.ID  `db:"id"`
	Version int    `db:"version"`
	Name    string `db:"name"`
}

func newTestRepo() *BaseCatalogRepo[*testRow] {
	return NewBaseCatalogRepo(BaseRepoConfig[*testRow]{
		TableName:  "test_rows",
		KeyCol:     "name",
		SearchCols: []string{"name"},
		NewFn:      func() *testRow { return &testRow{} },
	})
}

func TestBaseSelect(t *testing.T) {
	repo := newTestRepo()

	sql, args, err := repo.baseSelect().ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	want := "SELECT id, version, name FROM test_rows"
	if sql != want {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", want, sql)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "DefaultIsKeyCol", orderBy: "", want: "name ASC"},
		{name: "Plain", orderBy: "version", want: "version ASC"},
		{name: "Descending", orderBy: "-version", want: "version DESC"},
		{name: "ExplicitAscending", orderBy: "+name", want: "name ASC"},
		{name: "UnknownColumn", orderBy: "password", wantErr: true},
		{name: "BareMinus", orderBy: "-", wantErr: true},
		{name: "Injection", orderBy: "name; DROP TABLE test_rows", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				if !ok || appErr.Code != apperror.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPgErrorClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	if !isUniqueViolation(unique) {
		t.Error("23505 should classify as unique violation")
	}
	if isUniqueViolation(fk) || isUniqueViolation(errors.New("plain")) {
		t.Error("only 23505 should classify as unique violation")
	}
	if !isForeignKeyViolation(fk) {
		t.Error("23503 should classify as foreign key violation")
	}
	if isForeignKeyViolation(unique) {
		t.Error("only 23503 should classify as foreign key violation")
	}
}
