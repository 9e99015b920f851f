package credentials

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

func TestCreate_PatientTable(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+patients\s*\(username,\s*salt,\s*hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)$`
	mock.ExpectExec(q).
		WithArgs("bob", []byte("salt"), []byte("verifier")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Identity{
		Kind: models.KindPatient, UserName: "bob", Salt: []byte("salt"), Verifier: []byte("verifier"),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_CaregiverTable_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+caregivers\s*\(username,\s*salt,\s*hash\)`
	mock.ExpectExec(q).
		WithArgs("alice", []byte("s"), []byte("v")).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Identity{
		Kind: models.KindCaregiver, UserName: "alice", Salt: []byte("s"), Verifier: []byte("v"),
	})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreate_UnknownKind(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	err := repo.Create(context.Background(), &models.Identity{Kind: "admin", UserName: "x"})
	if !errors.Is(err, common.ErrInvalidArguments) {
		t.Fatalf("want ErrInvalidArguments, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+caregivers\s+WHERE\s+username\s*=\s*\$1\)$`
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), models.KindCaregiver, "alice")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !ok {
		t.Fatalf("expected alice to exist")
	}
}

func TestGetByUserName_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+username,\s*salt,\s*hash\s+FROM\s+patients\s+WHERE\s+username\s*=\s*\$1$`
	rows := sqlmock.NewRows([]string{"username", "salt", "hash"}).
		AddRow("bob", []byte("salt"), []byte("ver"))
	mock.ExpectQuery(q).WithArgs("bob").WillReturnRows(rows)

	got, err := repo.GetByUserName(context.Background(), models.KindPatient, "bob")
	if err != nil {
		t.Fatalf("GetByUserName error: %v", err)
	}
	if got.UserName != "bob" || got.Kind != models.KindPatient || string(got.Verifier) != "ver" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestGetByUserName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+patients`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserName(context.Background(), models.KindPatient, "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByUserName_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+caregivers`).WithArgs("alice").WillReturnError(errors.New("db err"))

	_, err := repo.GetByUserName(context.Background(), models.KindCaregiver, "alice")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
