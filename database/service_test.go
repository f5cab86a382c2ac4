package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"civic-report-service/apperrors"
	"civic-report-service/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"
)

var (
	db   *sql.DB
	mock sqlmock.Sqlmock
)

func setUp() {
	db, mock, _ = sqlmock.New()
}

func tearDown() {
	db.Close()
}

var it = beforeeach.Create(setUp, tearDown)

var fullColumns = []string{
	"id", "image_data", "image_mime_type", "issue_type", "severity",
	"area", "latitude", "longitude", "reporter_name", "reporter_phone",
	"status", "created_at",
}

func TestCreateAssignsIDAndTimestamp(t *testing.T) {
	it(func() {
		store := NewReportStore(db)

		mock.ExpectExec("INSERT INTO reports").
			WillReturnResult(sqlmock.NewResult(1, 1))

		lat := 40.0
		report := &models.Report{
			ImageData:     "AAAA",
			ImageMimeType: "image/jpeg",
			IssueType:     "garbage",
			Severity:      85,
			Location:      models.Location{Area: "Main St", Latitude: &lat},
			Status:        models.StatusOpen,
		}

		stored, err := store.Create(context.Background(), report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.ID == "" {
			t.Error("expected a generated id")
		}
		if stored.CreatedAt.IsZero() {
			t.Error("expected a creation timestamp")
		}
		if stored.Status != models.StatusOpen {
			t.Errorf("expected status open, got %s", stored.Status)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestListPublicOmitsReporterAndImage(t *testing.T) {
	it(func() {
		store := NewReportStore(db)

		publicColumns := []string{
			"id", "image_mime_type", "issue_type", "severity",
			"area", "latitude", "longitude", "status", "created_at",
		}
		now := time.Now()
		mock.ExpectQuery(`(?s)SELECT id, image_mime_type, issue_type, severity,.+ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(publicColumns).
				AddRow("r2", "image/png", "garbage", 85, "Main St", 40.0, -74.0, "open", now).
				AddRow("r1", "image/jpeg", "pothole", 50, "", nil, nil, "resolved", now.Add(-time.Hour)))

		reports, err := store.ListPublic(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(reports))
		}
		for _, r := range reports {
			if r.Reporter != nil {
				t.Errorf("public report %s exposes reporter", r.ID)
			}
			if r.ImageData != "" {
				t.Errorf("public listing %s carries image payload", r.ID)
			}
		}
		if reports[0].ID != "r2" {
			t.Errorf("expected newest report first, got %s", reports[0].ID)
		}
		if reports[1].Location.Latitude != nil {
			t.Error("expected missing latitude to stay nil")
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestListAdminIncludesReporter(t *testing.T) {
	it(func() {
		store := NewReportStore(db)

		now := time.Now()
		mock.ExpectQuery(`(?s)SELECT id, image_data, image_mime_type,.+ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(fullColumns).
				AddRow("r1", "AAAA", "image/jpeg", "tree_fall", 60, "Oak Ave", 41.0, -73.0, "Jane", "555-0101", "open", now))

		reports, err := store.ListAdmin(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != 1 {
			t.Fatalf("expected 1 report, got %d", len(reports))
		}
		if reports[0].Reporter == nil || reports[0].Reporter.Name != "Jane" {
			t.Errorf("expected reporter on admin listing, got %+v", reports[0].Reporter)
		}
		if reports[0].ImageData != "AAAA" {
			t.Error("expected image payload on admin listing")
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestGetByIDStripsReporter(t *testing.T) {
	it(func() {
		store := NewReportStore(db)

		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM reports").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows(fullColumns).
				AddRow("r1", "AAAA", "image/jpeg", "pothole", 50, "", nil, nil, "Jane", "555-0101", "open", now))

		report, err := store.GetByID(context.Background(), "r1", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Reporter != nil {
			t.Error("expected reporter stripped from public detail")
		}
		if report.ImageData != "AAAA" {
			t.Error("expected image payload on public detail")
		}
	})
}

func TestGetByIDNotFound(t *testing.T) {
	it(func() {
		store := NewReportStore(db)

		mock.ExpectQuery("SELECT (.+) FROM reports").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(fullColumns))

		_, err := store.GetByID(context.Background(), "missing", true)
		if !apperrors.IsNotFound(err) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	it(func() {
		store := NewReportStore(db)

		now := time.Now()
		mock.ExpectExec("UPDATE reports SET status").
			WithArgs("resolved", "r1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM reports").
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows(fullColumns).
				AddRow("r1", "AAAA", "image/jpeg", "pothole", 50, "", nil, nil, nil, nil, "resolved", now))

		report, err := store.UpdateStatus(context.Background(), "r1", "resolved")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Status != "resolved" {
			t.Errorf("expected status resolved, got %s", report.Status)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	it(func() {
		store := NewReportStore(db)

		// No expectations: an invalid status must never reach the database.
		_, err := store.UpdateStatus(context.Background(), "r1", "archived")
		if !apperrors.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("database was touched: %v", err)
		}
	})
}

func TestUpdateStatusNotFound(t *testing.T) {
	it(func() {
		store := NewReportStore(db)

		mock.ExpectExec("UPDATE reports SET status").
			WithArgs("resolved", "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT (.+) FROM reports").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(fullColumns))

		_, err := store.UpdateStatus(context.Background(), "missing", "resolved")
		if !apperrors.IsNotFound(err) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})
}
