package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"civic-report-service/apperrors"
	"civic-report-service/config"
	"civic-report-service/models"

	"github.com/apex/log"
	"github.com/google/uuid"

	_ "github.com/go-sql-driver/mysql"
)

// ReportStore handles all report persistence operations
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a report store over an existing connection
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Connect opens the MySQL connection pool described by cfg
func Connect(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Infof("Database connected to %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)

	return db, nil
}

// Create persists a new report, assigning its id and creation timestamp
func (s *ReportStore) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	report.ID = uuid.NewString()
	report.CreatedAt = time.Now().UTC()

	var reporterName, reporterPhone sql.NullString
	if report.Reporter != nil {
		reporterName = sql.NullString{String: report.Reporter.Name, Valid: true}
		reporterPhone = sql.NullString{String: report.Reporter.Phone, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports
			(id, image_data, image_mime_type, issue_type, severity,
			 area, latitude, longitude, reporter_name, reporter_phone,
			 status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.ImageData, report.ImageMimeType,
		report.IssueType, report.Severity,
		report.Location.Area, report.Location.Latitude, report.Location.Longitude,
		reporterName, reporterPhone,
		report.Status, report.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	return report, nil
}

// ListPublic returns all reports, newest first, without reporter contact info
// and without the image payload. The image itself is fetched per report via
// GetByID when rendering a single entry.
func (s *ReportStore) ListPublic(ctx context.Context) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, image_mime_type, issue_type, severity,
		       area, latitude, longitude, status, created_at
		FROM reports
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query public reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		var r models.Report
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.ImageMimeType, &r.IssueType, &r.Severity,
			&r.Location.Area, &lat, &lng, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		setCoordinates(&r, lat, lng)
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// ListAdmin returns all reports with every field, newest first
func (s *ReportStore) ListAdmin(ctx context.Context) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, image_data, image_mime_type, issue_type, severity,
		       area, latitude, longitude, reporter_name, reporter_phone,
		       status, created_at
		FROM reports
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		r, err := scanFullReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}

	return reports, rows.Err()
}

// GetByID returns a single report. Reporter contact info is stripped unless
// includeReporter is set. A missing id yields a NotFoundError.
func (s *ReportStore) GetByID(ctx context.Context, id string, includeReporter bool) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, image_data, image_mime_type, issue_type, severity,
		       area, latitude, longitude, reporter_name, reporter_phone,
		       status, created_at
		FROM reports
		WHERE id = ?`, id)

	report, err := scanFullReport(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("Report not found")
	}
	if err != nil {
		return nil, err
	}

	if !includeReporter {
		report.Reporter = nil
	}

	return report, nil
}

// UpdateStatus changes a report's status, the only mutation the store allows.
// Unknown statuses fail validation before the database is touched.
func (s *ReportStore) UpdateStatus(ctx context.Context, id, status string) (*models.Report, error) {
	if !models.ValidStatus(status) {
		return nil, apperrors.Validation("Invalid status value")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE reports SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows != 1 {
		log.Debugf("UpdateStatus %s: affected %d rows", id, rows)
	}

	// A zero-row update is either a missing report or an unchanged status;
	// the fetch below distinguishes the two.
	return s.GetByID(ctx, id, true)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFullReport(row rowScanner) (*models.Report, error) {
	var r models.Report
	var lat, lng sql.NullFloat64
	var reporterName, reporterPhone sql.NullString

	err := row.Scan(&r.ID, &r.ImageData, &r.ImageMimeType, &r.IssueType, &r.Severity,
		&r.Location.Area, &lat, &lng, &reporterName, &reporterPhone,
		&r.Status, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}

	setCoordinates(&r, lat, lng)
	if reporterName.Valid || reporterPhone.Valid {
		r.Reporter = &models.Reporter{Name: reporterName.String, Phone: reporterPhone.String}
	}

	return &r, nil
}

func setCoordinates(r *models.Report, lat, lng sql.NullFloat64) {
	if lat.Valid {
		r.Location.Latitude = &lat.Float64
	}
	if lng.Valid {
		r.Location.Longitude = &lng.Float64
	}
}
