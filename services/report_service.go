package services

import (
	"context"
	"strconv"
	"time"

	"civic-report-service/apperrors"
	"civic-report-service/database"
	"civic-report-service/metrics"
	"civic-report-service/ml"
	"civic-report-service/models"
	"civic-report-service/rabbitmq"
	"civic-report-service/utils"
	ws "civic-report-service/websocket"

	"github.com/apex/log"
)

// fallbackResult is substituted when a configured classifier call fails.
// Not ml.DefaultResult(): that covers the unconfigured case, and the two
// values coincide only while pothole is the first declared issue type.
var fallbackResult = ml.Result{IssueType: "pothole", Severity: 50}

// CreateReportInput carries one submission through the pipeline. Latitude and
// longitude arrive as raw form fields; empty values are omitted, not zeroed.
type CreateReportInput struct {
	Image     []byte
	MimeType  string
	Area      string
	Latitude  string
	Longitude string
	Name      string
	Phone     string
}

// ReportService runs the report creation pipeline:
// encode the upload, classify it, assemble the record, persist it.
type ReportService struct {
	store      *database.ReportStore
	classifier *ml.Client
	publisher  *rabbitmq.Publisher
	hub        *ws.Hub
}

// NewReportService wires the pipeline. publisher and hub may be nil; both are
// post-persistence conveniences and never affect the response.
func NewReportService(store *database.ReportStore, classifier *ml.Client, publisher *rabbitmq.Publisher, hub *ws.Hub) *ReportService {
	return &ReportService{
		store:      store,
		classifier: classifier,
		publisher:  publisher,
		hub:        hub,
	}
}

// Create runs the pipeline for one submission. Classification failures are
// absorbed here: the report is still created with the fallback classification,
// so classifier outages never block submissions.
func (s *ReportService) Create(ctx context.Context, input CreateReportInput) (*models.Report, error) {
	if len(input.Image) == 0 {
		return nil, apperrors.Validation("Image is required")
	}

	imageData, err := utils.EncodeImageToBase64(input.Image)
	if err != nil {
		return nil, err
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = models.DefaultMimeType
	}

	result := s.classify(ctx, utils.ImageDataURL(imageData, mimeType))

	location, err := buildLocation(input)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ImageData:     imageData,
		ImageMimeType: mimeType,
		IssueType:     result.IssueType,
		Severity:      result.Severity,
		Location:      location,
		Reporter:      buildReporter(input),
		Status:        models.StatusOpen,
	}

	stored, err := s.store.Create(ctx, report)
	if err != nil {
		return nil, err
	}

	metrics.ReportsCreatedTotal.WithLabelValues(stored.IssueType).Inc()
	s.afterCreate(stored)

	return stored, nil
}

// classify calls the external classifier and applies the failure policy. The
// result is additionally validated at this boundary so a misbehaving endpoint
// can never put an out-of-range record in the store.
func (s *ReportService) classify(ctx context.Context, imageDataURL string) ml.Result {
	if !s.classifier.Configured() {
		metrics.ClassificationTotal.WithLabelValues("unconfigured").Inc()
		return ml.DefaultResult()
	}

	start := time.Now()
	result, err := s.classifier.Analyze(ctx, imageDataURL)
	metrics.ClassificationDurationSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		log.WithError(err).Warn("Classification failed, using fallback")
		metrics.ClassificationTotal.WithLabelValues("fallback").Inc()
		return fallbackResult
	}

	if !models.ValidIssueType(result.IssueType) {
		result.IssueType = fallbackResult.IssueType
	}
	if result.Severity < 0 || result.Severity > 100 {
		result.Severity = fallbackResult.Severity
	}

	metrics.ClassificationTotal.WithLabelValues("ok").Inc()
	return result
}

// afterCreate fans the stored report out to the exchange and the live feed.
// Best effort only; errors are logged and dropped.
func (s *ReportService) afterCreate(report *models.Report) {
	if s.publisher != nil {
		if err := s.publisher.Publish(report); err != nil {
			log.WithError(err).Warnf("Failed to publish report %s", report.ID)
		}
	}
	if s.hub != nil {
		s.hub.BroadcastReport(report)
	}
}

func buildLocation(input CreateReportInput) (models.Location, error) {
	location := models.Location{Area: input.Area}

	if input.Latitude != "" {
		lat, err := strconv.ParseFloat(input.Latitude, 64)
		if err != nil {
			return location, apperrors.Validation("Invalid latitude value")
		}
		location.Latitude = &lat
	}
	if input.Longitude != "" {
		lng, err := strconv.ParseFloat(input.Longitude, 64)
		if err != nil {
			return location, apperrors.Validation("Invalid longitude value")
		}
		location.Longitude = &lng
	}

	return location, nil
}

func buildReporter(input CreateReportInput) *models.Reporter {
	if input.Name == "" && input.Phone == "" {
		return nil
	}
	return &models.Reporter{Name: input.Name, Phone: input.Phone}
}
