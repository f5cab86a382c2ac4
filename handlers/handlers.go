package handlers

import (
	"io"
	"net/http"

	"civic-report-service/database"
	"civic-report-service/metrics"
	"civic-report-service/models"
	"civic-report-service/services"
	"civic-report-service/utils"
	ws "civic-report-service/websocket"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

// MaxUploadBytes caps report images at 5 MB, checked before the pipeline runs
const MaxUploadBytes = 5 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handlers contains all HTTP handlers
type Handlers struct {
	reports *services.ReportService
	store   *database.ReportStore
	auth    *database.AdminAuthService
	hub     *ws.Hub
	debug   bool
}

// NewHandlers creates a new handlers instance
func NewHandlers(reports *services.ReportService, store *database.ReportStore, auth *database.AdminAuthService, hub *ws.Hub, debug bool) *Handlers {
	return &Handlers{
		reports: reports,
		store:   store,
		auth:    auth,
		hub:     hub,
		debug:   debug,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Civic report service is running", nil)
}

// CreateReport handles POST /api/reports. Multipart form: an image file plus
// area, latitude, longitude and optional name/phone fields.
func (h *Handlers) CreateReport(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Image is required", "", h.debug)
		return
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		utils.Error(c, http.StatusBadRequest, "Image exceeds the 5MB size limit", "", h.debug)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		utils.Error(c, http.StatusBadRequest, "Only JPG and PNG images are allowed", "", h.debug)
		return
	}

	imageBytes, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Failed to read image upload", "", h.debug)
		return
	}
	if len(imageBytes) > MaxUploadBytes {
		utils.Error(c, http.StatusBadRequest, "Image exceeds the 5MB size limit", "", h.debug)
		return
	}

	input := services.CreateReportInput{
		Image:     imageBytes,
		MimeType:  mimeType,
		Area:      c.PostForm("area"),
		Latitude:  c.PostForm("latitude"),
		Longitude: c.PostForm("longitude"),
		Name:      c.PostForm("name"),
		Phone:     c.PostForm("phone"),
	}

	report, err := h.reports.Create(c.Request.Context(), input)
	if err != nil {
		utils.FromError(c, err, h.debug)
		return
	}

	utils.Success(c, http.StatusCreated, "Report created", report)
}

// ListPublicReports handles GET /api/reports
func (h *Handlers) ListPublicReports(c *gin.Context) {
	reports, err := h.store.ListPublic(c.Request.Context())
	if err != nil {
		utils.FromError(c, err, h.debug)
		return
	}

	utils.Success(c, http.StatusOK, "Reports fetched", reports)
}

// GetPublicReport handles GET /api/reports/:id
func (h *Handlers) GetPublicReport(c *gin.Context) {
	report, err := h.store.GetByID(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		utils.FromError(c, err, h.debug)
		return
	}

	utils.Success(c, http.StatusOK, "Report fetched", report)
}

// Login handles POST /api/admin/login
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		utils.Error(c, http.StatusBadRequest, "Username and password are required", "", h.debug)
		return
	}

	admin, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.FromError(c, err, h.debug)
		return
	}

	token, err := h.auth.GenerateToken(admin.ID)
	if err != nil {
		utils.FromError(c, err, h.debug)
		return
	}

	utils.Success(c, http.StatusOK, "Login successful", models.LoginData{
		Token: token,
		Admin: models.AdminInfo{ID: admin.ID, Username: admin.Username},
	})
}

// ListAdminReports handles GET /api/admin/reports
func (h *Handlers) ListAdminReports(c *gin.Context) {
	reports, err := h.store.ListAdmin(c.Request.Context())
	if err != nil {
		utils.FromError(c, err, h.debug)
		return
	}

	utils.Success(c, http.StatusOK, "Reports fetched", reports)
}

// UpdateReportStatus handles PATCH /api/admin/reports/:id/status
func (h *Handlers) UpdateReportStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		utils.Error(c, http.StatusBadRequest, "Status is required", "", h.debug)
		return
	}

	report, err := h.store.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		utils.FromError(c, err, h.debug)
		return
	}

	metrics.StatusUpdatesTotal.WithLabelValues(report.Status).Inc()
	utils.Success(c, http.StatusOK, "Status updated", report)
}

// ListenReports handles GET /api/admin/reports/listen, upgrading to a
// websocket that streams created reports. Browsers cannot set headers on
// websocket dials, so the token may also come in as a query parameter.
func (h *Handlers) ListenReports(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
	}

	if _, err := h.auth.ValidateToken(token); err != nil {
		utils.Error(c, http.StatusUnauthorized, "Invalid or expired token", "", h.debug)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	go client.WritePump()
	go client.ReadPump()
}
