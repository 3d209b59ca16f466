package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/veenapanicker/nexus/internal/access"
	"github.com/veenapanicker/nexus/internal/auth"
	"github.com/veenapanicker/nexus/internal/enrollment"
	"github.com/veenapanicker/nexus/internal/license"
	"github.com/veenapanicker/nexus/internal/metrics"
	"github.com/veenapanicker/nexus/internal/models"
	"github.com/veenapanicker/nexus/internal/report"
)

type Server struct {
	reports    *report.Manager
	licenses   *license.Manager
	enrollment *enrollment.Manager
	admins     *access.Manager
	authSvc    *auth.Service
	logger     *zap.Logger
	router     *gin.Engine
}

func NewServer(
	reports *report.Manager,
	licenses *license.Manager,
	enrollmentMgr *enrollment.Manager,
	admins *access.Manager,
	authSvc *auth.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		reports:    reports,
		licenses:   licenses,
		enrollment: enrollmentMgr,
		admins:     admins,
		authSvc:    authSvc,
		logger:     logger,
		router:     gin.New(),
	}
	s.router.Use(gin.Recovery(), metrics.Middleware())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/api/v1/auth/login", s.login)

	api := s.router.Group("/api/v1")
	api.Use(s.authSvc.Middleware())

	reports := api.Group("/reports")
	reports.Use(auth.RequireModule(models.ModuleReports, false))
	{
		reports.GET("", s.listReports)
		reports.GET("/status", s.reportStatus)
		reports.POST("/:id/generate", auth.RequireModule(models.ModuleReports, true), s.generateReport)
		reports.POST("/:id/schedule", auth.RequireModule(models.ModuleReports, true), s.scheduleReport)
	}

	downloads := api.Group("/downloads")
	downloads.Use(auth.RequireModule(models.ModuleReports, false))
	{
		downloads.GET("", s.listDownloads)
		downloads.DELETE("/:id", auth.RequireModule(models.ModuleReports, true), s.deleteDownload)
		downloads.POST("/bulk-delete", auth.RequireModule(models.ModuleReports, true), s.bulkDeleteDownloads)
	}

	schedules := api.Group("/schedules")
	schedules.Use(auth.RequireModule(models.ModuleReports, false))
	{
		schedules.GET("", s.listSchedules)
		schedules.DELETE("/:id", auth.RequireModule(models.ModuleReports, true), s.deleteSchedule)
		schedules.PUT("/:id/toggle", auth.RequireModule(models.ModuleReports, true), s.toggleSchedule)
	}

	licenses := api.Group("/licenses")
	licenses.Use(auth.RequireModule(models.ModuleLicenses, false))
	{
		licenses.GET("", s.listLicenses)
		licenses.GET("/stats", s.licenseStats)
		licenses.GET("/:id/seats", s.listSeats)
		licenses.POST("", auth.RequireModule(models.ModuleLicenses, true), s.addLicense)
		licenses.POST("/:id/assign", auth.RequireModule(models.ModuleLicenses, true), s.assignSeat)
		licenses.DELETE("/seats/:id", auth.RequireModule(models.ModuleLicenses, true), s.revokeSeat)
	}

	enroll := api.Group("/enrollment")
	enroll.Use(auth.RequireModule(models.ModuleEnrollment, false))
	{
		enroll.GET("/courses", s.listCourses)
		enroll.GET("/courses/:id", s.getCourse)
		enroll.GET("/courses/:id/students", s.courseStudents)
		enroll.GET("/stats", s.enrollmentStats)
		enroll.GET("/sync/history", s.syncHistory)
		enroll.POST("/sync", auth.RequireModule(models.ModuleEnrollment, true), s.runSync)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/users", s.listAdmins)
		admin.GET("/users/stats", s.adminStats)
		admin.POST("/users", s.inviteAdmin)
		admin.PUT("/users/:id/permissions", s.updateAdminPermissions)
		admin.DELETE("/users/:id", s.removeAdmin)
	}
}

func (s *Server) Start(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleError maps manager errors onto HTTP statuses.
func (s *Server) handleError(c *gin.Context, err error) {
	switch {
	case models.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, license.ErrNoSeatsAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// --- auth ---

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Any credentials are accepted; a known admin email gets its stored
	// identity, anything else a default institutional-admin session.
	admin, err := s.admins.GetByEmail(req.Email)
	if err != nil {
		admin = &models.AdminUser{
			ID:          "session-" + req.Email,
			Name:        req.Email,
			Email:       req.Email,
			Role:        models.RoleInstitutionalAdmin,
			Permissions: models.DefaultPermissions(models.RoleInstitutionalAdmin),
			Status:      models.AdminStatusActive,
		}
	} else if admin.Status == models.AdminStatusInvited {
		if err := s.admins.Activate(admin.ID); err != nil {
			s.logger.Error("failed to activate invited admin", zap.Error(err))
		}
	}

	token, err := s.authSvc.GenerateToken(admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": admin})
}

// --- reports ---

func (s *Server) listReports(c *gin.Context) {
	reports, err := s.reports.Catalog()
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (s *Server) reportStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"generating": s.reports.Generating()})
}

func (s *Server) generateReport(c *gin.Context) {
	var req struct {
		Format    models.ReportFormat `json:"format" binding:"required"`
		DateRange *report.DateRange   `json:"date_range,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := s.reports.Generate(c.Request.Context(), c.Param("id"), req.Format, req.DateRange)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, artifact)
}

func (s *Server) scheduleReport(c *gin.Context) {
	var cfg report.ScheduleConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sched, err := s.reports.Schedule(c.Param("id"), cfg)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sched)
}

// --- downloads ---

type downloadView struct {
	models.GeneratedReport
	ExpiresSoon bool `json:"expires_soon"`
}

func (s *Server) listDownloads(c *gin.Context) {
	artifacts, err := s.reports.ListGenerated()
	if err != nil {
		s.handleError(c, err)
		return
	}
	now := time.Now()
	views := make([]downloadView, len(artifacts))
	for i, a := range artifacts {
		views[i] = downloadView{GeneratedReport: a, ExpiresSoon: a.ExpiresSoon(now)}
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) deleteDownload(c *gin.Context) {
	if err := s.reports.DeleteGenerated(c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) bulkDeleteDownloads(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.reports.BulkDeleteGenerated(req.IDs); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- schedules ---

func (s *Server) listSchedules(c *gin.Context) {
	schedules, err := s.reports.ListSchedules()
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (s *Server) deleteSchedule(c *gin.Context) {
	if err := s.reports.DeleteSchedule(c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) toggleSchedule(c *gin.Context) {
	if err := s.reports.ToggleSchedule(c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- licenses ---

func (s *Server) listLicenses(c *gin.Context) {
	licenses, err := s.licenses.List()
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, licenses)
}

func (s *Server) licenseStats(c *gin.Context) {
	stats, err := s.licenses.Stats()
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) addLicense(c *gin.Context) {
	var lic models.License
	if err := c.ShouldBindJSON(&lic); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.licenses.Add(&lic); err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lic)
}

func (s *Server) assignSeat(c *gin.Context) {
	var req license.SeatAssignment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	seat, err := s.licenses.AssignSeat(c.Param("id"), req)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, seat)
}

func (s *Server) revokeSeat(c *gin.Context) {
	if err := s.licenses.RevokeSeat(c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listSeats(c *gin.Context) {
	seats, err := s.licenses.ListSeats(c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, seats)
}

// --- enrollment ---

func (s *Server) listCourses(c *gin.Context) {
	courses, err := s.enrollment.ListCourses(models.Product(c.Query("product")))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (s *Server) getCourse(c *gin.Context) {
	course, err := s.enrollment.GetCourse(c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (s *Server) courseStudents(c *gin.Context) {
	students, err := s.enrollment.CourseStudents(c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (s *Server) enrollmentStats(c *gin.Context) {
	stats, err := s.enrollment.Stats()
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) syncHistory(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	history, err := s.enrollment.SyncHistory(limit)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) runSync(c *gin.Context) {
	record, err := s.enrollment.Sync(c.Request.Context(), models.SyncTypeManual)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// --- admin users ---

func (s *Server) listAdmins(c *gin.Context) {
	admins, err := s.admins.List(c.Query("module"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

func (s *Server) adminStats(c *gin.Context) {
	stats, err := s.admins.Stats()
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) inviteAdmin(c *gin.Context) {
	var inv access.Invite
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitedBy := "system"
	if user := auth.CurrentUser(c); user != nil {
		invitedBy = user.Name
	}

	admin, err := s.admins.CreateInvite(inv, invitedBy)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (s *Server) updateAdminPermissions(c *gin.Context) {
	var upd access.PermissionUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	admin, err := s.admins.UpdatePermissions(c.Param("id"), upd)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (s *Server) removeAdmin(c *gin.Context) {
	if err := s.admins.Remove(c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
