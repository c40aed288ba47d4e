package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/mmdatafocus/warranty_backend/appctx"
	"github.com/mmdatafocus/warranty_backend/config"
	"github.com/mmdatafocus/warranty_backend/models"
	"github.com/mmdatafocus/warranty_backend/models/reports"
	"github.com/mmdatafocus/warranty_backend/utils"
	"github.com/mmdatafocus/warranty_backend/workflow"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type app struct {
	logger   *logrus.Logger
	catalogs *workflow.CatalogCache
	runs     *workflow.RunStore
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type catalogQueryRequest struct {
	Source string `form:"source" validate:"required"`
	NP     string `form:"np" validate:"required"`
}

func (a *app) catalogQueryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalogQueryRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}
		source, err := models.ParseCatalogSource(req.Source)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		snap, err := a.catalogs.Current(c.Request.Context())
		if err != nil {
			config.LogError(a.logger, "server.go", "catalogQueryHandler", "catalogs.Current", req, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalogs unavailable"})
			return
		}

		entry, found := snap.Get(source).Lookup(req.NP)
		if !found {
			c.JSON(http.StatusOK, gin.H{"found": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"found": true, "entry": entry})
	}
}

func (a *app) catalogRefreshHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := a.catalogs.Refresh(c.Request.Context())
		if err != nil {
			config.LogError(a.logger, "server.go", "catalogRefreshHandler", "catalogs.Refresh", nil, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog refresh failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"fetched_at":  snap.FetchedAt,
			"bol01_rows":  len(snap.BOL01.Entries),
			"bol02_rows":  len(snap.BOL02.Entries),
			"load_errors": snap.LoadErrors,
		})
	}
}

func (a *app) createRunHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
			return
		}
		if fileHeader.Size > config.MaxUploadBytes() {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "claim extract exceeds upload limit"})
			return
		}

		layout, err := workflow.LoadExtractLayout()
		if err != nil {
			config.LogError(a.logger, "server.go", "createRunHandler", "LoadExtractLayout", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claim layout misconfigured"})
			return
		}

		snap, err := a.catalogs.Current(c.Request.Context())
		if err != nil {
			config.LogError(a.logger, "server.go", "createRunHandler", "catalogs.Current", nil, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalogs unavailable"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
			return
		}
		defer file.Close()

		result, err := workflow.Run(c.Request.Context(), a.logger, snap, file, layout)
		if err != nil {
			if utils.IsSchemaError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			config.LogError(a.logger, "server.go", "createRunHandler", "workflow.Run", fileHeader.Filename, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "claim extract could not be processed"})
			return
		}

		a.runs.Put(result)
		c.JSON(http.StatusCreated, result)
	}
}

func (a *app) lookupRun(c *gin.Context) (*models.RunResult, bool) {
	result, ok := a.runs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": utils.ErrorRunNotFound.Error()})
		return nil, false
	}
	return result, true
}

func (a *app) getRunHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := a.lookupRun(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (a *app) runClaimsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := a.lookupRun(c)
		if !ok {
			return
		}
		status, err := models.ParseEvaluationResultName(c.Query("status"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Return, Reject, Pending or Approve"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"run_id": result.RunId,
			"status": status,
			"claims": result.ClaimsWithStatus(status),
		})
	}
}

func (a *app) exportPartsDifferencesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := a.lookupRun(c)
		if !ok {
			return
		}
		f, err := reports.BuildPartsDifferenceWorkbook(result.PartLines)
		if err != nil {
			config.LogError(a.logger, "server.go", "exportPartsDifferencesHandler", "BuildPartsDifferenceWorkbook", result.RunId, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		writeWorkbook(c, f, reports.PartsDifferenceFilename)
	}
}

func (a *app) exportSettlementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := a.lookupRun(c)
		if !ok {
			return
		}
		f, err := reports.BuildSettlementWorkbook(result.Settlement)
		if err != nil {
			config.LogError(a.logger, "server.go", "exportSettlementHandler", "BuildSettlementWorkbook", result.RunId, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		writeWorkbook(c, f, reports.SettlementFilename)
	}
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", excelContentType)
	c.Header("Content-Disposition", `attachment; filename=`+filename)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write workbook"})
	}
}

func main() {
	logger := config.GetLogger()

	if err := config.Validate(); err != nil {
		logger.WithFields(logrus.Fields{"module": "server.go"}).Fatal(err.Error())
	}

	a := &app{
		logger:   logger,
		catalogs: workflow.NewCatalogCache(config.CatalogCacheTTL()),
		runs:     workflow.NewRunStore(config.RunStoreTTL()),
	}

	// Shutdown coordination.
	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	r := gin.New()
	r.Use(gin.Recovery())

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(appctx.SetString(c.Request.Context(), appctx.ContextKeyCorrelationId, cid))
		c.Writer.Header().Set("x-correlation-id", cid)
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "x-correlation-id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	{
		api.GET("/catalog/query", a.catalogQueryHandler())
		api.POST("/catalog/refresh", a.catalogRefreshHandler())

		api.POST("/reconciliation/runs", a.createRunHandler())
		api.GET("/reconciliation/runs/:id", a.getRunHandler())
		api.GET("/reconciliation/runs/:id/claims", a.runClaimsHandler())
		api.GET("/reconciliation/runs/:id/export/parts-differences", a.exportPartsDifferencesHandler())
		api.GET("/reconciliation/runs/:id/export/settlement", a.exportSettlementHandler())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	srv := &http.Server{
		Addr:              ":" + config.ServerPort(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"module": "server.go", "addr": srv.Addr}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"module": "server.go"}).Fatal(err.Error())
		}
	}()

	<-sigCtx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.LogError(logger, "server.go", "main", "srv.Shutdown", nil, err)
	}
}
