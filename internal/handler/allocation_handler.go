package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-rooms-api/internal/dto"
	"github.com/noah-isme/sma-rooms-api/internal/service"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
	"github.com/noah-isme/sma-rooms-api/pkg/response"
)

type scheduleIngestor interface {
	Ingest(ctx context.Context, files []service.ScheduleFile) (*dto.IngestResponse, error)
}

type allocationRunner interface {
	Run(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error)
	Report(runID string) (*dto.RunReportResponse, error)
	Occupancy(runID string) ([]dto.RoomOccupancyView, error)
}

type runExporter interface {
	ExportCSV(runID string) ([]byte, string, error)
	ExportPDF(runID string) ([]byte, string, error)
}

// AllocationHandler exposes the allocation engine endpoints.
type AllocationHandler struct {
	ingestor scheduleIngestor
	runner   allocationRunner
	exporter runExporter
}

// NewAllocationHandler constructs the handler.
func NewAllocationHandler(ingestor *service.IngestService, runner *service.AllocationService, exporter *service.ReportService) *AllocationHandler {
	return &AllocationHandler{ingestor: ingestor, runner: runner, exporter: exporter}
}

// Ingest godoc
// @Summary Upload the five normalized schedule CSVs (one per program)
// @Tags Allocations
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Schedule CSV files"
// @Success 200 {object} response.Envelope
// @Router /allocations/ingest [post]
func (h *AllocationHandler) Ingest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload"))
		return
	}
	headers := form.File["files"]
	files := make([]service.ScheduleFile, 0, len(headers))
	for _, header := range headers {
		opened, openErr := header.Open()
		if openErr != nil {
			response.Error(c, appErrors.Wrap(openErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read uploaded file"))
			return
		}
		defer opened.Close()
		files = append(files, service.ScheduleFile{Name: header.Filename, Content: opened})
	}

	result, err := h.ingestor.Ingest(c.Request.Context(), files)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Run godoc
// @Summary Execute an allocation run over the ingested dataset
// @Tags Allocations
// @Accept json
// @Produce json
// @Param payload body dto.AllocateRequest true "Allocation run payload"
// @Success 200 {object} response.Envelope
// @Router /allocations/run [post]
func (h *AllocationHandler) Run(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	result, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Report godoc
// @Summary Full report of a run (assignments, unresolved, splits)
// @Tags Allocations
// @Produce json
// @Param runId query string false "Run ID, defaults to the latest run"
// @Success 200 {object} response.Envelope
// @Router /allocations/report [get]
func (h *AllocationHandler) Report(c *gin.Context) {
	result, err := h.runner.Report(c.Query("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Rooms godoc
// @Summary Per-room occupancy calendars of a run
// @Tags Allocations
// @Produce json
// @Param runId query string false "Run ID, defaults to the latest run"
// @Success 200 {object} response.Envelope
// @Router /allocations/rooms [get]
func (h *AllocationHandler) Rooms(c *gin.Context) {
	views, err := h.runner.Occupancy(c.Query("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// ExportCSV godoc
// @Summary Download the assignment table of a run as CSV
// @Tags Allocations
// @Produce text/csv
// @Param runId query string false "Run ID, defaults to the latest run"
// @Success 200 {file} file
// @Router /allocations/export.csv [get]
func (h *AllocationHandler) ExportCSV(c *gin.Context) {
	payload, name, err := h.exporter.ExportCSV(c.Query("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportPDF godoc
// @Summary Download the assignment table of a run as PDF
// @Tags Allocations
// @Produce application/pdf
// @Param runId query string false "Run ID, defaults to the latest run"
// @Success 200 {file} file
// @Router /allocations/export.pdf [get]
func (h *AllocationHandler) ExportPDF(c *gin.Context) {
	payload, name, err := h.exporter.ExportPDF(c.Query("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, "application/pdf", payload)
}
