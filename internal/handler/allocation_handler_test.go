package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-rooms-api/internal/dto"
	"github.com/noah-isme/sma-rooms-api/internal/service"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

type ingestorMock struct {
	names []string
	err   error
}

func (m *ingestorMock) Ingest(_ context.Context, files []service.ScheduleFile) (*dto.IngestResponse, error) {
	for _, file := range files {
		m.names = append(m.names, file.Name)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &dto.IngestResponse{Files: m.names, Rows: 1, Sessions: 1, Groups: 1}, nil
}

type runnerMock struct {
	captured dto.AllocateRequest
	runErr   error
}

func (m *runnerMock) Run(_ context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error) {
	m.captured = req
	if m.runErr != nil {
		return nil, m.runErr
	}
	return &dto.AllocateResponse{RunID: "run-1"}, nil
}

func (m *runnerMock) Report(runID string) (*dto.RunReportResponse, error) {
	if runID == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation run not found or expired")
	}
	return &dto.RunReportResponse{}, nil
}

func (m *runnerMock) Occupancy(string) ([]dto.RoomOccupancyView, error) {
	return []dto.RoomOccupancyView{{RoomID: "F-101"}}, nil
}

type exporterMock struct{}

func (m *exporterMock) ExportCSV(string) ([]byte, string, error) {
	return []byte("Grupo\n"), "asignacion_salones_2026-02-14.csv", nil
}

func (m *exporterMock) ExportPDF(string) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "asignacion_salones_2026-02-14.pdf", nil
}

func multipartUpload(t *testing.T, names ...string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range names {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("id_unico\nH1"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAllocationHandlerIngest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &ingestorMock{}
	handler := &AllocationHandler{ingestor: mockSvc}

	body, contentType := multipartUpload(t, "horarios_LAE.csv", "horarios_LC.csv")
	req, _ := http.NewRequest(http.MethodPost, "/allocations/ingest", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Ingest(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"horarios_LAE.csv", "horarios_LC.csv"}, mockSvc.names)
}

func TestAllocationHandlerIngestInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &AllocationHandler{ingestor: &ingestorMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/allocations/ingest", bytes.NewReader([]byte("not multipart")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Ingest(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocationHandlerIngestServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &ingestorMock{err: appErrors.Clone(appErrors.ErrValidation, "expected 5 schedule files (one per program), got 1")}
	handler := &AllocationHandler{ingestor: mockSvc}

	body, contentType := multipartUpload(t, "horarios_LAE.csv")
	req, _ := http.NewRequest(http.MethodPost, "/allocations/ingest", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Ingest(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocationHandlerRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &runnerMock{}
	handler := &AllocationHandler{runner: mockSvc}

	payload := []byte(`{"priorityGroups":["311"],"persist":true}`)
	req, _ := http.NewRequest(http.MethodPost, "/allocations/run", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"311"}, mockSvc.captured.PriorityGroups)
	require.True(t, mockSvc.captured.Persist)
}

func TestAllocationHandlerRunBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &AllocationHandler{runner: &runnerMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/allocations/run", bytes.NewReader([]byte(`{"priorityGroups":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Run(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllocationHandlerReportNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &AllocationHandler{runner: &runnerMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/allocations/report?runId=missing", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Report(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAllocationHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &AllocationHandler{exporter: &exporterMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/allocations/export.csv", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.ExportCSV(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "attachment; filename=asignacion_salones_2026-02-14.csv", w.Header().Get("Content-Disposition"))
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Equal(t, "Grupo\n", w.Body.String())
}

func TestAllocationHandlerExportPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &AllocationHandler{exporter: &exporterMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/allocations/export.pdf", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.ExportPDF(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
