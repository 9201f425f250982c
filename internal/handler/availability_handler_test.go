package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rotaworks/rota-api/internal/models"
	"github.com/rotaworks/rota-api/internal/service"
	"github.com/rotaworks/rota-api/internal/sheet"
)

type fakeWorkerStore struct {
	workers map[string]*models.Worker
	saved   map[int64]models.AvailabilityList
}

func (f *fakeWorkerStore) FindByName(_ context.Context, name string) (*models.Worker, error) {
	w, ok := f.workers[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWorkerStore) ReplaceAvailabilityBatch(_ context.Context, updates map[int64]models.AvailabilityList) error {
	f.saved = updates
	return nil
}

func newUploadRouter(t *testing.T, store *fakeWorkerStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	extractor := sheet.NewExtractor(sheet.DefaultConfig(), nil)
	svc, err := service.NewAvailabilityService(store, nil, extractor, "Europe/London", nil, nil)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/api/v1/availability/upload", NewAvailabilityHandler(svc).Upload)
	return router
}

func multipartWorkbook(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "B22", "Week of 03/06/2024"))
	require.NoError(t, f.SetCellValue("Sheet1", "B24", "Alice Smith"))
	require.NoError(t, f.SetCellValue("Sheet1", "D24", "08:00 - 16:00"))
	content, err := f.WriteToBuffer()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "rota.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAvailabilityUpload(t *testing.T) {
	store := &fakeWorkerStore{workers: map[string]*models.Worker{
		"Alice Smith": {ID: 1, Name: "Alice Smith"},
	}}
	router := newUploadRouter(t, store)

	body, contentType := multipartWorkbook(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Updates int `json:"updates"`
			Entries []struct {
				Sheet string `json:"sheet"`
				Date  string `json:"date"`
				Name  string `json:"name"`
				Time  string `json:"time"`
			} `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Updates)
	require.Len(t, envelope.Data.Entries, 1)
	assert.Equal(t, "2024-06-03", envelope.Data.Entries[0].Date)
	assert.Equal(t, "08:00 - 16:00", envelope.Data.Entries[0].Time)

	require.Len(t, store.saved, 1)
	require.Len(t, store.saved[1], 1)
	assert.Equal(t, "2024-06-03T08:00:00+01:00", store.saved[1][0].Start)
}

func TestAvailabilityUploadMissingFile(t *testing.T) {
	router := newUploadRouter(t, &fakeWorkerStore{workers: map[string]*models.Worker{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/upload", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_FILE")
}

func TestAvailabilityUploadBadWorkbook(t *testing.T) {
	router := newUploadRouter(t, &fakeWorkerStore{workers: map[string]*models.Worker{}})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not a spreadsheet"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "BAD_WORKBOOK")
}
