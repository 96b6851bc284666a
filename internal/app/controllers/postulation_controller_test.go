package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mypostula/backend/internal/app/models"
	"github.com/mypostula/backend/internal/app/models/dto"
	"github.com/mypostula/backend/internal/pkg/apperrors"
)

type stubPostulationService struct {
	list      []models.Postulation
	listErr   error
	created   *models.Postulation
	createErr error
	statusErr error
	deleteErr error

	gotUserID int64
	gotID     int64
	gotStatus models.PostulationStatus
	gotReq    *dto.PostulationRequest
}

func (s *stubPostulationService) List(ctx context.Context, userID int64) ([]models.Postulation, error) {
	s.gotUserID = userID
	return s.list, s.listErr
}

func (s *stubPostulationService) Get(ctx context.Context, userID, id int64) (*models.Postulation, error) {
	s.gotUserID, s.gotID = userID, id
	for _, p := range s.list {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, apperrors.ErrPostulationNotFound
}

func (s *stubPostulationService) Create(ctx context.Context, userID int64, req *dto.PostulationRequest) (*models.Postulation, error) {
	s.gotUserID, s.gotReq = userID, req
	return s.created, s.createErr
}

func (s *stubPostulationService) Update(ctx context.Context, userID, id int64, req *dto.PostulationRequest) (*models.Postulation, error) {
	s.gotUserID, s.gotID, s.gotReq = userID, id, req
	return s.created, s.createErr
}

func (s *stubPostulationService) UpdateStatus(ctx context.Context, userID, id int64, status models.PostulationStatus) error {
	s.gotUserID, s.gotID, s.gotStatus = userID, id, status
	return s.statusErr
}

func (s *stubPostulationService) Delete(ctx context.Context, userID, id int64) error {
	s.gotUserID, s.gotID = userID, id
	return s.deleteErr
}

func setupPostulationRouter(svc *stubPostulationService, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
	})

	controller := NewPostulationController(svc)
	router.GET("/postulations", controller.List)
	router.GET("/postulations/:id", controller.Get)
	router.POST("/postulations", controller.Create)
	router.PUT("/postulations/:id", controller.Update)
	router.PATCH("/postulations/:id/status", controller.UpdateStatus)
	router.DELETE("/postulations/:id", controller.Delete)
	return router
}

func TestPostulationList_IncludesCounts(t *testing.T) {
	svc := &stubPostulationService{list: []models.Postulation{
		{ID: 1, Status: models.StatusOpen},
		{ID: 2, Status: models.StatusInterview},
		{ID: 3, Status: models.StatusExpired},
	}}
	router := setupPostulationRouter(svc, 42)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/postulations", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), svc.gotUserID)

	var resp struct {
		Data dto.PostulationListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Postulations, 3)
	assert.Equal(t, 2, resp.Data.Counts.Open)
	assert.Equal(t, 3, resp.Data.Counts.Total)
}

func TestPostulationList_WithoutUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewPostulationController(&stubPostulationService{})
	router.GET("/postulations", controller.List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/postulations", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostulationCreate_Succeeds(t *testing.T) {
	svc := &stubPostulationService{created: &models.Postulation{ID: 7, Position: "Engineer", CompanyName: "Acme"}}
	router := setupPostulationRouter(svc, 42)

	body := `{"position":"Engineer","company":{"label":"Acme","isNew":true},"expectedSalary":""}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/postulations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.gotReq)
	assert.Equal(t, "Engineer", svc.gotReq.Position)
	assert.Nil(t, svc.gotReq.ExpectedSalary.Value)
	require.NotNil(t, svc.gotReq.Company)
	assert.Equal(t, "Acme", svc.gotReq.Company.Label)
}

func TestPostulationCreate_MissingPosition(t *testing.T) {
	svc := &stubPostulationService{}
	router := setupPostulationRouter(svc, 42)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/postulations", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.gotReq, "binding failure must not reach the service")
}

func TestPostulationCreate_CompanyValidationError(t *testing.T) {
	svc := &stubPostulationService{createErr: apperrors.NewValidationError(apperrors.ErrCompanyNameEmpty.Error())}
	router := setupPostulationRouter(svc, 42)

	body := `{"position":"Engineer"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/postulations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "you must select or enter a company name")
}

func TestPostulationUpdateStatus(t *testing.T) {
	svc := &stubPostulationService{}
	router := setupPostulationRouter(svc, 42)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/postulations/5/status", bytes.NewBufferString(`{"status":"accepted"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.gotID)
	assert.Equal(t, models.StatusAccepted, svc.gotStatus)
}

func TestPostulationGet_NotFound(t *testing.T) {
	svc := &stubPostulationService{}
	router := setupPostulationRouter(svc, 42)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/postulations/99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostulationGet_InvalidID(t *testing.T) {
	svc := &stubPostulationService{}
	router := setupPostulationRouter(svc, 42)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/postulations/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostulationDelete(t *testing.T) {
	svc := &stubPostulationService{}
	router := setupPostulationRouter(svc, 42)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/postulations/3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), svc.gotID)
	assert.Contains(t, w.Body.String(), "postulation deleted")
}
