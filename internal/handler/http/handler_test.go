// SPDX-License-Identifier: Apache-2.0

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/metrics"
	"github.com/contratoflow/sync-engine/internal/mock"
	"github.com/contratoflow/sync-engine/internal/service"
	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stubSearchClient struct {
	response models.SearchResponse
}

func (s *stubSearchClient) Search(_ context.Context, query string) (models.SearchResponse, error) {
	response := s.response
	response.Query = query
	return response, nil
}

func newTestHandler(
	t *testing.T,
	ctrl *gomock.Controller,
) (*httptest.Server, *mock.MockContractService, *mock.MockSyncEngine, *metrics.Collector) {
	t.Helper()

	mockContracts := mock.NewMockContractService(ctrl)
	mockEngine := mock.NewMockSyncEngine(ctrl)
	collector := metrics.NewCollector(0, 0)

	handler := NewHandler(
		&service.Services{ContractService: mockContracts, SyncEngine: mockEngine},
		&stubSearchClient{},
		collector,
		logger.Nop(),
	)

	server := httptest.NewServer(handler.Init())
	t.Cleanup(server.Close)

	return server, mockContracts, mockEngine, collector
}

func TestCreateContractEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, mockContracts, _, _ := newTestHandler(t, ctrl)

	contract := models.Contract{
		OrganizationID: uuid.New(),
		ContractNumber: "CT-2026/0042",
		Object:         "Serviços de limpeza",
		Value:          120000,
		SupplierName:   "ACME Ltda",
		SupplierRole:   "Contratada: ACME Ltda (12.345.678/0001-95)",
	}
	created := contract
	created.ID = uuid.New()

	mockContracts.EXPECT().CreateContract(gomock.Any(), gomock.Any()).Return(created, nil)

	body, err := json.Marshal(contract)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/contracts", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	var got models.Contract
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateContractEndpoint_InvalidJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestHandler(t, ctrl)

	resp, err := http.Post(server.URL+"/api/contracts", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPushEndpoint_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, mockEngine, _ := newTestHandler(t, ctrl)

	contractID := uuid.New()
	mockEngine.EXPECT().Push(gomock.Any(), contractID).Return(models.Contract{}, service.ErrContractNotFound)

	resp, err := http.Post(server.URL+"/api/sync/push/"+contractID.String(), "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPushEndpoint_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestHandler(t, ctrl)

	resp, err := http.Post(server.URL+"/api/sync/push/not-a-uuid", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPullEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, mockEngine, _ := newTestHandler(t, ctrl)

	orgID := uuid.New()
	mockEngine.EXPECT().Pull(gomock.Any(), orgID).
		Return(models.PullResult{Created: 3, Updated: 5, Errors: 2}, nil)

	resp, err := http.Post(server.URL+"/api/sync/pull/"+orgID.String(), "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.PullResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, models.PullResult{Created: 3, Updated: 5, Errors: 2}, result)
}

func TestSyncLogEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, mockEngine, _ := newTestHandler(t, ctrl)

	contractID := uuid.New()
	entries := []models.SyncLogEntry{
		{ID: uuid.New(), ContractID: contractID, Action: models.ActionPush, OccurredAt: time.Now()},
	}
	mockEngine.EXPECT().History(gomock.Any(), contractID).Return(entries, nil)

	resp, err := http.Get(server.URL + "/api/sync/log/" + contractID.String())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.SyncLogEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, models.ActionPush, got[0].Action)
}

func TestSearchEndpoint_RequiresQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestHandler(t, ctrl)

	resp, err := http.Get(server.URL + "/api/search")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestHandler(t, ctrl)

	resp, err := http.Get(server.URL + "/api/search?q=Lei+14.133")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.SearchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Lei 14.133", got.Query)
}

func TestMetricsEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, collector := newTestHandler(t, ctrl)
	collector.RecordSuccess("registry", 120*time.Millisecond)
	collector.RecordCacheHit("search")

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "registry requests_success 1")
	assert.Contains(t, string(body), "search cache_hits 1")
}

func TestTraceID_CallerSuppliedIDIsKept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestHandler(t, ctrl)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Trace-ID", "ext-sync-0042")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "ext-sync-0042", resp.Header.Get("X-Trace-ID"))
}

func TestHealthzEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestHandler(t, ctrl)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
