package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"vaultmind/internal/detect"
	"vaultmind/internal/health"
	"vaultmind/internal/service"
	"vaultmind/internal/service/mocks"
)

func TestVaultHandler_Similar(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		mockSetup  func(*mocks.MockEngine)
		wantStatus int
		wantPaths  []string
	}{
		{
			name:  "matches",
			query: "?path=doc1.md&threshold=0.5",
			mockSetup: func(m *mocks.MockEngine) {
				m.EXPECT().
					FindSimilarNotes(gomock.Any(), service.SimilarRequest{Path: "doc1.md", Threshold: f64(0.5)}).
					Return(&service.SimilarResponse{
						Path:      "doc1.md",
						Threshold: 0.5,
						Matches:   []service.SimilarNote{{Path: "doc2.md", Score: 1}},
					}, nil)
			},
			wantStatus: http.StatusOK,
			wantPaths:  []string{"doc2.md"},
		},
		{
			name:       "malformed threshold",
			query:      "?path=doc1.md&threshold=high",
			mockSetup:  func(m *mocks.MockEngine) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "unknown note",
			query: "?path=missing.md",
			mockSetup: func(m *mocks.MockEngine) {
				m.EXPECT().FindSimilarNotes(gomock.Any(), gomock.Any()).Return(nil, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:  "vault disabled",
			query: "?path=a.md",
			mockSetup: func(m *mocks.MockEngine) {
				m.EXPECT().FindSimilarNotes(gomock.Any(), gomock.Any()).Return(nil, service.ErrFeatureDisabled)
			},
			wantStatus: http.StatusNotImplemented,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockEngine := mocks.NewMockEngine(ctrl)
			tt.mockSetup(mockEngine)
			handler := NewVaultHandler(mockEngine)

			req := httptest.NewRequest(http.MethodGet, "/api/notes/similar"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.Similar(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Similar() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantPaths != nil {
				var resp service.SimilarResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if len(resp.Matches) != len(tt.wantPaths) || resp.Matches[0].Path != tt.wantPaths[0] {
					t.Errorf("Similar() matches = %+v, want %v", resp.Matches, tt.wantPaths)
				}
			}
		})
	}
}

func TestVaultHandler_Duplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)
	mockEngine.EXPECT().
		DetectDuplicateContent(gomock.Any(), service.DuplicatesRequest{Threshold: f64(0.9)}).
		Return(&detect.Report{
			Threshold: 0.9,
			Clusters:  []detect.Cluster{{Paths: []string{"doc1.md", "doc2.md"}, MaxScore: 1, MinScore: 1}},
		}, nil)
	mockEngine.EXPECT().
		DetectDuplicateContent(gomock.Any(), service.DuplicatesRequest{}).
		Return(nil, service.ErrCorpusTooLarge)

	handler := NewVaultHandler(mockEngine)

	w := httptest.NewRecorder()
	handler.Duplicates(w, httptest.NewRequest(http.MethodGet, "/api/notes/duplicates?threshold=0.9", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Duplicates() status = %v, want %v", w.Code, http.StatusOK)
	}
	var report detect.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(report.Clusters) != 1 {
		t.Errorf("Duplicates() clusters = %d, want 1", len(report.Clusters))
	}

	w = httptest.NewRecorder()
	handler.Duplicates(w, httptest.NewRequest(http.MethodGet, "/api/notes/duplicates", nil))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Duplicates() status = %v, want %v", w.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestVaultHandler_Health(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := mocks.NewMockEngine(ctrl)
	mockEngine.EXPECT().AnalyzeVaultHealth(gomock.Any()).Return(&health.Report{TotalDocuments: 3, Score: 0.75}, nil)
	handler := NewVaultHandler(mockEngine)

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/vault/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Health() status = %v, want %v", w.Code, http.StatusOK)
	}
	var report health.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.Score != 0.75 {
		t.Errorf("Health() score = %v, want 0.75", report.Score)
	}
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		status     service.StatusReport
		wantStatus int
		wantIssues int
	}{
		{
			name:   "healthy",
			method: http.MethodGet,
			status: service.StatusReport{
				Capabilities: service.Capabilities{Vault: true},
				Components:   map[string]string{"vault": "ok", "memory": "disabled"},
				Healthy:      true,
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "memory down",
			method: http.MethodGet,
			status: service.StatusReport{
				Capabilities: service.Capabilities{Vault: true, Memory: true},
				Components:   map[string]string{"vault": "ok", "memory": "unavailable: disk I/O error"},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantIssues: 1,
		},
		{
			name:       "method not allowed",
			method:     http.MethodPost,
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockEngine := mocks.NewMockEngine(ctrl)
			if tt.method == http.MethodGet {
				mockEngine.EXPECT().Status(gomock.Any()).Return(tt.status)
			}
			handler := NewHealthHandler(mockEngine)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.method != http.MethodGet {
				return
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Issues) != tt.wantIssues {
				t.Errorf("ServeHTTP() issues = %v, want %d", resp.Issues, tt.wantIssues)
			}
		})
	}
}
