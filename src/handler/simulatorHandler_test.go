package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"neurocrypt/src/auth"
	"neurocrypt/src/model"
)

type mockStateRepo struct {
	state       *model.SimulatorState
	states      []model.SimulatorState
	err         error
	savedUserID uint
	savedJSON   string
	deletedFor  uint
	cleared     int64
}

func (m *mockStateRepo) Get(ctx context.Context, userID uint) (*model.SimulatorState, error) {
	return m.state, m.err
}

func (m *mockStateRepo) Save(ctx context.Context, userID uint, stateJSON string) error {
	m.savedUserID = userID
	m.savedJSON = stateJSON
	return m.err
}

func (m *mockStateRepo) Delete(ctx context.Context, userID uint) error {
	m.deletedFor = userID
	return m.err
}

func (m *mockStateRepo) ListAll(ctx context.Context) ([]model.SimulatorState, error) {
	return m.states, m.err
}

func (m *mockStateRepo) ClearAll(ctx context.Context) (int64, error) {
	return m.cleared, m.err
}

func withUser(req *http.Request, id uint) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), auth.UserKey, &model.User{ID: id}))
}

func TestGetSimulatorStateHandler_Unauthorized(t *testing.T) {
	handler := GetSimulatorStateHandler(&mockStateRepo{})

	req := httptest.NewRequest(http.MethodGet, "/auth/simulator-state", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestGetSimulatorStateHandler_NoSavedState(t *testing.T) {
	handler := GetSimulatorStateHandler(&mockStateRepo{})

	req := withUser(httptest.NewRequest(http.MethodGet, "/auth/simulator-state", nil), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if string(body["state"]) != "null" {
		t.Fatalf("expected null state, got %s", body["state"])
	}
}

func TestGetSimulatorStateHandler_SavedState(t *testing.T) {
	repo := &mockStateRepo{state: &model.SimulatorState{
		UserID:    1,
		StateJSON: `{"currentBalance":99000}`,
	}}
	handler := GetSimulatorStateHandler(repo)

	req := withUser(httptest.NewRequest(http.MethodGet, "/auth/simulator-state", nil), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body struct {
		State struct {
			CurrentBalance float64 `json:"currentBalance"`
		} `json:"state"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.State.CurrentBalance != 99000 {
		t.Fatalf("unexpected state: %+v", body)
	}
}

func TestGetSimulatorStateHandler_RepoError(t *testing.T) {
	handler := GetSimulatorStateHandler(&mockStateRepo{err: assert.AnError})

	req := withUser(httptest.NewRequest(http.MethodGet, "/auth/simulator-state", nil), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestSaveSimulatorStateHandler_Success(t *testing.T) {
	repo := &mockStateRepo{}
	handler := SaveSimulatorStateHandler(repo)

	body := `{"state":{"currentBalance":99000,"portfolio":[]}}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/auth/simulator-state", strings.NewReader(body)), 7)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if repo.savedUserID != 7 {
		t.Fatalf("expected save for user 7, got %d", repo.savedUserID)
	}
	if !strings.Contains(repo.savedJSON, `"currentBalance":99000`) {
		t.Fatalf("unexpected saved document: %s", repo.savedJSON)
	}

	var resp successResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Fatalf("expected success response, got %s", rr.Body.String())
	}
}

func TestSaveSimulatorStateHandler_MissingState(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "explicit null", body: `{"state":null}`},
		{name: "not json", body: `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockStateRepo{}
			handler := SaveSimulatorStateHandler(repo)

			req := withUser(httptest.NewRequest(http.MethodPost, "/auth/simulator-state", strings.NewReader(tt.body)), 1)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rr.Code)
			}
			if repo.savedJSON != "" {
				t.Fatalf("nothing should be saved, got %s", repo.savedJSON)
			}
		})
	}
}

func TestDeleteSimulatorStateHandler_Success(t *testing.T) {
	repo := &mockStateRepo{}
	handler := DeleteSimulatorStateHandler(repo)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/auth/simulator-state", nil), 3)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if repo.deletedFor != 3 {
		t.Fatalf("expected delete for user 3, got %d", repo.deletedFor)
	}
}

func TestListSimulatorStatesHandler(t *testing.T) {
	repo := &mockStateRepo{states: []model.SimulatorState{
		{UserID: 1, StateJSON: `{}`},
		{UserID: 2, StateJSON: `{}`},
	}}
	handler := ListSimulatorStatesHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/simulator-states", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var states []model.SimulatorState
	if err := json.Unmarshal(rr.Body.Bytes(), &states); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
}

func TestClearSimulatorStatesHandler(t *testing.T) {
	repo := &mockStateRepo{cleared: 5}
	handler := ClearSimulatorStatesHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/admin/simulator-states", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Success bool  `json:"success"`
		Cleared int64 `json:"cleared"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success || resp.Cleared != 5 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
