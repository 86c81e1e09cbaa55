package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"neurocrypt/src/auth"
	"neurocrypt/src/model"
	"neurocrypt/src/repository"
)

type stateReader interface {
	Get(ctx context.Context, userID uint) (*model.SimulatorState, error)
}

type stateWriter interface {
	Save(ctx context.Context, userID uint, stateJSON string) error
}

type stateDeleter interface {
	Delete(ctx context.Context, userID uint) error
}

type stateAdmin interface {
	ListAll(ctx context.Context) ([]model.SimulatorState, error)
	ClearAll(ctx context.Context) (int64, error)
}

type stateEnvelope struct {
	State json.RawMessage `json:"state"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// GetSimulatorStateHandler returns the caller's saved simulator snapshot, or
// {"state": null} when nothing has been saved yet.
func GetSimulatorStateHandler(repo stateReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		state, err := repo.Get(r.Context(), user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to fetch simulator state")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		envelope := stateEnvelope{State: json.RawMessage("null")}
		if state != nil {
			envelope.State = json.RawMessage(state.StateJSON)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(envelope); err != nil {
			logger.WithError(err).Error("failed to encode simulator state response")
		}
	}
}

// SaveSimulatorStateHandler replaces the caller's saved snapshot with the
// posted one. The snapshot travels as an opaque JSON document; only its
// presence is validated here.
func SaveSimulatorStateHandler(repo stateWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var envelope stateEnvelope
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			logger.WithError(err).Warn("invalid simulator state payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if len(envelope.State) == 0 || bytes.Equal(envelope.State, []byte("null")) {
			http.Error(w, "State is required", http.StatusBadRequest)
			return
		}

		if err := repo.Save(r.Context(), user.ID, string(envelope.State)); err != nil {
			logger.WithError(err).Error("failed to save simulator state")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(successResponse{Success: true}); err != nil {
			logger.WithError(err).Error("failed to encode save response")
		}
	}
}

// DeleteSimulatorStateHandler removes the caller's saved snapshot. Deleting
// when nothing is saved still succeeds.
func DeleteSimulatorStateHandler(repo stateDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := repo.Delete(r.Context(), user.ID); err != nil {
			logger.WithError(err).Error("failed to delete simulator state")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(successResponse{Success: true}); err != nil {
			logger.WithError(err).Error("failed to encode delete response")
		}
	}
}

// ListSimulatorStatesHandler lists every saved snapshot. Admin only.
func ListSimulatorStatesHandler(repo stateAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		states, err := repo.ListAll(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to list simulator states")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(states); err != nil {
			logger.WithError(err).Error("failed to encode state list")
		}
	}
}

// ClearSimulatorStatesHandler wipes every saved snapshot. Admin only.
func ClearSimulatorStatesHandler(repo stateAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleared, err := repo.ClearAll(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to clear simulator states")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"cleared": cleared,
		}); err != nil {
			logger.WithError(err).Error("failed to encode clear response")
		}
	}
}

// DefaultGetSimulatorStateHandler wires the handler to the production repository implementation.
func DefaultGetSimulatorStateHandler() http.HandlerFunc {
	return GetSimulatorStateHandler(repository.NewSimulatorStateRepository())
}

// DefaultSaveSimulatorStateHandler wires the handler to the production repository implementation.
func DefaultSaveSimulatorStateHandler() http.HandlerFunc {
	return SaveSimulatorStateHandler(repository.NewSimulatorStateRepository())
}

// DefaultDeleteSimulatorStateHandler wires the handler to the production repository implementation.
func DefaultDeleteSimulatorStateHandler() http.HandlerFunc {
	return DeleteSimulatorStateHandler(repository.NewSimulatorStateRepository())
}
