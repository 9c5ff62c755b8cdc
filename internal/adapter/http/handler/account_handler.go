package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/payengine/internal/adapter/http/dto"
	"github.com/iho/payengine/internal/domain"
)

// SnapshotReader defines the behavior needed by AccountHandler.
type SnapshotReader interface {
	RunID() string
	Accounts() []domain.AccountSnapshot
	Account(client domain.ClientID) (domain.AccountSnapshot, error)
}

// AccountHandler serves the replayed account snapshot.
type AccountHandler struct {
	snapshot SnapshotReader
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(snapshot SnapshotReader) *AccountHandler {
	return &AccountHandler{snapshot: snapshot}
}

// Get returns the snapshot of one client.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, err := parseClientID(chi.URLParam(r, "client"))
	if err != nil {
		writeError(w, mapDomainError(err), "invalid client id", err.Error())
		return
	}

	account, err := h.snapshot.Account(client)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List returns every account of the snapshot.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SnapshotResponse{
		RunID:    h.snapshot.RunID(),
		Accounts: dto.AccountsFromDomain(h.snapshot.Accounts()),
	})
}
