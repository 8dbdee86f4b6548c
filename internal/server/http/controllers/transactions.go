package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	transactionsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/transactions"
)

// TransactionsController handles payment attempt endpoints.
type TransactionsController struct {
	svc *transactionsvc.Service
}

// NewTransactionsController creates a new transactions controller.
func NewTransactionsController(svc *transactionsvc.Service) *TransactionsController {
	return &TransactionsController{svc: svc}
}

// RegisterRoutes registers transaction routes with the given mux.
func (c *TransactionsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/transactions", c.handleCreate)
	mux.HandleFunc("GET /v1/transactions/{id}", c.handleGet)
	mux.HandleFunc("GET /v1/transactions/ref/{ref}", c.handleGetByReference)
	mux.HandleFunc("POST /v1/transactions/{id}/finalize", c.handleFinalize)
	mux.HandleFunc("GET /v1/accounts/{accountId}/transactions", c.handleListByAccount)
}

func (c *TransactionsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in transactionsvc.CreateInput
	if !decodeBody(w, r, &in) {
		return
	}
	tx, err := c.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, tx)
}

func (c *TransactionsController) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	tx, err := c.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, tx)
}

func (c *TransactionsController) handleGetByReference(w http.ResponseWriter, r *http.Request) {
	ref, err := uuid.Parse(r.PathValue("ref"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reference id")
		return
	}
	tx, err := c.svc.GetByReference(r.Context(), ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, tx)
}

func (c *TransactionsController) handleFinalize(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in struct {
		Status entity.TransactionStatus `json:"status"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	tx, err := c.svc.Finalize(r.Context(), id, in.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, tx)
}

func (c *TransactionsController) handleListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	txs, err := c.svc.ListByAccount(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, txs)
}
