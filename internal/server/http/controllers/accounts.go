package controllers

import (
	"net/http"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	accountsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/accounts"
)

// AccountsController handles account CRUD endpoints.
type AccountsController struct {
	svc *accountsvc.Service
}

// NewAccountsController creates a new accounts controller.
func NewAccountsController(svc *accountsvc.Service) *AccountsController {
	return &AccountsController{svc: svc}
}

// RegisterRoutes registers account routes with the given mux.
func (c *AccountsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/accounts", c.handleCreate)
	mux.HandleFunc("GET /v1/accounts", c.handleList)
	mux.HandleFunc("GET /v1/accounts/{id}", c.handleGet)
	mux.HandleFunc("PUT /v1/accounts/{id}", c.handleUpdate)
	mux.HandleFunc("PATCH /v1/accounts/{id}/privilege", c.handlePrivilege)
	mux.HandleFunc("PATCH /v1/accounts/{id}/password", c.handlePassword)
	mux.HandleFunc("DELETE /v1/accounts/{id}", c.handleDelete)
}

func (c *AccountsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in accountsvc.CreateInput
	if !decodeBody(w, r, &in) {
		return
	}
	acc, err := c.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, acc)
}

func (c *AccountsController) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := c.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, accounts)
}

func (c *AccountsController) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	acc, err := c.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, acc)
}

func (c *AccountsController) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in accountsvc.UpdateInput
	if !decodeBody(w, r, &in) {
		return
	}
	acc, err := c.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, acc)
}

func (c *AccountsController) handlePrivilege(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in struct {
		Privilege entity.Privilege `json:"privilege"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	acc, err := c.svc.UpdatePrivilege(r.Context(), id, in.Privilege)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, acc)
}

func (c *AccountsController) handlePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in struct {
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if err := c.svc.UpdatePassword(r.Context(), id, in.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	writeNoContent(w)
}

func (c *AccountsController) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := c.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeNoContent(w)
}
