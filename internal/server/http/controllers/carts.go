package controllers

import (
	"net/http"

	cartsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/carts"
)

// CartsController handles per-account cart endpoints.
type CartsController struct {
	svc *cartsvc.Service
}

// NewCartsController creates a new carts controller.
func NewCartsController(svc *cartsvc.Service) *CartsController {
	return &CartsController{svc: svc}
}

// RegisterRoutes registers cart routes with the given mux.
func (c *CartsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/accounts/{accountId}/cart", c.handleAdd)
	mux.HandleFunc("GET /v1/accounts/{accountId}/cart", c.handleList)
	mux.HandleFunc("DELETE /v1/accounts/{accountId}/cart", c.handleClear)
	mux.HandleFunc("PATCH /v1/accounts/{accountId}/cart/{itemId}", c.handleSetQuantity)
	mux.HandleFunc("DELETE /v1/accounts/{accountId}/cart/{itemId}", c.handleRemove)
}

func (c *CartsController) handleAdd(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	var in cartsvc.AddInput
	if !decodeBody(w, r, &in) {
		return
	}
	item, err := c.svc.Add(r.Context(), accountID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, item)
}

func (c *CartsController) handleList(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	items, err := c.svc.List(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, items)
}

func (c *CartsController) handleClear(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	if err := c.svc.Clear(r.Context(), accountID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeNoContent(w)
}

func (c *CartsController) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	itemID, ok := pathID(r, "itemId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var in struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	item, err := c.svc.SetQuantity(r.Context(), accountID, itemID, in.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, item)
}

func (c *CartsController) handleRemove(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	itemID, ok := pathID(r, "itemId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	if err := c.svc.Remove(r.Context(), accountID, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeNoContent(w)
}
