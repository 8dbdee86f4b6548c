package controllers

import (
	"net/http"

	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	accountsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/accounts"
	cartsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/carts"
	catalogsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/catalog"
	imagesvc "github.com/ZeroFairy/kuenyawz-api/internal/services/images"
	transactionsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/transactions"
)

// Services groups the service layer handed to the HTTP surface.
type Services struct {
	Accounts     *accountsvc.Service
	Catalog      *catalogsvc.Service
	Carts        *cartsvc.Service
	Transactions *transactionsvc.Service
	Images       *imagesvc.Service
}

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general      *GeneralController
	accounts     *AccountsController
	products     *ProductsController
	carts        *CartsController
	transactions *TransactionsController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, svcs Services) *ControllerRegistry {
	return &ControllerRegistry{
		general:      NewGeneralController(rt),
		accounts:     NewAccountsController(svcs.Accounts),
		products:     NewProductsController(svcs.Catalog, svcs.Images),
		carts:        NewCartsController(svcs.Carts),
		transactions: NewTransactionsController(svcs.Transactions),
	}
}

// RegisterAllRoutes registers every controller's routes with the mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.accounts.RegisterRoutes(mux)
	r.products.RegisterRoutes(mux)
	r.carts.RegisterRoutes(mux)
	r.transactions.RegisterRoutes(mux)
}
