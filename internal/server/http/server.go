package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	"github.com/ZeroFairy/kuenyawz-api/internal/server/http/controllers"
	accountsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/accounts"
	cartsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/carts"
	catalogsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/catalog"
	imagesvc "github.com/ZeroFairy/kuenyawz-api/internal/services/images"
	transactionsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/transactions"
)

// Server is the REST surface over the service layer.
type Server struct {
	rt  *runtime.Runtime
	srv *http.Server
	lis net.Listener
}

// New builds the service layer and wires every controller.
func New(rt *runtime.Runtime) *Server {
	catalog := catalogsvc.New(rt)
	svcs := controllers.Services{
		Accounts:     accountsvc.New(rt),
		Catalog:      catalog,
		Carts:        cartsvc.New(rt, catalog),
		Transactions: transactionsvc.New(rt),
		Images:       imagesvc.New(rt, catalog),
	}
	return NewWithServices(rt, svcs)
}

// NewWithServices wires the given services; used when the caller already
// constructed them with custom loggers.
func NewWithServices(rt *runtime.Runtime, svcs controllers.Services) *Server {
	mux := http.NewServeMux()
	s := &Server{rt: rt, srv: &http.Server{Handler: cors(mux)}}
	controllers.NewControllerRegistry(rt, svcs).RegisterAllRoutes(mux)
	if m := rt.Metrics(); m != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(m.Prometheus(), promhttp.HandlerOpts{}))
	}
	return s
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound listen address, or "" before ListenAndServe.
func (s *Server) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
