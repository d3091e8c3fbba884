package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Taqey/Foodo-sub000/internal/application/query"
	"github.com/Taqey/Foodo-sub000/internal/application/service"
	"github.com/Taqey/Foodo-sub000/internal/domain"
	"github.com/Taqey/Foodo-sub000/internal/observability"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

type OrderCommands interface {
	PlaceOrder(ctx context.Context, cmd service.PlaceOrderCommand) service.Result
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.Status) service.Result
	CancelOrder(ctx context.Context, orderID int64) service.Result
}

type OrderQueries interface {
	CustomerOrders(ctx context.Context, customerID int64, page, size int) ([]domain.OrderSummary, query.LookupStats, error)
	MerchantOrders(ctx context.Context, merchantID int64, page, size int) ([]domain.OrderSummary, query.LookupStats, error)
	MerchantCustomers(ctx context.Context, merchantID int64, page, size int) ([]domain.CustomerSummary, query.LookupStats, error)
	CustomerOrder(ctx context.Context, customerID, orderID int64) (domain.OrderDetail, query.LookupStats, error)
	MerchantOrder(ctx context.Context, merchantID, orderID int64) (domain.OrderDetail, query.LookupStats, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	commands OrderCommands
	queries  OrderQueries
	health   Pinger
	router   chi.Router
	logger   *zap.Logger
	metrics  observability.Metrics
}

func New(commands OrderCommands, queries OrderQueries, health Pinger, logger *zap.Logger, metrics observability.Metrics) *Server {
	s := &Server{
		commands: commands,
		queries:  queries,
		health:   health,
		router:   chi.NewRouter(),
		logger:   logger,
		metrics:  metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID, middleware.Recoverer, ServerTimingApp(s.metrics))

	r.Get("/healthz", s.healthz)

	r.Route("/customers/{customerID}/orders", func(r chi.Router) {
		r.Post("/", s.placeOrder)
		r.Get("/", s.customerOrders)
		r.Get("/{orderID}", s.customerOrder)
	})
	r.Route("/merchants/{merchantID}", func(r chi.Router) {
		r.Get("/orders", s.merchantOrders)
		r.Get("/orders/{orderID}", s.merchantOrder)
		r.Get("/customers", s.merchantCustomers)
	})
	r.Post("/orders/{orderID}/cancel", s.cancelOrder)
	r.Patch("/orders/{orderID}/status", s.updateStatus)
}

func (s *Server) Handler() http.Handler { return s.router }

type placeOrderRequest struct {
	Items []service.ItemInput `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type pageResponse[T any] struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Items    []T `json:"items"`
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}
	var req placeOrderRequest
	if !s.decode(w, r, &req) {
		return
	}

	res := s.commands.PlaceOrder(r.Context(), service.PlaceOrderCommand{CustomerID: customerID, Items: req.Items})
	writeResult(w, res, http.StatusCreated)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}
	var req updateStatusRequest
	if !s.decode(w, r, &req) {
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeResult(w, service.Result{Message: err.Error(), Code: service.CodeValidation, OrderID: orderID}, http.StatusOK)
		return
	}

	writeResult(w, s.commands.UpdateOrderStatus(r.Context(), orderID, status), http.StatusOK)
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}
	writeResult(w, s.commands.CancelOrder(r.Context(), orderID), http.StatusOK)
}

func (s *Server) customerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	items, st, err := s.queries.CustomerOrders(r.Context(), customerID, p.Number, p.Size)
	s.writeRead(w, st, err, pageResponse[domain.OrderSummary]{Page: p.Number, PageSize: p.Size, Items: items})
}

func (s *Server) merchantOrders(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := pathID(w, r, "merchantID")
	if !ok {
		return
	}
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	items, st, err := s.queries.MerchantOrders(r.Context(), merchantID, p.Number, p.Size)
	s.writeRead(w, st, err, pageResponse[domain.OrderSummary]{Page: p.Number, PageSize: p.Size, Items: items})
}

func (s *Server) merchantCustomers(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := pathID(w, r, "merchantID")
	if !ok {
		return
	}
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	items, st, err := s.queries.MerchantCustomers(r.Context(), merchantID, p.Number, p.Size)
	s.writeRead(w, st, err, pageResponse[domain.CustomerSummary]{Page: p.Number, PageSize: p.Size, Items: items})
}

func (s *Server) customerOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}
	d, st, err := s.queries.CustomerOrder(r.Context(), customerID, orderID)
	s.writeRead(w, st, err, d)
}

func (s *Server) merchantOrder(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := pathID(w, r, "merchantID")
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}
	d, st, err := s.queries.MerchantOrder(r.Context(), merchantID, orderID)
	s.writeRead(w, st, err, d)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		s.logger.Debug("Error while decoding JSON", zap.Error(err))
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeRead(w http.ResponseWriter, st query.LookupStats, err error, v any) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		s.logger.Error("read failed", zap.Error(err))
		http.Error(w, "Service error", http.StatusInternalServerError)
		return
	}

	observability.AppendServerTiming(w, "cache", st.Ms, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	w.Header().Set("X-Source", string(st.Source))
	observability.SetIfPos(w, "X-Cache-Time", st.Ms)

	writeJSON(w, http.StatusOK, v)
}

func writeResult(w http.ResponseWriter, res service.Result, success int) {
	writeJSON(w, statusOf(res, success), res)
}

func statusOf(res service.Result, success int) int {
	if res.Success {
		return success
	}
	switch res.Code {
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		http.Error(w, name+" must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// pageParams reads ?page=&page_size=. Out of range values are normalized,
// non-numeric ones rejected.
func pageParams(w http.ResponseWriter, r *http.Request) (domain.Page, bool) {
	q := r.URL.Query()
	var vals [2]int
	for i, name := range []string{"page", "page_size"} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, name+" must be an integer", http.StatusBadRequest)
			return domain.Page{}, false
		}
		vals[i] = n
	}
	return domain.NewPage(vals[0], vals[1]), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
