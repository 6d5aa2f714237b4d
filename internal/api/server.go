package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/gorilla/mux"

	"pokerarena/internal/app"
	"pokerarena/internal/arena/types"
	"pokerarena/internal/config"
)

// Querier answers ABCI queries against committed state.
type Querier interface {
	Query(context.Context, *abci.QueryRequest) (*abci.QueryResponse, error)
	LastBlockHeight() int64
}

type handler struct {
	q      Querier
	logger log.Logger
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error         string `json:"error"`
	Codespace     string `json:"codespace,omitempty"`
	Code          uint32 `json:"code,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Height int64  `json:"height"`
}

// NewRouter maps the read API onto ABCI query paths.
func NewRouter(q Querier, logger log.Logger) *mux.Router {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	h := &handler{q: q, logger: logger.With("module", "api")}

	r := mux.NewRouter()
	r.Use(correlationMiddleware, loggingMiddleware(h.logger))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "route not found", CorrelationID: CorrelationID(req.Context())})
	})

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/config", h.proxy(func(map[string]string) string { return "/config" })).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments", h.proxy(func(map[string]string) string { return "/tournaments" })).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id:[0-9]+}", h.proxy(func(v map[string]string) string {
		return "/tournament/" + v["id"]
	})).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id:[0-9]+}/registrations", h.proxy(func(v map[string]string) string {
		return "/tournament/" + v["id"] + "/registrations"
	})).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id:[0-9]+}/registrations/{wallet}", h.proxy(func(v map[string]string) string {
		return "/registration/" + v["id"] + "/" + v["wallet"]
	})).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id:[0-9]+}/standings", h.proxy(func(v map[string]string) string {
		return "/tournament/" + v["id"] + "/standings"
	})).Methods(http.MethodGet)
	v1.HandleFunc("/players/{wallet}/stats", h.proxy(func(v map[string]string) string {
		return "/stats/" + v["wallet"]
	})).Methods(http.MethodGet)
	v1.HandleFunc("/leaderboard", h.leaderboard).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{addr}/balance", h.proxy(func(v map[string]string) string {
		return "/balance/" + v["addr"]
	})).Methods(http.MethodGet)
	v1.HandleFunc("/tokens/{token}/balances/{owner}", h.proxy(func(v map[string]string) string {
		return "/token/" + v["token"] + "/" + v["owner"]
	})).Methods(http.MethodGet)

	return r
}

func NewServer(cfg config.APIConfig, q Querier, logger log.Logger) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      NewRouter(q, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Height: h.q.LastBlockHeight()})
}

func (h *handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	params := url.Values{}
	for _, k := range []string{"page", "per_page"} {
		if v := r.URL.Query().Get(k); v != "" {
			params.Set(k, v)
		}
	}
	path := "/leaderboard"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	h.forward(w, r, path)
}

func (h *handler) proxy(path func(vars map[string]string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.forward(w, r, path(mux.Vars(r)))
	}
}

func (h *handler) forward(w http.ResponseWriter, r *http.Request, path string) {
	res, err := h.q.Query(r.Context(), &abci.QueryRequest{Path: path})
	if err != nil {
		h.logger.Error("query failed", "path", path, "err", err, "correlation_id", CorrelationID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error", CorrelationID: CorrelationID(r.Context())})
		return
	}
	if res.Code != abci.CodeTypeOK {
		writeJSON(w, statusFor(res.Codespace, res.Code), ErrorResponse{
			Error:         res.Log,
			Codespace:     res.Codespace,
			Code:          res.Code,
			CorrelationID: CorrelationID(r.Context()),
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Value)
}

var notFoundErrors = []interface {
	Codespace() string
	ABCICode() uint32
}{
	types.ErrNotInitialized,
	types.ErrTournamentNotFound,
	types.ErrRegistrationNotFound,
	types.ErrStatsNotFound,
}

func statusFor(codespace string, code uint32) int {
	for _, e := range notFoundErrors {
		if e.Codespace() == codespace && e.ABCICode() == code {
			return http.StatusNotFound
		}
	}
	switch {
	case codespace == app.ErrUnknownRequest.Codespace() && code == app.ErrUnknownRequest.ABCICode():
		return http.StatusBadRequest
	case codespace == types.ModuleName:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
