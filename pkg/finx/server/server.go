// Package server exposes the report assemblers over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/phuslu/log"
	"github.com/unrolled/secure"

	"github.com/komsit37/finx/pkg/finx/logx"
	"github.com/komsit37/finx/pkg/finx/types"
)

// BasePath is where the report routes are mounted.
const BasePath = "/api/v1/companyCurrentFinancials"

// Reporter is the report surface the server needs.
type Reporter interface {
	Price(ctx context.Context, symbol string) types.Payload
	Financials(ctx context.Context, symbol string) types.Payload
	Quarterly(ctx context.Context, symbol string) types.Payload
	IndexSnapshot(ctx context.Context) ([]types.Payload, error)
}

type Options struct {
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit      int
	RequestTimeout time.Duration
	Logger         *log.Logger
	Now            func() time.Time
}

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type handler struct {
	reports Reporter
	logger  *log.Logger
	now     func() time.Time
}

// NewRouter builds the chi router with the middleware stack and routes.
func NewRouter(reports Reporter, opts Options) http.Handler {
	h := &handler{reports: reports, logger: logx.OrDiscard(opts.Logger), now: opts.Now}
	if h.now == nil {
		h.now = time.Now
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'",
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.RequestID, h.requestLog, middleware.Recoverer)
	r.Use(secureMiddleware.Handler)
	r.Use(middleware.Timeout(timeout))
	if opts.RateLimit > 0 {
		r.Use(httprate.Limit(opts.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusTooManyRequests, envelope{Status: "fail", Message: "Too many requests, please try again later"})
			}),
		))
	}

	r.Get("/", h.health)
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/price/{symbol}", h.symbolReport(reports.Price))
		r.Get("/financials/{symbol}", h.symbolReport(reports.Financials))
		r.Get("/quarterly/{symbol}", h.symbolReport(reports.Quarterly))
		r.Get("/price", h.symbolReport(reports.Price))
		r.Get("/financials", h.symbolReport(reports.Financials))
		r.Get("/quarterly", h.symbolReport(reports.Quarterly))
		r.Get("/indices", h.indices)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Status: "fail", Message: "Can't find " + r.URL.Path + " on this server"})
	})
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "API running",
		"timestamp": h.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

// symbolReport serves a per-symbol report. The symbol comes from the path
// or, failing that, the "symbol" query parameter.
func (h *handler) symbolReport(build func(context.Context, string) types.Payload) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimSpace(chi.URLParam(r, "symbol"))
		if symbol == "" {
			symbol = strings.TrimSpace(r.URL.Query().Get("symbol"))
		}
		if symbol == "" {
			writeJSON(w, http.StatusBadRequest, envelope{Status: "fail", Message: "Company symbol is required"})
			return
		}
		p := build(r.Context(), symbol)
		h.logger.Info().Str("symbol", symbol).Str("path", r.URL.Path).Msg("served report")
		writeJSON(w, http.StatusOK, envelope{Status: "success", Data: p})
	}
}

func (h *handler) indices(w http.ResponseWriter, r *http.Request) {
	list, err := h.reports.IndexSnapshot(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("index snapshot failed")
		writeJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: list})
}

func (h *handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// Run serves handler on addr until ctx is cancelled, then shuts down.
func Run(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	logger = logx.OrDiscard(logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
