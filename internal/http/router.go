package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Calendar      *CalendarHandler
	Attendance    *AttendanceHandler
	Subscriptions *SubscriptionHandler
	Reports       *ReportHandler

	// Middleware wraps the tenant-scoped API routes, outermost first. The
	// health and metrics endpoints stay outside it so probes and scrapes need
	// no API key.
	Middleware []func(http.Handler) http.Handler

	// BaseMiddleware wraps every route, including health and metrics.
	BaseMiddleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Calendar != nil {
		mux.HandleFunc("/calendar", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Calendar.Month(w, r)
		})
		mux.HandleFunc("/calendar/cancellations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Calendar.Cancel(w, r)
		})
		mux.HandleFunc("/calendar/restorations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Calendar.Restore(w, r)
		})
		mux.HandleFunc("/calendar/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Calendar.RecordEvent(w, r)
		})
	}

	if cfg.Attendance != nil {
		mux.HandleFunc("/attendance", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Attendance.Sheet(w, r)
			case http.MethodPut:
				cfg.Attendance.Record(w, r)
			case http.MethodDelete:
				cfg.Attendance.Clear(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
		mux.HandleFunc("/attendance/substitutes", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				cfg.Attendance.AssignSubstitute(w, r)
			case http.MethodDelete:
				cfg.Attendance.RemoveSubstitute(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
		mux.HandleFunc("/attendance/payroll", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Attendance.Payroll(w, r)
		})
	}

	if cfg.Subscriptions != nil {
		mux.HandleFunc("/subscriptions", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Subscriptions.List(w, r)
			case http.MethodPost:
				cfg.Subscriptions.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/subscriptions/", func(w http.ResponseWriter, r *http.Request) {
			id, action, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/subscriptions/"), "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithSubscriptionID(r.Context(), id))
			switch action {
			case "extensions":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Subscriptions.Extend(w, r)
			case "usage":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Subscriptions.Usage(w, r)
			default:
				http.NotFound(w, r)
			}
		})
		mux.HandleFunc("/players/", func(w http.ResponseWriter, r *http.Request) {
			id, action, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/players/"), "/")
			if id == "" || action != "pause" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			r = r.WithContext(ContextWithPlayerID(r.Context(), id))
			cfg.Subscriptions.SetPause(w, r)
		})
	}

	if cfg.Reports != nil {
		mux.HandleFunc("/reports/schedule", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Reports.Schedule(w, r)
		})
		mux.HandleFunc("/reports/payroll", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Reports.Payroll(w, r)
		})
		mux.HandleFunc("/reports/ledger", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Reports.Ledger(w, r)
		})
	}

	var api http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			api = cfg.Middleware[i](api)
		}
	}

	root := http.NewServeMux()
	root.Handle("/", api)
	root.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	root.Handle("/metrics", MetricsHandler())

	var handler http.Handler = root
	for i := len(cfg.BaseMiddleware) - 1; i >= 0; i-- {
		if cfg.BaseMiddleware[i] != nil {
			handler = cfg.BaseMiddleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
