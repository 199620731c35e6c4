// Package api provides HTTP handlers for the launch dashboard server.
package api

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/launchdash/server/internal/dashboard"
	"github.com/launchdash/server/internal/data/launches"
	"github.com/launchdash/server/internal/render"
	"github.com/launchdash/server/internal/service"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// RouterConfig contains router configuration.
type RouterConfig struct {
	Charts      *service.ChartService
	CORSOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/", indexHandler(cfg.Charts))

	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", layoutHandler(cfg.Charts))
		r.Get("/callbacks", bindingsHandler(cfg.Charts))
		r.Post("/callbacks/{output}", callbackHandler(cfg.Charts))

		r.Get("/charts/pie", pieHandler(cfg.Charts))
		r.Get("/charts/scatter", scatterHandler(cfg.Charts))
		// chi treats '.' as a param delimiter, so capture the whole segment
		// (e.g. "pie.png") and split the extension in the handler.
		r.Get("/images/{image}", imageHandler(cfg.Charts))

		r.Get("/records.csv", exportHandler(cfg.Charts))
		r.Get("/stats", statsHandler(cfg.Charts))
	})

	return r
}

type indexData struct {
	Layout   dashboard.Layout
	Bindings []dashboard.Binding
}

func indexHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app := svc.App()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := indexTemplate.Execute(w, indexData{
			Layout:   app.Layout(),
			Bindings: app.Registry().Bindings(),
		})
		if err != nil {
			log.Printf("index: %v", err)
		}
	}
}

func layoutHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(svc.App().Layout())
	}
}

func bindingsHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(svc.App().Registry().Bindings())
	}
}

// callbackRequest carries control values keyed by "id.property".
// A bare object of values is accepted as well.
type callbackRequest struct {
	Inputs dashboard.Values `json:"inputs"`
}

func callbackHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := parseCallbackBody(r)
		if err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		out, err := svc.App().Registry().Dispatch(chi.URLParam(r, "output"), values)
		if err != nil {
			switch {
			case errors.Is(err, dashboard.ErrUnknownOutput):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, dashboard.ErrBadInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func parseCallbackBody(r *http.Request) (dashboard.Values, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var req callbackRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	if req.Inputs != nil {
		return req.Inputs, nil
	}

	var bare dashboard.Values
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

func pieHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site := parseSite(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(svc.Pie(site))
	}
}

func scatterHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		payload, err := parsePayloadRange(query, svc.App().DefaultRange())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(svc.Scatter(parseSite(query), payload))
	}
}

func imageHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		image := chi.URLParam(r, "image")
		ext := path.Ext(image)
		format, err := render.ParseFormat(ext)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		query := r.URL.Query()
		site := parseSite(query)

		var data []byte
		switch strings.TrimSuffix(image, ext) {
		case "pie":
			data, err = svc.PieImage(site, format)
		case "scatter":
			payload, perr := parsePayloadRange(query, svc.App().DefaultRange())
			if perr != nil {
				http.Error(w, perr.Error(), http.StatusBadRequest)
				return
			}
			data, err = svc.ScatterImage(site, payload, format)
		default:
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(data)
	}
}

func exportHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		payload, err := parsePayloadRange(query, svc.App().DefaultRange())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="launches.csv"`)
		if _, err := svc.ExportCSV(w, parseSite(query), payload); err != nil {
			log.Printf("export: %v", err)
		}
	}
}

func statsHandler(svc *service.ChartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(svc.Stats())
	}
}

// parseSite returns the site query parameter, defaulting to all sites.
func parseSite(query url.Values) string {
	site := strings.TrimSpace(query.Get("site"))
	if site == "" {
		return launches.AllSites
	}
	return site
}

// parsePayloadRange reads the payload query parameter as "low,high" or a JSON
// array. A missing parameter yields def.
func parsePayloadRange(query url.Values, def dashboard.PayloadRange) (dashboard.PayloadRange, error) {
	raw := strings.TrimSpace(query.Get("payload"))
	if raw == "" {
		return def, nil
	}

	var pair []float64
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &pair); err != nil {
			return def, errors.New("invalid payload range: " + err.Error())
		}
	} else {
		for _, part := range strings.Split(raw, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return def, errors.New("invalid payload range: " + raw)
			}
			pair = append(pair, v)
		}
	}
	if len(pair) != 2 {
		return def, errors.New("invalid payload range: expected two values")
	}
	if math.IsNaN(pair[0]) || math.IsNaN(pair[1]) {
		return def, errors.New("invalid payload range: NaN")
	}
	if pair[0] > pair[1] {
		pair[0], pair[1] = pair[1], pair[0]
	}
	return dashboard.PayloadRange{Low: pair[0], High: pair[1]}, nil
}
