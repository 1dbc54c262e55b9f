package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/roaddist/pkg/datastructure"
	"github.com/lintang-b-s/roaddist/pkg/export"
	"github.com/lintang-b-s/roaddist/pkg/resultview"
	"github.com/rs/zerolog"
)

const defaultK = 10

type SsspService interface {
	Graph() *datastructure.Graph
	Nearest(ctx context.Context, source int64, k int, excludeSource bool) ([]resultview.Record, error)
	Farthest(ctx context.Context, source int64, k int) ([]resultview.Record, error)
	Reachable(ctx context.Context, source int64) (int, error)
	Export(ctx context.Context, source int64) ([]resultview.Record, error)
}

type SsspHandler struct {
	svc      SsspService
	validate *validator.Validate
	trans    ut.Translator
	log      zerolog.Logger
}

func NewSsspHandler(svc SsspService, log zerolog.Logger) *SsspHandler {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &SsspHandler{svc: svc, validate: validate, trans: trans, log: log}
}

func SsspRouter(r *chi.Mux, svc SsspService, log zerolog.Logger) {
	handler := NewSsspHandler(svc, log)

	r.Group(func(r chi.Router) {
		r.Get("/api/graph", handler.GraphInfo)
		r.Route("/api/sssp/{source}", func(r chi.Router) {
			r.Get("/nearest", handler.Nearest)
			r.Get("/farthest", handler.Farthest)
			r.Get("/reachable", handler.Reachable)
			r.Get("/export", handler.Export)
		})
	})
}

// RankRequest model info
//
//	@Description	query parameters for nearest & farthest
type RankRequest struct {
	Source        int64 `json:"source"`
	K             int   `json:"k" validate:"gte=0,lte=1000000"`
	ExcludeSource bool  `json:"exclude_source"`
}

func parseSource(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "source")
	source, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("source must be an integer vertex id")
	}
	return source, nil
}

func parseRankRequest(r *http.Request) (*RankRequest, error) {
	source, err := parseSource(r)
	if err != nil {
		return nil, err
	}
	req := &RankRequest{Source: source, K: defaultK}

	q := r.URL.Query()
	if k := q.Get("k"); k != "" {
		req.K, err = strconv.Atoi(k)
		if err != nil {
			return nil, errors.New("k must be an integer")
		}
	}
	if ex := q.Get("exclude_source"); ex != "" {
		req.ExcludeSource, err = strconv.ParseBool(ex)
		if err != nil {
			return nil, errors.New("exclude_source must be a boolean")
		}
	}
	return req, nil
}

// VertexDistance model info
//
//	@Description	reachable vertex & its shortest path distance from the source
type VertexDistance struct {
	Vertex   int64   `json:"vertex"`
	Distance float64 `json:"distance"`
}

type RankedResponse struct {
	Source   int64            `json:"source"`
	K        int              `json:"k"`
	Vertices []VertexDistance `json:"vertices"`
}

func RenderRankedResponse(source int64, k int, records []resultview.Record) *RankedResponse {
	vertices := make([]VertexDistance, 0, len(records))
	for _, rec := range records {
		vertices = append(vertices, VertexDistance{Vertex: rec.Vertex, Distance: rec.Distance})
	}
	return &RankedResponse{Source: source, K: k, Vertices: vertices}
}

type GraphResponse struct {
	Vertices   int   `json:"vertices"`
	Edges      int   `json:"edges"`
	BaseOffset int64 `json:"base_offset"`
}

type ReachableResponse struct {
	Source    int64 `json:"source"`
	Reachable int   `json:"reachable"`
}

func (h *SsspHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, datastructure.ErrOutOfRange), errors.Is(err, resultview.ErrNegativeK):
		render.Render(w, r, ErrInvalidRequest(err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.Warn().Err(err).Str("path", r.URL.Path).Msg("sssp request ended before the run finished")
		render.Render(w, r, ErrCanceledRend(err))
	default:
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("sssp request failed")
		render.Render(w, r, ErrInternalServerErrorRend(errors.New("internal server error")))
	}
}

func (h *SsspHandler) GraphInfo(w http.ResponseWriter, r *http.Request) {
	g := h.svc.Graph()
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &GraphResponse{Vertices: g.NumVertices(), Edges: g.NumEdges(), BaseOffset: g.BaseOffset})
}

func (h *SsspHandler) rank(w http.ResponseWriter, r *http.Request, farthest bool) {
	req, err := parseRankRequest(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*req); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	var records []resultview.Record
	if farthest {
		records, err = h.svc.Farthest(r.Context(), req.Source, req.K)
	} else {
		records, err = h.svc.Nearest(r.Context(), req.Source, req.K, req.ExcludeSource)
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderRankedResponse(req.Source, req.K, records))
}

// Nearest
//
//	@Summary		k reachable vertices closest to the source
//	@Tags			sssp
//	@Param			source			path	int		true	"source vertex id"
//	@Param			k				query	int		false	"number of vertices"
//	@Param			exclude_source	query	bool	false	"leave the source out"
//	@Produce		application/json
//	@Router			/sssp/{source}/nearest [get]
//	@Success		200	{object}	RankedResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *SsspHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, false)
}

// Farthest
//
//	@Summary		k reachable vertices farthest from the source
//	@Tags			sssp
//	@Param			source	path	int	true	"source vertex id"
//	@Param			k		query	int	false	"number of vertices"
//	@Produce		application/json
//	@Router			/sssp/{source}/farthest [get]
//	@Success		200	{object}	RankedResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *SsspHandler) Farthest(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, true)
}

func (h *SsspHandler) Reachable(w http.ResponseWriter, r *http.Request) {
	source, err := parseSource(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	n, err := h.svc.Reachable(r.Context(), source)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &ReachableResponse{Source: source, Reachable: n})
}

// Export. `vertex,distance` csv of every reachable vertex.
func (h *SsspHandler) Export(w http.ResponseWriter, r *http.Request) {
	source, err := parseSource(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	records, err := h.svc.Export(r.Context(), source)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=distances_"+strconv.FormatInt(source, 10)+".csv")
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, records); err != nil {
		h.log.Error().Err(err).Int64("source", source).Msg("write csv export")
	}
}
