package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/go-chi/render"

	"github.com/lintang-b-s/olrmatch/pkg/apperr"
	"github.com/lintang-b-s/olrmatch/pkg/geo"
	"github.com/lintang-b-s/olrmatch/pkg/graph"
	"github.com/lintang-b-s/olrmatch/pkg/matchcache"
	"github.com/lintang-b-s/olrmatch/pkg/model"
	"github.com/lintang-b-s/olrmatch/pkg/reconstruct"
	"github.com/lintang-b-s/olrmatch/pkg/router"
	"github.com/twpayne/go-polyline"
)

// MatchService is the collaborator handlers.go drives -- the engine plus
// the graph it searches, mirroring pkg/server/mm_rest/handlers.go's
// MapMatchingService abstraction of "the usecase behind the endpoint". cache
// is optional (nil disables it): when present, it serves repeat requests for
// the same way-point sequence and offsets out of pkg/matchcache instead of re-running
// find_path, the literal, cache-hit-on-repeat-input form of §8 property 4's
// determinism guarantee.
type MatchService struct {
	engine *router.Engine
	graph  graph.RoadGraph
	info   graph.RoadInfo
	cfg    model.Config
	cache  *matchcache.Cache
}

func NewMatchService(g graph.RoadGraph, ri graph.RoadInfo, cfg model.Config, tracer router.Tracer, cache *matchcache.Cache) *MatchService {
	return &MatchService{
		engine: router.New(g, ri, cfg, tracer),
		graph:  g,
		info:   ri,
		cfg:    cfg,
		cache:  cache,
	}
}

// MatchHandler exposes location-reference decoding over HTTP, structured the
// way MapMatchingHandler wraps MapMatchingService in the teacher's own
// pkg/server/mm_rest/handlers.go.
type MatchHandler struct {
	svc *MatchService
}

// Router mounts the decode endpoint under /api/match, matching
// mmrest.MapMatchingRouter's r.Route("/api/map-match", ...) shape.
func Router(r chi.Router, svc *MatchService) {
	h := &MatchHandler{svc}
	r.Route("/api/match", func(r chi.Router) {
		r.Post("/decode", h.Decode)
	})
}

// WaypointRequest is one way-point of a decode request body.
//
//	@Description	one way-point of an ordered location reference
type WaypointRequest struct {
	X               float64 `json:"x" validate:"required"`
	Y               float64 `json:"y" validate:"required"`
	DistanceToNextM float64 `json:"distance_to_next_m" validate:"gte=0"`
	Bearing         int     `json:"bearing" validate:"gte=0,lt=256"`
	Lfrcnp          int     `json:"lfrcnp" validate:"gte=0"`
}

// MatchRequest model info
//
//	@Description	request body for decoding an ordered way-point sequence into a path
type MatchRequest struct {
	Waypoints       []WaypointRequest `json:"waypoints" validate:"required,min=2,dive"`
	PositiveOffsetM float64           `json:"positive_offset_m" validate:"gte=0"`
	NegativeOffsetM float64           `json:"negative_offset_m" validate:"gte=0"`
}

func (m *MatchRequest) Bind(r *http.Request) error {
	if len(m.Waypoints) < 2 {
		return errors.New("invalid request: at least two way-points are required")
	}
	return nil
}

// EdgeResponse is one edge of a decoded path.
type EdgeResponse struct {
	FeatureID int64   `json:"feature_id"`
	StartX    float64 `json:"start_x"`
	StartY    float64 `json:"start_y"`
	EndX      float64 `json:"end_x"`
	EndY      float64 `json:"end_y"`
	LengthM   float64 `json:"length_m"`
	Heading   string  `json:"heading"`
}

// bearingToCompass renders a bearing in degrees as an 8-point compass
// heading, the same buckets as datastructure.bearingToCompass.
func bearingToCompass(bearingDeg float64) string {
	switch {
	case bearingDeg < 22.5:
		return "North"
	case bearingDeg < 67.5:
		return "North East"
	case bearingDeg < 112.5:
		return "East"
	case bearingDeg < 157.5:
		return "South East"
	case bearingDeg < 202.5:
		return "South"
	case bearingDeg < 247.5:
		return "South West"
	case bearingDeg < 292.5:
		return "West"
	case bearingDeg < 337.5:
		return "North West"
	default:
		return "North"
	}
}

// MatchResponse model info
//
//	@Description	response body for a decoded path
type MatchResponse struct {
	Edges    []EdgeResponse `json:"edges"`
	Polyline string         `json:"polyline"`
}

func renderMatchResponse(path []model.RawEdge) *MatchResponse {
	edges := make([]EdgeResponse, 0, len(path))
	coords := make([][]float64, 0, len(path)+1)
	for i, e := range path {
		edges = append(edges, EdgeResponse{
			FeatureID: e.FeatureID,
			StartX:    e.Start.Point.X,
			StartY:    e.Start.Point.Y,
			EndX:      e.End.Point.X,
			EndY:      e.End.Point.Y,
			LengthM:   e.Length,
			Heading:   bearingToCompass(geo.BearingDegrees(e.Start.Point, e.End.Point)),
		})
		if i == 0 {
			coords = append(coords, []float64{e.Start.Point.Y, e.Start.Point.X})
		}
		coords = append(coords, []float64{e.End.Point.Y, e.End.Point.X})
	}
	return &MatchResponse{Edges: edges, Polyline: string(polyline.EncodeCoords(coords))}
}

// Decode
//
//	@Summary		decode an ordered way-point location reference into a concrete edge path
//	@Description	runs the staged search and path reconstruction over way-points already decoded from their wire format
//	@Tags			match
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/api/match/decode [post]
//	@Success		200	{object}	MatchResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *MatchHandler) Decode(w http.ResponseWriter, r *http.Request) {
	data := &MatchRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	waypoints := make([]model.Waypoint, 0, len(data.Waypoints))
	for _, wp := range data.Waypoints {
		waypoints = append(waypoints, model.NewWaypoint(geo.NewPoint(wp.X, wp.Y), wp.DistanceToNextM, wp.Bearing, wp.Lfrcnp))
	}

	var cacheKey []byte
	if h.svc.cache != nil {
		cacheKey = matchcache.Key(waypoints)
		// The offsets change the reconstructed path but are not way-point
		// fields, so they are folded into the key here.
		cacheKey = fmt.Appendf(cacheKey, "|%g|%g", data.PositiveOffsetM, data.NegativeOffsetM)
		if cached, hit, err := h.svc.cache.Get(cacheKey); err == nil && hit {
			render.Status(r, http.StatusOK)
			render.JSON(w, r, renderMatchResponse(cached))
			return
		}
	}

	edges, ok := h.svc.engine.FindPath(waypoints)
	if !ok {
		err := apperr.WrapErrorf(nil, apperr.ErrNotFound, "no path found for the given way-points")
		render.Render(w, r, ErrRender(err))
		return
	}

	path, ok := reconstruct.Reconstruct(edges, data.PositiveOffsetM, data.NegativeOffsetM, waypoints, h.svc.graph, h.svc.info, h.svc.cfg)
	if !ok {
		err := apperr.WrapErrorf(nil, apperr.ErrNotFound, "reconstruction produced an empty path")
		render.Render(w, r, ErrRender(err))
		return
	}

	if h.svc.cache != nil {
		// A cache write failure only costs the next repeat request a
		// fresh search -- not worth failing this response over.
		_ = h.svc.cache.Set(cacheKey, path)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, renderMatchResponse(path))
}

func ErrInvalidRequest(err error) render.Renderer {
	return ErrRender(apperr.WrapErrorf(err, apperr.ErrBadParamInput, "invalid request"))
}

// ErrResponse model info
//
//	@Description	error response envelope
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	ErrorText     string   `json:"error,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// httpStatusFor maps an apperr.Kind to the HTTP status code this repo's
// handlers respond with, the same job server.WrapErrorf's callers leave to
// their own rendering layer in the teacher.
func httpStatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrBadParamInput:
		return http.StatusBadRequest
	case apperr.ErrTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrRender turns any error into an ErrResponse, reading an *apperr.Error's
// Kind for the status code and status text when present and falling back to
// a generic 500 otherwise.
func ErrRender(err error) render.Renderer {
	status := http.StatusInternalServerError
	statusText := "Internal server error."
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status = httpStatusFor(ae.Kind)
		statusText = ae.Kind.String()
	}
	return &ErrResponse{Err: err, HTTPStatusCode: status, StatusText: statusText, ErrorText: err.Error()}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf(e.Translate(trans)))
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := make([]string, 0, len(errV))
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	resp := ErrRender(apperr.WrapErrorf(err, apperr.ErrBadParamInput, "validation failed")).(*ErrResponse)
	resp.ErrValidation = vv
	return resp
}
