package api

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/mr1hm/go-seaglass-map/internal/geo"
	"github.com/mr1hm/go-seaglass-map/internal/locale"
	"github.com/mr1hm/go-seaglass-map/internal/metrics"
	"github.com/mr1hm/go-seaglass-map/internal/models"
	"github.com/mr1hm/go-seaglass-map/internal/nearby"
	"github.com/mr1hm/go-seaglass-map/internal/repository"
	"github.com/mr1hm/go-seaglass-map/internal/scoring"
)

const geoJSONContentType = "application/geo+json"

type Handler struct {
	datasets      repository.DatasetRepository
	spots         repository.SpotRepository
	model         *scoring.Model
	metrics       *metrics.Collector
	defaultLocale models.Locale
}

func NewHandler(datasets repository.DatasetRepository, spots repository.SpotRepository, model *scoring.Model, collector *metrics.Collector, defaultLocale models.Locale) *Handler {
	return &Handler{
		datasets:      datasets,
		spots:         spots,
		model:         model,
		metrics:       collector,
		defaultLocale: locale.Resolve(defaultLocale),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/zones", h.getZones)
	api.GET("/zones/summary", h.getZoneSummary)
	api.GET("/zones/:id", h.getZone)
	api.GET("/protected-areas", h.getProtectedAreas)
	api.GET("/protected-areas/lookup", h.lookupProtectedArea)
	api.GET("/rivers", h.getRivers)
	api.GET("/spots", h.getSpots)
	api.POST("/spots", h.createSpot)
	api.GET("/spots/:id", h.getSpot)
	api.DELETE("/spots/:id", h.deleteSpot)
	api.GET("/distance", h.getDistance)

	r.GET("/health", h.health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// requestLocale prefers ?locale=, then Accept-Language, then the configured
// default.
func (h *Handler) requestLocale(c *gin.Context) models.Locale {
	if q := c.Query("locale"); q != "" {
		if l, ok := locale.Parse(q); ok {
			return l
		}
	}
	return locale.FromAcceptLanguage(c.GetHeader("Accept-Language"), h.defaultLocale)
}

func (h *Handler) getZones(c *gin.Context) {
	filter, err := parseZoneFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	records, err := h.datasets.ListZones(ctx)
	if err != nil {
		slog.Error("error listing zones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch zones"})
		return
	}
	areas, err := h.datasets.ListProtectedAreas(ctx)
	if err != nil {
		slog.Error("error listing protected areas", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch protected areas"})
		return
	}

	zones := filter.Apply(h.model.Zones(records))
	if c.Query("sort") == "score" {
		zones = scoring.SortByScore(zones)
	}

	c.Header("Content-Type", geoJSONContentType)
	c.JSON(http.StatusOK, toZoneGeoJSON(locale.ProjectZones(zones, h.requestLocale(c), h.defaultLocale), areas))
}

func parseZoneFilter(c *gin.Context) (scoring.Filter, error) {
	var f scoring.Filter

	if s := c.Query("min_score"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return f, fmt.Errorf("invalid min_score: %s", s)
		}
		f.MinScore = v
	}
	for _, t := range splitList(c.Query("tiers")) {
		tier, err := scoring.ParseClassification(t)
		if err != nil {
			return f, err
		}
		f.Tiers = append(f.Tiers, tier)
	}
	for _, cat := range splitList(c.Query("category")) {
		category := models.Category(strings.ToLower(cat))
		if !category.Valid() {
			return f, fmt.Errorf("unknown category: %s", cat)
		}
		f.Categories = append(f.Categories, category)
	}
	return f, nil
}

func (h *Handler) getZoneSummary(c *gin.Context) {
	records, err := h.datasets.ListZones(c.Request.Context())
	if err != nil {
		slog.Error("error listing zones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch zones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(records),
		"summary": scoring.Summarize(h.model.Zones(records)),
	})
}

func (h *Handler) getZone(c *gin.Context) {
	ctx := c.Request.Context()
	record, err := h.datasets.GetZone(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
		return
	}
	if err != nil {
		slog.Error("error getting zone", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch zone"})
		return
	}
	areas, err := h.datasets.ListProtectedAreas(ctx)
	if err != nil {
		slog.Error("error listing protected areas", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch protected areas"})
		return
	}

	z := locale.ProjectZone(h.model.Zone(*record), h.requestLocale(c), h.defaultLocale)
	var area *models.ProtectedArea
	if a, _, ok := geo.FirstContaining(z.Coordinates, areas); ok {
		area = &a
	}

	c.Header("Content-Type", geoJSONContentType)
	c.JSON(http.StatusOK, zoneFeature(z, area))
}

func (h *Handler) getProtectedAreas(c *gin.Context) {
	areas, err := h.datasets.ListProtectedAreas(c.Request.Context())
	if err != nil {
		slog.Error("error listing protected areas", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch protected areas"})
		return
	}

	c.Header("Content-Type", geoJSONContentType)
	c.JSON(http.StatusOK, toAreaGeoJSON(locale.ProjectAreas(areas, h.requestLocale(c), h.defaultLocale)))
}

func (h *Handler) lookupProtectedArea(c *gin.Context) {
	p, err := parsePoint(c.Query("lat"), c.Query("lng"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	areas, err := h.datasets.ListProtectedAreas(c.Request.Context())
	if err != nil {
		slog.Error("error listing protected areas", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch protected areas"})
		return
	}

	area, _, ok := geo.FirstContaining(p, areas)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "point is not inside a protected area"})
		return
	}

	c.Header("Content-Type", geoJSONContentType)
	c.JSON(http.StatusOK, areaFeature(locale.ProjectArea(area, h.requestLocale(c), h.defaultLocale)))
}

func (h *Handler) getRivers(c *gin.Context) {
	rivers, err := h.datasets.ListRivers(c.Request.Context())
	if err != nil {
		slog.Error("error listing rivers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch rivers"})
		return
	}

	c.Header("Content-Type", geoJSONContentType)
	c.JSON(http.StatusOK, toRiverGeoJSON(locale.ProjectRivers(rivers, h.requestLocale(c), h.defaultLocale)))
}

func (h *Handler) getSpots(c *gin.Context) {
	var refs nearby.References
	if c.Query("search_lat") != "" || c.Query("search_lng") != "" {
		p, err := parsePoint(c.Query("search_lat"), c.Query("search_lng"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "search location: " + err.Error()})
			return
		}
		refs.Search = &p
	}
	if c.Query("user_lat") != "" || c.Query("user_lng") != "" {
		p, err := parsePoint(c.Query("user_lat"), c.Query("user_lng"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user location: " + err.Error()})
			return
		}
		refs.User = &p
	}

	var filter repository.Filter
	if s := c.Query("since"); s != "" {
		since, err := parseSince(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Since = &since
	}
	limit := 0
	if l := c.Query("limit"); l != "" {
		lim, err := strconv.Atoi(l)
		if err != nil || lim < 1 || lim > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = lim
	}

	spots, err := h.spots.ListSpots(c.Request.Context(), filter)
	if err != nil {
		slog.Error("error listing spots", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch spots"})
		return
	}

	_, radius, kind := refs.Active()
	h.metrics.ObserveSpotFilter(string(kind))
	visible := nearby.Filter(spots, refs)
	total := len(visible)
	// limit applies after the spatial filter
	if limit > 0 && limit < len(visible) {
		visible = visible[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"reference": kind,
		"radius_km": radius,
		"total":     total,
		"count":     len(visible),
		"spots":     toSpotGeoJSON(visible),
	})
}

type createSpotRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

func (h *Handler) createSpot(c *gin.Context) {
	var req createSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}
	if err := validateLatLng(*req.Latitude, *req.Longitude); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spot := &models.Spot{
		ID:        uuid.NewString(),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.spots.AddSpot(c.Request.Context(), spot); err != nil {
		slog.Error("error adding spot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save spot"})
		return
	}

	slog.Info("added spot", "id", spot.ID)
	c.JSON(http.StatusCreated, spot)
}

func (h *Handler) getSpot(c *gin.Context) {
	spot, err := h.spots.GetSpot(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "spot not found"})
		return
	}
	if err != nil {
		slog.Error("error getting spot", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch spot"})
		return
	}
	c.JSON(http.StatusOK, spot)
}

func (h *Handler) deleteSpot(c *gin.Context) {
	err := h.spots.DeleteSpot(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "spot not found"})
		return
	}
	if err != nil {
		slog.Error("error deleting spot", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete spot"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getDistance(c *gin.Context) {
	from, err := parsePoint(c.Query("from_lat"), c.Query("from_lng"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from: " + err.Error()})
		return
	}
	to, err := parsePoint(c.Query("to_lat"), c.Query("to_lng"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"distance_km": geo.Distance(from, to)})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parsePoint reads a latitude/longitude pair into an orb.Point ([lon, lat]).
func parsePoint(latStr, lngStr string) (orb.Point, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid latitude: %q", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid longitude: %q", lngStr)
	}
	if err := validateLatLng(lat, lng); err != nil {
		return orb.Point{}, err
	}
	return orb.Point{lng, lat}, nil
}

// parseSince accepts an RFC 3339 timestamp or a YYYY-MM-DD date.
func parseSince(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid since: %q", s)
}

func validateLatLng(lat, lng float64) error {
	if !(lat >= -90 && lat <= 90) {
		return fmt.Errorf("latitude out of range: %v", lat)
	}
	if !(lng >= -180 && lng <= 180) {
		return fmt.Errorf("longitude out of range: %v", lng)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
