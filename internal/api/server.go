// Package api provides the read-only HTTP API for querying the board:
// tiles and heights, picking, lines, areas and movement plans.
// See DESIGN.md, "internal/api".
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/talgya/hexboard/internal/hex"
	"github.com/talgya/hexboard/internal/movement"
	"github.com/talgya/hexboard/internal/terrain"
	"github.com/talgya/hexboard/internal/world"
)

// Request size limits. Everything is computed on demand, so these bound the work per call.
const (
	maxAreaRadius = 64
	maxLineLength = 1024
	minSpeed      = 1e-3 // world units per second
)

// Server serves the board over HTTP.
type Server struct {
	Board       *world.Map
	Port        int
	CORSOrigins []string     // Localhost dev servers are always allowed.
	Limiter     *RateLimiter // Applied to line, area and path. Nil disables.
}

// Handler returns the routed API with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", getOnly(s.handleStatus))
	mux.HandleFunc("/api/v1/map", getOnly(s.handleMapRoutes))
	mux.HandleFunc("/api/v1/map/", getOnly(s.handleMapRoutes))
	mux.HandleFunc("/api/v1/pick", getOnly(s.handlePick))
	mux.HandleFunc("/api/v1/line", getOnly(rateLimited(s.Limiter, s.handleLine)))
	mux.HandleFunc("/api/v1/area", getOnly(rateLimited(s.Limiter, s.handleArea)))
	mux.HandleFunc("/api/v1/path", getOnly(rateLimited(s.Limiter, s.handlePath)))

	return corsMiddleware(s.CORSOrigins, mux)
}

// Start begins serving the HTTP API in a goroutine. The returned server can be
// shut down by the caller.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range origins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

type tileEntry struct {
	Q      int     `json:"q"`
	R      int     `json:"r"`
	Height int     `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

func newTileEntry(t *world.Tile) tileEntry {
	return tileEntry{
		Q:      t.Coord.Q,
		R:      t.Coord.R,
		Height: t.Height,
		X:      t.Position[0],
		Y:      t.Position[1],
		Z:      t.Position[2],
	}
}

// sortTiles orders tiles by q then r so responses are stable.
func sortTiles(tiles []tileEntry) {
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Q != tiles[j].Q {
			return tiles[i].Q < tiles[j].Q
		}
		return tiles[i].R < tiles[j].R
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	gen := s.Board.Field.Generator()
	layout := s.Board.Layout

	generator := map[string]any{"kind": gen.Name()}
	if seeded, ok := gen.(terrain.Seeded); ok {
		generator["seed"] = strconv.FormatUint(seeded.Seed(), 10)
	}
	if stepped, ok := gen.(interface{ Steps() []terrain.Step }); ok {
		generator["steps"] = stepped.Steps()
	}
	if flat, ok := gen.(terrain.Flat); ok {
		generator["height"] = flat.Height
	}

	writeJSON(w, map[string]any{
		"name":         "hexboard",
		"radius":       s.Board.Radius,
		"tiles":        s.Board.TileCount(),
		"height_scale": s.Board.HeightScale,
		"generator":    generator,
		"layout": map[string]float64{
			"inner_radius":   layout.InnerRadius(),
			"circumradius":   layout.Circumradius(),
			"small_diameter": layout.SmallDiameter(),
			"large_diameter": layout.LargeDiameter(),
		},
	})
}

// handleMapRoutes dispatches between bulk map (GET /api/v1/map) and tile detail (GET /api/v1/map/:q/:r).
func (s *Server) handleMapRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/map")
	if path == "" || path == "/" {
		s.handleBulkMap(w, r)
		return
	}
	s.handleTileDetail(w, r)
}

// handleBulkMap returns all tiles for the board renderer.
func (s *Server) handleBulkMap(w http.ResponseWriter, r *http.Request) {
	tiles := make([]tileEntry, 0, s.Board.TileCount())
	for _, t := range s.Board.Tiles {
		tiles = append(tiles, newTileEntry(t))
	}
	sortTiles(tiles)

	writeJSON(w, map[string]any{
		"radius": s.Board.Radius,
		"tiles":  tiles,
	})
}

func (s *Server) handleTileDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/map/:q/:r → parts[0]="" [1]="api" [2]="v1" [3]="map" [4]=q [5]=r
	if len(parts) != 6 {
		http.Error(w, "usage: /api/v1/map/:q/:r", http.StatusBadRequest)
		return
	}
	q, err1 := strconv.Atoi(parts[4])
	rr, err2 := strconv.Atoi(parts[5])
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	coord := hex.HexCoord{Q: q, R: rr}
	tile := s.Board.Get(coord)
	if tile == nil {
		http.Error(w, "tile not found", http.StatusNotFound)
		return
	}

	type neighborEntry struct {
		Q       int  `json:"q"`
		R       int  `json:"r"`
		OnBoard bool `json:"on_board"`
		Height  *int `json:"height,omitempty"` // Omitted off the board
	}
	neighbors := make([]neighborEntry, 0, 6)
	for _, nc := range coord.Neighbors() {
		entry := neighborEntry{Q: nc.Q, R: nc.R}
		if nt := s.Board.Get(nc); nt != nil {
			h := nt.Height
			entry.OnBoard = true
			entry.Height = &h
		}
		neighbors = append(neighbors, entry)
	}

	writeJSON(w, map[string]any{
		"tile":      newTileEntry(tile),
		"s":         coord.S(),
		"distance":  hex.Distance(hex.Origin, coord),
		"neighbors": neighbors,
	})
}

// handlePick resolves a world point (x, z; y is ignored) to the tile under it.
func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	x, err := queryFloat(r, "x")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	z, err := queryFloat(r, "z")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	coord := s.Board.Layout.FromWorld(mgl64.Vec2{x, z})
	resp := map[string]any{
		"coord":    coord,
		"on_board": false,
	}
	if t := s.Board.Get(coord); t != nil {
		resp["on_board"] = true
		resp["tile"] = newTileEntry(t)
	}
	writeJSON(w, resp)
}

func (s *Server) handleLine(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.endpoints(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"distance": hex.Distance(from, to),
		"coords":   s.Board.Line(from, to),
	})
}

func (s *Server) handleArea(w http.ResponseWriter, r *http.Request) {
	center := hex.Origin
	if r.URL.Query().Has("q") || r.URL.Query().Has("r") {
		q, err1 := strconv.Atoi(r.URL.Query().Get("q"))
		rr, err2 := strconv.Atoi(r.URL.Query().Get("r"))
		if err1 != nil || err2 != nil {
			http.Error(w, "invalid center", http.StatusBadRequest)
			return
		}
		center = hex.HexCoord{Q: q, R: rr}
	}
	radius, err := strconv.Atoi(r.URL.Query().Get("radius"))
	if err != nil || radius < 0 || radius > maxAreaRadius {
		http.Error(w, fmt.Sprintf("radius must be an integer in [0, %d]", maxAreaRadius), http.StatusBadRequest)
		return
	}

	tiles := make([]tileEntry, 0)
	for _, t := range s.Board.Area(center, radius) {
		tiles = append(tiles, newTileEntry(t))
	}
	sortTiles(tiles)

	writeJSON(w, map[string]any{
		"center": center,
		"radius": radius,
		"tiles":  tiles,
	})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.endpoints(w, r)
	if !ok {
		return
	}
	speed, err := queryFloat(r, "speed")
	if err != nil || speed < minSpeed {
		http.Error(w, fmt.Sprintf("speed must be a number >= %g", minSpeed), http.StatusBadRequest)
		return
	}

	writeJSON(w, newPathResponse(s.Board.Plan(from, to, speed)))
}

// endpoints parses ?from=q,r&to=q,r and enforces the line length limit.
func (s *Server) endpoints(w http.ResponseWriter, r *http.Request) (hex.HexCoord, hex.HexCoord, bool) {
	from, err := parseCoord(r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, errors.Wrap(err, "from").Error(), http.StatusBadRequest)
		return hex.HexCoord{}, hex.HexCoord{}, false
	}
	to, err := parseCoord(r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, errors.Wrap(err, "to").Error(), http.StatusBadRequest)
		return hex.HexCoord{}, hex.HexCoord{}, false
	}
	if hex.Distance(from, to) > maxLineLength {
		http.Error(w, fmt.Sprintf("line longer than %d tiles", maxLineLength), http.StatusBadRequest)
		return hex.HexCoord{}, hex.HexCoord{}, false
	}
	return from, to, true
}

type waypointEntry struct {
	Q int     `json:"q"`
	R int     `json:"r"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type legEntry struct {
	From    int     `json:"from"` // waypoint index
	To      int     `json:"to"`
	StartMS float64 `json:"start_ms"`
	EndMS   float64 `json:"end_ms"`
}

func newPathResponse(p movement.Path) map[string]any {
	waypoints := make([]waypointEntry, 0, len(p.Waypoints))
	for _, wp := range p.Waypoints {
		waypoints = append(waypoints, waypointEntry{
			Q: wp.Coord.Q, R: wp.Coord.R,
			X: wp.Position[0], Y: wp.Position[1], Z: wp.Position[2],
		})
	}
	legs := make([]legEntry, 0, len(p.Legs))
	for i, l := range p.Legs {
		legs = append(legs, legEntry{
			From:    i,
			To:      i + 1,
			StartMS: durationMS(l.Start),
			EndMS:   durationMS(l.End),
		})
	}
	return map[string]any{
		"speed":       p.Speed,
		"duration_ms": durationMS(p.Duration()),
		"waypoints":   waypoints,
		"legs":        legs,
	}
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// parseCoord reads "q,r".
func parseCoord(s string) (hex.HexCoord, error) {
	q, r, ok := strings.Cut(s, ",")
	if !ok {
		return hex.HexCoord{}, errors.Errorf("want q,r, got %q", s)
	}
	qi, err := strconv.Atoi(strings.TrimSpace(q))
	if err != nil {
		return hex.HexCoord{}, errors.Wrap(err, "q")
	}
	ri, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return hex.HexCoord{}, errors.Wrap(err, "r")
	}
	return hex.HexCoord{Q: qi, R: ri}, nil
}

func queryFloat(r *http.Request, key string) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, errors.Errorf("missing %s", key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
