package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexboard/internal/hex"
	"github.com/talgya/hexboard/internal/terrain"
	"github.com/talgya/hexboard/internal/world"
)

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := world.SmallTestConfig()
	cfg.Terrain = terrain.Config{Kind: terrain.KindRandom, MinHeight: 1, MaxHeight: 6, Seed: 21}
	s := &Server{Board: world.Generate(cfg), CORSOrigins: []string{"https://board.example"}}
	return s, s.Handler()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestStatus(t *testing.T) {
	_, h := testServer(t)
	var body struct {
		Radius    int `json:"radius"`
		Tiles     int `json:"tiles"`
		Generator struct {
			Kind string `json:"kind"`
			Seed string `json:"seed"`
		} `json:"generator"`
		Layout map[string]float64 `json:"layout"`
	}
	decode(t, get(t, h, "/api/v1/status"), &body)
	assert.Equal(t, 5, body.Radius)
	assert.Equal(t, 91, body.Tiles)
	assert.Equal(t, "random", body.Generator.Kind)
	assert.Equal(t, "21", body.Generator.Seed)
	assert.Equal(t, hex.DefaultInnerRadius, body.Layout["inner_radius"])
}

func TestBulkMap(t *testing.T) {
	s, h := testServer(t)
	var body struct {
		Tiles []tileEntry `json:"tiles"`
	}
	decode(t, get(t, h, "/api/v1/map"), &body)
	require.Len(t, body.Tiles, 91)
	for i, e := range body.Tiles {
		c := hex.HexCoord{Q: e.Q, R: e.R}
		assert.Equal(t, s.Board.Height(c), e.Height)
		if i > 0 {
			prev := body.Tiles[i-1]
			assert.True(t, prev.Q < e.Q || (prev.Q == e.Q && prev.R < e.R), "sorted")
		}
	}
}

func TestTileDetail(t *testing.T) {
	s, h := testServer(t)
	var body struct {
		Tile      tileEntry `json:"tile"`
		S         int       `json:"s"`
		Distance  int       `json:"distance"`
		Neighbors []struct {
			Q       int  `json:"q"`
			R       int  `json:"r"`
			OnBoard bool `json:"on_board"`
			Height  *int `json:"height"`
		} `json:"neighbors"`
	}
	decode(t, get(t, h, "/api/v1/map/5/-2"), &body)
	assert.Equal(t, s.Board.Height(hex.HexCoord{Q: 5, R: -2}), body.Tile.Height)
	assert.Equal(t, -3, body.S)
	assert.Equal(t, 5, body.Distance)
	require.Len(t, body.Neighbors, 6)
	onBoard := 0
	for _, n := range body.Neighbors {
		if n.OnBoard {
			onBoard++
			require.NotNil(t, n.Height)
		} else {
			assert.Nil(t, n.Height)
		}
	}
	assert.Equal(t, 4, onBoard)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/map/9/9").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/map/a/b").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/map/1").Code)
}

func TestPick(t *testing.T) {
	s, h := testServer(t)
	p := s.Board.Position(hex.HexCoord{Q: -2, R: 3})

	var body struct {
		Coord   hex.HexCoord `json:"coord"`
		OnBoard bool         `json:"on_board"`
		Tile    *tileEntry   `json:"tile"`
	}
	rec := get(t, h, "/api/v1/pick?x="+ftoa(p[0]+0.1)+"&z="+ftoa(p[2]-0.1))
	decode(t, rec, &body)
	assert.Equal(t, hex.HexCoord{Q: -2, R: 3}, body.Coord)
	assert.True(t, body.OnBoard)
	require.NotNil(t, body.Tile)

	body.Tile = nil
	decode(t, get(t, h, "/api/v1/pick?x=500&z=0"), &body)
	assert.False(t, body.OnBoard)
	assert.Nil(t, body.Tile)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/pick?x=1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/pick?x=NaN&z=0").Code)
}

func TestLine(t *testing.T) {
	_, h := testServer(t)
	var body struct {
		Distance int            `json:"distance"`
		Coords   []hex.HexCoord `json:"coords"`
	}
	decode(t, get(t, h, "/api/v1/line?from=0,0&to=3,-1"), &body)
	assert.Equal(t, 3, body.Distance)
	require.Len(t, body.Coords, 4)
	assert.Equal(t, hex.HexCoord{Q: 0, R: 0}, body.Coords[0])
	assert.Equal(t, hex.HexCoord{Q: 3, R: -1}, body.Coords[3])

	decode(t, get(t, h, "/api/v1/line?from=2,2&to=2,2"), &body)
	assert.Equal(t, []hex.HexCoord{{Q: 2, R: 2}}, body.Coords)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/line?from=0&to=1,1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/line?from=0,0&to=5000,0").Code)
}

func TestArea(t *testing.T) {
	_, h := testServer(t)
	var body struct {
		Tiles []tileEntry `json:"tiles"`
	}
	decode(t, get(t, h, "/api/v1/area?radius=2"), &body)
	assert.Len(t, body.Tiles, 19)

	decode(t, get(t, h, "/api/v1/area?q=5&r=0&radius=0"), &body)
	assert.Len(t, body.Tiles, 1)

	decode(t, get(t, h, "/api/v1/area?q=40&r=0&radius=1"), &body)
	assert.Empty(t, body.Tiles)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/area?radius=-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/area?radius=1000").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/area?q=1&radius=1").Code)
}

func TestPath(t *testing.T) {
	_, h := testServer(t)
	var body struct {
		DurationMS float64         `json:"duration_ms"`
		Waypoints  []waypointEntry `json:"waypoints"`
		Legs       []legEntry      `json:"legs"`
	}
	decode(t, get(t, h, "/api/v1/path?from=-2,0&to=2,0&speed=3"), &body)
	require.Len(t, body.Waypoints, 5)
	require.Len(t, body.Legs, 4)
	assert.Equal(t, body.Legs[3].EndMS, body.DurationMS)
	for i := 1; i < len(body.Legs); i++ {
		assert.Equal(t, body.Legs[i-1].EndMS, body.Legs[i].StartMS)
	}

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/path?from=0,0&to=1,0").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/path?from=0,0&to=1,0&speed=0").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/path?from=0,0&to=1,0&speed=1e-300").Code)
}

func TestMethodsAndCORS(t *testing.T) {
	_, h := testServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/status", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/map", nil)
	req.Header.Set("Origin", "https://board.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://board.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParseCoord(t *testing.T) {
	c, err := parseCoord(" -3 , 7")
	require.NoError(t, err)
	assert.Equal(t, hex.HexCoord{Q: -3, R: 7}, c)
	_, err = parseCoord("3")
	assert.Error(t, err)
	_, err = parseCoord("x,1")
	assert.Error(t, err)
}
