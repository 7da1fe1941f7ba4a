package endpoints

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrangleEndpoint(t *testing.T) {
	srv := NewTestServer(nil, nil, "")
	RegisterWrangleEndpoint(srv)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/wrangle", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.Router.ServeHTTP(w, req)
		return w
	}

	t.Run("assigns interval ids", func(t *testing.T) {
		w := post(`{
			"records": [
				{"order": 1, "marker": "noise"},
				{"order": 2, "marker": "start"},
				{"order": 3, "marker": "noise"},
				{"order": 4, "marker": "end"},
				{"order": 5, "marker": "start"},
				{"order": 6, "marker": "end"}
			],
			"params": {
				"marker_column": "marker",
				"marker_start": "start",
				"marker_end": "end",
				"order_columns": "order"
			}
		}`)

		require.Equal(t, 200, w.Code)

		var resp WrangleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "sequential", resp.Engine)
		assert.Equal(t, "iids", resp.Target)
		require.Len(t, resp.Records, 6)

		ids := make([]float64, 6)
		for i, rec := range resp.Records {
			ids[i] = rec["iids"].(float64)
		}
		assert.Equal(t, []float64{0, 1, 1, 1, 2, 2}, ids)
	})

	t.Run("honors engine selection", func(t *testing.T) {
		w := post(`{
			"records": [
				{"order": 1, "marker": "start"},
				{"order": 2, "marker": "end"}
			],
			"params": {
				"marker_column": "marker",
				"marker_start": "start",
				"marker_end": "end",
				"order_columns": "order",
				"engine": "vectorized"
			}
		}`)

		require.Equal(t, 200, w.Code)
		var resp WrangleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "vectorized", resp.Engine)
	})

	t.Run("missing marker column is unprocessable", func(t *testing.T) {
		w := post(`{
			"records": [{"order": 1}],
			"params": {"marker_column": "marker", "marker_start": "start"}
		}`)
		assert.Equal(t, 422, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "marker")
	})

	t.Run("unknown engine is unprocessable", func(t *testing.T) {
		w := post(`{
			"records": [{"marker": "start"}],
			"params": {"marker_column": "marker", "marker_start": "start", "engine": "turbo"}
		}`)
		assert.Equal(t, 422, w.Code)
	})

	t.Run("parallel engine without order columns is unprocessable", func(t *testing.T) {
		w := post(`{
			"records": [{"marker": "start"}],
			"params": {"marker_column": "marker", "marker_start": "start", "engine": "parallel"}
		}`)
		assert.Equal(t, 422, w.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		w := post(`{"records": [`)
		assert.Equal(t, 400, w.Code)
	})

	t.Run("empty records are unprocessable", func(t *testing.T) {
		w := post(`{"records": [], "params": {"marker_column": "m", "marker_start": "s"}}`)
		assert.Equal(t, 422, w.Code)
	})
}
