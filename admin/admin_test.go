// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/log"
	"github.com/provenet/ledger/store"
)

type fixedHead store.Head

func (h fixedHead) Head() store.Head { return store.Head(h) }

func serve(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLogLevel(t *testing.T) {
	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelInfo)
	h := HTTPHandler(&logLevel, nil)

	rr := serve(t, h, http.MethodPost, "/admin/loglevel", []byte(`{"level":"debug"}`))
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "DBUG", resp.CurrentLevel)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	rr = serve(t, h, http.MethodPost, "/admin/loglevel", []byte(`{"level":"trace"}`))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, log.LevelTrace, logLevel.Level())

	rr = serve(t, h, http.MethodGet, "/admin/loglevel", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "TRCE", resp.CurrentLevel)
}

func TestLogLevelInvalid(t *testing.T) {
	var logLevel slog.LevelVar
	h := HTTPHandler(&logLevel, nil)

	tests := []struct {
		body string
		msg  string
	}{
		{`{"level":"invalid_body"}`, "Invalid verbosity level"},
		{`not json`, "Invalid request body"},
	}
	for _, tt := range tests {
		rr := serve(t, h, http.MethodPost, "/admin/loglevel", []byte(tt.body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp errorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, tt.msg, resp.ErrorMessage)
	}
	assert.Equal(t, slog.LevelInfo, logLevel.Level())

	rr := serve(t, h, http.MethodDelete, "/admin/loglevel", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHead(t *testing.T) {
	var logLevel slog.LevelVar
	root := ledger.Keccak256([]byte("root"))
	h := HTTPHandler(&logLevel, fixedHead{Number: 3, Root: root})

	rr := serve(t, h, http.MethodGet, "/admin/head", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp headResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, uint64(3), resp.Number)
	assert.Equal(t, root, resp.Root)

	rr = serve(t, HTTPHandler(&logLevel, nil), http.MethodGet, "/admin/head", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStartServer(t *testing.T) {
	var logLevel slog.LevelVar
	url, stop, err := StartServer("localhost:0", HTTPHandler(&logLevel, nil))
	require.NoError(t, err)
	defer stop()

	resp, err := http.Get(url + "/admin/loglevel")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "INFO")
}
