// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the operator endpoints of a ledger node: log level, head and metrics.
package admin

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/provenet/ledger/metrics"
	"github.com/provenet/ledger/store"
)

// HeadReader reads the committed head.
type HeadReader interface {
	Head() store.Head
}

// HTTPHandler returns the admin router. heads may be nil, in which case /admin/head is not served.
func HTTPHandler(logLevel *slog.LevelVar, heads HeadReader) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/admin/loglevel", getLogLevelHandler(logLevel)).Methods(http.MethodGet)
	router.HandleFunc("/admin/loglevel", postLogLevelHandler(logLevel)).Methods(http.MethodPost)
	if heads != nil {
		router.HandleFunc("/admin/head", getHeadHandler(heads)).Methods(http.MethodGet)
	}
	if h := metrics.HTTPHandler(); h != nil {
		router.PathPrefix("/metrics").Handler(h)
	}
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return handlers.CompressHandler(router)
}

// StartServer serves handler on addr. It returns the base URL and a function to stop the server.
func StartServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin addr [%v]", addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return "http://" + listener.Addr().String(), func() {
		srv.Close()
		g.Wait()
	}, nil
}
