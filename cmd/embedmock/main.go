package main

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"embedding-mock/internal/app"
	"embedding-mock/internal/embedapi"
	"embedding-mock/internal/httputil"
)

// embedRequest mirrors the body of POST /embed. Pointers tell a missing or
// null field apart from an empty string.
type embedRequest struct {
	Model    *string `json:"model" validate:"required"`
	Provider *string `json:"provider" validate:"required"`
	Text     *string `json:"text" validate:"required"`
}

var embedFields = []string{"model", "provider", "text"}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = listenAndRun(ctx, deps)
	stop()
	if err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// listenAndRun binds the configured address and serves until ctx is done.
func listenAndRun(ctx context.Context, deps app.Deps) error {
	ln, err := net.Listen("tcp", deps.Config.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", deps.Config.Addr(), err)
	}
	return run(ctx, deps, ln)
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, deps.Config.RequestTimeout)

	r.Post("/embed", embedHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	return r
}

// run serves on ln until ctx is done, then shuts down gracefully.
func run(ctx context.Context, deps app.Deps, ln net.Listener) error {
	srv := &http.Server{
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("embedding mock listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		deps.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func embedHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obj, err := httputil.ReadJSONObject(w, r, deps.Config.MaxBodyBytes)
		if err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		req, err := decodeEmbedRequest(obj)
		if err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		// The vector does not depend on the request content.
		vec, err := deps.Embedder.Embed(r.Context(), *req.Text)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to generate embedding", err, http.StatusInternalServerError)
			return
		}
		deps.Log.Debug("embedding generated", "model", *req.Model, "provider", *req.Provider, "dim", len(vec))

		httputil.WriteJSON(w, http.StatusOK, embedapi.Response{Embedding: vec})
	}
}

// decodeEmbedRequest type-checks each field, then runs the validator for
// presence. Every failing field is reported once, in embedFields order.
func decodeEmbedRequest(obj map[string]json.RawMessage) (embedRequest, error) {
	var req embedRequest
	dsts := []**string{&req.Model, &req.Provider, &req.Text}

	var detail []embedapi.FieldError
	for i, name := range embedFields {
		if fe := httputil.StringField(obj, name, dsts[i]); fe != nil {
			detail = append(detail, *fe)
		}
	}

	if err := httputil.Validator.Struct(&req); err != nil {
		missing := httputil.FieldErrors(err)
		if missing == nil {
			return embedRequest{}, err
		}
		for _, fe := range missing {
			if !slices.ContainsFunc(detail, func(d embedapi.FieldError) bool { return slices.Equal(d.Loc, fe.Loc) }) {
				detail = append(detail, fe)
			}
		}
	}

	if len(detail) > 0 {
		slices.SortStableFunc(detail, func(a, b embedapi.FieldError) int {
			return cmp.Compare(fieldIndex(a), fieldIndex(b))
		})
		return embedRequest{}, httputil.Unprocessable(detail...)
	}
	return req, nil
}

func fieldIndex(fe embedapi.FieldError) int {
	if len(fe.Loc) < 2 {
		return -1
	}
	return slices.Index(embedFields, fe.Loc[1])
}
