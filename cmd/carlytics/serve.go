package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abtech/carlytics"
	cargin "github.com/abtech/carlytics/gin"
	"github.com/gin-gonic/gin"
)

// shutdownTimeout bounds graceful shutdown of the dashboard.
const shutdownTimeout = 5 * time.Second

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	gin.SetMode(gin.ReleaseMode)

	h := cargin.NewHandler(deps.Analyzer, deps.Session, deps.Sources)
	h.Runs = deps.Runs
	h.Logger = deps.Logger

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           cargin.New(h, cargin.Config{Origins: c.Origin, Logger: deps.Logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	fmt.Fprintf(deps.Stdout, "Serving dashboard on http://%s\n", c.Addr)

	select {
	case err := <-errc:
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return carlytics.WrapErrorf(err, carlytics.EINVALID, "listen on %s: %v", c.Addr, err)
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
