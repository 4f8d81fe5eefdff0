// Package viewer serves the rendered chart on a local HTTP server and opens
// it in the default browser.
package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
	"github.com/yt-insights/ytviews/internal/chart"
	"github.com/yt-insights/ytviews/internal/models"
)

const shutdownTimeout = 5 * time.Second

// Viewer displays one chart until its context is cancelled
type Viewer struct {
	addr        string
	openBrowser bool
	log         *log.Entry

	// open is swapped out in tests
	open func(url string) error
}

// New creates a viewer listening on addr ("127.0.0.1:0" picks a free port)
func New(addr string, openBrowser bool, logger *log.Entry) *Viewer {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Viewer{
		addr:        addr,
		openBrowser: openBrowser,
		log:         logger,
		open:        browser.OpenURL,
	}
}

// Handler builds the router: "/" is the chart page, "/data" the records as
// JSON and "/health" a liveness probe.
func (v *Viewer) Handler(title string, table chart.Table, records []models.VideoRecord) (http.Handler, error) {
	var page bytes.Buffer
	if err := chart.Render(&page, title, table); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.VideoRecord{}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), v.requestLogger(), cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
	})
	router.GET("/data", func(c *gin.Context) {
		c.JSON(http.StatusOK, records)
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"videos": table.Len(),
		})
	})
	return router, nil
}

func (v *Viewer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		v.log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("viewer request")
	}
}

// Show serves the chart and blocks until ctx is done or the server fails
func (v *Viewer) Show(ctx context.Context, title string, table chart.Table, records []models.VideoRecord) error {
	handler, err := v.Handler(title, table, records)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", v.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", v.addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	url := "http://" + ln.Addr().String() + "/"
	v.log.Infof("Chart available at %s (Ctrl-C to exit)", url)
	if v.openBrowser {
		if err := v.open(url); err != nil {
			v.log.Warnf("Could not open browser: %v", err)
		}
	}

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("viewer server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("viewer shutdown: %w", err)
	}
	return nil
}
