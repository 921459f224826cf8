package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	bundb "github.com/padraicbc/rpscrape/db"
	"github.com/padraicbc/rpscrape/handlers"
	mw "github.com/padraicbc/rpscrape/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves stored results and racecards over a JWT-protected JSON API.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cur)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newServer(a app, h *handlers.Handler) *echo.Echo {
	logger := a.log
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// Public
	e.POST("/rp/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	rp := e.Group("/rp", mw.JWT(h.JWTKey))
	rp.GET("/results", h.Results)
	rp.GET("/racecards", h.Racecards)
	rp.GET("/courses", h.Courses)
	rp.GET("/regions", h.Regions)
	rp.GET("/dates", h.Dates)
	return e
}

func runServe(ctx context.Context, a app) error {
	if err := a.cfg.RequireAPI(); err != nil {
		return err
	}
	db, err := a.database(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	e := newServer(a, handlers.New(db, bundb.NewStore(db), a.ref, a.cfg.JWTKey()))

	var s *http.Server
	if a.cfg.Debug || len(a.cfg.TLSDomains) == 0 {
		a.log.Info("starting server", zap.String("mode", "plain"), zap.String("addr", a.cfg.Port))
		s = &http.Server{Addr: a.cfg.Port, Handler: e}
	} else {
		autoTLS := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Cache:      autocert.DirCache(".cache"),
			HostPolicy: autocert.HostWhitelist(a.cfg.TLSDomains...),
		}
		s = &http.Server{
			Addr:         ":443",
			Handler:      e,
			TLSConfig:    autoTLS.TLSConfig(),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  15 * time.Second,
		}
		a.log.Info("starting server", zap.String("mode", "tls"), zap.Strings("domains", a.cfg.TLSDomains))
	}

	errc := make(chan error, 1)
	go func() {
		if s.TLSConfig != nil {
			errc <- s.ListenAndServeTLS("", "")
		} else {
			errc <- s.ListenAndServe()
		}
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
