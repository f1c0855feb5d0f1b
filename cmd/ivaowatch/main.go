package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	ivaooverlay "github.com/vatsimnerd/ivao-overlay"
	ivaoapi "github.com/vatsimnerd/ivao-overlay/ivao-api"
	"github.com/vatsimnerd/util/pubsub"
	"gopkg.in/natefinch/lumberjack.v2"
)

type cli struct {
	URL      string        `help:"Roster endpoint." default:"${url}"`
	APIKey   string        `help:"IVAO API key." env:"IVAO_API_KEY"`
	Period   time.Duration `help:"Polling period." default:"${period}"`
	Timeout  time.Duration `help:"Per-request timeout." default:"${timeout}"`
	Insecure bool          `help:"Skip TLS certificate verification."`

	LogLevel string `help:"Log level." default:"info" enum:"trace,debug,info,warn,error"`
	LogFile  string `help:"Write logs to a rotated file instead of stderr." type:"path"`

	MetricsAddr string `help:"Serve Prometheus metrics on this address." placeholder:"HOST:PORT"`
	GeoJSON     string `help:"Rewrite this GeoJSON file after every roster update." type:"path"`
}

var (
	log = logrus.WithField("module", "main")
)

func main() {
	// a missing .env is fine, the environment is used as is
	_ = godotenv.Load()

	var args cli
	kong.Parse(&args,
		kong.Name("ivaowatch"),
		kong.Description("Follows the IVAO ATC roster and reports controller changes."),
		kong.Vars{
			"url":     ivaoapi.IvaoATCSummaryURL,
			"period":  ivaooverlay.DefaultPollPeriod.String(),
			"timeout": ivaooverlay.DefaultPollTimeout.String(),
		},
	)

	setupLogging(args.LogLevel, args.LogFile)

	if args.APIKey == "" {
		log.Warn("IVAO_API_KEY is not set, the roster endpoint will likely refuse requests")
	}

	p := ivaoapi.New(&ivaoapi.Config{
		URL:                args.URL,
		APIKey:             args.APIKey,
		InsecureSkipVerify: args.Insecure,
		Poll: ivaooverlay.PollConfig{
			Period:  args.Period,
			Timeout: args.Timeout,
		},
	})

	var srv *http.Server
	if args.MetricsAddr != "" {
		srv = serveMetrics(p, args.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watch(ctx, p, args.GeoJSON); err != nil {
		log.WithError(err).Fatal("error starting provider")
	}

	log.Info("shutting down")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("error stopping metrics server")
		}
	}
}

func setupLogging(level, file string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if file != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    32, // MB
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		})
	}
}

func serveMetrics(p *ivaoapi.Provider, addr string) *http.Server {
	reg := prometheus.NewRegistry()
	if err := p.RegisterMetrics(reg); err != nil {
		log.WithError(err).Fatal("error registering metrics")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()
	return srv
}

// watch runs p until ctx is done. The subscription is closed by p.Stop.
func watch(ctx context.Context, p *ivaoapi.Provider, geojsonPath string) error {
	sub := p.Subscribe(1024)
	if err := p.Start(); err != nil {
		return err
	}
	defer p.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			handleUpdate(p, upd, geojsonPath)
		}
	}
}

func handleUpdate(p *ivaoapi.Provider, upd pubsub.Update, geojsonPath string) {
	switch upd.UType {
	case pubsub.UpdateTypeSet:
		if ctrl, ok := upd.Obj.(ivaoapi.Controller); ok {
			log.WithFields(logrus.Fields{
				"callsign":  ctrl.Callsign,
				"role":      ctrl.Role(),
				"frequency": ctrl.Session.Frequency,
			}).Info("SET")
		}
	case pubsub.UpdateTypeDelete:
		if ctrl, ok := upd.Obj.(ivaoapi.Controller); ok {
			log.WithField("callsign", ctrl.Callsign).Info("DELETE")
		}
	case pubsub.UpdateTypeFin:
		if geojsonPath == "" {
			return
		}
		if err := writeGeoJSON(p.Snapshot(), geojsonPath); err != nil {
			log.WithError(err).Error("error writing geojson")
		}
	}
}

func writeGeoJSON(snap *ivaoapi.Snapshot, path string) error {
	if snap == nil {
		return nil
	}
	data, err := snap.FeatureCollection().MarshalJSON()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
