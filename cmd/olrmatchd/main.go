package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	appconfig "github.com/lintang-b-s/olrmatch/pkg/config"
	"github.com/lintang-b-s/olrmatch/pkg/graphstore"
	"github.com/lintang-b-s/olrmatch/pkg/logging"
	"github.com/lintang-b-s/olrmatch/pkg/matchcache"
	"github.com/lintang-b-s/olrmatch/pkg/memgraph"
	"github.com/lintang-b-s/olrmatch/pkg/osmgraph"
	"github.com/lintang-b-s/olrmatch/pkg/spatialindex"
	"github.com/lintang-b-s/olrmatch/pkg/trace"
)

// @title		olrmatch decode API
// @version	1.0
// @description	decodes OpenLR-shaped ordered way-point location references into concrete road-graph paths.

var (
	listenAddr   = flag.String("listenaddr", ":5051", "server listen address")
	pbfPath      = flag.String("pbf", "", "OpenStreetMap PBF extract to build the graph from (if set, the graph is not loaded from graphstore but is saved to it)")
	storeDir     = flag.String("store", "./data/olrmatch.graphstore", "graphstore directory to load/save the built graph")
	configPath   = flag.String("configpath", "./data", "directory to look for config.yaml in")
	debugLogger  = flag.Bool("debug", false, "use a development (human-readable) logger instead of production JSON logging")
	traceDir     = flag.String("tracedir", "./data/trace", "directory search-exhaustion diagnostic dumps are written to")
	cacheDir     = flag.String("matchcache", "./data/olrmatch.matchcache", "matchcache directory; set to empty to disable result caching")
	useRateLimit = flag.Bool("ratelimit", false, "use rate limit")
)

// rateLimitRPS and rateLimitBurst bound the per-client token bucket when
// -ratelimit is set. The decode endpoint runs a full staged search per
// request, so a client with no limit at all can exhaust the search's own
// road-candidate budget on every request; these numbers give a single
// caller comfortable burst headroom without opening the door to that.
const (
	rateLimitRPS   = 10.0
	rateLimitBurst = 20
)

func main() {
	flag.Parse()

	logger, err := logging.New(*debugLogger)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := appconfig.Load(*configPath, "config")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	g, err := loadGraph(logger)
	if err != nil {
		logger.Fatal("load graph", zap.Error(err))
	}

	var cache *matchcache.Cache
	if *cacheDir != "" {
		cache, err = matchcache.Open(*cacheDir)
		if err != nil {
			logger.Warn("open matchcache, continuing without result caching", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	svc := NewMatchService(g, g.RoadInfo(), cfg, trace.New(*traceDir), cache)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if *useRateLimit {
		r.Use(newRateLimiter(rateLimitRPS, rateLimitBurst).Limit)
	}
	r.Mount("/debug", middleware.Profiler())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	Router(r, svc)

	logger.Info("olrmatchd ready", zap.String("addr", *listenAddr))
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}

// loadGraph builds the road graph either from a fresh PBF extract (saving it
// to the graphstore for next time) or from a previously persisted one, then
// wraps it in pkg/spatialindex's R-tree index so FindClosestEdges (called
// once per way-point on every router init, §4.5 steps 2 and 4) doesn't linear-scan
// memgraph's own edge slice against a real-sized road network.
func loadGraph(logger *zap.Logger) (*spatialindex.Graph, error) {
	if *pbfPath != "" {
		logger.Info("building graph from OpenStreetMap extract", zap.String("pbf", *pbfPath))
		mg, err := osmgraph.Build(*pbfPath)
		if err != nil {
			return nil, err
		}
		if store, serr := graphstore.Open(*storeDir); serr != nil {
			logger.Warn("open graphstore for save", zap.Error(serr))
		} else {
			if err := store.SaveEdges(mg.RealEdges()); err != nil {
				logger.Warn("save graph to graphstore", zap.Error(err))
			}
			store.Close()
		}
		return spatialindex.NewGraph(mg)
	}

	store, err := graphstore.Open(*storeDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	mg := memgraph.New()
	if edges, err := store.LoadEdges(); err != nil {
		logger.Warn("no persisted graph found, starting empty", zap.Error(err))
	} else {
		mg.LoadRealEdges(edges)
	}
	return spatialindex.NewGraph(mg)
}
