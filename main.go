package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cedargrove/windchimes/buffer"
	"github.com/cedargrove/windchimes/chime"
	"github.com/cedargrove/windchimes/chimedb"
	"github.com/cedargrove/windchimes/data"
	"github.com/cedargrove/windchimes/env"
	"github.com/cedargrove/windchimes/tone"
	"github.com/cedargrove/windchimes/wind"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/sirupsen/logrus"
)

const version = "CG-Chimes-1.0.0"

type chimestation struct {
	striker  *chime.Striker
	engine   tone.Engine
	poller   *wind.Poller
	data     *data.ChimeData
	pub      *publisher
	db       *chimedb.DB
	clusters atomic.Uint64
	notes    atomic.Uint64
}

type webdata struct {
	TimeNow        string  `json:"time"`
	WindSpeed      float64 `json:"wind_speed"`
	WindSpeedAvg   float64 `json:"wind_speed_avg"`
	Amplitude      float64 `json:"amplitude"`
	Clusters       uint64  `json:"clusters"`
	Notes          uint64  `json:"notes"`
	ClusterSizeAvg float64 `json:"cluster_size_avg"`
}

var Prom_windspeed = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "windspeed",
		Help: "Latest wind speed mph",
	},
)

var Prom_amplitude = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "strike_amplitude",
		Help: "Strike volume for the latest wind speed",
	},
)

var Prom_clusterSize = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "cluster_size",
		Help: "Notes in the last cluster",
	},
)

var Prom_strikeClusters = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "strike_clusters_total",
		Help: "Clusters struck since startup",
	},
)

var Prom_strikeNotes = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "strike_notes_total",
		Help: "Individual notes struck since startup",
	},
)

// called by prometheus
func init() {
	logger.Infof("%v: Initialize prometheus...", time.Now().Format(time.RFC822))
	prometheus.MustRegister(
		Prom_windspeed,
		Prom_amplitude,
		Prom_clusterSize,
		Prom_strikeClusters,
		Prom_strikeNotes)
}

func main() {
	logger.Infof("Starting wind chimes [%v]", version)

	args := env.Args{
		Test:    flag.Bool("test", false, "test mode, fixed wind speed, no network"),
		Mute:    flag.Bool("mute", false, "pick clusters but play nothing"),
		Verbose: flag.Bool("verbose", false, "debug logging"),
		Scale:   flag.String("scale", env.DefaultScale, "tube set: "+strings.Join(chime.ScaleNames(), ", ")),
		Seed:    flag.Int64("seed", 0, "rng seed, 0 seeds from the clock"),
	}
	flag.Parse()

	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if *args.Test {
		logger.Info("TEST MODE")
	}

	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file [%v]", err)
	}

	scale, err := chime.ScaleByName(*args.Scale)
	if err != nil {
		logger.Errorf("Unknown scale!! [%v]", err)
		logger.Exit(1)
	}
	logger.Infof("Scale [%v] with [%v] tubes", *args.Scale, len(scale))

	var rng *rand.Rand
	if *args.Seed != 0 {
		rng = rand.New(rand.NewSource(*args.Seed))
	}
	striker, err := chime.NewStriker(scale, rng)
	if err != nil {
		logger.Errorf("Failed to build striker!! [%v]", err)
		logger.Exit(1)
	}

	c := &chimestation{striker: striker, engine: tone.Noop{}}
	if !*args.Mute {
		e, err := tone.NewBeep(scale)
		if err != nil {
			logger.Errorf("Audio unavailable, running muted [%v]", err)
		} else {
			c.engine = e
		}
	}

	c.data = data.CreateChimeData()
	c.data.AddBuffer("windSpeed", buffer.NewBuffer(24))
	c.data.AddBuffer("clusterSize", buffer.NewBuffer(60))

	c.poller = wind.NewPoller(windSource(args), env.WindPollPeriod)
	c.poller.OnRefresh(c.windRefreshed)

	if broker, ok := os.LookupEnv("MQTTBROKER"); ok {
		c.pub = newPublisher(broker)
	}
	if dsn, ok := os.LookupEnv("CHIMEDB"); ok {
		db, err := chimedb.Open(dsn)
		if err != nil {
			logger.Errorf("Failed to open strike db [%v]", err)
		} else {
			c.db = db
			defer db.Close()
		}
	}

	ctx := context.Background()

	// start go routines
	go c.poller.Start(ctx)
	c.startupSweep()
	go c.StartChimeLoop(ctx)
	go c.heartbeat()

	// start web service
	http.HandleFunc("/", c.handler)
	http.Handle("/metrics", promhttp.Handler())
	logger.Fatal(http.ListenAndServe(":8080", nil))
}

func windSource(args env.Args) wind.Source {
	if *args.Test {
		return wind.Fixed(5)
	}
	switch os.Getenv("WINDSOURCE") {
	case "nws":
		station, ok := os.LookupEnv("NWS_STATION")
		if !ok {
			station = env.DefaultNWSStation
		}
		return wind.NewNWS(station)
	default:
		token, tok := os.LookupEnv("OPENWEATHER_TOKEN")
		location, lok := os.LookupEnv("LOCATION")
		if !(tok && lok) {
			logger.Error("Weather API not configured! OPENWEATHER_TOKEN and LOCATION must be set.")
			logger.Exit(1)
		}
		return wind.NewOpenWeather(location, token)
	}
}

// windRefreshed runs after every successful poll. The lowest tube is
// sounded once so you can hear the unit is still online, like the
// original garden build did.
func (c *chimestation) windRefreshed(speed float64) {
	amp := chime.Amplitude(speed)
	Prom_windspeed.Set(speed)
	Prom_amplitude.Set(amp)
	c.data.GetBuffer("windSpeed").AddItem(speed)
	c.engine.Play(0, amp)
	if c.pub != nil {
		c.pub.publishWind(speed, amp)
	}
}

func (c *chimestation) heartbeat() {
	logger.Info("Heartbeat started")
	for {
		logger.Debugf("Heartbeat: wind [%.1f] mph, clusters [%v]", c.poller.Speed(), c.clusters.Load())
		time.Sleep(env.HeartbeatPeriod)
	}
}

func (c *chimestation) handler(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	speed := c.poller.Speed()
	wd := webdata{
		TimeNow:        time.Now().Format(time.RFC822),
		WindSpeed:      speed,
		WindSpeedAvg:   c.data.Average("windSpeed"),
		Amplitude:      chime.Amplitude(speed),
		Clusters:       c.clusters.Load(),
		Notes:          c.notes.Load(),
		ClusterSizeAvg: c.data.Average("clusterSize"),
	}

	js, err := json.Marshal(wd)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Debugf("Web read: [%v]", string(js))
	_, _ = rw.Write(js) // not much we can do if this fails
}
