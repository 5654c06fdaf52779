package env

import "time"

const (
	// Wind speed is scaled against this maximum. Anything gustier than
	// 20mph just rings the chimes as hard as they go.
	MaxWindSpeedMph = 20.0

	// https://www.weather.gov/pqr/wind
	// A dead calm still gets a quiet chime, so the amplitude floor is
	// well above zero.
	AmplitudeMin = 0.40
	AmplitudeMax = 1.00

	// Seconds between clusters. Calm air chimes every couple of seconds,
	// a gale is nearly continuous.
	ClusterDelayMaxSec = 2.0
	ClusterDelayMinSec = 0.010
	ClusterJitterSec   = 0.5

	// Gap between the notes inside one cluster.
	NoteGapMinSec = 0.1
	NoteGapMaxSec = 0.5

	// The weather APIs only update their observations every half hour or
	// so, polling faster than this is pointless.
	WindPollPeriod = time.Minute * 20
	FetchTimeout   = time.Second * 30

	HeartbeatPeriod  = time.Second * 30
	StrikeRetryDelay = time.Second * 2

	// Pause between notes of the power-on scale sweep.
	SweepNoteGap = time.Millisecond * 400

	KphToMph = 0.621371

	DefaultScale      = "pentatonic"
	DefaultNWSStation = "KPSC"

	SampleRate   = 44100
	RingDuration = time.Second * 3
)
