package config

import (
	"os"
	"strconv"
	"strings"
)

type EventsCfg struct {
	Driver      string
	Topic       string
	Brokers     string
	RedisAddr   string
	RedisStream string
	QueueSize   int
	// consumer group for parkmap-events
	GroupID string
}

type CharacterCfg struct {
	// collection name -> color name, in declaration order
	Traces           []NamedValue
	Seed             uint64
	RadiusMin        int
	RadiusMax        int
	CenterCandidates int
}

type NamedValue struct {
	Name  string
	Value string
}

type Config struct {
	Addr                string
	LogLevel            string
	LogConsole          bool
	LogSampleN          int
	ParkName            string
	DataDir             string
	AttractionsColl     string
	RouteColl           string
	Characters          CharacterCfg
	H3Res               int
	AssetBaseURL        string
	AssetDir            string
	AssetCacheSize      int
	CalloutMaxDistanceM float64
	InitialLayers       []string
	Events              EventsCfg
	MetricsEnabled      bool
	MetricsAddr         string
	MetricsPath         string
}

func FromEnv() Config {
	park := getenv("PARK_NAME", "MagicMountain")

	radiusMin := getint("CHARACTER_RADIUS_MIN", 5)
	radiusMax := getint("CHARACTER_RADIUS_MAX", 39)
	if radiusMin < 0 {
		radiusMin = 0
	}
	if radiusMax < radiusMin {
		radiusMin, radiusMax = 5, 39
	}

	res := getint("H3_RES", 9)
	if res < 0 || res > 15 {
		res = 9
	}

	return Config{
		Addr:            getenv("ADDR", ":8090"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogConsole:      getbool("LOG_CONSOLE", false),
		LogSampleN:      getint("LOG_SAMPLE_N", 0),
		ParkName:        park,
		DataDir:         getenv("DATA_DIR", ""),
		AttractionsColl: getenv("ATTRACTIONS_COLLECTION", park+"Attractions"),
		RouteColl:       getenv("ROUTE_COLLECTION", "EntranceToGoliathRoute"),
		Characters: CharacterCfg{
			Traces: parseNamedList(getenv("CHARACTERS",
				"BatmanLocations=blue,TazLocations=orange,TweetyBirdLocations=yellow")),
			Seed:             getuint64("CHARACTER_SEED", 0),
			RadiusMin:        radiusMin,
			RadiusMax:        radiusMax,
			CenterCandidates: getint("CHARACTER_CENTER_CANDIDATES", 4),
		},
		H3Res:               res,
		AssetBaseURL:        getenv("ASSET_BASE_URL", "/assets"),
		AssetDir:            getenv("ASSET_DIR", ""),
		AssetCacheSize:      getint("ASSET_CACHE_SIZE", 64),
		CalloutMaxDistanceM: getfloat("CALLOUT_MAX_DISTANCE_M", 50),
		InitialLayers:       splitCSV(getenv("INITIAL_LAYERS", "")),
		Events: EventsCfg{
			Driver:      strings.ToLower(getenv("EVENTS_DRIVER", "none")),
			Topic:       getenv("KAFKA_TOPIC", "parkmap-layer-toggles"),
			Brokers:     getenv("KAFKA_BROKERS", "localhost:9092"),
			RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
			RedisStream: getenv("REDIS_STREAM", "parkmap:layer-toggles"),
			QueueSize:   getint("EVENTS_QUEUE", 256),
			GroupID:     getenv("KAFKA_GROUP_ID", "parkmap-events"),
		},
		MetricsEnabled: getbool("METRICS_ENABLED", false),
		MetricsAddr:    getenv("METRICS_ADDR", ":9090"),
		MetricsPath:    getenv("METRICS_PATH", "/metrics"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getuint64(k string, def uint64) uint64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// parse "BatmanLocations=blue,TazLocations=orange", keeping order
func parseNamedList(s string) []NamedValue {
	var out []NamedValue
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.TrimSpace(kv[0])
		v := strings.TrimSpace(kv[1])
		if k == "" || v == "" {
			continue
		}
		out = append(out, NamedValue{Name: k, Value: v})
	}
	return out
}

func splitCSV(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BrokerList splits the comma separated KAFKA_BROKERS value.
func (e EventsCfg) BrokerList() []string {
	return splitCSV(e.Brokers)
}
