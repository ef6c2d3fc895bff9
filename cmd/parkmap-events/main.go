// Command parkmap-events prints layer toggle events from the configured sink
// as JSON lines.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mohammed-shakir/parkmap/internal/core/config"
	"github.com/mohammed-shakir/parkmap/internal/logger"
	"github.com/mohammed-shakir/parkmap/internal/toggleevents"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	driver := flag.String("driver", cfg.Events.Driver, "kafka or redis")
	fromStart := flag.Bool("from-start", false, "replay retained events before following")
	flag.Parse()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "parkmap-events",
	}, os.Stderr)
	log := logger.NewSlog(&zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	emit := func(_ context.Context, ev toggleevents.Event) error {
		return enc.Encode(ev)
	}

	var err error
	switch *driver {
	case "kafka":
		err = toggleevents.KafkaTail{
			Brokers:    cfg.Events.BrokerList(),
			Topic:      cfg.Events.Topic,
			GroupID:    cfg.Events.GroupID,
			FromOldest: *fromStart,
			Logger:     log,
		}.Run(ctx, emit)
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Events.RedisAddr})
		defer func() { _ = rdb.Close() }()
		from := "$"
		if *fromStart {
			from = "0"
		}
		err = toggleevents.RedisTail{
			Client: rdb,
			Stream: cfg.Events.RedisStream,
			From:   from,
			Logger: log,
		}.Run(ctx, emit)
	default:
		fmt.Fprintf(os.Stderr, "parkmap-events: driver %q has nothing to follow (want kafka or redis)\n", *driver)
		return 2
	}
	if err != nil {
		log.Error("tail stopped", "err", err)
		return 1
	}
	return 0
}
