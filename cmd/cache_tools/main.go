package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/history"
	"github.com/2beens/workoutlog/internal/kvstore"
	"github.com/2beens/workoutlog/internal/logging"
	"github.com/2beens/workoutlog/internal/remote"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// cache_tools runs one maintenance command against a single user's exercise history cache:
//
//	cache_tools -env prod -user u1 -cmd validate
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	userID := flag.String("user", "", "user id")
	command := flag.String("cmd", "dump", "one of [dump | rebuild | validate | clean | sync | restore | clear]")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall command timeout")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	if *userID == "" {
		log.Fatalln("user id not specified, use -user")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: cfg.PostgresHost,
		DBPort: cfg.PostgresPort,
		DBName: cfg.PostgresDBName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("WORKOUTLOG_REDIS_PASS"),
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()

	registry := history.NewRegistry(
		kvstore.NewRedisStore(rdb, cfg.RedisKeyPrefix),
		remote.NewPsqlStore(dbPool),
		history.Settings{
			Retention:       cfg.CacheRetention.Duration,
			RebuildWindow:   cfg.CacheRebuildWindow,
			RebuildPageSize: cfg.CacheRebuildPageSize,
			VerifyWindow:    cfg.CacheVerifyWindow,
		},
		nil,
	)

	if err := run(ctx, registry.For(*userID), *userID, *command); err != nil {
		log.Fatalf("%s: %s", *command, err)
	}
}

func run(ctx context.Context, cache *history.Cache, userID, command string) error {
	switch command {
	case "dump":
		out, err := json.MarshalIndent(cache.FullCache(ctx), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "rebuild":
		cache.BuildFromHistory(ctx, userID)
		log.Infof("rebuilt, %d exercises cached", len(cache.FullCache(ctx)))
	case "validate":
		if rebuilt := cache.ValidateAndRebuild(ctx, userID); rebuilt {
			log.Infoln("cache was out of sync and has been rebuilt")
		} else {
			log.Infoln("cache is consistent")
		}
	case "clean":
		log.Infof("removed %d old entries", cache.CleanOldEntries(ctx))
	case "sync":
		cache.SyncToRemote(ctx, userID)
		log.Infoln("synced to remote backup")
	case "restore":
		if !cache.RestoreFromRemote(ctx, userID) {
			return fmt.Errorf("no usable remote backup")
		}
		log.Infoln("restored from remote backup")
	case "clear":
		cache.Clear(ctx)
		log.Infoln("cache cleared")
	default:
		return fmt.Errorf("unknown command [%s]", command)
	}
	return nil
}
