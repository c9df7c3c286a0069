//go:build integration

package integration_testing

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/2beens/workoutlog/internal"
	"github.com/2beens/workoutlog/internal/config"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	log "github.com/sirupsen/logrus"
)

const (
	serverPort     = 9000
	serverHost     = "localhost"
	testDBName     = "workoutlog_db"
	redisKeyPrefix = "workoutlog-it::"
)

var serverEndpoint = "http://" + net.JoinHostPort(serverHost, strconv.Itoa(serverPort))

type Env struct {
	DB          *sql.DB
	Redis       *redis.Client
	Config      *config.Config
	dockerPool  *dockertest.Pool
	server      *internal.Server
	teardown    []func()
	cancelServe context.CancelFunc
}

func newEnv() (_ *Env, err error) {
	env := &Env{
		teardown: make([]func(), 0),
	}
	defer func() {
		if err != nil {
			env.cleanup()
		}
	}()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	env.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}

	// uses pool to try to connect to Docker
	if err = env.dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	redisPort, err := env.redisSetup()
	if err != nil {
		return nil, fmt.Errorf("setup redis: %w", err)
	}

	pgPort, err := env.postgresSetup()
	if err != nil {
		return nil, fmt.Errorf("setup postgres: %w", err)
	}

	env.Config = getTestConfig(redisPort, pgPort)

	ctx, cancel := context.WithCancel(context.Background())
	env.cancelServe = cancel
	env.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  env.Config,
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}

	env.server.Serve(ctx, env.Config.Host, env.Config.Port)

	return env, nil
}

func (e *Env) cleanup() {
	if e.cancelServe != nil {
		e.cancelServe()
	}
	if e.server != nil {
		e.server.GracefulShutdown()
	}
	if e.DB != nil {
		_ = e.DB.Close()
	}
	if e.Redis != nil {
		_ = e.Redis.Close()
	}
	for _, teardown := range e.teardown {
		teardown()
	}
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:             "development",
		Host:                    serverHost,
		Port:                    serverPort,
		LogLevel:                "debug",
		PrometheusMetricsHost:   serverHost,
		PrometheusMetricsPort:   "0",
		RedisHost:               "localhost",
		RedisPort:               redisPort,
		RedisKeyPrefix:          redisKeyPrefix,
		PostgresPort:            postgresPort,
		PostgresHost:            "localhost",
		PostgresDBName:          testDBName,
		RequestsRateLimitPerMin: 10_000,
		ProgressFreshnessBytes:  1024 * 1024,
		ProgressTimezone:        "UTC",
	}
}

func (e *Env) redisSetup() (string, error) {
	redisResource, err := e.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}

	e.teardown = append(e.teardown, func() {
		if err := redisResource.Close(); err != nil {
			log.Errorf("close redis resource: %s", err)
		}
	})

	redisPort := redisResource.GetPort("6379/tcp")
	e.Redis = redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", redisPort),
	})
	if err := e.dockerPool.Retry(func() error {
		return e.Redis.Ping(context.Background()).Err()
	}); err != nil {
		return "", fmt.Errorf("ping redis: %w", err)
	}

	return redisPort, nil
}

func (e *Env) postgresSetup() (string, error) {
	pgResource, err := e.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_HOST_AUTH_METHOD=trust",
			"POSTGRES_DB=" + testDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %w", err)
	}

	e.teardown = append(e.teardown, func() {
		if err := pgResource.Close(); err != nil {
			log.Errorf("close postgres resource: %s", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, testDBName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %w", err)
	}
	e.DB = db

	if err := e.dockerPool.Retry(db.Ping); err != nil {
		return "", fmt.Errorf("ping db: %w", err)
	}

	schema, err := os.ReadFile("../sql/schema.sql")
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		return "", fmt.Errorf("run schema script: %w", err)
	}

	return pgPort, nil
}
