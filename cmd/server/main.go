package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/johannesbremer/praxisplaner/internal/api"
	"github.com/johannesbremer/praxisplaner/internal/job"
	"github.com/johannesbremer/praxisplaner/internal/repository"
	"github.com/johannesbremer/praxisplaner/internal/repository/memory"
	"github.com/johannesbremer/praxisplaner/internal/repository/postgres"
	"github.com/johannesbremer/praxisplaner/internal/service"
)

func main() {
	db, closeDB := openDatabase()
	defer closeDB()

	app := service.NewApp(db)
	router := api.NewRouter(app)

	stopWorker := maybeStartWorker(app)
	defer stopWorker()

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	go func() {
		log.Printf("starting server on %s", addr)
		if err := router.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := router.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}
}

// openDatabase selects the Postgres backend when DATABASE_URL is set,
// falling back to the dependency-free in-memory store otherwise.
func openDatabase() (repository.Database, func()) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("DATABASE_URL not set, using in-memory repository")
		store := memory.NewStore()
		db := memory.NewDatabase(store)
		return db, func() { _ = db.Close() }
	}

	sqldb, err := postgres.New(dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	db := postgres.NewDatabase(sqldb)
	return db, func() { _ = db.Close() }
}

// maybeStartWorker launches an in-process asynq worker consuming the
// slots:prewarm queue when REDIS_ADDR is set. The core API never depends
// on this worker running; it only speeds up subsequent reads.
func maybeStartWorker(app *service.App) func() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return func() {}
	}

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 4})
	mux := asynq.NewServeMux()
	job.NewJobHandlers(app).RegisterHandlers(mux)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Printf("asynq worker stopped: %v", err)
		}
	}()

	return srv.Shutdown
}
