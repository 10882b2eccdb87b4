package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/benchpoint/benchpoint/internal/adapters/objectstore"
	"github.com/benchpoint/benchpoint/internal/adapters/postgres"
	"github.com/benchpoint/benchpoint/internal/pkg/config"
	"github.com/benchpoint/benchpoint/internal/workflows"
)

func main() {
	cfg, err := config.Load("benchpoint-janitor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	images, err := objectstore.New(cfg.Storage)
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, "image-sweep-queue", worker.Options{})

	w.RegisterWorkflow(workflows.ImageSweepWorkflow)
	w.RegisterActivity(&workflows.SweepActivities{
		Markers: postgres.NewMarkerRepo(db),
		Images:  images,
	})

	log.Println("janitor worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
