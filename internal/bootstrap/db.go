package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type DBOptions struct {
	URI       string
	ConnectTO time.Duration
	PingTO    time.Duration
}

// OpenMongo connects a single shared client. The driver pools connections and
// is safe for concurrent use; no additional locking is layered on top.
func OpenMongo(ctx context.Context, opt DBOptions) (*mongo.Client, error) {
	if opt.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(opt.URI))
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()

	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return client, nil
}
