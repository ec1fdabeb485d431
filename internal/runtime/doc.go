// Package runtime wires storage and config into a single-node analytics
// instance. It exposes Open/Close, basic health checks, and helpers to open
// internal components used by higher-level services.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	// Health
//	_ = rt.CheckHealth(context.Background())
//	// Open the event queue
//	q, _ := rt.OpenQueue(cfg.QueueName, queue.Options{LeaseMs: int64(cfg.LeaseMs)})
//	_, _ = q.Enqueue(context.Background(), map[string]string{"user_id": "u1"})
package runtime
