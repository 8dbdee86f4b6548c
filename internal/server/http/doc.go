// Package httpserver provides the REST surface for the KuenyaWZ backend:
// JSON endpoints for accounts, the product catalog, carts, transactions and
// product images, plus health and Prometheus metrics.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, NodeID: 1, Config: config.Default()})
//	s := httpserver.New(rt)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
