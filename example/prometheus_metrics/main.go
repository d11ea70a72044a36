package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/taskpool/taskpool"
	promexport "github.com/taskpool/taskpool/observability/prometheus"
	"github.com/taskpool/taskpool/sample"
)

func main() {
	fmt.Println("=== Prometheus Metrics Example ===")

	registry := prom.NewRegistry()

	exporter, err := promexport.NewMetricsExporter("taskpool", registry, promexport.ExporterOptions{})
	if err != nil {
		panic(err)
	}

	pool, err := taskpool.NewWithConfig("ROOT", 4, taskpool.Config{Metrics: exporter})
	if err != nil {
		panic(err)
	}
	defer func() {
		pool.Shutdown()
		pool.Join()
	}()

	// Poll pool stats and monitor levels into gauges every 50ms.
	poller, err := promexport.NewSnapshotPoller(registry, 50*time.Millisecond)
	if err != nil {
		panic(err)
	}
	poller.AddPool(pool.Name(), pool)

	train := sample.NewTask(100, 100*time.Millisecond, 0)
	train.SetTitle("Training")
	poller.AddMonitor("training", train.Monitor())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	if err := pool.Submit(train); err != nil {
		panic(err)
	}

	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	fmt.Println("serving metrics on http://localhost:2112/metrics")
	if err := http.ListenAndServe(":2112", nil); err != nil {
		panic(err)
	}
}
