package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/rules"
	"github.com/MrEthical07/goGuard/upload"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type sample struct {
	rule  string
	input string
}

var samples = []sample{
	{rules.SearchInput, "quarterly report 2024"},
	{rules.SearchInput, "<script>alert(1)</script>"},
	{rules.Email, "alice@example.com"},
	{rules.Email, "not-an-email"},
	{rules.URL, "https://example.com/path?q=1"},
	{rules.URL, "javascript:alert(1)"},
	{rules.FileName, "invoice-0042.pdf"},
	{rules.FileName, "../../etc/passwd"},
	{rules.Phone, "+1 (555) 010-2000"},
	{rules.StrongPassword, "correct-Horse-9-battery"},
}

var roles = []string{"viewer", "editor", "manager", "admin", "ghost"}

var uploads = []upload.Candidate{
	{Size: 4 << 10, ContentType: "image/png"},
	{Size: 64 << 20, ContentType: "application/pdf"},
	{Size: 1 << 10, ContentType: "text/html"},
}

func main() {
	var (
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 500000, "operations per phase")
		signals     = flag.Bool("signals", false, "record rejection signals in redis")
		threshold   = flag.Int("threshold", 1000, "rejections per window before a burst is flagged")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		bufferSize  = flag.Int("audit-buffer", 4096, "audit dispatcher buffer")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops <= 0 || *bufferSize <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency, ops, and audit-buffer must be > 0")
		os.Exit(2)
	}

	cfg := goGuard.DefaultConfig()
	cfg.Metrics.EnableLatencyHistograms = true
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = *bufferSize

	builder := goGuard.New().
		WithAuditSink(goGuard.NoOpSink{}).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	if *signals {
		cfg.Signals.Enabled = true
		cfg.Signals.Threshold = *threshold

		client, cleanup, err := openRedis(*redisAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "redis: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		builder = builder.WithRedis(client)
	}

	monitor, err := builder.WithConfig(cfg).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build monitor: %v\n", err)
		os.Exit(1)
	}

	validateStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		s := samples[r.Intn(len(samples))]
		_, err := monitor.Validate(s.rule, s.input)
		return err
	})
	permissionStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		_ = monitor.HasPermission(roles[r.Intn(len(roles))], roles[r.Intn(len(roles)-1)])
		return nil
	})
	uploadStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		_ = monitor.ValidateUpload(uploads[r.Intn(len(uploads))])
		return nil
	})

	monitor.Close()

	fmt.Println("---- results ----")
	printStats("validate", validateStats)
	printStats("permission", permissionStats)
	printStats("upload", uploadStats)

	snap := monitor.MetricsSnapshot()
	fmt.Printf("accepted=%d rejected=%d bursts=%d observer_failures=%d audit_dropped=%d\n",
		snap.Counters[goGuard.MetricValidateAccepted],
		snap.Counters[goGuard.MetricValidateRejected],
		snap.Counters[goGuard.MetricRejectionBurst],
		snap.Counters[goGuard.MetricObserverFailure],
		monitor.AuditDropped(),
	)
	if *signals {
		n, err := monitor.RejectionCount(context.Background(), rules.SearchInput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rejection count: %v\n", err)
		} else {
			fmt.Printf("searchInput rejections in window: %d\n", n)
		}
	}
}

func openRedis(addr string) (redis.UniversalClient, func(), error) {
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		fmt.Printf("using redis at %s\n", addr)
		return client, func() { _ = client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	fmt.Printf("using miniredis at %s\n", mr.Addr())
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}

func runPhase(ops, concurrency int, op func(*rand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			local := make([]time.Duration, 0, ops/concurrency+1)
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					break
				}
				t0 := time.Now()
				if err := op(r); err != nil {
					atomic.AddInt64(&failures, 1)
				}
				local = append(local, time.Since(t0))
			}
			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Nanosecond),
		s.p95.Round(time.Nanosecond),
		s.p99.Round(time.Nanosecond),
	)
}
