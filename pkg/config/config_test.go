package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config failed: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeTempConfig(t, `
app:
  name: ordersync-test
  env: test
  log_level: debug
mysql:
  dsn: "root:root@tcp(127.0.0.1:3306)/test"
redis:
  addr: "127.0.0.1:6379"
lmstfy:
  host: "127.0.0.1"
  port: 7777
  namespace: "test"
  token: "tok"
  queue: "order_sync"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 默认值
	if cfg.Server.Port != "8080" {
		t.Errorf("server.port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Lmstfy.Attempts != 3 {
		t.Errorf("lmstfy.attempts = %d, want 3", cfg.Lmstfy.Attempts)
	}
	if cfg.Webhook.DedupTTL != 24*time.Hour {
		t.Errorf("webhook.dedup_ttl = %v, want 24h", cfg.Webhook.DedupTTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	// worker 进程要求至少配置一个 worker
	if err := cfg.ValidateWorker(); err == nil {
		t.Error("ValidateWorker must fail without workers")
	}
}

func TestLoadWorkerConfig(t *testing.T) {
	path := writeTempConfig(t, `
app:
  name: ordersync-worker
mysql:
  dsn: "root:root@tcp(127.0.0.1:3306)/test"
redis:
  addr: "127.0.0.1:6379"
lmstfy:
  host: "127.0.0.1"
  port: 7777
  queue: "order_sync"
webhook:
  dedup_ttl: 1h
workers:
  - name: order-sync-worker
    queue_name: order_sync
    subscriber:
      threads: 2
      rate: 100ms
      timeout: 3s
      ttr: 30s
      error_backoff: 1s
    processor:
      threads: 4
      buffer_size: 64
      timeout: 30s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := cfg.ValidateWorker(); err != nil {
		t.Fatalf("ValidateWorker failed: %v", err)
	}

	if cfg.Webhook.DedupTTL != time.Hour {
		t.Errorf("dedup_ttl = %v, want 1h", cfg.Webhook.DedupTTL)
	}

	w := cfg.Workers[0]
	if w.QueueName != "order_sync" {
		t.Errorf("queue_name = %s", w.QueueName)
	}
	if w.Subscriber.TTR != 30*time.Second {
		t.Errorf("ttr = %v, want 30s", w.Subscriber.TTR)
	}
	if w.Processor.Threads != 4 {
		t.Errorf("processor.threads = %d, want 4", w.Processor.Threads)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	path := writeTempConfig(t, `
app:
  name: ordersync-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate must fail without mysql/redis/lmstfy")
	}
}
