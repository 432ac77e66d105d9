package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "server:\n  addr: :9999\n  model: /models\n  max_batch: 50\n  cors:\n    enabled: true\n    origins: [\"https://a.example\"]\ntrain:\n  n_estimators: 20\n  bootstrap: false\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Server.Model != "/models" || cfg.Server.MaxBatch != 50 {
		t.Fatalf("unexpected server cfg: %+v", cfg.Server)
	}
	if !cfg.Server.CORS.Enabled || len(cfg.Server.CORS.Origins) != 1 {
		t.Fatalf("unexpected cors cfg: %+v", cfg.Server.CORS)
	}
	if cfg.Train.NEstimators != 20 || cfg.Train.Bootstrap == nil || *cfg.Train.Bootstrap {
		t.Fatalf("unexpected train cfg: %+v", cfg.Train)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"server":{"addr":":7070","model":"/m","rate_limit_rps":5.5},"train":{"max_depth":12,"oob_score":true}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" || cfg.Server.Model != "/m" || cfg.Server.RateLimitRPS != 5.5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Train.MaxDepth != 12 || !cfg.Train.OOBScore {
		t.Fatalf("unexpected train cfg: %+v", cfg.Train)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "[server]\naddr=\":8081\"\nmodel=\"/x\"\nwatch=true\n[train]\ntest_size=0.25\nseed=7\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8081" || cfg.Server.Model != "/x" || !cfg.Server.Watch {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Train.TestSize != 0.25 || cfg.Train.Seed == nil || *cfg.Train.Seed != 7 {
		t.Fatalf("unexpected train cfg: %+v", cfg.Train)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load("/definitely/not/a/real/file-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
	for name, body := range map[string]string{
		"bad.yaml": "server: [unclosed\n",
		"bad.json": `{ "server": { "addr": } }`,
		"bad.toml": "[server]\naddr=:8080\n",
	} {
		if _, err := Load(writeTempFile(t, d, name, body)); err == nil {
			t.Fatalf("expected unmarshal error for %s", name)
		}
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	s, tr := cfg.Server, cfg.Train
	if s.Addr != ":8080" || s.Model != "models" || s.LogLevel != "info" || s.MaxBodyBytes != 1<<20 || s.MaxBatch != 1000 {
		t.Fatalf("unexpected server defaults: %+v", s)
	}
	if s.CORS.Enabled || len(s.CORS.Origins) != 0 {
		t.Fatalf("cors should stay disabled: %+v", s.CORS)
	}
	if tr.TestSize != 0.2 || tr.Seed == nil || *tr.Seed != 42 || tr.NEstimators != 100 || tr.MinSamplesSplit != 2 || tr.MinSamplesLeaf != 1 || tr.MaxFeatures != 1 {
		t.Fatalf("unexpected train defaults: %+v", tr)
	}
	if tr.Bootstrap == nil || !*tr.Bootstrap {
		t.Fatalf("bootstrap should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestDefaultsKeepExplicitValues(t *testing.T) {
	off := false
	seed := int64(3)
	cfg := Config{
		Server: ServerConfig{Addr: ":1", CORS: CORSConfig{Enabled: true}},
		Train:  TrainConfig{Bootstrap: &off, Seed: &seed},
	}
	cfg.Defaults()
	if cfg.Server.Addr != ":1" || *cfg.Train.Seed != 3 || *cfg.Train.Bootstrap {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
	if len(cfg.Server.CORS.Origins) != 1 || cfg.Server.CORS.Origins[0] != "*" {
		t.Fatalf("cors defaults not applied: %+v", cfg.Server.CORS)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HOUSINGD_ADDR", ":9000")
	t.Setenv("HOUSINGD_MODEL", "/srv/model.gob")
	t.Setenv("HOUSINGD_LOG_LEVEL", "debug")
	t.Setenv("HOUSINGD_MAX_BATCH", "10")
	t.Setenv("HOUSINGD_MAX_BODY_BYTES", "2048")
	t.Setenv("HOUSINGD_RATE_LIMIT_RPS", "2.5")
	t.Setenv("HOUSINGD_WATCH", "true")
	t.Setenv("HOUSINGD_CORS_ORIGINS", "https://a.example, https://b.example")

	var cfg Config
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	s := cfg.Server
	if s.Addr != ":9000" || s.Model != "/srv/model.gob" || s.LogLevel != "debug" || s.MaxBatch != 10 || s.MaxBodyBytes != 2048 || s.RateLimitRPS != 2.5 || !s.Watch {
		t.Fatalf("unexpected cfg: %+v", s)
	}
	if !s.CORS.Enabled || len(s.CORS.Origins) != 2 || s.CORS.Origins[1] != "https://b.example" {
		t.Fatalf("unexpected cors: %+v", s.CORS)
	}
}

func TestApplyEnvPort(t *testing.T) {
	t.Setenv("HOUSINGD_ADDR", "")
	t.Setenv("PORT", "5000")
	var cfg Config
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Fatalf("addr=%q", cfg.Server.Addr)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("HOUSINGD_MAX_BATCH", "lots")
	var cfg Config
	err := cfg.ApplyEnv()
	if err == nil || !strings.Contains(err.Error(), "HOUSINGD_MAX_BATCH") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	cfg.Train.TestSize = 1.5
	cfg.Server.LogLevel = "loud"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"Config.Train.TestSize (lt=1)", "Config.Server.LogLevel (oneof="} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestSeedZeroFromFileIsKept(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "cfg.yaml", "train:\n  seed: 0\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Defaults()
	if cfg.Train.Seed == nil || *cfg.Train.Seed != 0 {
		t.Fatalf("explicit seed 0 replaced: %v", cfg.Train.Seed)
	}
}
