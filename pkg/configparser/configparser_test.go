package configparser

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Port    int           `env:"SERVER_PORT" default:"8080" validate:"gt=0"`
		Timeout time.Duration `env:"SERVER_TIMEOUT" default:"5s"`
	}
	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS" default:"localhost:9092"`
		Enabled bool     `env:"KAFKA_ENABLED" default:"false"`
	}
	Name  string  `env:"APP_NAME" validate:"required"`
	Ratio float64 `env:"APP_RATIO" default:"0.5"`
}

func TestFlattenYaml(t *testing.T) {
	t.Setenv("CFG_TEST_PASSWORD", "from-env")

	doc := []byte(`
database:
  host: db
  port: 5432
  password: ${CFG_TEST_PASSWORD:-fallback}
  user: ${CFG_TEST_MISSING:-ride}
kafka:
  brokers:
    - k1:9092
    - k2:9092
`)
	got, err := FlattenYaml(doc)
	if err != nil {
		t.Fatalf("FlattenYaml: %v", err)
	}

	want := map[string]string{
		"DATABASE_HOST":     "db",
		"DATABASE_PORT":     "5432",
		"DATABASE_PASSWORD": "from-env",
		"DATABASE_USER":     "ride",
		"KAFKA_BROKERS":     "k1:9092,k2:9092",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FlattenYaml() = %v, want %v", got, want)
	}
}

func TestLoadAndParseYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "server:\n  port: 9090\nkafka:\n  brokers: [a:1, b:2]\n  enabled: true\napp:\n  name: coordinator\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"SERVER_PORT", "SERVER_TIMEOUT", "KAFKA_BROKERS", "KAFKA_ENABLED", "APP_NAME", "APP_RATIO"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("SERVER_TIMEOUT", "2s")

	var cfg testConfig
	if err := LoadAndParseYaml(path, &cfg); err != nil {
		t.Fatalf("LoadAndParseYaml: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 2*time.Second {
		t.Errorf("env should override yaml/default, timeout = %v", cfg.Server.Timeout)
	}
	if !reflect.DeepEqual(cfg.Kafka.Brokers, []string{"a:1", "b:2"}) || !cfg.Kafka.Enabled {
		t.Errorf("kafka = %+v", cfg.Kafka)
	}
	if cfg.Name != "coordinator" || cfg.Ratio != 0.5 {
		t.Errorf("name/ratio = %q/%v", cfg.Name, cfg.Ratio)
	}
}

func TestParseEnvValidationAndErrors(t *testing.T) {
	t.Setenv("APP_NAME", "")
	os.Unsetenv("APP_NAME")

	var cfg testConfig
	if err := LoadAndParseYaml("", &cfg); err == nil {
		t.Error("expected required APP_NAME to fail validation")
	}

	t.Setenv("SERVER_PORT", "not-a-number")
	if err := ParseEnv(&cfg); err == nil {
		t.Error("expected parse error for SERVER_PORT")
	}

	if err := ParseEnv(cfg); err != ErrNotStructPointer {
		t.Errorf("ParseEnv(non-pointer) = %v", err)
	}
}
