package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	cfg, err := Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Test default values
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected Server.Port to be '8080', got '%s'", cfg.Server.Port)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected Server.Host to be '0.0.0.0', got '%s'", cfg.Server.Host)
	}

	if cfg.Server.ReadTimeout.Duration != 15*time.Second {
		t.Errorf("Expected Server.ReadTimeout to be 15s, got %v", cfg.Server.ReadTimeout.Duration)
	}

	if cfg.Postgres.Host != "localhost" {
		t.Errorf("Expected Postgres.Host to be 'localhost', got '%s'", cfg.Postgres.Host)
	}

	if cfg.Postgres.MigrationsPath != "file://migrations" {
		t.Errorf("Expected Postgres.MigrationsPath to be 'file://migrations', got '%s'", cfg.Postgres.MigrationsPath)
	}

	if cfg.Redis.Host != "localhost" {
		t.Errorf("Expected Redis.Host to be 'localhost', got '%s'", cfg.Redis.Host)
	}

	if cfg.Session.TTL.Duration != 30*24*time.Hour {
		t.Errorf("Expected Session.TTL to be 30d, got %v", cfg.Session.TTL.Duration)
	}

	if cfg.Session.CookieName != "gravy_session" {
		t.Errorf("Expected Session.CookieName to be 'gravy_session', got '%s'", cfg.Session.CookieName)
	}

	if cfg.Security.BCryptCost != 12 {
		t.Errorf("Expected Security.BCryptCost to be 12, got %d", cfg.Security.BCryptCost)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be 'development', got '%s'", cfg.Env)
	}

	if cfg.Facebook.Enabled() {
		t.Error("Expected Facebook provider to be disabled without credentials")
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("Expected CORS.AllowedOrigins to have at least one value")
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("POSTGRES_HOST", "postgres.example.com")
	os.Setenv("SESSION_TTL", "12h")
	os.Setenv("FACEBOOK_CLIENT_ID", "fb-client")
	os.Setenv("FACEBOOK_CLIENT_SECRET", "fb-secret")
	os.Setenv("ENV", "production")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("POSTGRES_HOST")
		os.Unsetenv("SESSION_TTL")
		os.Unsetenv("FACEBOOK_CLIENT_ID")
		os.Unsetenv("FACEBOOK_CLIENT_SECRET")
		os.Unsetenv("ENV")
	}()

	ctx := context.Background()
	cfg, err := Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected Server.Port to be '9090', got '%s'", cfg.Server.Port)
	}

	if cfg.Postgres.Host != "postgres.example.com" {
		t.Errorf("Expected Postgres.Host to be 'postgres.example.com', got '%s'", cfg.Postgres.Host)
	}

	if cfg.Session.TTL.Duration != 12*time.Hour {
		t.Errorf("Expected Session.TTL to be 12h, got %v", cfg.Session.TTL.Duration)
	}

	if !cfg.Facebook.Enabled() {
		t.Error("Expected Facebook provider to be enabled")
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be 'production', got '%s'", cfg.Env)
	}
}

func TestLoadWithInvalidBcryptCost(t *testing.T) {
	os.Setenv("BCRYPT_COST", "40")
	defer os.Unsetenv("BCRYPT_COST")

	ctx := context.Background()
	if _, err := Load(ctx); err == nil {
		t.Error("Expected error when BCRYPT_COST is out of range")
	}
}

func TestPostgresDSN(t *testing.T) {
	pg := PostgresConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "test_user",
		Password: "test_password",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	dsn := pg.DSN()
	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	if dsn != expected {
		t.Errorf("Expected DSN to be '%s', got '%s'", expected, dsn)
	}
}

func TestRedisAddress(t *testing.T) {
	redis := RedisConfig{
		Host: "localhost",
		Port: "6379",
	}

	addr := redis.Address()
	expected := "localhost:6379"
	if addr != expected {
		t.Errorf("Expected Address to be '%s', got '%s'", expected, addr)
	}
}

func TestDurationDaysSuffix(t *testing.T) {
	var d Duration
	if err := d.EnvDecode(context.Background(), "7d"); err != nil {
		t.Fatalf("Failed to decode '7d': %v", err)
	}
	if d.Duration != 7*24*time.Hour {
		t.Errorf("Expected 7d to be 168h, got %v", d.Duration)
	}

	if err := d.EnvDecode(context.Background(), "90m"); err != nil {
		t.Fatalf("Failed to decode '90m': %v", err)
	}
	if d.Duration != 90*time.Minute {
		t.Errorf("Expected 90m, got %v", d.Duration)
	}

	if err := d.EnvDecode(context.Background(), "bogus"); err == nil {
		t.Error("Expected error for invalid duration")
	}
}
