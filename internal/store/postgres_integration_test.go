//go:build postgres_integration

package store

import (
    "os"
    "testing"
)

func TestPostgresMigrateSeedAndRead(t *testing.T) {
    dsn := os.Getenv("DATABASE_URL")
    if dsn == "" { t.Skip("DATABASE_URL not set; skipping integration test") }
    p, err := NewPostgres(dsn)
    if err != nil { t.Fatalf("NewPostgres: %v", err) }
    defer p.Close()
    if err := p.Ping(t.Context()); err != nil { t.Fatalf("Ping: %v", err) }
    if err := p.Migrate(t.Context()); err != nil { t.Fatalf("Migrate: %v", err) }
    if err := p.Seed(t.Context(), SeedForecasts()); err != nil { t.Fatalf("Seed: %v", err) }
    f, err := p.Forecast(t.Context(), "KL")
    if err != nil { t.Fatalf("Forecast: %v", err) }
    if len(f) != 7 || f[0].Date != "2025-07-18" { t.Fatalf("unexpected forecast: %+v", f) }
    if _, err := p.Forecast(t.Context(), "Sabah"); err == nil { t.Fatalf("expected not found") }
}
