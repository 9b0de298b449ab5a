package store

import (
    "context"
    "database/sql"
    "embed"
    "errors"
    "fmt"
    "io/fs"
    "sort"
    "strings"
    "time"

    _ "github.com/jackc/pgx/v5/stdlib"

    "monsoonplan/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const dateLayout = "2006-01-02"

type Postgres struct {
    db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    db.SetMaxOpenConns(10)
    db.SetMaxIdleConns(2)
    db.SetConnMaxIdleTime(time.Minute)
    if err := db.Ping(); err != nil {
        _ = db.Close()
        return nil, err
    }
    return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Close() error { return p.db.Close() }

// Migrate applies the embedded schema migrations in file-name order.
func (p *Postgres) Migrate(ctx context.Context) error {
    sub, err := fs.Sub(migrationsFS, "migrations")
    if err != nil { return err }
    return p.MigrateFS(ctx, sub)
}

// MigrateFS applies every *.sql file at the root of fsys in name order.
// Statements must be idempotent; there is no migration ledger.
func (p *Postgres) MigrateFS(ctx context.Context, fsys fs.FS) error {
    files, err := migrationFiles(fsys)
    if err != nil { return err }
    for _, name := range files {
        b, err := fs.ReadFile(fsys, name)
        if err != nil { return fmt.Errorf("read %s: %w", name, err) }
        if _, err := p.db.ExecContext(ctx, string(b)); err != nil {
            return fmt.Errorf("apply %s: %w", name, err)
        }
    }
    return nil
}

func migrationFiles(fsys fs.FS) ([]string, error) {
    entries, err := fs.ReadDir(fsys, ".")
    if err != nil { return nil, err }
    out := []string{}
    for _, e := range entries {
        if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") { continue }
        out = append(out, e.Name())
    }
    sort.Strings(out)
    return out, nil
}

// Seed upserts regions and their forecast days in one transaction.
func (p *Postgres) Seed(ctx context.Context, rows []model.RegionForecast) error {
    tx, err := p.db.BeginTx(ctx, nil)
    if err != nil { return err }
    defer func(){ _ = tx.Rollback() }()
    for _, r := range rows {
        c := r.Current
        _, err = tx.ExecContext(ctx, `INSERT INTO regions (code, temperature, humidity, rainfall, weather, updated_at) VALUES ($1,$2,$3,$4,$5,now())
            ON CONFLICT (code) DO UPDATE SET temperature=EXCLUDED.temperature, humidity=EXCLUDED.humidity, rainfall=EXCLUDED.rainfall, weather=EXCLUDED.weather, updated_at=now()`,
            r.Region, c.Temperature, c.Humidity, c.Rainfall, c.Weather)
        if err != nil { return fmt.Errorf("seed region %s: %w", r.Region, err) }
        for _, d := range r.Forecast {
            if err := validateDay(d); err != nil { return fmt.Errorf("seed region %s: %w", r.Region, err) }
            _, err = tx.ExecContext(ctx, `INSERT INTO forecast_days (region_code, day, rainfall_mm, weather, risk) VALUES ($1,$2::date,$3,$4,$5)
                ON CONFLICT (region_code, day) DO UPDATE SET rainfall_mm=EXCLUDED.rainfall_mm, weather=EXCLUDED.weather, risk=EXCLUDED.risk`,
                r.Region, d.Date, d.Rainfall, d.Weather, string(d.Risk))
            if err != nil { return fmt.Errorf("seed %s/%s: %w", r.Region, d.Date, err) }
        }
    }
    return tx.Commit()
}

func validateDay(d model.ForecastDay) error {
    if _, err := time.Parse(dateLayout, d.Date); err != nil {
        return fmt.Errorf("invalid date %q: %w", d.Date, err)
    }
    if !d.Risk.Valid() {
        return fmt.Errorf("invalid risk %q for %s", d.Risk, d.Date)
    }
    return nil
}

func (p *Postgres) Regions(ctx context.Context) ([]string, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT code FROM regions ORDER BY code`)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []string{}
    for rows.Next() {
        var code string
        if err := rows.Scan(&code); err != nil { return nil, err }
        out = append(out, code)
    }
    return out, rows.Err()
}

func (p *Postgres) Forecast(ctx context.Context, region string) ([]model.ForecastDay, error) {
    if err := p.requireRegion(ctx, region); err != nil { return nil, err }
    rows, err := p.db.QueryContext(ctx, `SELECT day, rainfall_mm, weather, risk FROM forecast_days WHERE region_code=$1 ORDER BY day`, region)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []model.ForecastDay{}
    for rows.Next() {
        var d model.ForecastDay
        var day time.Time
        var risk string
        if err := rows.Scan(&day, &d.Rainfall, &d.Weather, &risk); err != nil { return nil, err }
        d.Date = day.Format(dateLayout)
        d.Risk = model.RiskLevel(risk)
        out = append(out, d)
    }
    return out, rows.Err()
}

func (p *Postgres) Current(ctx context.Context, region string) (model.CurrentConditions, error) {
    var c model.CurrentConditions
    err := p.db.QueryRowContext(ctx, `SELECT temperature, humidity, rainfall, weather FROM regions WHERE code=$1`, region).
        Scan(&c.Temperature, &c.Humidity, &c.Rainfall, &c.Weather)
    if errors.Is(err, sql.ErrNoRows) { return c, fmt.Errorf("region %q: %w", region, ErrNotFound) }
    return c, err
}

func (p *Postgres) requireRegion(ctx context.Context, region string) error {
    var one int
    err := p.db.QueryRowContext(ctx, `SELECT 1 FROM regions WHERE code=$1`, region).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) { return fmt.Errorf("region %q: %w", region, ErrNotFound) }
    return err
}
