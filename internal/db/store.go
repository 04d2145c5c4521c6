package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/atharv3903/borderroute/internal/dataset"
	"github.com/atharv3903/borderroute/internal/model"
)

// Store reads country records from a MySQL `countries` table:
//
//	CREATE TABLE countries (
//	    cca3    CHAR(3) PRIMARY KEY,
//	    name    VARCHAR(128) NOT NULL DEFAULT '',
//	    borders TEXT NOT NULL,            -- comma separated cca3 codes
//	    lat     DOUBLE NULL,
//	    lng     DOUBLE NULL
//	);
type Store struct {
	DB *sql.DB
}

const dialTimeout = 5 * time.Second

// Open parses dsn, connects with the mysql driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: dsn: %w", dataset.ErrLoad, err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = dialTimeout
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrLoad, err)
	}
	conn := sql.OpenDB(connector)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: ping: %w", dataset.ErrLoad, err)
	}
	return conn, nil
}

func (s Store) Load(ctx context.Context) ([]model.CountryRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT cca3, name, borders, lat, lng
        FROM countries
        ORDER BY cca3
    `)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrLoad, err)
	}
	defer rows.Close()

	records := make([]model.CountryRecord, 0, 256)

	for rows.Next() {
		var code, name, borders string
		var lat, lng sql.NullFloat64

		if err := rows.Scan(&code, &name, &borders, &lat, &lng); err != nil {
			return nil, fmt.Errorf("%w: %w", dataset.ErrLoad, err)
		}
		records = append(records, toRecord(code, name, borders, lat, lng))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrLoad, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: countries table is empty", dataset.ErrLoad)
	}

	return records, nil
}

func toRecord(code, name, borders string, lat, lng sql.NullFloat64) model.CountryRecord {
	r := model.CountryRecord{
		Code:    strings.TrimSpace(code),
		Name:    model.CountryName{Common: name},
		Borders: splitBorders(borders),
	}
	if lat.Valid && lng.Valid {
		r.LatLng = []float64{lat.Float64, lng.Float64}
	}
	return r
}

func splitBorders(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if code := strings.TrimSpace(part); code != "" {
			out = append(out, code)
		}
	}
	return out
}
