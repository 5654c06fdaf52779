package chimedb

import (
	"context"
	"database/sql"
	"time"

	// postgres driver
	_ "github.com/lib/pq"
)

/*

Optional strike history. One row per cluster so the grafana dashboard
can correlate what the chimes played against the recorded wind.

  CREATE TABLE strikes (
      struck_at    timestamptz NOT NULL,
      wind_speed   double precision NOT NULL,
      amplitude    double precision NOT NULL,
      cluster_size integer NOT NULL,
      start_index  integer NOT NULL
  );

*/

type ClusterRecord struct {
	StruckAt    time.Time
	WindSpeed   float64
	Amplitude   float64
	ClusterSize int
	StartIndex  int
}

type DB struct {
	db *sql.DB
}

func Open(dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) WriteCluster(ctx context.Context, r ClusterRecord) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO strikes (struck_at, wind_speed, amplitude, cluster_size, start_index)
		 VALUES ($1, $2, $3, $4, $5)`,
		r.StruckAt, r.WindSpeed, r.Amplitude, r.ClusterSize, r.StartIndex)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}
