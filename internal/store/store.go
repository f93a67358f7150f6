// Package store persists per-file summaries and instrument aggregates to
// PostgreSQL. It is optional; the pipeline runs without a configured DSN.
package store

import (
	"time"

	"github.com/yanun0323/errors"

	"main/internal/analysis"
	"main/internal/sink"
	"main/pkg/conn"
)

// FileSummary is one reformatted file outcome.
type FileSummary struct {
	ID              uint   `gorm:"primaryKey"`
	Source          string `gorm:"index"`
	Framing         string
	RegistryVersion string

	TotalRecords       int
	DecodedRecords     int
	MalformedRecords   int
	TruncatedRecords   int
	UnknownTypeRecords int
	EnumWarnings       int
	FieldErrors        int
	FilteredRecords    int

	CorruptionRatio float64
	Aborted         bool
	AbortReason     string
	ElapsedMillis   int64
	CreatedAt       time.Time
}

// InstrumentAggregate is one per-instrument analysis rollup.
type InstrumentAggregate struct {
	ID         uint   `gorm:"primaryKey"`
	Source     string `gorm:"index"`
	Instrument string `gorm:"index"`
	Trades     int64
	Volume     int64
	VWAP       string
	CreatedAt  time.Time
}

// Store wraps the database connection.
type Store struct {
	client *conn.Client
}

// Open connects and migrates the tables.
func Open(connString string) (*Store, error) {
	client, err := conn.New(conn.Option{ConnString: connString})
	if err != nil {
		return nil, errors.Wrap(err, "connect summary store")
	}
	if err := client.DB().AutoMigrate(&FileSummary{}, &InstrumentAggregate{}); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "migrate summary store")
	}
	return &Store{client: client}, nil
}

// SaveSummary records one reformatted file.
func (s *Store) SaveSummary(sum sink.Summary) error {
	row := FileSummary{
		Source:             sum.Source,
		Framing:            sum.Framing,
		RegistryVersion:    sum.RegistryVersion,
		TotalRecords:       sum.TotalRecords,
		DecodedRecords:     sum.DecodedRecords,
		MalformedRecords:   sum.MalformedRecords,
		TruncatedRecords:   sum.TruncatedRecords,
		UnknownTypeRecords: sum.UnknownTypeRecords,
		EnumWarnings:       sum.EnumWarnings,
		FieldErrors:        sum.FieldErrors,
		FilteredRecords:    sum.FilteredRecords,
		CorruptionRatio:    sum.CorruptionRatio,
		Aborted:            sum.Aborted,
		AbortReason:        sum.AbortReason,
		ElapsedMillis:      sum.ElapsedMillis,
	}
	if err := s.client.DB().Create(&row).Error; err != nil {
		return errors.Wrap(err, "save file summary").With("source", sum.Source)
	}
	return nil
}

// SaveInstrumentStats records the per-instrument rollups of one file.
func (s *Store) SaveInstrumentStats(source string, stats []analysis.InstrumentStat) error {
	if len(stats) == 0 {
		return nil
	}
	rows := make([]InstrumentAggregate, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, InstrumentAggregate{
			Source:     source,
			Instrument: st.Instrument,
			Trades:     st.Trades,
			Volume:     st.Volume,
			VWAP:       st.VWAP.String(),
		})
	}
	if err := s.client.DB().Create(&rows).Error; err != nil {
		return errors.Wrap(err, "save instrument stats").With("source", source)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
