package analysis

import "main/internal/codec"

// Report is the aggregate row for one trade file. Interarrival figures are
// seconds pooled across days; return figures are basis points over the
// sampled price series.
//
//go:generate csvable
type Report struct {
	Source  string `csv:"source"`
	Trades  int64  `csv:"trades"`
	Symbols int64  `csv:"symbols"`
	Days    int64  `csv:"days"`

	QtyMin  int64   `csv:"qty_min"`
	QtyMax  int64   `csv:"qty_max"`
	QtyMean float64 `csv:"qty_mean"`
	QtyP25  float64 `csv:"qty_p25"`
	QtyP50  float64 `csv:"qty_p50"`
	QtyP75  float64 `csv:"qty_p75"`

	InterarrivalP25 float64 `csv:"interarrival_p25"`
	InterarrivalP50 float64 `csv:"interarrival_p50"`
	InterarrivalP75 float64 `csv:"interarrival_p75"`

	DailyVolumeMin    float64 `csv:"daily_volume_min"`
	DailyVolumeMax    float64 `csv:"daily_volume_max"`
	DailyVolumeMean   float64 `csv:"daily_volume_mean"`
	DailyVolumeMedian float64 `csv:"daily_volume_median"`

	// largest per-day excursions from that day's opening trade, in bps
	DailyPriceMaxBps float64 `csv:"daily_price_max_bps"`
	DailyPriceMinBps float64 `csv:"daily_price_min_bps"`

	MeanPrice float64       `csv:"mean_price"`
	VWAP      codec.Decimal `csv:"vwap"`

	SampledPriceStd  float64 `csv:"sampled_price_std"`
	ReturnsMeanBps   float64 `csv:"returns_mean_bps"`
	ReturnsStdBps    float64 `csv:"returns_std_bps"`
	ReturnsSumAbsBps float64 `csv:"returns_sum_abs_bps"`
}

// InstrumentStat is the per-instrument rollup of one trade file.
//
//go:generate csvable
type InstrumentStat struct {
	Instrument string        `csv:"instrument"`
	Trades     int64         `csv:"trades"`
	Volume     int64         `csv:"volume"`
	VWAP       codec.Decimal `csv:"vwap"`
}

// BucketStat is the hourly rollup of one trade file. Bucket is the hour
// start, HH:MM.
//
//go:generate csvable
type BucketStat struct {
	Bucket string        `csv:"bucket"`
	Trades int64         `csv:"trades"`
	Volume int64         `csv:"volume"`
	VWAP   codec.Decimal `csv:"vwap"`
}

// Result bundles everything Analyze produces for one file.
type Result struct {
	Report      Report
	Instruments []InstrumentStat
	Buckets     []BucketStat
}
