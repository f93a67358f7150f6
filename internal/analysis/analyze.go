package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/yanun0323/errors"

	"main/internal/codec"
)

// Trading session window and sampling step for the price series.
const (
	sessionOpenHour    = 9
	sessionOpenMinute  = 15
	sessionCloseHour   = 15
	sessionCloseMinute = 30
	sampleStep         = 3 * time.Minute
)

// Analyze aggregates the trades of one file. Trades must be sorted by
// timestamp, which LoadTrades guarantees.
func Analyze(source string, trades []TradeRow) (*Result, error) {
	if len(trades) == 0 {
		return nil, errors.Errorf("no usable trades in %s", source)
	}

	rep := Report{
		Source: source,
		Trades: int64(len(trades)),
	}

	var (
		symbols    = make(map[string]struct{})
		byDay      = make(map[string][]TradeRow)
		dayOrder   []string
		quantities = make([]float64, 0, len(trades))
		prices     = make([]float64, 0, len(trades))
		sumPQ      int64
		sumQ       int64
	)
	rep.QtyMin = trades[0].Quantity
	rep.QtyMax = trades[0].Quantity
	for _, t := range trades {
		symbols[t.Symbol] = struct{}{}
		day := t.Timestamp.Format("2006-01-02")
		if _, seen := byDay[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		byDay[day] = append(byDay[day], t)

		quantities = append(quantities, float64(t.Quantity))
		prices = append(prices, priceFloat(t.Price))
		if t.Quantity < rep.QtyMin {
			rep.QtyMin = t.Quantity
		}
		if t.Quantity > rep.QtyMax {
			rep.QtyMax = t.Quantity
		}
		sumPQ += t.Price.Integer * t.Quantity
		sumQ += t.Quantity
	}
	rep.Symbols = int64(len(symbols))
	rep.Days = int64(len(byDay))

	sort.Float64s(quantities)
	rep.QtyMean = mean(quantities)
	rep.QtyP25 = quantile(quantities, 0.25)
	rep.QtyP50 = quantile(quantities, 0.50)
	rep.QtyP75 = quantile(quantities, 0.75)

	rep.MeanPrice = mean(prices)
	vwap, err := codec.QuotientScaled(sumPQ, sumQ, PriceScale)
	if err != nil {
		return nil, errors.Wrap(err, "compute vwap")
	}
	rep.VWAP = vwap

	// interarrival gaps never cross a day boundary
	var gaps []float64
	dailyVolumes := make([]float64, 0, len(dayOrder))
	var sampled, returns []float64
	var dayMaxBps, dayMinBps []float64
	for _, day := range dayOrder {
		dayTrades := byDay[day]

		// price extremes are measured from each day's opening trade
		open := priceFloat(dayTrades[0].Price)
		dayMax, dayMin := open, open
		var volume int64
		for _, t := range dayTrades {
			volume += t.Quantity
			if p := priceFloat(t.Price); p > dayMax {
				dayMax = p
			} else if p < dayMin {
				dayMin = p
			}
		}
		dailyVolumes = append(dailyVolumes, float64(volume))
		dayMaxBps = append(dayMaxBps, (dayMax-open)/open*10_000)
		dayMinBps = append(dayMinBps, (dayMin-open)/open*10_000)

		for i := 1; i < len(dayTrades); i++ {
			gaps = append(gaps, dayTrades[i].Timestamp.Sub(dayTrades[i-1].Timestamp).Seconds())
		}

		series := sampleDay(dayTrades)
		sampled = append(sampled, series...)
		for i := 1; i < len(series); i++ {
			returns = append(returns, (series[i]-series[i-1])/series[i-1]*10_000)
		}
	}

	sort.Float64s(gaps)
	rep.InterarrivalP25 = quantile(gaps, 0.25)
	rep.InterarrivalP50 = quantile(gaps, 0.50)
	rep.InterarrivalP75 = quantile(gaps, 0.75)

	sort.Float64s(dailyVolumes)
	rep.DailyVolumeMin = quantile(dailyVolumes, 0)
	rep.DailyVolumeMax = quantile(dailyVolumes, 1)
	rep.DailyVolumeMean = mean(dailyVolumes)
	rep.DailyVolumeMedian = median(dailyVolumes)

	sort.Float64s(dayMaxBps)
	sort.Float64s(dayMinBps)
	rep.DailyPriceMaxBps = quantile(dayMaxBps, 1)
	rep.DailyPriceMinBps = quantile(dayMinBps, 0)

	rep.SampledPriceStd = stddev(sampled)
	rep.ReturnsMeanBps = mean(returns)
	rep.ReturnsStdBps = stddev(returns)
	var sumAbs float64
	for _, r := range returns {
		if r < 0 {
			sumAbs -= r
		} else {
			sumAbs += r
		}
	}
	rep.ReturnsSumAbsBps = sumAbs

	instruments, err := rollupInstruments(trades)
	if err != nil {
		return nil, err
	}
	buckets, err := rollupBuckets(trades)
	if err != nil {
		return nil, err
	}

	return &Result{Report: rep, Instruments: instruments, Buckets: buckets}, nil
}

// sampleDay walks a 3-minute grid across the trading session and carries the
// last observed price forward. Grid points before the day's first trade are
// skipped rather than back-filled.
func sampleDay(dayTrades []TradeRow) []float64 {
	if len(dayTrades) == 0 {
		return nil
	}
	first := dayTrades[0].Timestamp
	open := time.Date(first.Year(), first.Month(), first.Day(),
		sessionOpenHour, sessionOpenMinute, 0, 0, first.Location())
	end := time.Date(first.Year(), first.Month(), first.Day(),
		sessionCloseHour, sessionCloseMinute, 0, 0, first.Location())

	var (
		series []float64
		i      int
		last   float64
		seen   bool
	)
	for grid := open; !grid.After(end); grid = grid.Add(sampleStep) {
		for i < len(dayTrades) && !dayTrades[i].Timestamp.After(grid) {
			last = priceFloat(dayTrades[i].Price)
			seen = true
			i++
		}
		if seen {
			series = append(series, last)
		}
	}
	return series
}

func rollupInstruments(trades []TradeRow) ([]InstrumentStat, error) {
	type acc struct {
		trades, volume, sumPQ int64
	}
	accs := make(map[string]*acc)
	for _, t := range trades {
		a := accs[t.Instrument]
		if a == nil {
			a = &acc{}
			accs[t.Instrument] = a
		}
		a.trades++
		a.volume += t.Quantity
		a.sumPQ += t.Price.Integer * t.Quantity
	}

	names := make([]string, 0, len(accs))
	for name := range accs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]InstrumentStat, 0, len(names))
	for _, name := range names {
		a := accs[name]
		vwap, err := codec.QuotientScaled(a.sumPQ, a.volume, PriceScale)
		if err != nil {
			return nil, errors.Wrap(err, "instrument vwap").With("instrument", name)
		}
		out = append(out, InstrumentStat{
			Instrument: name,
			Trades:     a.trades,
			Volume:     a.volume,
			VWAP:       vwap,
		})
	}
	return out, nil
}

func rollupBuckets(trades []TradeRow) ([]BucketStat, error) {
	type acc struct {
		trades, volume, sumPQ int64
	}
	accs := make(map[int]*acc)
	for _, t := range trades {
		hour := t.Timestamp.Hour()
		a := accs[hour]
		if a == nil {
			a = &acc{}
			accs[hour] = a
		}
		a.trades++
		a.volume += t.Quantity
		a.sumPQ += t.Price.Integer * t.Quantity
	}

	hours := make([]int, 0, len(accs))
	for hour := range accs {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	out := make([]BucketStat, 0, len(hours))
	for _, hour := range hours {
		a := accs[hour]
		vwap, err := codec.QuotientScaled(a.sumPQ, a.volume, PriceScale)
		if err != nil {
			return nil, errors.Wrap(err, "bucket vwap").With("hour", hour)
		}
		out = append(out, BucketStat{
			Bucket: fmt.Sprintf("%02d:00", hour),
			Trades: a.trades,
			Volume: a.volume,
			VWAP:   vwap,
		})
	}
	return out, nil
}

func priceFloat(d codec.Decimal) float64 {
	scale := 1.0
	for i := 0; i < d.Scale; i++ {
		scale *= 10
	}
	return float64(d.Integer) / scale
}
