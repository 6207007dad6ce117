package display

import (
	"math"
	"sort"
)

// LocatorKind selects how tick positions are chosen
type LocatorKind int

const (
	LocateNone LocatorKind = iota
	LocateFixed
	LocateMaxN
	LocateLog
	LocateSymLog
	LocateAuto
)

func (k LocatorKind) String() string {
	switch k {
	case LocateNone:
		return "none"
	case LocateFixed:
		return "fixed"
	case LocateMaxN:
		return "max_n"
	case LocateLog:
		return "log"
	case LocateSymLog:
		return "symlog"
	case LocateAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// MaxNConfig places at most Bins+1 ticks on multiples of one of Steps
// (mantissas in [1, 10]) times a power of ten
type MaxNConfig struct {
	Bins  int
	Steps []float64
}

// LogConfig places ticks at Subs times integer powers of Base
type LogConfig struct {
	Base float64
	Subs []float64
}

// SymLogConfig places ticks at zero and at powers of Base beyond LinThresh,
// mirrored for negative values
type SymLogConfig struct {
	Base      float64
	LinThresh float64
}

// Locator chooses tick positions within a visible range. Only the config
// matching Kind is consulted.
type Locator struct {
	Kind   LocatorKind
	Fixed  []float64
	MaxN   MaxNConfig
	Log    LogConfig
	SymLog SymLogConfig
}

const defaultMaxNBins = 9

var (
	timeSteps = []float64{1, 1.5, 5, 6, 10}
	autoSteps = []float64{1, 2, 2.5, 5, 10}
)

// FixedLocator ticks exactly the given positions
func FixedLocator(positions []float64) Locator {
	return Locator{Kind: LocateFixed, Fixed: positions}
}

// MaxNLocator ticks round multiples chosen from steps
func MaxNLocator(bins int, steps []float64) Locator {
	return Locator{Kind: LocateMaxN, MaxN: MaxNConfig{Bins: bins, Steps: steps}}
}

// LogLocator ticks powers of base, scaled by each of subs (default {1})
func LogLocator(base float64, subs ...float64) Locator {
	if len(subs) == 0 {
		subs = []float64{1}
	}
	return Locator{Kind: LocateLog, Log: LogConfig{Base: base, Subs: subs}}
}

// SymLogLocator ticks a symmetric log axis
func SymLogLocator(base, linThresh float64) Locator {
	return Locator{Kind: LocateSymLog, SymLog: SymLogConfig{Base: base, LinThresh: linThresh}}
}

// AutoLocator is the default for linear axes
func AutoLocator() Locator {
	return MaxNLocator(defaultMaxNBins, autoSteps)
}

// Ticks returns the ascending tick positions inside view
func (l Locator) Ticks(view Interval) []float64 {
	lo, hi := math.Min(view.Min, view.Max), math.Max(view.Min, view.Max)
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil
	}

	var ticks []float64
	switch l.Kind {
	case LocateFixed:
		for _, p := range l.Fixed {
			if p >= lo && p <= hi {
				ticks = append(ticks, p)
			}
		}
		sort.Float64s(ticks)
	case LocateMaxN:
		ticks = maxNTicks(lo, hi, l.MaxN)
	case LocateAuto:
		ticks = maxNTicks(lo, hi, MaxNConfig{Bins: defaultMaxNBins, Steps: autoSteps})
	case LocateLog:
		ticks = logTicks(lo, hi, l.Log)
	case LocateSymLog:
		ticks = symLogTicks(lo, hi, l.SymLog)
	}
	return ticks
}

func maxNTicks(lo, hi float64, cfg MaxNConfig) []float64 {
	bins := cfg.Bins
	if bins < 1 {
		bins = defaultMaxNBins
	}
	steps := cfg.Steps
	if len(steps) == 0 {
		steps = autoSteps
	}
	if hi == lo {
		return []float64{lo}
	}

	raw := (hi - lo) / float64(bins)
	scale := math.Pow(10, math.Floor(math.Log10(raw)))

	var step float64
	for _, s := range steps {
		if s*scale >= raw {
			step = s * scale
			break
		}
	}
	if step == 0 {
		step = 10 * scale
	}

	first := math.Ceil(lo/step - 1e-9)
	last := math.Floor(hi/step + 1e-9)
	ticks := make([]float64, 0, int(last-first)+1)
	for k := first; k <= last; k++ {
		ticks = append(ticks, k*step)
	}
	return ticks
}

func logTicks(lo, hi float64, cfg LogConfig) []float64 {
	if hi <= 0 || cfg.Base <= 1 {
		return nil
	}
	if lo <= 0 {
		// no log ticks below one when the view reaches zero
		lo = math.Min(1, hi)
	}

	logBase := math.Log(cfg.Base)
	first := math.Floor(math.Log(lo) / logBase)
	last := math.Ceil(math.Log(hi) / logBase)

	var ticks []float64
	for e := first; e <= last; e++ {
		decade := math.Pow(cfg.Base, e)
		for _, s := range cfg.Subs {
			if t := s * decade; t >= lo && t <= hi {
				ticks = append(ticks, t)
			}
		}
	}
	sort.Float64s(ticks)
	return ticks
}

func symLogTicks(lo, hi float64, cfg SymLogConfig) []float64 {
	if cfg.Base <= 1 || cfg.LinThresh <= 0 {
		return nil
	}

	positive := func(a, b float64) []float64 {
		if b < cfg.LinThresh {
			return nil
		}
		return logTicks(math.Max(a, cfg.LinThresh), b, LogConfig{Base: cfg.Base, Subs: []float64{1}})
	}

	var ticks []float64
	if lo < 0 {
		neg := positive(math.Max(0, -hi), -lo)
		for i := len(neg) - 1; i >= 0; i-- {
			ticks = append(ticks, -neg[i])
		}
	}
	if lo <= 0 && hi >= 0 {
		ticks = append(ticks, 0)
	}
	if hi > 0 {
		ticks = append(ticks, positive(math.Max(0, lo), hi)...)
	}
	return ticks
}
