// Stochastic demand model. This is the episode's primary source of
// randomness; it consumes the "economy" RNG stream sequentially, so
// replaying a day without replaying the stream position gives different
// numbers. Deterministic tests substitute a fixed DemandModel instead.

package sim

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
)

// DemandModel computes per-slot unit sales for one completed day.
// Implementations must cap sales at the slot's available stock.
type DemandModel interface {
	DemandForDay(slots []*Slot, day int) map[int]int
}

// productDemand holds the hidden per-product demand parameters, drawn
// lazily the first time a product appears in the machine.
type productDemand struct {
	elasticity float64 // negative; exponent on price/reference
	refPrice   float64 // price at which demand equals baseSales
	baseSales  float64 // expected daily units at the reference price
}

// Economy is the default stochastic demand model:
//
//	demand = base * f_price * f_weekday * f_season * f_weather * f_variety + noise
//
// f_price is (price/reference)^elasticity with elasticity < 0, so expected
// demand is monotonically non-increasing in price. All weights come from
// EconomyConfig.
type Economy struct {
	cfg       EconomyConfig
	rng       *rand.Rand
	wholesale func(productID string) (decimal.Decimal, bool)

	params  map[string]productDemand
	weather int // markov state: 0 bad, 1 normal, 2 good
}

// NewEconomy creates the stochastic demand model. wholesale resolves a
// product's wholesale price, used to anchor its hidden reference price.
func NewEconomy(cfg EconomyConfig, rng *rand.Rand, wholesale func(string) (decimal.Decimal, bool)) *Economy {
	return &Economy{
		cfg:       cfg,
		rng:       rng,
		wholesale: wholesale,
		params:    make(map[string]productDemand),
		weather:   1,
	}
}

// lognormal draws exp(N(mu, sigma)).
func (e *Economy) lognormal(mu, sigma float64) float64 {
	return math.Exp(e.rng.NormFloat64()*sigma + mu)
}

func (e *Economy) paramsFor(productID string) productDemand {
	if p, ok := e.params[productID]; ok {
		return p
	}
	anchor := 1.0
	if w, ok := e.wholesale(productID); ok {
		anchor = w.InexactFloat64()
	}
	markup := e.cfg.RefMarkupMin + e.rng.Float64()*(e.cfg.RefMarkupMax-e.cfg.RefMarkupMin)
	p := productDemand{
		elasticity: -e.lognormal(e.cfg.ElasticityMu, e.cfg.ElasticitySigma),
		refPrice:   anchor * markup,
		baseSales:  math.Max(0.5, e.lognormal(e.cfg.BaseSalesMu, e.cfg.BaseSalesSigma)),
	}
	e.params[productID] = p
	return p
}

func (e *Economy) priceFactor(price float64, p productDemand) float64 {
	if p.refPrice <= 0 {
		return 1.0
	}
	// A free product sits at the cheap end of the curve; clamping to one
	// cent keeps the factor finite and non-increasing in price.
	if price < 0.01 {
		price = 0.01
	}
	return math.Pow(price/p.refPrice, p.elasticity)
}

func (e *Economy) weekdayFactor(day int) float64 {
	if day%7 >= 5 {
		return e.cfg.WeekendBoost
	}
	return 1.0
}

func (e *Economy) seasonFactor(day int) float64 {
	month := (day / 30) % 12
	if month >= 5 && month <= 7 {
		return e.cfg.SummerBoost
	}
	return 1.0
}

// weatherFactor advances the weather markov chain one day and maps the
// state into [0.85, 1.15].
func (e *Economy) weatherFactor() float64 {
	r := e.rng.Float64()
	switch {
	case r < e.cfg.WeatherStepProb:
		e.weather = max(0, e.weather-1)
	case r > 1.0-e.cfg.WeatherStepProb:
		e.weather = min(2, e.weather+1)
	}
	return 0.85 + 0.15*float64(e.weather)
}

// varietyFactor rewards a moderately diverse machine and caps the penalty
// for an overcrowded one at 50%.
func (e *Economy) varietyFactor(distinct int) float64 {
	sweet := e.cfg.VarietySweetSpot
	switch {
	case distinct <= 0:
		return 0.5
	case distinct <= sweet:
		return 0.8 + 0.2*float64(distinct)/float64(sweet)
	case distinct <= 2*sweet:
		return 1.0
	default:
		return math.Max(0.5, 1.0-0.05*float64(distinct-2*sweet))
	}
}

// DemandForDay draws unit sales for every occupied slot, capped at stock.
func (e *Economy) DemandForDay(slots []*Slot, day int) map[int]int {
	distinct := make(map[string]bool)
	for _, slot := range slots {
		if slot.ProductID != "" && slot.Stock > 0 {
			distinct[slot.ProductID] = true
		}
	}
	variety := e.varietyFactor(len(distinct))
	weather := e.weatherFactor()
	weekday := e.weekdayFactor(day)
	season := e.seasonFactor(day)

	sold := make(map[int]int)
	for _, slot := range slots {
		if slot.ProductID == "" || slot.Stock <= 0 {
			continue
		}
		p := e.paramsFor(slot.ProductID)
		raw := p.baseSales * e.priceFactor(slot.Price.InexactFloat64(), p) * weekday * season * weather * variety
		demand := raw + e.rng.NormFloat64()*e.cfg.NoiseCV*raw
		if demand < 0 {
			demand = 0
		}
		units := int(math.Round(demand))
		if units > slot.Stock {
			units = slot.Stock
		}
		if units > 0 {
			sold[slot.ID] = units
		}
	}
	return sold
}
