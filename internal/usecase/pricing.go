package usecase

import (
	"cinema-reserve/internal/data/entity"

	"github.com/shopspring/decimal"
)

// DefaultVIPMultiplier is the documented VIP uplift. The effective value comes
// from configuration; this is the fallback.
const DefaultVIPMultiplier = 1.3

// PricingEngine maps a seat set and schedule to a total price. Pure: no
// repository access, stable across calls.
type PricingEngine struct {
	vipMultiplier decimal.Decimal
}

func NewPricingEngine(vipMultiplier float64) *PricingEngine {
	if vipMultiplier <= 0 {
		vipMultiplier = DefaultVIPMultiplier
	}
	return &PricingEngine{vipMultiplier: decimal.NewFromFloat(vipMultiplier)}
}

// UnitPrice returns the price of one seat: base price times the VIP multiplier
// for VIP rows, rounded to the nearest minor currency unit.
func (p *PricingEngine) UnitPrice(basePrice int64, layout entity.SeatLayout, seatID string) int64 {
	unit := decimal.NewFromInt(basePrice)
	if layout.IsVIP(seatID) {
		unit = unit.Mul(p.vipMultiplier)
	}
	// Round per seat, not after summing, so per-seat receipts add up to the total.
	return unit.Round(0).IntPart()
}

// Quote totals the seat set. Input seats are assumed validated against the layout.
func (p *PricingEngine) Quote(basePrice int64, layout entity.SeatLayout, seatIDs []string) int64 {
	var total int64
	for _, seatID := range seatIDs {
		total += p.UnitPrice(basePrice, layout, seatID)
	}
	return total
}
