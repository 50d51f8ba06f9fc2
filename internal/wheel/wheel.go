// Package wheel implements the lucky wheel promotion: a weighted random
// spin over discount codes. A won code is stored per session and stays
// redeemable for 24 hours.
package wheel

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"pizzeria/internal/models"
	"pizzeria/internal/pricing"
	"pizzeria/internal/repository"
)

// Segment is one slice of the wheel. An empty Code means no prize.
type Segment struct {
	Label  string
	Code   string
	Weight int
}

// DefaultSegments mirrors the wheel on the promotion page: half the
// slices pay out nothing, the rest award a registry code.
func DefaultSegments() []Segment {
	return []Segment{
		{Label: "Better luck next time", Weight: 30},
		{Label: "5% off", Code: "SPIN5", Weight: 20},
		{Label: "10% off", Code: "SPIN10", Weight: 20},
		{Label: "15% off", Code: "SPIN15", Weight: 12},
		{Label: "20% off", Code: "SPIN20", Weight: 8},
		{Label: "Free delivery", Code: "FREESHIP", Weight: 10},
	}
}

// Result reports the outcome of one spin.
type Result struct {
	Label string                `json:"label"`
	Won   bool                  `json:"won"`
	Award *models.DiscountAward `json:"award,omitempty"`
}

// Wheel spins over a fixed segment table and persists awards.
type Wheel struct {
	segments    []Segment
	totalWeight int
	registry    pricing.DiscountRegistry
	awards      repository.AwardStore
	rng         func(n int) int
	now         func() time.Time
}

// New creates a wheel over the given segments. Segment codes must
// resolve in the registry.
func New(segments []Segment, registry pricing.DiscountRegistry, awards repository.AwardStore) (*Wheel, error) {
	total := 0
	for _, seg := range segments {
		if seg.Weight <= 0 {
			return nil, fmt.Errorf("segment %q has non-positive weight", seg.Label)
		}
		if seg.Code != "" {
			if _, ok := registry.Lookup(seg.Code); !ok {
				return nil, fmt.Errorf("segment %q references unknown code %q", seg.Label, seg.Code)
			}
		}
		total += seg.Weight
	}
	if total == 0 {
		return nil, fmt.Errorf("wheel has no segments")
	}

	return &Wheel{
		segments:    segments,
		totalWeight: total,
		registry:    registry,
		awards:      awards,
		rng:         rand.Intn,
		now:         time.Now,
	}, nil
}

// Spin picks a segment by weight. A winning spin stores the award for
// the session, replacing any previous unredeemed award.
func (w *Wheel) Spin(ctx context.Context, sessionID string) (*Result, error) {
	if sessionID == "" {
		return nil, models.NewValidationError("session_id", "is required")
	}

	seg := w.pick()
	if seg.Code == "" {
		return &Result{Label: seg.Label}, nil
	}

	dc, _ := w.registry.Lookup(seg.Code)
	award := models.DiscountAward{
		Code:      dc.Code,
		Kind:      dc.Kind,
		Amount:    dc.Amount,
		Timestamp: w.now().UnixMilli(),
	}

	if err := w.awards.Put(ctx, sessionID, award); err != nil {
		return nil, fmt.Errorf("failed to store award: %w", err)
	}

	return &Result{Label: seg.Label, Won: true, Award: &award}, nil
}

func (w *Wheel) pick() Segment {
	n := w.rng(w.totalWeight)
	for _, seg := range w.segments {
		if n < seg.Weight {
			return seg
		}
		n -= seg.Weight
	}
	return w.segments[len(w.segments)-1]
}
