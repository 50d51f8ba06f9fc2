package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SPIN10", NormalizeCode("  spin10 "))
	assert.Equal(t, "FREESHIP", NormalizeCode("FreeShip"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestDiscountAwardExpiry(t *testing.T) {
	now := time.Now()
	award := DiscountAward{
		Code:      "SPIN10",
		Kind:      DiscountPercent,
		Amount:    decimal.NewFromInt(10),
		Timestamp: now.UnixMilli(),
	}

	assert.False(t, award.Expired(now))
	assert.False(t, award.Expired(now.Add(AwardTTL-time.Second)))
	assert.True(t, award.Expired(now.Add(AwardTTL)))
	assert.True(t, award.Expired(now.Add(48*time.Hour)))
}
