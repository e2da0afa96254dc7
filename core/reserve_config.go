package core

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// ReserveConfiguration is the unpacked form of the reserve configuration
// bitmap. Business logic reads and writes these fields; the raw bit layout
// exists only at the storage and wire boundaries.
type ReserveConfiguration struct {
	LTV                    uint64 `json:"ltv"`                  // basis points
	LiquidationThreshold   uint64 `json:"liquidation_threshold"` // basis points
	LiquidationBonus       uint64 `json:"liquidation_bonus"`     // basis points, >= 10000 when threshold > 0
	Decimals               uint64 `json:"decimals"`
	Active                 bool   `json:"active"`
	Frozen                 bool   `json:"frozen"`
	BorrowingEnabled       bool   `json:"borrowing_enabled"`
	StableBorrowingEnabled bool   `json:"stable_borrowing_enabled"`
	ReserveFactor          uint64 `json:"reserve_factor"` // basis points
}

// bit layout of the packed bitmap:
//
//	bits 0-15   LTV
//	bits 16-31  liquidation threshold
//	bits 32-47  liquidation bonus
//	bits 48-55  decimals
//	bit 56      active
//	bit 57      frozen
//	bit 58      borrowing enabled
//	bit 59      stable borrowing enabled
//	bits 64-79  reserve factor
const (
	ltvShift           = 0
	thresholdShift     = 16
	bonusShift         = 32
	decimalsShift      = 48
	activeBit          = 56
	frozenBit          = 57
	borrowingBit       = 58
	stableBorrowingBit = 59
	reserveFactorShift = 64
)

var (
	mask16 = big.NewInt(0xFFFF)
	mask8  = big.NewInt(0xFF)
)

// Pack packs the configuration into its bitmap form.
func (c ReserveConfiguration) Pack() *big.Int {
	bits := new(big.Int)
	bits.Or(bits, new(big.Int).Lsh(big.NewInt(int64(c.LTV&0xFFFF)), ltvShift))
	bits.Or(bits, new(big.Int).Lsh(big.NewInt(int64(c.LiquidationThreshold&0xFFFF)), thresholdShift))
	bits.Or(bits, new(big.Int).Lsh(big.NewInt(int64(c.LiquidationBonus&0xFFFF)), bonusShift))
	bits.Or(bits, new(big.Int).Lsh(big.NewInt(int64(c.Decimals&0xFF)), decimalsShift))
	if c.Active {
		bits.SetBit(bits, activeBit, 1)
	}
	if c.Frozen {
		bits.SetBit(bits, frozenBit, 1)
	}
	if c.BorrowingEnabled {
		bits.SetBit(bits, borrowingBit, 1)
	}
	if c.StableBorrowingEnabled {
		bits.SetBit(bits, stableBorrowingBit, 1)
	}
	bits.Or(bits, new(big.Int).Lsh(big.NewInt(int64(c.ReserveFactor&0xFFFF)), reserveFactorShift))
	return bits
}

// UnpackReserveConfiguration unpacks a configuration bitmap.
func UnpackReserveConfiguration(bits *big.Int) ReserveConfiguration {
	field := func(shift uint, mask *big.Int) uint64 {
		v := new(big.Int).Rsh(bits, shift)
		return v.And(v, mask).Uint64()
	}

	return ReserveConfiguration{
		LTV:                    field(ltvShift, mask16),
		LiquidationThreshold:   field(thresholdShift, mask16),
		LiquidationBonus:       field(bonusShift, mask16),
		Decimals:               field(decimalsShift, mask8),
		Active:                 bits.Bit(activeBit) == 1,
		Frozen:                 bits.Bit(frozenBit) == 1,
		BorrowingEnabled:       bits.Bit(borrowingBit) == 1,
		StableBorrowingEnabled: bits.Bit(stableBorrowingBit) == 1,
		ReserveFactor:          field(reserveFactorShift, mask16),
	}
}

// Validate checks the risk parameters are consistent.
func (c ReserveConfiguration) Validate() error {
	if c.LTV > PercentFactor || c.LiquidationThreshold > PercentFactor || c.ReserveFactor > PercentFactor {
		return ErrInvalidConfiguration
	}

	if c.LiquidationThreshold > 0 {
		if c.LTV > c.LiquidationThreshold {
			return ErrInvalidConfiguration
		}
		// a liquidation must pay out more collateral than the debt covered
		if c.LiquidationBonus <= PercentFactor {
			return ErrInvalidConfiguration
		}
	}

	return nil
}

// ConfigurationBits stores a packed configuration bitmap as a decimal string
// column, so the raw bits never leak past the store layer.
type ConfigurationBits struct {
	big.Int
}

// Value implements driver.Valuer.
func (b ConfigurationBits) Value() (driver.Value, error) {
	return b.String(), nil
}

// Scan implements sql.Scanner.
func (b *ConfigurationBits) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		b.SetInt64(0)
		return nil
	default:
		return fmt.Errorf("configuration bits: unsupported column type %T", value)
	}

	if s == "" {
		b.SetInt64(0)
		return nil
	}

	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("configuration bits: malformed value %q", s)
	}
	return nil
}

// MarshalJSON renders the bitmap as a decimal string.
func (b ConfigurationBits) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON parses the decimal string form.
func (b *ConfigurationBits) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	return b.Scan(s)
}
