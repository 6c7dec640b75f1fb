package model

import (
	"errors"
	"fmt"
	"time"
)

// DefaultCapacityKW is the rated output of the reference rooftop system.
const DefaultCapacityKW = 8.5

// LossTable holds one derating coefficient per calendar month, January first.
// Each coefficient lumps soiling, temperature and inverter losses and must be
// in (0, 1].
type LossTable [12]float64

// DefaultLossTable derates least in winter and most in summer.
var DefaultLossTable = LossTable{
	0.90, 0.90, 0.90, // Jan-Mar
	0.85, 0.85, 0.80, // Apr-Jun
	0.80, 0.80, 0.85, // Jul-Sep
	0.90, 0.90, 0.90, // Oct-Dec
}

// UniformLossTable returns a table with the same coefficient for every month.
func UniformLossTable(coef float64) LossTable {
	var t LossTable
	for i := range t {
		t[i] = coef
	}
	return t
}

// LossTableFromSlice converts a 12-entry slice into a LossTable.
func LossTableFromSlice(coefs []float64) (LossTable, error) {
	var t LossTable
	if len(coefs) != len(t) {
		return t, fmt.Errorf("loss table needs %d coefficients, got %d", len(t), len(coefs))
	}
	copy(t[:], coefs)
	return t, t.Validate()
}

// For returns the coefficient for month m.
func (t LossTable) For(m time.Month) float64 {
	return t[m-1]
}

func (t LossTable) Validate() error {
	for i, c := range t {
		if c <= 0 || c > 1 {
			return fmt.Errorf("loss coefficient for %s must be in (0, 1], got %v", time.Month(i+1), c)
		}
	}
	return nil
}

// System describes the PV installation whose output is estimated.
// Units:
// - CapacityKW: kW (rated system output per kW/m² of irradiance)
// - Loss: dimensionless, per month
type System struct {
	CapacityKW float64   `json:"capacity_kw"`
	Loss       LossTable `json:"loss"`
}

func DefaultSystem() System {
	return System{CapacityKW: DefaultCapacityKW, Loss: DefaultLossTable}
}

func NewSystem(capacityKW float64, loss LossTable) (*System, error) {
	s := &System{CapacityKW: capacityKW, Loss: loss}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s System) Validate() error {
	if s.CapacityKW <= 0 {
		return errors.New("CapacityKW must be > 0")
	}
	return s.Loss.Validate()
}

// Generation converts irradiance (kWh/m²) received in the hour ending at t
// into generated energy (kWh).
func (s System) Generation(t time.Time, irradianceKWh float64) float64 {
	return irradianceKWh * s.CapacityKW * s.Loss.For(t.Month())
}
