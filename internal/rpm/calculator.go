// Package rpm implements the rate-per-mile calculator used by the
// dashboard: gross and net RPM, fuel cost and net profit for a load.
package rpm

import "errors"

// ErrZeroMiles is returned when the loaded miles are missing
var ErrZeroMiles = errors.New("miles must be greater than zero")

// Input for one calculation. FuelPrice and MPG fall back to typical values
// when zero.
type Input struct {
	Rate      float64 // total load pay, dollars
	Miles     int     // loaded miles
	Deadhead  int     // empty miles to the pickup
	FuelPrice float64 // dollars per gallon
	MPG       float64 // truck fuel economy
	Tolls     float64 // dollars
}

// Result of a calculation.
type Result struct {
	GrossRPM  float64 `json:"gross_rpm"`
	NetRPM    float64 `json:"net_rpm"`
	RPMPlus   float64 `json:"rpm_plus"` // rate over loaded+deadhead miles
	FuelCost  float64 `json:"fuel_cost"`
	NetProfit float64 `json:"net_profit"`
}

const (
	defaultFuelPrice = 3.50
	defaultMPG       = 6.5
)

// Calculate computes the RPM breakdown for a load.
func Calculate(in Input) (Result, error) {
	if in.Miles <= 0 {
		return Result{}, ErrZeroMiles
	}
	if in.FuelPrice <= 0 {
		in.FuelPrice = defaultFuelPrice
	}
	if in.MPG <= 0 {
		in.MPG = defaultMPG
	}

	totalMiles := float64(in.Miles + in.Deadhead)
	miles := float64(in.Miles)

	fuelCost := totalMiles / in.MPG * in.FuelPrice
	netProfit := in.Rate - fuelCost - in.Tolls

	return Result{
		GrossRPM:  in.Rate / miles,
		NetRPM:    netProfit / miles,
		RPMPlus:   in.Rate / totalMiles,
		FuelCost:  fuelCost,
		NetProfit: netProfit,
	}, nil
}
