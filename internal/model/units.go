package model

// MJPerKWh is the number of megajoules in one kilowatt-hour.
const MJPerKWh = 3.6

// rawPerMJ is the scale of the hourly irradiance table, which stores values
// in 0.01 MJ/m².
const rawPerMJ = 100

// RawToKWh converts a 0.01 MJ/m² table value into kWh/m².
func RawToKWh(raw float64) float64 {
	return raw / rawPerMJ / MJPerKWh
}

// KWhToRaw is the inverse of RawToKWh.
func KWhToRaw(kwh float64) float64 {
	return kwh * MJPerKWh * rawPerMJ
}
