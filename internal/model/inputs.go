package model

import "errors"

// Inputs names the on-disk sources one forecast run reads.
type Inputs struct {
	// HourlyIrradiance is the yearly-hourly irradiance table (METPV-20 CSV).
	HourlyIrradiance string `json:"hourly_irradiance" yaml:"hourly_irradiance"`
	// MonthlyReference is the monthly daily-average table (MONSOLA-20 CSV).
	MonthlyReference string `json:"monthly_reference" yaml:"monthly_reference"`
	// MeteredDir holds the metered generation CSV exports.
	MeteredDir string `json:"metered_dir" yaml:"metered_dir"`
	// ArchiveDir holds the measured irradiance archive CSVs.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`
}

func (in Inputs) Validate() error {
	if in.HourlyIrradiance == "" {
		return errors.New("hourly irradiance path is required")
	}
	if in.MonthlyReference == "" {
		return errors.New("monthly reference path is required")
	}
	if in.MeteredDir == "" {
		return errors.New("metered generation directory is required")
	}
	if in.ArchiveDir == "" {
		return errors.New("irradiance archive directory is required")
	}
	return nil
}
