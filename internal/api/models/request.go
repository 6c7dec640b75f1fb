package models

// RunRequest represents the request body for running a forecast.
// Empty fields fall back to the server configuration.
type RunRequest struct {
	Inputs   InputsConfig   `json:"inputs,omitempty"`
	System   SystemConfig   `json:"system,omitempty"`
	Analysis AnalysisConfig `json:"analysis,omitempty"`
	Options  RunOptions     `json:"options,omitempty"`
}

// InputsConfig names the four input locations on the server.
type InputsConfig struct {
	HourlyIrradiance string `json:"hourly_irradiance,omitempty"`
	MonthlyReference string `json:"monthly_reference,omitempty"`
	MeteredDir       string `json:"metered_dir,omitempty"`
	ArchiveDir       string `json:"archive_dir,omitempty"`
}

// SystemConfig overrides the PV system parameters
type SystemConfig struct {
	SystemFile       string    `json:"system_file,omitempty"` // file name under the systems directory
	Name             string    `json:"name,omitempty"`
	CapacityKW       float64   `json:"capacity_kw,omitempty"`
	LossCoefficients []float64 `json:"loss_coefficients,omitempty"` // 12 values, January first
}

type AnalysisConfig struct {
	Year      int    `json:"year,omitempty"`
	DayMetric string `json:"day_metric,omitempty" binding:"omitempty,oneof=rmse mape"`
}

// RunOptions contains optional run parameters
type RunOptions struct {
	IncludeDays  bool `json:"include_days,omitempty"`  // default: false
	RenderCharts bool `json:"render_charts,omitempty"` // default: false
	NoCache      bool `json:"no_cache,omitempty"`
}

// EstimateRequest runs the generation estimate over one hourly table.
type EstimateRequest struct {
	HourlyIrradiance string  `json:"hourly_irradiance" binding:"required"`
	Year             int     `json:"year,omitempty"`
	CapacityKW       float64 `json:"capacity_kw,omitempty"`
}
