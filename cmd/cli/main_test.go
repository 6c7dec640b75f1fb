package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pv-forecast/internal/config"
)

func TestApplyYear(t *testing.T) {
	cfg := config.Default()
	applyYear(cfg, 0)
	assert.Equal(t, cfg.Analysis.ThresholdYear, cfg.HourlyYear())

	applyYear(cfg, 2019)
	assert.Equal(t, 2019, cfg.HourlyYear())
}
