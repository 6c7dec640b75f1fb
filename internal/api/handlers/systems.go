package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"pv-forecast/internal/api/models"
	"pv-forecast/internal/config"
	"pv-forecast/internal/log"
)

// SystemHandler serves the configured PV system and the system presets
type SystemHandler struct {
	cfg *config.Config
	dir string
}

func NewSystemHandler(cfg *config.Config, dir string) *SystemHandler {
	return &SystemHandler{cfg: cfg, dir: dir}
}

// GetSystem handles GET /api/v1/system
func (h *SystemHandler) GetSystem(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"system": models.SystemInfo{
			Name:             h.cfg.System.Name,
			CapacityKW:       h.cfg.System.CapacityKW,
			LossCoefficients: h.cfg.System.LossCoefficients,
		},
		"window": models.MonthWindow{From: h.cfg.Analysis.WindowFrom, To: h.cfg.Analysis.WindowTo},
		"site":   h.cfg.Labels.Site,
	})
}

// ListSystems handles GET /api/v1/systems
func (h *SystemHandler) ListSystems(c *gin.Context) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"systems": []models.SystemInfo{}, "count": 0})
			return
		}
		abortWithError(c, http.StatusInternalServerError, "SYSTEMS_LOAD_ERROR", err)
		return
	}

	systems := []models.SystemInfo{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		sys, err := config.LoadSystemFile(filepath.Join(h.dir, name))
		if err != nil {
			log.Ctx(c.Request.Context()).Warn("skipping system preset", "file", name, "error", err)
			continue
		}
		id := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		if sys.Name == "" {
			sys.Name = id
		}
		systems = append(systems, models.SystemInfo{
			ID:               id,
			Name:             sys.Name,
			File:             name,
			CapacityKW:       sys.CapacityKW,
			LossCoefficients: sys.LossCoefficients,
		})
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i].ID < systems[j].ID })

	c.JSON(http.StatusOK, gin.H{"systems": systems, "count": len(systems)})
}
