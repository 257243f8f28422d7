package plans

import "log"

// Catalog is the active styles/plans catalog, set in Init().
var Catalog Config

// DailyQuota is the active quota enforcer, set in Init().
var DailyQuota *Quota

func Init() {
	cfg, err := LoadFromEnv()
	if err != nil {
		log.Printf("[plans] WARNING: failed to load plans config, using defaults: %v", err)
		cfg = Default()
	}
	cfg.fillDisplayNames()

	Catalog = cfg
	DailyQuota = NewQuota(cfg)
	log.Printf("[plans] initialized with %d styles, %d plans", len(cfg.Styles), len(cfg.Plans))
}
