// Command battlesim runs a single battle to completion from a config file
// plus combatant/skill data files, and writes the resulting event log as
// JSON.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Zhihong0321/wuxia-battle-simulator/internal/config"
	"github.com/Zhihong0321/wuxia-battle-simulator/internal/engine"
	"github.com/Zhihong0321/wuxia-battle-simulator/internal/engine/rng"
	"github.com/Zhihong0321/wuxia-battle-simulator/internal/loader"
	"github.com/Zhihong0321/wuxia-battle-simulator/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/battle.yaml", "path to run configuration file")
	combatantsPath := flag.String("combatants", "testdata/combatants.yaml", "path to combatants data file")
	skillsPath := flag.String("skills", "testdata/skills.yaml", "path to skill catalog data file")
	outPath := flag.String("out", "events.json", "output file for the event log")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	combatants, err := loader.LoadCombatants(*combatantsPath)
	if err != nil {
		logger.Fatal("loading combatants", zap.Error(err))
	}
	tiers, err := loader.LoadSkillTiers(*skillsPath)
	if err != nil {
		logger.Fatal("loading skill tiers", zap.Error(err))
	}

	store, err := engine.NewCombatantStore(combatants)
	if err != nil {
		logger.Fatal("building combatant store", zap.Error(err))
	}
	catalog, err := engine.NewSkillCatalog(tiers)
	if err != nil {
		logger.Fatal("building skill catalog", zap.Error(err))
	}

	eng := engine.NewEngine(
		store,
		engine.NewActionSelector(),
		engine.NewScheduler(cfg.Run.ATBThreshold, cfg.Run.ATBTickScale),
		rng.New(cfg.Run.RNGSeed),
		catalog,
		engine.EngineConfig{CritMultiplier: cfg.Run.CritMultiplier, MaxSteps: cfg.Run.MaxSteps},
		engine.WithLogger(logger),
	)

	logger.Info("battle starting",
		zap.Int64("seed", cfg.Run.RNGSeed),
		zap.Int("combatants", len(combatants)),
	)

	events := eng.RunToCompletion()

	logger.Info("battle finished",
		zap.Int("events", len(events)),
		zap.Int("steps", eng.StepCount()),
		zap.String("over_reason", eng.OverReason()),
		zap.Duration("elapsed", time.Since(start)),
	)

	b, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		logger.Fatal("marshaling events", zap.Error(err))
	}
	if err := os.WriteFile(*outPath, b, 0644); err != nil {
		logger.Fatal("writing output", zap.Error(err))
	}
}
