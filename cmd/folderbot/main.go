// Package main runs the chat bot: it loads the configuration, the command
// tree and the player store, then keeps the chat session alive until the
// bot is told to stop or the process is signalled.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/totorewa/folderbot/internal/audio"
	"github.com/totorewa/folderbot/internal/bot"
	"github.com/totorewa/folderbot/internal/chat"
	"github.com/totorewa/folderbot/internal/commandtree"
	"github.com/totorewa/folderbot/internal/config"
	"github.com/totorewa/folderbot/internal/game/betting"
	"github.com/totorewa/folderbot/internal/game/dice"
	"github.com/totorewa/folderbot/internal/game/loot"
	"github.com/totorewa/folderbot/internal/irc"
	"github.com/totorewa/folderbot/internal/observability"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/responses"
	"github.com/totorewa/folderbot/internal/server"
	"github.com/totorewa/folderbot/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	initTree := flag.Bool("init", false, "write a fresh commands file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "folderbot")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *initTree {
		if _, err := commandtree.SetupNew(cfg.Bot.CommandsPath); err != nil {
			logger.Fatal("creating commands file", zap.Error(err))
		}
		logger.Info("commands file created", zap.String("path", cfg.Bot.CommandsPath))
		return
	}

	creds, err := config.LoadCredentials(cfg.Bot.AuthDir)
	if err != nil {
		logger.Fatal("loading credentials", zap.Error(err))
	}

	tree, err := commandtree.FromFile(cfg.Bot.CommandsPath)
	if err != nil {
		logger.Fatal("loading commands", zap.Error(err))
	}

	ctx := context.Background()

	opened, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("opening player store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer opened.Close()
	roster := player.NewRoster(opened.Store, logger.Named("players"))
	if err := roster.Load(ctx); err != nil {
		logger.Fatal("loading players", zap.Error(err))
	}

	src := dice.NewCryptoSource()
	lib, err := responses.Load(cfg.Bot.ResponsesDir, src)
	if err != nil {
		logger.Fatal("loading responses", zap.Error(err))
	}

	gunpowder := loot.DefaultGunpowder()
	tables, err := loot.LoadFile(cfg.Bot.LootPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("loot file missing, using built-in gunpowder table", zap.String("path", cfg.Bot.LootPath))
	case err != nil:
		logger.Fatal("loading loot tables", zap.Error(err))
	default:
		if t, ok := tables[loot.Gunpowder]; ok {
			gunpowder = t
		}
	}

	gamblers, err := betting.LoadFile(cfg.Bot.BettingPath)
	if err != nil {
		logger.Fatal("loading wagers", zap.Error(err))
	}

	d := bot.New(bot.Deps{
		Tree:         tree,
		Roster:       roster,
		Library:      lib,
		Audio:        audio.NewGate(audio.NewLogPlayer(logger.Named("audio")), audio.SoundCooldown),
		Betting:      betting.New(gamblers),
		Gunpowder:    gunpowder,
		Source:       src,
		Parser:       chat.NewParser(),
		CommandsPath: cfg.Bot.CommandsPath,
		BettingPath:  cfg.Bot.BettingPath,
	}, logger.Named("bot"))

	session := irc.NewSession(cfg.IRC, creds, d, logger.Named("irc"),
		irc.WithPrepare(d.ReloadCommands),
		irc.WithAutosave(irc.NewAutosave(d, cfg.Storage.AutosaveInterval, logger.Named("autosave"))),
	)

	logger.Info("bot ready",
		zap.Stringer("credentials", creds),
		zap.Int("players", roster.Len()),
		zap.Duration("startup", time.Since(start)),
	)

	lc := server.NewLifecycle(logger)
	lc.Add("chat", &server.FuncService{StartFn: session.Run})
	runErr := lc.Run(ctx)

	if err := d.Save(ctx); err != nil {
		logger.Error("final save failed", zap.Error(err))
	}
	if runErr != nil {
		logger.Fatal("bot stopped", zap.Error(runErr))
	}
	logger.Info("bot stopped", zap.Duration("uptime", time.Since(start)))
}
