package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/hotelops/reclamations-backend/pkg/logger"
	"github.com/hotelops/reclamations-backend/pkg/onesignal"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "push-devices"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "list", "device command: list|purge")
	inactiveDays := flag.Int("inactive-days", 0, "purge only devices idle for at least this many days; 0 purges every device")
	dryRun := flag.Bool("dry-run", false, "print what purge would delete without deleting")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)
	if !cfg.Push.Enabled() {
		fmt.Fprintln(os.Stderr, "push credentials are not configured")
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{"cmd": *cmd})
	client, err := onesignal.NewClient(cfg.Push)
	requireResource(ctx, logg, "onesignal", err)

	players, err := client.ListPlayers(ctx)
	requireResource(ctx, logg, "onesignal players", err)

	switch *cmd {
	case "list":
		for _, p := range players {
			fmt.Printf("%s\tdevice_type=%d\tlast_active=%s\tinvalid=%t\n",
				p.ID, p.DeviceType, time.Unix(p.LastActive, 0).UTC().Format(time.RFC3339), p.InvalidID)
		}
		fmt.Printf("%d devices\n", len(players))

	case "purge":
		targets := purgeTargets(players, time.Now(), *inactiveDays)
		deleted := 0
		for _, p := range targets {
			if *dryRun {
				fmt.Println("would delete", p.ID)
				continue
			}
			if err := client.DeletePlayer(ctx, p.ID); err != nil {
				logg.Error(logg.WithField(ctx, "player_id", p.ID), "failed to delete device", err)
				continue
			}
			deleted++
		}
		logg.Info(logg.WithFields(ctx, map[string]any{"candidates": len(targets), "deleted": deleted}), "device purge finished")

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

// purgeTargets selects devices idle for at least inactiveDays, plus any device
// OneSignal already flags as invalid.
func purgeTargets(players []onesignal.Player, now time.Time, inactiveDays int) []onesignal.Player {
	if inactiveDays <= 0 {
		return players
	}
	cutoff := now.Add(-time.Duration(inactiveDays) * 24 * time.Hour).Unix()
	out := []onesignal.Player{}
	for _, p := range players {
		if p.InvalidID || p.LastActive < cutoff {
			out = append(out, p)
		}
	}
	return out
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
