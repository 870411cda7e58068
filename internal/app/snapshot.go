package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"scrcpyctl/internal/adb"
	"scrcpyctl/internal/helper"
	"scrcpyctl/internal/instance"
	"scrcpyctl/internal/inventory"
)

// SnapshotParams carries raw helper output.
type SnapshotParams struct {
	ScanOutput    string
	DevicesOutput string
}

// Snapshot is the joined view of devices and running instances.
type Snapshot struct {
	ScanID  string
	Devices []adb.Device
	Groups  []inventory.Group
	// Skipped counts scan rows without a usable identity.
	Skipped int
	// Warnings holds non-fatal helper failures.
	Warnings []string
}

// Instances returns every instance across groups in display order.
func (s Snapshot) Instances() []inventory.Instance {
	out := make([]inventory.Instance, 0, inventory.Count(s.Groups))
	for _, g := range s.Groups {
		out = append(out, g.Instances...)
	}
	return out
}

// Find returns the instance with key.
func (s Snapshot) Find(key string) (inventory.Instance, bool) {
	for _, g := range s.Groups {
		for _, inst := range g.Instances {
			if inst.Key == key {
				return inst, true
			}
		}
	}
	return inventory.Instance{}, false
}

// Snapshot parses helper output, records the running instances in the
// registry and resolves their names.
func (a *App) Snapshot(ctx context.Context, params SnapshotParams) (Snapshot, error) {
	return a.snapshot(ctx, uuid.NewString(), params)
}

func (a *App) snapshot(ctx context.Context, scanID string, params SnapshotParams) (Snapshot, error) {
	snap := Snapshot{ScanID: scanID}
	book, err := a.instances(ctx)
	if err != nil {
		return snap, err
	}

	snap.Devices = adb.ParseDevices(params.DevicesOutput)
	online := adb.Online(snap.Devices)

	records := helper.ParseScanOutput(params.ScanOutput)
	found := make([]inventory.Instance, 0, len(records))
	keys := make([]string, 0, len(records))
	for _, rec := range records {
		if !instance.Identifiable(rec) {
			snap.Skipped++
			log.Debug().Str("scan_id", scanID).Str("exe", rec.Exe).Str("start_ticks", rec.StartTicks).
				Msg("scan row without numeric pid/uid skipped")
			continue
		}
		inst := inventory.Describe(rec, online)
		found = append(found, inst)
		keys = append(keys, inst.Key)
	}

	reg := book.Track(ctx, keys)
	names := book.Names(ctx)
	for i := range found {
		inst := &found[i]
		inst.Custom = instance.NormalizeName(names[inst.Key]) != ""
		inst.Name = instance.DisplayName(reg, names, inst.Key, inst.Outside, book.Format())
		inst.Number = reg.Numbers[inst.Key]
	}

	snap.Groups = inventory.Join(adb.Cards(snap.Devices), found)
	log.Debug().Str("scan_id", scanID).Int("devices", len(snap.Devices)).Int("instances", len(found)).
		Int("skipped", snap.Skipped).Msg("snapshot built")
	return snap, nil
}

// RefreshParams configures a live refresh.
type RefreshParams struct {
	// Timeout bounds both helper runs. Zero leaves the runner default.
	Timeout time.Duration
}

// Refresh runs the device enumerator and the scan helper concurrently and
// builds a Snapshot from their output. A failing device enumeration is
// reported as a warning; a failing scan is an error.
func (a *App) Refresh(ctx context.Context, params RefreshParams) (Snapshot, error) {
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}
	scanID := uuid.NewString()

	var scanOut, devicesOut string
	var devicesErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := a.runner.Scan(gctx)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		scanOut = out
		return nil
	})
	g.Go(func() error {
		out, err := a.runner.Devices(gctx)
		if err != nil {
			devicesErr = err
			return nil
		}
		devicesOut = out
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("scan_id", scanID).Msg("refresh failed")
		return Snapshot{ScanID: scanID}, err
	}

	snap, err := a.snapshot(ctx, scanID, SnapshotParams{ScanOutput: scanOut, DevicesOutput: devicesOut})
	if devicesErr != nil {
		log.Warn().Err(devicesErr).Str("scan_id", scanID).Msg("device enumeration failed")
		snap.Warnings = append(snap.Warnings, devicesErr.Error())
	}
	return snap, err
}

// Probe asks the scan helper to describe its environment.
func (a *App) Probe(ctx context.Context) (map[string]string, error) {
	return a.runner.Probe(ctx)
}
