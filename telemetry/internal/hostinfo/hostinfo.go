// Package hostinfo samples coarse host statistics for the health endpoint.
package hostinfo

import (
	"context"
	"errors"
	"math"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/nctirs/nctirs-stack/common/models"
)

// Collect gathers CPU count, memory utilisation and 1-minute load average.
// Individual probes that fail are left at zero; an error is returned only
// when every probe fails.
func Collect(ctx context.Context) (*models.HostStats, error) {
	stats := &models.HostStats{}
	var errs []error

	if n, err := cpu.CountsWithContext(ctx, true); err != nil {
		errs = append(errs, err)
	} else {
		stats.CPUCount = n
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, err)
	} else {
		stats.MemoryUsedPct = round2(vm.UsedPercent)
	}

	// load.Avg is unsupported on some platforms (Windows).
	if avg, err := load.AvgWithContext(ctx); err != nil {
		errs = append(errs, err)
	} else {
		stats.Load1 = round2(avg.Load1)
	}

	if len(errs) == 3 {
		return nil, errors.Join(errs...)
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
