package feed

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

// diskRoot is the filesystem whose usage feeds the disk panel.
const diskRoot = "/"

// Sampler reads host counters for the metrics panel. Collectors are struct
// fields so tests can substitute them.
type Sampler struct {
	log logger.Logger

	cpuPercent  func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	cpuCounts   func(ctx context.Context, logical bool) (int, error)
	cpuInfo     func(ctx context.Context) ([]cpu.InfoStat, error)
	virtualMem  func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage   func(ctx context.Context, path string) (*disk.UsageStat, error)
	netCounters func(ctx context.Context, pernic bool) ([]gopsnet.IOCountersStat, error)
}

func NewSampler(log logger.Logger) *Sampler {
	return &Sampler{
		log:         log,
		cpuPercent:  cpu.PercentWithContext,
		cpuCounts:   cpu.CountsWithContext,
		cpuInfo:     cpu.InfoWithContext,
		virtualMem:  mem.VirtualMemoryWithContext,
		diskUsage:   disk.UsageWithContext,
		netCounters: gopsnet.IOCountersWithContext,
	}
}

// Sample reads one round of host counters. Any reading that fails is logged
// and left at zero so the feed keeps flowing on hosts where a collector is
// unsupported.
func (s *Sampler) Sample(ctx context.Context) *models.SystemMetrics {
	m := &models.SystemMetrics{}

	if percents, err := s.cpuPercent(ctx, 0, false); err != nil {
		s.log.Warn().Err(err).Msg("cpu percent read failed; usage will be zero")
	} else if len(percents) > 0 {
		m.System.CPU.Percent = percents[0]
	}

	if cores, err := s.cpuCounts(ctx, true); err != nil {
		s.log.Warn().Err(err).Msg("cpu count read failed")
	} else {
		m.System.CPU.Cores = cores
	}

	if infos, err := s.cpuInfo(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cpu info read failed")
	} else if len(infos) > 0 {
		m.System.CPU.Frequency = infos[0].Mhz
	}

	if vmStats, err := s.virtualMem(ctx); err != nil {
		s.log.Warn().Err(err).Msg("memory read failed")
	} else {
		m.System.Memory = models.MemoryStats{
			Total:   vmStats.Total,
			Used:    vmStats.Used,
			Percent: vmStats.UsedPercent,
		}
	}

	if usage, err := s.diskUsage(ctx, diskRoot); err != nil {
		s.log.Warn().Err(err).Msg("disk read failed")
	} else {
		m.System.Disk = models.DiskStats{
			Total:   usage.Total,
			Used:    usage.Used,
			Percent: usage.UsedPercent,
		}
	}

	if counters, err := s.netCounters(ctx, false); err != nil {
		s.log.Warn().Err(err).Msg("network counter read failed")
	} else if len(counters) > 0 {
		m.System.Network = models.NetworkStats{
			BytesSent: counters[0].BytesSent,
			BytesRecv: counters[0].BytesRecv,
		}
	}

	return m
}
