// Package monitor reports filesystem free-space statistics and derives a
// pressure level from them. reclaim uses pressure to scale how eager its
// analysis passes are to flag things worth reclaiming, and to refuse
// trash-store writes when the destination filesystem is nearly full -- it
// does not drive any automatic deletion itself.
package monitor

import (
	"github.com/shirou/gopsutil/v3/disk"
)

// DiskStats is a snapshot of a filesystem's usage at Path.
type DiskStats struct {
	Path        string
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
	FreePercent float64
	FreeGB      float64
}

// GetDiskStats returns disk statistics for the filesystem containing path.
func GetDiskStats(path string) (*DiskStats, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, err
	}

	return &DiskStats{
		Path:        path,
		Total:       usage.Total,
		Used:        usage.Used,
		Free:        usage.Free,
		UsedPercent: usage.UsedPercent,
		FreePercent: 100.0 - usage.UsedPercent,
		FreeGB:      float64(usage.Free) / (1024 * 1024 * 1024),
	}, nil
}

// GetRootDiskStats returns disk statistics for the root filesystem.
func GetRootDiskStats() (*DiskStats, error) {
	return GetDiskStats("/")
}

// PressureLevel buckets how tight a filesystem's free space is.
type PressureLevel int

const (
	PressureNone PressureLevel = iota
	PressureModerate
	PressureHigh
	PressureCritical
)

func (l PressureLevel) String() string {
	switch l {
	case PressureNone:
		return "none"
	case PressureModerate:
		return "moderate"
	case PressureHigh:
		return "high"
	case PressureCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Monitor buckets used-percent readings into a PressureLevel using three
// ascending thresholds.
type Monitor struct {
	ThresholdModerate float64
	ThresholdHigh     float64
	ThresholdCritical float64
}

// NewMonitor builds a Monitor from ascending used-percent thresholds.
func NewMonitor(moderate, high, critical int) *Monitor {
	return &Monitor{
		ThresholdModerate: float64(moderate),
		ThresholdHigh:     float64(high),
		ThresholdCritical: float64(critical),
	}
}

// Pressure classifies stats.UsedPercent against the monitor's thresholds.
func (m *Monitor) Pressure(stats *DiskStats) PressureLevel {
	switch {
	case stats.UsedPercent >= m.ThresholdCritical:
		return PressureCritical
	case stats.UsedPercent >= m.ThresholdHigh:
		return PressureHigh
	case stats.UsedPercent >= m.ThresholdModerate:
		return PressureModerate
	default:
		return PressureNone
	}
}

// Check reads disk stats for path and classifies their pressure level.
func (m *Monitor) Check(path string) (*DiskStats, PressureLevel, error) {
	stats, err := GetDiskStats(path)
	if err != nil {
		return nil, PressureNone, err
	}
	return stats, m.Pressure(stats), nil
}

// defaultMonitor matches the thresholds a developer workstation typically
// starts to feel disk pressure at.
var defaultMonitor = NewMonitor(80, 90, 97)

// floorScale maps a pressure level to a multiplier analysis passes apply to
// their reporting floors: the tighter free space gets, the smaller a find
// has to be before it's worth surfacing.
var floorScale = map[PressureLevel]float64{
	PressureNone:     1.0,
	PressureModerate: 0.5,
	PressureHigh:     0.2,
	PressureCritical: 0.05,
}

// FloorScale reads disk stats for path against the default thresholds and
// returns the multiplier analysis passes should apply to their reporting
// floors. A non-nil error means the scale couldn't be determined and the
// caller should fall back to 1.0 (no adjustment).
func FloorScale(path string) (float64, error) {
	stats, err := GetDiskStats(path)
	if err != nil {
		return 1.0, err
	}
	return floorScale[defaultMonitor.Pressure(stats)], nil
}
