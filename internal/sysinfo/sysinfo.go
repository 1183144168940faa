// Package sysinfo reports host health: CPU load, memory pressure and
// internet reachability.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Monitor samples CPU and memory usage via gopsutil.
type Monitor struct {
	sample time.Duration
}

func NewMonitor() *Monitor {
	return &Monitor{sample: time.Second}
}

// CPUPercent blocks for one sample interval and returns aggregate
// usage across all cores, 0..100.
func (m *Monitor) CPUPercent(ctx context.Context) (float64, error) {
	perc, err := cpu.PercentWithContext(ctx, m.sample, false)
	if err != nil {
		return 0, fmt.Errorf("cpu sample: %w", err)
	}
	if len(perc) == 0 {
		return 0, errors.New("cpu sample: no data")
	}

	return perc[0], nil
}

func (m *Monitor) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("memory sample: %w", err)
	}

	return vm.UsedPercent, nil
}

// Probe checks connectivity by dialing a public DNS resolver.
type Probe struct {
	addr    string
	timeout time.Duration
	dial    func(network, addr string, timeout time.Duration) (net.Conn, error)
}

func NewProbe() *Probe {
	return &Probe{
		addr:    "8.8.8.8:53",
		timeout: 3 * time.Second,
		dial:    net.DialTimeout,
	}
}

func (p *Probe) Online() bool {
	conn, err := p.dial("tcp", p.addr, p.timeout)
	if err != nil {
		return false
	}
	conn.Close()

	return true
}
