// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"fmt"
	"github.com/c9s/goprocinfo/linux"
	"github.com/orbs-network/scribe/log"
	"github.com/vara-dapps/sailscalls-go/synchronization"
	"os"
	"time"
)

const PAGESIZE = 4096

type systemMetrics struct {
	rssBytes       *Gauge
	cpuUtilization *Gauge
}

type systemReporter struct {
	metrics    systemMetrics
	logger     log.Logger
	lastSample *cpuSample
}

type cpuSample struct {
	process uint64
	total   uint64
}

// NewSystemReporter samples memory and cpu usage of the process from procfs; it is a no-op where procfs is missing
func NewSystemReporter(ctx context.Context, metricFactory Factory, interval time.Duration, logger log.Logger) *synchronization.PeriodicalTrigger {
	r := &systemReporter{
		metrics: systemMetrics{
			rssBytes:       metricFactory.NewGauge("OS.Process.Memory.Bytes"),
			cpuUtilization: metricFactory.NewGauge("OS.Process.CPU.PerCent"),
		},
		logger: logger,
	}

	return synchronization.NewPeriodicalTrigger(ctx, "system-metrics", interval, logger, r.reportSystemMetrics, nil)
}

func (r *systemReporter) reportSystemMetrics() {
	if _, err := os.Stat("/proc"); os.IsNotExist(err) {
		return
	}

	if rss, err := getRssMemory(); err != nil {
		r.logger.Error("failed to retrieve memory stats", log.Error(err))
	} else {
		r.metrics.rssBytes.Update(rss)
	}

	sample, err := takeCpuSample()
	if err != nil {
		r.logger.Error("failed to retrieve cpu stats", log.Error(err))
		return
	}

	// procfs counters are cumulative since boot, so utilization needs two samples
	if r.lastSample != nil && sample.total > r.lastSample.total {
		percent := float64(sample.process-r.lastSample.process) / float64(sample.total-r.lastSample.total) * 100
		r.metrics.cpuUtilization.Update(int64(percent))
	}
	r.lastSample = sample
}

func getRssMemory() (int64, error) {
	statm, err := linux.ReadProcessStatm(fmt.Sprintf("/proc/%d/statm", os.Getpid()))
	if err != nil {
		return 0, err
	}

	return int64(statm.Resident * PAGESIZE), nil
}

func takeCpuSample() (*cpuSample, error) {
	process, err := linux.ReadProcess(uint64(os.Getpid()), "/proc")
	if err != nil {
		return nil, err
	}

	stat, err := linux.ReadStat("/proc/stat")
	if err != nil {
		return nil, err
	}
	all := stat.CPUStatAll

	return &cpuSample{
		process: process.Stat.Utime + process.Stat.Stime,
		total:   all.User + all.Nice + all.System + all.Idle,
	}, nil
}
