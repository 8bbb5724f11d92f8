// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats provides a snapshot of the time and memory allocated at a given
// point, against which later snapshots can be compared.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Log logs (at debug level) the time taken and memory allocated since this
// snapshot was created.
func (p *PerfStats) Log(task string) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	//
	alloc, gcs, elapsed := p.Since()
	//
	log.Debugf("%s took %s using %d Kb (%d GC events)", task, elapsed.Round(time.Microsecond), alloc/1024, gcs)
}

// Since returns the memory allocated (in bytes), the number of garbage
// collections and the time elapsed since this snapshot was created.
func (p *PerfStats) Since() (uint64, uint32, time.Duration) {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	return m.TotalAlloc - p.startMem, m.NumGC - p.startGc, time.Since(p.startTime)
}
