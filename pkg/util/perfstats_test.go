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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerfStats(t *testing.T) {
	stats := NewPerfStats()
	//
	buffers := make([][]byte, 16)
	for i := range buffers {
		buffers[i] = make([]byte, 4096)
	}
	//
	_, _, elapsed := stats.Since()
	//
	assert.NotEmpty(t, buffers)
	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
	// Logging is harmless at any level
	stats.Log("allocating")
}
