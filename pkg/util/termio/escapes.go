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
package termio

import "fmt"

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_CYAN represents cyan
const TERM_CYAN = uint(6)

// AnsiEscape represents an ANSI escape code used for formatting text in a
// terminal.  Escapes are built up from any number of attributes.
type AnsiEscape struct {
	escape string
	count  uint
}

// NewAnsiEscape construct an empty escape
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033", 0}
}

// ResetAnsiEscape constructs an escape which clears all attributes.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[0", 1}
}

// Bold adds the bold attribute to this escape.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.with(1)
}

// FgColour sets the foreground colour
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.with(30 + col)
}

func (p AnsiEscape) with(attribute uint) AnsiEscape {
	if p.count > 0 {
		return AnsiEscape{fmt.Sprintf("%s;%d", p.escape, attribute), p.count + 1}
	}
	//
	return AnsiEscape{fmt.Sprintf("%s[%d", p.escape, attribute), p.count + 1}
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	return fmt.Sprintf("%sm", p.escape)
}

// Highlighter applies escapes to text, but only when enabled.  This allows
// escapes to be dropped when output is not going to a terminal.
type Highlighter struct {
	enabled bool
}

// NewHighlighter constructs a highlighter which is either enabled or not.
func NewHighlighter(enabled bool) Highlighter {
	return Highlighter{enabled}
}

// Apply a given escape to some text, resetting afterwards.
func (p Highlighter) Apply(escape AnsiEscape, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	//
	return escape.Build() + text + ResetAnsiEscape().Build()
}
