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
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/consensys/go-sublambda/pkg/lang/interp"
	"github.com/consensys/go-sublambda/pkg/macro"
	"github.com/consensys/go-sublambda/pkg/util/source"
	"github.com/consensys/go-sublambda/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string, or exit if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetStringArray gets an expected string array, or exit if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Read a given source file, or exit if this fails.
func readSourceFile(filename string) *source.File {
	log.Debug(fmt.Sprintf("reading source file %s", filename))
	//
	srcfile, err := source.ReadFile(filename)
	// Sanity check for errors
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	return srcfile
}

// Build the pipeline described by the "--macros" and "--hygienic" flags.  When
// no macro file is given, the result is an empty pipeline (i.e. one which
// expands nothing).
func readPipeline(cmd *cobra.Command) *macro.Pipeline {
	var (
		filename = GetString(cmd, "macros")
		hygienic = GetFlag(cmd, "hygienic")
		pathErr  *fs.PathError
	)
	//
	if filename == "" {
		return macro.NewPipeline(hygienic)
	}
	//
	pipeline, err := buildPipeline(filename, hygienic)
	//
	if errors.As(err, &pathErr) {
		fmt.Println(err)
		os.Exit(3)
	} else if err != nil {
		printError(err)
		os.Exit(4)
	}
	//
	return pipeline
}

// Construct a pipeline from a macro definition file.
func buildPipeline(filename string, hygienic bool) (*macro.Pipeline, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	pipeline, err := macro.BuildPipeline(string(bytes), hygienic)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	log.Debugf("loaded %d macro(s) from %s", len(pipeline.Macros()), filename)
	//
	return pipeline, nil
}

// Print an error, using highlighting for those which identify a location in
// some source file.
func printError(err error) {
	var (
		parseErr   *macro.ParseError
		arityErr   *macro.ArityError
		runtimeErr *interp.RuntimeError
	)
	//
	switch {
	case errors.As(err, &parseErr):
		for i := range parseErr.Errors {
			printSyntaxError(&parseErr.Errors[i])
		}
	case errors.As(err, &arityErr) && arityErr.Location != nil:
		printSyntaxError(arityErr.Location)
	case errors.As(err, &runtimeErr) && runtimeErr.Location() != nil:
		printSyntaxError(runtimeErr.Location())
	default:
		fmt.Println(err)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	var (
		highlighter = termio.HighlighterFor(os.Stdout)
		span        = err.Span()
		line        = err.Line()
		lineOffset  = span.Start() - line.Start()
		// Calculate length (ensures don't overflow line)
		length = max(1, min(line.Length()-lineOffset, span.Length()))
		bold   = termio.NewAnsiEscape().Bold()
		red    = termio.NewAnsiEscape().FgColour(termio.TERM_RED)
	)
	// Print error + line number
	location := fmt.Sprintf("%s:%d:%d-%d", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length)
	fmt.Printf("%s %s\n", highlighter.Apply(bold, location), err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(highlighter.Apply(red, strings.Repeat("^", length)))
}
