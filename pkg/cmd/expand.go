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
	"path/filepath"
	"runtime"

	"github.com/consensys/go-sublambda/pkg/fold"
	"github.com/consensys/go-sublambda/pkg/lang/printer"
	"github.com/consensys/go-sublambda/pkg/macro"
	"github.com/consensys/go-sublambda/pkg/util"
	"github.com/consensys/go-sublambda/pkg/util/source"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// expandCmd represents the expand command
var expandCmd = &cobra.Command{
	Use:   "expand [flags] source_file(s)",
	Short: "Expand macro calls within one or more source files.",
	Long: `Expand all calls to the macros given in a definition file within one or
more source files, printing the resulting source.  Each line of the definition
file names a macro followed by the lambda expression implementing it, e.g.

	double lambda x: x + x`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			folding  = GetFlag(cmd, "fold")
			watching = GetFlag(cmd, "watch")
			pipeline = readPipeline(cmd)
		)
		//
		status := expandAndPrint(pipeline, args, folding)
		//
		if watching {
			watchFiles(GetString(cmd, "macros"), GetFlag(cmd, "hygienic"), args, folding)
		} else if status != 0 {
			os.Exit(status)
		}
	},
}

// Expand a set of source files against a single pipeline, and print the
// results in the order given.  The files are expanded concurrently.  The
// returned status is zero if all files were expanded successfully, or the exit
// code appropriate for the most severe error otherwise.
func expandAndPrint(pipeline *macro.Pipeline, filenames []string, folding bool) int {
	var (
		outputs = make([]string, len(filenames))
		errs    = make([]error, len(filenames))
		group   errgroup.Group
		stats   = util.NewPerfStats()
		status  = 0
	)
	//
	group.SetLimit(runtime.NumCPU())
	//
	for i, filename := range filenames {
		i, filename := i, filename
		group.Go(func() error {
			outputs[i], errs[i] = expandFile(pipeline, filename, folding)
			// Errors are reported per file
			return nil
		})
	}
	//
	_ = group.Wait()
	//
	stats.Log(fmt.Sprintf("expanding %d file(s)", len(filenames)))
	//
	for i, filename := range filenames {
		var pathErr *fs.PathError
		//
		if len(filenames) > 1 {
			fmt.Printf("# %s\n", filename)
		}
		//
		switch {
		case errs[i] == nil:
			fmt.Print(outputs[i])
		case errors.As(errs[i], &pathErr):
			fmt.Println(errs[i])
			status = max(status, 3)
		default:
			printError(errs[i])
			status = max(status, 4)
		}
	}
	//
	return status
}

// Expand a single source file, returning the resulting source text.
func expandFile(pipeline *macro.Pipeline, filename string, folding bool) (string, error) {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		return "", err
	}
	//
	module, _, err := pipeline.ExpandSource(srcfile)
	if err != nil {
		return "", err
	}
	//
	if folding {
		module = fold.Module(module)
	}
	//
	return printer.String(module), nil
}

// Watch the macro definition file and the source files for changes, expanding
// everything again whenever one occurs.  The pipeline is rebuilt each time, so
// changes to the definitions take effect immediately.  This only returns if
// the watcher itself fails.
func watchFiles(macros string, hygienic bool, filenames []string, folding bool) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	defer watcher.Close()
	//
	watched := make(map[string]bool)
	// Watch enclosing directories, since editors often replace files rather
	// than write them.
	for _, filename := range append([]string{macros}, filenames...) {
		if filename == "" {
			continue
		}
		//
		path := filepath.Clean(filename)
		watched[path] = true
		//
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
	}
	//
	log.Infof("watching %d file(s) for changes", len(watched))
	//
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			//
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !watched[filepath.Clean(event.Name)] {
				continue
			}
			//
			log.Debugf("%s changed (%s)", event.Name, event.Op)
			//
			pipeline := macro.NewPipeline(hygienic)
			//
			if macros != "" {
				if pipeline, err = buildPipeline(macros, hygienic); err != nil {
					printError(err)
					continue
				}
			}
			//
			expandAndPrint(pipeline, filenames, folding)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			//
			log.Errorf("watch error: %s", err)
		}
	}
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringP("macros", "m", "", "file of macro definitions (one per line)")
	expandCmd.Flags().Bool("hygienic", false, "rename variables assigned within macros apart")
	expandCmd.Flags().Bool("fold", false, "fold constant additions after expansion")
	expandCmd.Flags().BoolP("watch", "w", false, "expand again whenever an input file changes")
}
