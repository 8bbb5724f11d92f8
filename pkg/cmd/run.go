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
	"fmt"
	"os"

	"github.com/consensys/go-sublambda/pkg/fold"
	"github.com/consensys/go-sublambda/pkg/lang/interp"
	"github.com/consensys/go-sublambda/pkg/lang/parser"
	"github.com/consensys/go-sublambda/pkg/macro"
	"github.com/consensys/go-sublambda/pkg/util"
	"github.com/consensys/go-sublambda/pkg/util/source"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] source_file",
	Short: "Expand macro calls within a source file, and then execute it.",
	Long: `Expand all calls to the macros given in a definition file (if any) within a
source file, and then execute the result.  Optionally, a function defined by the
source file can be called afterwards, with its result being printed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			pipeline = readPipeline(cmd)
			srcfile  = readSourceFile(args[0])
			fn       = GetString(cmd, "call")
			ip       = interp.New(os.Stdout)
			stats    = util.NewPerfStats()
		)
		//
		module, srcmap, err := pipeline.ExpandSource(srcfile)
		if err != nil {
			printError(err)
			os.Exit(4)
		}
		//
		if GetFlag(cmd, "fold") {
			module = fold.Module(module)
		}
		//
		ip.AddSourceMap(srcmap)
		//
		if err := ip.Exec(module); err != nil {
			printError(err)
			os.Exit(5)
		}
		//
		if fn != "" {
			value, err := ip.Call(fn, evalArguments(ip, GetStringArray(cmd, "arg"))...)
			if err != nil {
				printError(err)
				os.Exit(5)
			}
			//
			fmt.Println(interp.Repr(value))
		}
		//
		stats.Log(fmt.Sprintf("running %s", srcfile.Filename()))
	},
}

// Evaluate the arguments given on the command line for the function being
// called.  Each is an expression of the host language.
func evalArguments(ip *interp.Interpreter, args []string) []interp.Value {
	values := make([]interp.Value, len(args))
	//
	for i, arg := range args {
		expr, srcmap, errs := parser.ParseExpression(source.NewSourceString(fmt.Sprintf("<arg-%d>", i+1), arg))
		if len(errs) > 0 {
			printError(&macro.ParseError{Errors: errs})
			os.Exit(2)
		}
		//
		ip.AddSourceMap(srcmap)
		//
		value, err := ip.Eval(expr)
		if err != nil {
			printError(err)
			os.Exit(2)
		}
		//
		values[i] = value
	}
	//
	return values
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("macros", "m", "", "file of macro definitions (one per line)")
	runCmd.Flags().Bool("hygienic", false, "rename variables assigned within macros apart")
	runCmd.Flags().Bool("fold", false, "fold constant additions after expansion")
	runCmd.Flags().StringP("call", "c", "", "function to call after execution (printing its result)")
	runCmd.Flags().StringArray("arg", []string{}, "argument expression for the function being called")
}
