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

	"github.com/consensys/go-sublambda/pkg/macro"
	"github.com/spf13/cobra"
)

// foldCmd represents the fold command
var foldCmd = &cobra.Command{
	Use:   "fold [flags] source_file(s)",
	Short: "Fold constant additions within one or more source files.",
	Long: `Fold additions of constants within one or more source files, printing the
resulting source.  For example, "1 + 2 + x + 3" becomes "6 + x".`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// An empty pipeline expands nothing
		if status := expandAndPrint(macro.NewPipeline(false), args, true); status != 0 {
			os.Exit(status)
		}
	},
}

func init() {
	rootCmd.AddCommand(foldCmd)
}
