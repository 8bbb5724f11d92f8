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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/consensys/go-sublambda/pkg/session"
	"github.com/consensys/go-sublambda/pkg/util/termio"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// HISTORY_FILE is the name of the file (within the user's home directory) in
// which the history of interactive sessions is kept.
const HISTORY_FILE = ".sublambda_history"

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl [flags]",
	Short: "Start an interactive session.",
	Long: `Start an interactive session in which statements are executed as they are
entered, and macros can be defined and used.  Type :help within the session for
a list of directives.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			s       = session.New(os.Stdout)
			console = session.NewConsole(s, os.Stdout)
		)
		// Pre-define macros, if requested
		if GetString(cmd, "macros") != "" {
			command := GetString(cmd, "command")
			pipeline := readPipeline(cmd)
			//
			s.Define(command, pipeline.ExpandModule)
			fmt.Printf("defined %s %s\n", command, pipeline.String())
		}
		//
		if termio.IsTerminal(os.Stdin) {
			runInteractive(console)
		} else if !runBatch(console, os.Stdin) {
			os.Exit(5)
		}
	},
}

// Run a console interactively, with line editing and history.
func runInteractive(console *session.Console) {
	var (
		ln       = liner.NewLiner()
		home, _  = os.UserHomeDir()
		histPath = filepath.Join(home, HISTORY_FILE)
	)
	//
	defer ln.Close()
	//
	ln.SetCtrlCAborts(true)
	//
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	//
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		} else {
			log.Debugf("cannot write history: %s", err)
		}
	}()
	//
	fmt.Println("Type :help for a list of directives, or :quit to leave.")
	//
	for {
		line, err := ln.Prompt(console.Prompt())
		//
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			console.Reset()
			continue
		case errors.Is(err, io.EOF):
			fmt.Println()
			reportError(console.Flush())
			//
			return
		case err != nil:
			log.Errorf("%s", err)
			return
		}
		//
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		//
		if err = console.Input(line); errors.Is(err, session.ErrQuit) {
			return
		}
		//
		reportError(err)
	}
}

// Run a console over some non-interactive input (e.g. a file piped in),
// returning false if any errors were reported.
func runBatch(console *session.Console, in io.Reader) bool {
	var (
		scanner = bufio.NewScanner(in)
		ok      = true
	)
	//
	for scanner.Scan() {
		err := console.Input(scanner.Text())
		//
		if errors.Is(err, session.ErrQuit) {
			return ok
		} else if err != nil {
			reportError(err)
			ok = false
		}
	}
	//
	if err := scanner.Err(); err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	if err := console.Flush(); err != nil {
		reportError(err)
		ok = false
	}
	//
	return ok
}

// Report an error (if there is one) arising within a session.  The session
// continues afterwards.
func reportError(err error) {
	if err != nil {
		printError(err)
	}
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringP("macros", "m", "", "file of macro definitions to define at startup")
	replCmd.Flags().Bool("hygienic", false, "rename variables assigned within macros apart")
	replCmd.Flags().String("command", "inline", "name of the command which expands the macros given at startup")
}
