/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ysard/mi-remote-database/cmd/completion"
	cmdconfig "github.com/ysard/mi-remote-database/cmd/config"
	"github.com/ysard/mi-remote-database/cmd/decode"
	"github.com/ysard/mi-remote-database/cmd/devices"
	"github.com/ysard/mi-remote-database/cmd/export"
	"github.com/ysard/mi-remote-database/cmd/pull"
	"github.com/ysard/mi-remote-database/cmd/serve"
	pkgconfig "github.com/ysard/mi-remote-database/pkg/config"
	"github.com/ysard/mi-remote-database/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "mirdb",
		Short: "Tool to retrieve, decode and convert IR codes of the Xiaomi Mi Remote database",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(cmdconfig.NewCommand())
	cmd.AddCommand(pull.NewCommand())
	cmd.AddCommand(devices.NewCommand())
	cmd.AddCommand(decode.NewCommand())
	cmd.AddCommand(export.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
