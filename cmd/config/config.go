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

package config

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgconfig "github.com/ysard/mi-remote-database/pkg/config"
)

const (
	OverwriteOptionName = "overwrite"
)

// NewCommand creates the command that persists the current configuration
// to the default config path
func NewCommand() *cobra.Command {
	var overwrite bool
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Persist the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Persist(overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n%s", pkgconfig.DefaultConfigPath(), cfg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, OverwriteOptionName, false, "Overwrite the config file if it exists")
	return cmd
}
