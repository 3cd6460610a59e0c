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

package serve

import (
	"github.com/spf13/cobra"

	"github.com/ysard/mi-remote-database/pkg/catalog"
	"github.com/ysard/mi-remote-database/pkg/config"
	"github.com/ysard/mi-remote-database/pkg/srv"
)

const (
	PortOptionName = "port"
)

// NewCommand creates the command that serves the local catalog over a
// read only REST API
func NewCommand() *cobra.Command {
	var port int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and the decode pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				cfg.ApiPort = port
			}
			state, err := catalog.NewState(cfg.DBPath)
			if err != nil {
				return err
			}
			defer state.Close()

			return srv.NewApiServer(cfg, state).Start()
		},
	}
	cmd.Flags().IntVar(&port, PortOptionName, 0, "Listen port, 0 for the configured one")
	return cmd
}
