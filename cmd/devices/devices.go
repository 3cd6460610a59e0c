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

package devices

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ysard/mi-remote-database/pkg/catalog"
	"github.com/ysard/mi-remote-database/pkg/config"
)

// NewCommand creates the command that lists the device types of the local catalog
func NewCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List cached device types",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := catalog.NewState(cfg.DBPath)
			if err != nil {
				return err
			}
			defer state.Close()

			devices, err := state.Devices()
			if err != nil {
				return err
			}
			ids := make([]int, 0, len(devices))
			for id := range devices {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", id, devices[id])
			}
			return nil
		},
	}
	return cmd
}
