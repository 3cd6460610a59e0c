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

package pull

import (
	"github.com/spf13/cobra"

	"github.com/ysard/mi-remote-database/pkg/catalog"
	"github.com/ysard/mi-remote-database/pkg/config"
	"github.com/ysard/mi-remote-database/pkg/log"
	"github.com/ysard/mi-remote-database/pkg/query"
)

const (
	DeviceIDOptionName = "device-id"
	ModelsOptionName   = "models"
)

// NewCommand creates the command that crawls the vendor API and caches
// the JSON dumps into the local catalog
func NewCommand() *cobra.Command {
	var deviceID int
	var fetchModels bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Crawl the vendor API and cache devices, brands and codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := catalog.NewState(cfg.DBPath)
			if err != nil {
				return err
			}
			defer state.Close()

			client := query.NewClient(cfg)
			return pullDevices(client, state, deviceID, fetchModels)
		},
	}
	cmd.Flags().IntVar(&deviceID, DeviceIDOptionName, 0, "Restrict the crawl to one device type id, 0 for all")
	cmd.Flags().BoolVar(&fetchModels, ModelsOptionName, false, "Also fetch the full key files of every compatible model")
	return cmd
}

func pullDevices(client *query.Client, state *catalog.State, deviceID int, fetchModels bool) error {
	devicesJSON, err := client.Devices()
	if err != nil {
		return err
	}
	devices, err := catalog.ParseDevices([]byte(devicesJSON))
	if err != nil {
		return err
	}

	for id, name := range devices {
		if deviceID != 0 && id != deviceID {
			continue
		}
		if err := state.SetDevice(id, name); err != nil {
			return err
		}
		log.Info("Pulling device %d (%s)", id, name)
		if err := pullBrands(client, state, id, fetchModels); err != nil {
			// One broken device type must not abort the others
			log.Error("Device %d (%s): %s", id, name, err)
		}
		if id != query.StbDeviceID {
			continue
		}
		// Set-top boxes list their codes per provider, not per brand
		if err := pullLineups(client, state, id); err != nil {
			log.Error("Device %d (%s) lineups: %s", id, name, err)
		}
	}
	return nil
}

func pullLineups(client *query.Client, state *catalog.State, deviceID int) error {
	lineupsJSON, err := client.Lineups()
	if err != nil {
		return err
	}
	lineups, err := catalog.ParseLineups([]byte(lineupsJSON))
	if err != nil {
		return err
	}
	log.Info("Device %d: %d lineups", deviceID, len(lineups))

	for _, lineup := range lineups {
		treeJSON, err := client.LineupTree(deviceID, lineup.SP)
		if err != nil {
			log.Error("Lineup %s (%s): %s", lineup.SP, lineup.Name, err)
			query.Throttle()
			continue
		}
		if err := state.SetLineupTree(deviceID, lineup.SP, []byte(treeJSON)); err != nil {
			return err
		}
		query.Throttle()
	}
	return nil
}

func pullBrands(client *query.Client, state *catalog.State, deviceID int, fetchModels bool) error {
	brandsJSON, err := client.BrandList(deviceID)
	if err != nil {
		return err
	}
	brands, err := catalog.ParseBrandList([]byte(brandsJSON))
	if err != nil {
		return err
	}
	log.Info("Device %d: %d brands", deviceID, len(brands))

	for _, brand := range brands {
		if err := state.SetBrand(brand); err != nil {
			return err
		}
		treeJSON, err := client.BrandTree(deviceID, brand.ID)
		if err != nil {
			log.Error("Brand %d (%s): %s", brand.ID, brand.Name, err)
			query.Throttle()
			continue
		}
		if err := state.SetBrandTree(deviceID, brand.ID, []byte(treeJSON)); err != nil {
			return err
		}
		query.Throttle()

		if !fetchModels {
			continue
		}
		if err := pullModels(client, state, deviceID, []byte(treeJSON)); err != nil {
			log.Error("Brand %d (%s) models: %s", brand.ID, brand.Name, err)
		}
	}
	return nil
}

func pullModels(client *query.Client, state *catalog.State, deviceID int, treeJSON []byte) error {
	models, err := catalog.ParseBrandCodes(treeJSON)
	if err != nil {
		return err
	}
	for _, model := range models {
		for _, keySetID := range model.KeySetIDs {
			modelJSON, err := client.ModelCode(keySetID, model.Vendor)
			if err != nil {
				log.Error("Model %s: %s", keySetID, err)
				query.Throttle()
				continue
			}
			if err := state.SetModel(deviceID, keySetID, []byte(modelJSON)); err != nil {
				return err
			}
			query.Throttle()
		}
	}
	return nil
}
