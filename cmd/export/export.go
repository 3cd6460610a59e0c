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

package export

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ysard/mi-remote-database/pkg/catalog"
	"github.com/ysard/mi-remote-database/pkg/config"
	"github.com/ysard/mi-remote-database/pkg/export"
	"github.com/ysard/mi-remote-database/pkg/log"
)

const (
	DeviceIDOptionName = "device-id"
	FormatOptionName   = "format"
	KeysOptionName     = "keys"
)

// NewCommand creates the command that exports the cached codes of one
// device type to a third party application format
func NewCommand() *cobra.Command {
	var deviceID int
	var format, keys string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cached IR codes to tvkill or flipper format",
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
			deviceName, ok := devices[deviceID]
			if !ok {
				return fmt.Errorf("device type %d is not in the catalog", deviceID)
			}

			records, err := loadRecords(state, deviceID, cfg.DefaultFrequency)
			if err != nil {
				return err
			}
			records = filterRecords(records, splitKeys(keys))
			log.Info("Device %d (%s): %d codes to export", deviceID, deviceName, len(records))

			switch format {
			case "tvkill":
				return export.TVKill(records, cfg.Output, deviceName)
			case "flipper":
				return export.Flipper(groupByModel(records), cfg.Output, deviceName)
			}
			return fmt.Errorf("unknown export format: %s", format)
		},
	}
	cmd.Flags().IntVar(&deviceID, DeviceIDOptionName, 0, "Device type id to export")
	cmd.Flags().StringVar(&format, FormatOptionName, "tvkill", "Export format: tvkill or flipper")
	cmd.Flags().StringVar(&keys, KeysOptionName, "", "Comma separated key names to keep, empty for all")
	return cmd
}

// loadRecords decodes every cached code of a device type: the power codes
// of the brand trees plus the full key files fetched with pull --models
func loadRecords(state *catalog.State, deviceID, defaultFrequency int) ([]catalog.Record, error) {
	brands, err := state.Brands(deviceID)
	if err != nil {
		return nil, err
	}
	brandNames := make(map[int]string, len(brands))
	for _, brand := range brands {
		brandNames[brand.ID] = brand.Name
	}

	trees, err := state.BrandTrees(deviceID)
	if err != nil {
		return nil, err
	}
	var records []catalog.Record
	for brandID, raw := range trees {
		models, err := catalog.ParseBrandCodes(raw)
		if err != nil {
			// One unreadable dump must not abort the export
			log.Error("Brand %d: %s", brandID, err)
			continue
		}
		brandName := brandNames[brandID]
		if brandName == "" {
			brandName = fmt.Sprintf("brand_%d", brandID)
		}
		records = append(records, catalog.BuildRecords(brandName, models, defaultFrequency)...)
	}

	lineupTrees, err := state.LineupTrees(deviceID)
	if err != nil {
		return nil, err
	}
	for sp, raw := range lineupTrees {
		models, err := catalog.ParseBrandCodes(raw)
		if err != nil {
			log.Error("Lineup %s: %s", sp, err)
			continue
		}
		records = append(records, catalog.BuildRecords(sp, models, defaultFrequency)...)
	}

	modelDumps, err := state.Models(deviceID)
	if err != nil {
		return nil, err
	}
	for modelID, raw := range modelDumps {
		keyRecords, err := catalog.BuildKeyRecords("Xiaomi", modelID, "mi", raw, nil, defaultFrequency)
		if err != nil {
			log.Error("Model %s: %s", modelID, err)
			continue
		}
		records = append(records, keyRecords...)
	}
	return records, nil
}

func splitKeys(keys string) []string {
	if keys == "" {
		return nil
	}
	fields := strings.Split(keys, ",")
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, strings.TrimSpace(field))
	}
	return names
}

func filterRecords(records []catalog.Record, keys []string) []catalog.Record {
	if len(keys) == 0 {
		return records
	}
	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[key] = true
	}
	var kept []catalog.Record
	for _, record := range records {
		if wanted[record.Name] {
			kept = append(kept, record)
		}
	}
	return kept
}

func groupByModel(records []catalog.Record) map[string][]catalog.Record {
	models := make(map[string][]catalog.Record)
	for _, record := range records {
		models[record.ModelID] = append(models[record.ModelID], record)
	}
	return models
}
