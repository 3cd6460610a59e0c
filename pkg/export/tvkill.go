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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ysard/mi-remote-database/pkg/catalog"
	"github.com/ysard/mi-remote-database/pkg/irdb"
	"github.com/ysard/mi-remote-database/pkg/log"
)

type tvkillPattern struct {
	Comment   string `json:"comment"`
	Frequency int    `json:"frequency"`
	Pattern   []int  `json:"pattern"`
}

type tvkillBundle struct {
	Designation string          `json:"designation"`
	Patterns    []tvkillPattern `json:"patterns"`
}

// TVKill writes one JSON file for the TV Kill Android app: the cycle
// count representation of every unique pattern of the records. Duplicate
// patterns across brands and models are exported once.
func TVKill(records []catalog.Record, output, deviceName string) error {
	uniq := irdb.NewSet()
	var patterns []tvkillPattern
	for _, record := range records {
		if !uniq.Add(record.Pattern) {
			continue
		}
		cycles, err := record.Pattern.ToPulses()
		if err != nil {
			log.Error("Skipping pattern of model <%s>: %s", record.ModelID, err)
			continue
		}
		patterns = append(patterns, tvkillPattern{
			Comment:   fmt.Sprintf("%s %s", record.Vendor, record.ModelID),
			Frequency: record.Pattern.Frequency(),
			Pattern:   cycles,
		})
	}

	bundle := []tvkillBundle{
		{
			Designation: fmt.Sprintf("Xiaomi '%s'", deviceName),
			Patterns:    patterns,
		},
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return err
	}

	filename := "TVKill_Xiaomi_" + strings.ReplaceAll(deviceName, " ", "_") + ".json"
	return os.WriteFile(filepath.Join(output, filename), data, 0644)
}
