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

package catalog

import (
	"github.com/ysard/mi-remote-database/pkg/irdb"
	"github.com/ysard/mi-remote-database/pkg/log"
)

// Record attaches the catalog metadata the exporters need to one decoded
// Pattern. The Pattern itself stays a pure value; identity lives here.
type Record struct {
	// Name is the key name: power, power_r, shutter, vol+, ...
	Name    string
	Brand   string
	ModelID string
	Vendor  string
	Pattern irdb.Pattern
}

// decodeCode decrypts one encrypted key. The payload holds microsecond
// timings only; the carrier comes from the metadata frequency, then from
// defaultFrequency. Some codes declare a 0 frequency, they are rejected
// here so the exporters never see a carrier-less pattern.
func decodeCode(code string, frequency, defaultFrequency int) (irdb.Pattern, error) {
	if frequency == 0 {
		frequency = defaultFrequency
	}
	if frequency == 0 {
		return irdb.Pattern{}, irdb.ErrMissingFrequency{Op: "decode"}
	}
	return irdb.DecodeWithFrequency(code, frequency)
}

// BuildRecords decodes the power codes of the models of one brand.
// Failure isolation is per code: a malformed or still unsupported code is
// logged and skipped, its siblings are kept.
func BuildRecords(brandName string, models []Model, defaultFrequency int) []Record {
	var records []Record
	for _, model := range models {
		pattern, err := decodeCode(model.Code, model.Frequency, defaultFrequency)
		if err != nil {
			log.Error("Skipping code of model <%s>: %s", model.ID, err)
		} else {
			records = append(records, Record{
				Name:    "power",
				Brand:   brandName,
				ModelID: model.ID,
				Vendor:  model.Vendor,
				Pattern: pattern,
			})
		}

		if model.ReverseCode == "" {
			continue
		}
		// The reverse code is a separate pattern of its own
		pattern, err = decodeCode(model.ReverseCode, model.Frequency, defaultFrequency)
		if err != nil {
			log.Error("Skipping reverse code of model <%s>: %s", model.ID, err)
			continue
		}
		records = append(records, Record{
			Name:    "power_r",
			Brand:   brandName,
			ModelID: model.ID,
			Vendor:  model.Vendor,
			Pattern: pattern,
		})
	}
	return records
}

// BuildKeyRecords decodes a model key file dump into one Record per key.
// An empty keys filter keeps everything.
func BuildKeyRecords(brandName, modelID, vendor string, raw []byte, keys []string, defaultFrequency int) ([]Record, error) {
	frequency, ciphers, err := ParseModelKeys(raw)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[key] = true
	}

	var records []Record
	for name, cipher := range ciphers {
		if len(wanted) > 0 && !wanted[name] {
			continue
		}
		pattern, err := decodeCode(cipher, frequency, defaultFrequency)
		if err != nil {
			log.Error("Skipping key <%s> of model <%s>: %s", name, modelID, err)
			continue
		}
		records = append(records, Record{
			Name:    name,
			Brand:   brandName,
			ModelID: modelID,
			Vendor:  vendor,
			Pattern: pattern,
		})
	}
	return records, nil
}
