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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ysard/mi-remote-database/pkg/log"
)

type ErrDump struct {
	What string
}

func (e ErrDump) Error() string {
	return fmt.Sprintf("Error while parsing API dump: %s", e.What)
}

// Brand is one remote control brand of a device type
type Brand struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	DeviceID int    `json:"deviceid"`
}

// Lineup is one set-top box provider; providers play the role brands have
// for the other device types
type Lineup struct {
	SP   string `json:"sp"`
	Name string `json:"name"`
}

// Model is the definition of the codes of one remote model as found in a
// brand tree dump. Code and ReverseCode are still encrypted.
type Model struct {
	ID          string
	Vendor      string
	Frequency   int
	Code        string
	ReverseCode string
	// KeySetIDs are the compatible model ids whose full key files can be
	// fetched separately
	KeySetIDs []string
}

type nameInfo struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// englishName picks the EN entry of a vendor info array, first entry as a
// fallback, and cleans characters that break file names
func englishName(info []nameInfo) string {
	name := ""
	for _, item := range info {
		if item.Country == "EN" {
			name = item.Name
			break
		}
	}
	if name == "" && len(info) > 0 {
		name = info[0].Name
	}
	name = strings.ReplaceAll(name, "\n", "")
	return strings.ReplaceAll(name, "/", "_")
}

// ParseDevices extracts device ids and english names from a devices dump
func ParseDevices(data []byte) (map[int]string, error) {
	var dump struct {
		Status int `json:"status"`
		Data   []struct {
			DeviceID int        `json:"deviceid"`
			Info     []nameInfo `json:"info"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, ErrDump{What: err.Error()}
	}
	devices := make(map[int]string)
	for _, entry := range dump.Data {
		devices[entry.DeviceID] = englishName(entry.Info)
	}
	return devices, nil
}

// ParseBrandList extracts the brands of a device type from a brand list dump
func ParseBrandList(data []byte) ([]Brand, error) {
	var dump struct {
		Status int `json:"status"`
		Data   []struct {
			BrandID  int        `json:"brandid"`
			DeviceID int        `json:"deviceid"`
			Info     []nameInfo `json:"info"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, ErrDump{What: err.Error()}
	}
	brands := make([]Brand, 0, len(dump.Data))
	for _, entry := range dump.Data {
		brands = append(brands, Brand{
			ID:       entry.BrandID,
			Name:     englishName(entry.Info),
			DeviceID: entry.DeviceID,
		})
	}
	return brands, nil
}

// ParseLineups extracts the set-top box providers from a lineup dump
func ParseLineups(data []byte) ([]Lineup, error) {
	var dump struct {
		Status int `json:"status"`
		Data   struct {
			Count int `json:"count"`
			Data  []struct {
				SP   string `json:"sp"`
				Name string `json:"name"`
			} `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, ErrDump{What: err.Error()}
	}
	lineups := make([]Lineup, 0, len(dump.Data.Data))
	for _, entry := range dump.Data.Data {
		lineups = append(lineups, Lineup{
			SP:   entry.SP,
			Name: strings.ReplaceAll(entry.Name, "\n", ""),
		})
	}
	return lineups, nil
}

type treeNode struct {
	IRZipKey        string   `json:"ir_zip_key"`
	IRZipKeyReverse string   `json:"ir_zip_key_r"`
	KeySetIDs       []string `json:"keysetids"`
	Frequency       int      `json:"frequency"`
}

type otherModel struct {
	ID        string            `json:"_id"`
	Key       map[string]string `json:"key"`
	Frequency int               `json:"frequency"`
	Source    string            `json:"source"`
}

// ParseBrandCodes extracts the encrypted power codes of every model found
// in a brand tree dump: the "mi" vendor tree plus the "others" section of
// third party vendors. Models of the others section without a power or
// shutter key are skipped.
func ParseBrandCodes(data []byte) ([]Model, error) {
	var dump struct {
		Status int `json:"status"`
		Data   struct {
			Tree *struct {
				Nodes []treeNode `json:"nodes"`
			} `json:"tree"`
			Others []otherModel `json:"others"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, ErrDump{What: err.Error()}
	}

	var models []Model
	for _, other := range dump.Data.Others {
		// Cameras expose shutter instead of power
		code := other.Key["power"]
		if code == "" {
			code = other.Key["shutter"]
		}
		if code == "" {
			log.Warning("Key power/shutter NOT FOUND in 'others', model id <%s>", other.ID)
			continue
		}
		models = append(models, Model{
			ID:          other.ID,
			Vendor:      other.Source,
			Frequency:   other.Frequency,
			Code:        code,
			ReverseCode: other.Key["power_r"],
		})
	}

	if dump.Data.Tree == nil {
		return models, nil
	}
	nodes := dump.Data.Tree.Nodes
	if len(nodes) <= 1 {
		return models, nil
	}
	// The first node is the index of the tree, not a model
	for _, node := range nodes[1:] {
		if node.IRZipKey == "" {
			continue
		}
		models = append(models, Model{
			ID:          strings.Join(node.KeySetIDs, ","),
			Vendor:      "mi",
			Frequency:   node.Frequency,
			Code:        node.IRZipKey,
			ReverseCode: node.IRZipKeyReverse,
			KeySetIDs:   node.KeySetIDs,
		})
	}
	return models, nil
}

// ParseModelKeys extracts the carrier frequency and the encrypted code of
// every key from a model key file dump
func ParseModelKeys(data []byte) (int, map[string]string, error) {
	var dump struct {
		Status int `json:"status"`
		Data   struct {
			Frequency int               `json:"frequency"`
			Key       map[string]string `json:"key"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return 0, nil, ErrDump{What: err.Error()}
	}
	return dump.Data.Frequency, dump.Data.Key, nil
}
