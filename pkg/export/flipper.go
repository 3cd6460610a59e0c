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
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ysard/mi-remote-database/pkg/catalog"
)

const flipperHeaderTemplate = `Filetype: IR signals file
Version: 1
# Device: %s; Brand: %s; Model: %s`

const flipperSignalTemplate = `
#
name: %s
type: raw
frequency: %d
duty_cycle: 0.330000
data: %s`

var whitespaceRe = regexp.MustCompile(`\s`)

// Flipper writes one .ir file per model for the Flipper Zero device:
// the raw microsecond representation of every key of the model.
func Flipper(models map[string][]catalog.Record, output, deviceName string) error {
	for modelID, records := range models {
		if len(records) == 0 {
			continue
		}

		var content strings.Builder
		content.WriteString(fmt.Sprintf(flipperHeaderTemplate, deviceName, records[0].Brand, modelID))
		for _, record := range records {
			content.WriteString(fmt.Sprintf(flipperSignalTemplate,
				record.Name,
				record.Pattern.Frequency(),
				joinTimings(record.Pattern.ToRaw()),
			))
		}
		content.WriteString("\n")

		brand := whitespaceRe.ReplaceAllString(records[0].Brand, "_")
		path := filepath.Join(output, fmt.Sprintf("%s_%s.ir", brand, modelID))
		if err := os.WriteFile(path, []byte(content.String()), 0644); err != nil {
			return err
		}
	}
	return nil
}

func joinTimings(timings []int) string {
	words := make([]string, len(timings))
	for i, v := range timings {
		words[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(words, " ")
}
