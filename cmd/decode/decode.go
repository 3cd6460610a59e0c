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

package decode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ysard/mi-remote-database/pkg/irdb"
)

const (
	CodeOptionName      = "code"
	ProntoOptionName    = "pronto"
	RawOptionName       = "raw"
	SignedRawOptionName = "signed-raw"
	FrequencyOptionName = "frequency"
)

// NewCommand creates the command that decodes one IR code given in any of
// the supported wire formats and prints every representation of it
func NewCommand() *cobra.Command {
	var code, pronto, raw, signedRaw string
	var frequency int
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode one IR code and print all its representations",
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := buildPattern(code, pronto, raw, signedRaw, frequency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frequency: %d\n", pattern.Frequency())
			fmt.Fprintf(out, "raw: %s\n", joinInts(pattern.ToRaw()))
			fmt.Fprintf(out, "signed raw: %s\n", joinInts(pattern.ToSignedRaw()))
			if cycles, err := pattern.ToPulses(); err == nil {
				fmt.Fprintf(out, "pulses: %s\n", joinInts(cycles))
			}
			if text, err := pattern.ToPronto(); err == nil {
				fmt.Fprintf(out, "pronto: %s\n", text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&code, CodeOptionName, "", "Base64 encoded vendor code")
	cmd.Flags().StringVar(&pronto, ProntoOptionName, "", "Pronto hex words")
	cmd.Flags().StringVar(&raw, RawOptionName, "", "Comma separated microsecond timings")
	cmd.Flags().StringVar(&signedRaw, SignedRawOptionName, "", "Comma separated signed microsecond timings")
	cmd.Flags().IntVar(&frequency, FrequencyOptionName, 0, "Carrier frequency in Hz")
	return cmd
}

func buildPattern(code, pronto, raw, signedRaw string, frequency int) (irdb.Pattern, error) {
	switch {
	case code != "":
		return irdb.DecodeWithFrequency(code, frequency)
	case pronto != "":
		return irdb.FromPronto(pronto)
	case raw != "":
		timings, err := parseInts(raw)
		if err != nil {
			return irdb.Pattern{}, err
		}
		return irdb.FromRaw(timings, frequency)
	case signedRaw != "":
		timings, err := parseInts(signedRaw)
		if err != nil {
			return irdb.Pattern{}, err
		}
		return irdb.FromSignedRawWithFrequency(timings, frequency)
	}
	return irdb.Pattern{}, errors.New("one of --code, --pronto, --raw, --signed-raw is required")
}

func parseInts(text string) ([]int, error) {
	fields := strings.Split(text, ",")
	values := make([]int, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func joinInts(values []int) string {
	words := make([]string, len(values))
	for i, v := range values {
		words[i] = strconv.Itoa(v)
	}
	return strings.Join(words, " ")
}
