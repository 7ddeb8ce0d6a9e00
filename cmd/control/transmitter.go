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

package control

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"emsn.eu/stm/go-dis/pkg/command"
	"emsn.eu/stm/go-dis/pkg/config"
	"emsn.eu/stm/go-dis/pkg/gateway"
)

// NewTransmitterCommand creates a cobra command object to broadcast a
// Transmitter PDU. The radio parameters are read from a JSON file or
// from stdin when no file is given.
func NewTransmitterCommand() *cobra.Command {
	var paramsFile string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "transmitter",
		Short: "Broadcast a Transmitter PDU",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := os.Stdin
			if paramsFile != "" {
				f, err := os.Open(paramsFile)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			var t gateway.Transmitter
			if err := json.NewDecoder(in).Decode(&t); err != nil {
				return err
			}
			client := command.NewApiClient(cfg)
			return client.Transmitter(t)
		},
	}
	cmd.Flags().StringVar(&paramsFile, StateFileOptionName, "", "JSON file with the radio parameters, stdin if omitted")
	return cmd
}
