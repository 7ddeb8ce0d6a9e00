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

const (
	StateFileOptionName = "file"
)

// NewStateCommand creates a cobra command object to broadcast an
// Entity State PDU. The vessel state is read from a JSON file or
// from stdin when no file is given.
func NewStateCommand() *cobra.Command {
	var stateFile string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Broadcast an Entity State PDU",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := os.Stdin
			if stateFile != "" {
				f, err := os.Open(stateFile)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			var state gateway.EntityState
			if err := json.NewDecoder(in).Decode(&state); err != nil {
				return err
			}
			client := command.NewApiClient(cfg)
			return client.State(state)
		},
	}
	cmd.Flags().StringVar(&stateFile, StateFileOptionName, "", "JSON file with the vessel state, stdin if omitted")
	return cmd
}
