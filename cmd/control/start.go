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
	"github.com/spf13/cobra"

	"emsn.eu/stm/go-dis/pkg/command"
	"emsn.eu/stm/go-dis/pkg/config"
)

const (
	RealWorldTimeOptionName  = "real-world-time"
	SimulationTimeOptionName = "simulation-time"
)

func NewStartCommand() *cobra.Command {
	var realWorldTime, simulationTime string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Broadcast a Start/Resume PDU",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			return client.Start(realWorldTime, simulationTime)
		},
	}
	cmd.Flags().StringVar(&realWorldTime, RealWorldTimeOptionName, "",
		"Real world time as a zone-naive local datetime. E.g. 2020-06-12T11:13:12")
	cmd.Flags().StringVar(&simulationTime, SimulationTimeOptionName, "",
		"Simulation time as a zone-naive local datetime. E.g. 2020-06-12T11:13:12")
	return cmd
}
