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

package daemon

import (
	"fmt"

	"github.com/spf13/cobra"

	"emsn.eu/stm/go-dis/pkg/command"
	"emsn.eu/stm/go-dis/pkg/config"
)

const (
	GroupOptionName = "group"
	PortOptionName  = "port"
)

// NewCommand creates a cobra command object to start the gateway
// daemon
func NewCommand() *cobra.Command {
	var group string
	var port int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Start the gateway daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if group != "" {
				cfg.Transport.Groups = []string{group}
			}
			if port != 0 {
				cfg.Transport.Port = port
			}
			return command.StartDaemon(cfg)
		},
	}
	cmd.Flags().StringVar(&group, GroupOptionName, "", fmt.Sprintf("Multicast group to join. E.g. %s", config.DefaultGroup))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("UDP port. E.g. %d", config.DefaultPort))
	return cmd
}
