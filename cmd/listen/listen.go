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

package listen

import (
	"encoding/json"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"emsn.eu/stm/go-dis/pkg/config"
	"emsn.eu/stm/go-dis/pkg/gateway"
	"emsn.eu/stm/go-dis/pkg/multicast"
)

// NewCommand creates a cobra command object that joins the multicast
// groups directly, without a daemon, and prints decoded PDUs as JSON
// until interrupted
func NewCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print PDUs received from the multicast groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			sock, err := multicast.NewSocket(cfg.Transport)
			if err != nil {
				return err
			}
			g := gateway.New(cfg, sock)
			defer g.Close()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				select {
				case <-interrupt:
					return nil
				default:
				}
				pdus, err := g.ReceivePDUs()
				if err != nil {
					return err
				}
				for _, pdu := range pdus {
					if err := enc.Encode(pdu); err != nil {
						return err
					}
				}
			}
		},
	}
	return cmd
}
