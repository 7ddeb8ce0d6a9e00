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
	"fmt"

	"github.com/spf13/cobra"

	"emsn.eu/stm/go-dis/pkg/command"
	"emsn.eu/stm/go-dis/pkg/config"
)

const (
	LimitOptionName = "limit"
)

// NewPdusCommand creates a cobra command object to list the PDUs most
// recently captured by the daemon
func NewPdusCommand() *cobra.Command {
	var limit int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "pdus",
		Short: "List captured PDUs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			records, err := client.Pdus(limit)
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: type %d timestamp %d length %d\n",
					r.Seq, r.PduType, r.Timestamp, r.Length)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, LimitOptionName, 10, "Max number of PDUs to list, 0 for all")
	return cmd
}
