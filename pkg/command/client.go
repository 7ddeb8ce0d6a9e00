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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"emsn.eu/stm/go-dis/pkg/capture"
	"emsn.eu/stm/go-dis/pkg/config"
	"emsn.eu/stm/go-dis/pkg/gateway"
	"emsn.eu/stm/go-dis/pkg/srv"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Transport.HostAddr, srv.ApiPort),
	}
}

func (c *ApiClient) url(route string) string {
	return fmt.Sprintf("%s/%s", c.ApiPrefix, route)
}

// Start sends request to broadcast a Start/Resume PDU. Empty time
// strings mean the current clock.
func (c *ApiClient) Start(realWorldTime, simulationTime string) error {
	body := &srv.StartRequest{
		RealWorldTime:  realWorldTime,
		SimulationTime: simulationTime,
	}
	r, err := req.Post(c.url("start"), req.BodyJSON(body))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Stop sends request to broadcast a Stop/Freeze PDU
func (c *ApiClient) Stop() error {
	r, err := req.Post(c.url("stop"), req.BodyJSON(struct{}{}))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// State sends request to broadcast an Entity State PDU
func (c *ApiClient) State(state gateway.EntityState) error {
	r, err := req.Post(c.url("state"), req.BodyJSON(&state))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Transmitter sends request to broadcast a Transmitter PDU
func (c *ApiClient) Transmitter(t gateway.Transmitter) error {
	r, err := req.Post(c.url("transmitter"), req.BodyJSON(&t))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Receiver sends request to broadcast a Receiver PDU
func (c *ApiClient) Receiver(rc gateway.Receiver) error {
	r, err := req.Post(c.url("receiver"), req.BodyJSON(&rc))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Signal sends request to broadcast a Signal PDU
func (c *ApiClient) Signal(sig gateway.Signal) error {
	r, err := req.Post(c.url("signal"), req.BodyJSON(&sig))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Pdus sends request to list the most recently captured PDUs
func (c *ApiClient) Pdus(limit int) ([]capture.Record, error) {
	url := c.url("pdus")
	if limit > 0 {
		url = fmt.Sprintf("%s?limit=%d", url, limit)
	}
	r, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var records []capture.Record
	if err := r.ToJSON(&records); err != nil {
		return nil, err
	}
	return records, nil
}
