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

package srv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"emsn.eu/stm/go-dis/pkg/gateway"
	"emsn.eu/stm/go-dis/pkg/log"
)

const (
	ApiPort = 8000
)

// StartRequest carries the optional zone-naive datetime overrides for
// a Start/Resume PDU; empty strings mean the current clock.
type StartRequest struct {
	RealWorldTime  string `json:"realWorldTime"`
	SimulationTime string `json:"simulationTime"`
}

func (s *Server) StartApiServer() error {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/start", s.apiStart).Methods("POST")
	subRouter.HandleFunc("/stop", s.apiStop).Methods("POST")
	subRouter.HandleFunc("/state", s.apiState).Methods("POST")
	subRouter.HandleFunc("/transmitter", s.apiTransmitter).Methods("POST")
	subRouter.HandleFunc("/receiver", s.apiReceiver).Methods("POST")
	subRouter.HandleFunc("/signal", s.apiSignal).Methods("POST")
	subRouter.HandleFunc("/pdus", s.apiPdus).Methods("GET")

	addr := fmt.Sprintf("%s:%d", s.Config.Transport.HostAddr, ApiPort)
	log.Info("API server listening on %s", addr)
	httpServer := &http.Server{
		Handler: s.Router,
		Addr:    addr,
	}
	go func() {
		<-s.Context.Done()
		httpServer.Shutdown(context.Background())
	}()
	return httpServer.ListenAndServe()
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) sendResult(w http.ResponseWriter, err error) {
	if err != nil {
		log.Error("Send failed: %s", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) apiStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	err := s.Gateway.SendStart(req.RealWorldTime, req.SimulationTime)
	s.mu.Unlock()
	s.sendResult(w, err)
}

func (s *Server) apiStop(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.Gateway.SendStop()
	s.mu.Unlock()
	s.sendResult(w, err)
}

func (s *Server) apiState(w http.ResponseWriter, r *http.Request) {
	var req gateway.EntityState
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	err := s.Gateway.SendEntityState(req)
	s.mu.Unlock()
	s.sendResult(w, err)
}

func (s *Server) apiTransmitter(w http.ResponseWriter, r *http.Request) {
	var req gateway.Transmitter
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	err := s.Gateway.SendTransmitter(req)
	s.mu.Unlock()
	s.sendResult(w, err)
}

func (s *Server) apiReceiver(w http.ResponseWriter, r *http.Request) {
	var req gateway.Receiver
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	err := s.Gateway.SendReceiver(req)
	s.mu.Unlock()
	s.sendResult(w, err)
}

func (s *Server) apiSignal(w http.ResponseWriter, r *http.Request) {
	var req gateway.Signal
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	err := s.Gateway.SendSignal(req)
	s.mu.Unlock()
	s.sendResult(w, err)
}

func (s *Server) apiPdus(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		limit = n
	}
	records, err := s.Store.List(s.Config.ExerciseID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		log.Error("Error while encoding capture records: %s", err)
	}
}
