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
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/ysard/mi-remote-database/pkg/catalog"
	"github.com/ysard/mi-remote-database/pkg/config"
	"github.com/ysard/mi-remote-database/pkg/irdb"
	"github.com/ysard/mi-remote-database/pkg/log"
)

// ApiServer exposes the crawled catalog and the decode pipeline over a
// read only REST API
type ApiServer struct {
	*config.Config
	State  *catalog.State
	Router *mux.Router
}

func NewApiServer(cfg *config.Config, state *catalog.State) *ApiServer {
	return &ApiServer{
		Config: cfg,
		State:  state,
	}
}

// Start ...
func (s *ApiServer) Start() error {
	log.Debug("Starting API server: port: %d", s.Config.ApiPort)
	s.configureRouter()
	httpServer := &http.Server{
		Handler: handlers.CombinedLoggingHandler(os.Stderr, s.Router),
		Addr:    fmt.Sprintf(":%d", s.Config.ApiPort),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/devices", s.handleDevices()).Methods("GET")
	subRouter.HandleFunc("/brands/{device:[0-9]+}", s.handleBrands()).Methods("GET")
	subRouter.HandleFunc("/models/{device:[0-9]+}", s.handleModels()).Methods("GET")
	subRouter.HandleFunc("/patterns/{device:[0-9]+}/{model}", s.handlePatterns()).Methods("GET")
	subRouter.HandleFunc("/decode", s.handleDecode()).Methods("POST")
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Error("Can not encode API response: %s", err)
	}
}

func (s *ApiServer) handleDevices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		devices, err := s.State.Devices()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, devices)
	}
}

func (s *ApiServer) handleBrands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		deviceID, err := strconv.Atoi(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		brands, err := s.State.Brands(deviceID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, brands)
	}
}

func (s *ApiServer) handleModels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		deviceID, err := strconv.Atoi(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		models, err := s.State.Models(deviceID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		ids := make([]string, 0, len(models))
		for id := range models {
			ids = append(ids, id)
		}
		writeJSON(w, ids)
	}
}

type decodedCode struct {
	Name      string `json:"name,omitempty"`
	Frequency int    `json:"frequency"`
	Raw       []int  `json:"raw"`
	SignedRaw []int  `json:"signed_raw"`
	Pulses    []int  `json:"pulses,omitempty"`
	Pronto    string `json:"pronto,omitempty"`
}

func newDecodedCode(name string, pattern irdb.Pattern) decodedCode {
	code := decodedCode{
		Name:      name,
		Frequency: pattern.Frequency(),
		Raw:       pattern.ToRaw(),
		SignedRaw: pattern.ToSignedRaw(),
	}
	// Frequency dependent representations are best effort
	if cycles, err := pattern.ToPulses(); err == nil {
		code.Pulses = cycles
	}
	if pronto, err := pattern.ToPronto(); err == nil {
		code.Pronto = pronto
	}
	return code
}

func (s *ApiServer) handlePatterns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		deviceID, err := strconv.Atoi(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		raw, err := s.State.Model(deviceID, vars["model"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		records, err := catalog.BuildKeyRecords("", vars["model"], "mi", raw, nil, s.Config.DefaultFrequency)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		codes := make([]decodedCode, 0, len(records))
		for _, record := range records {
			codes = append(codes, newDecodedCode(record.Name, record.Pattern))
		}
		writeJSON(w, codes)
	}
}

func (s *ApiServer) handleDecode() http.HandlerFunc {
	type request struct {
		Code      string `json:"code"`
		Frequency int    `json:"frequency"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		body := &request{}
		if err := json.NewDecoder(r.Body).Decode(body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		pattern, err := irdb.DecodeWithFrequency(body.Code, body.Frequency)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, newDecodedCode("", pattern))
	}
}
