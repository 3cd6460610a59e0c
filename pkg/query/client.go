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

package query

import (
	"errors"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req"

	"github.com/ysard/mi-remote-database/pkg/config"
	"github.com/ysard/mi-remote-database/pkg/log"
)

const (
	DevicePrefix    = "/controller/device/1"
	BrandListPrefix = "/controller/brand/list/1"
	BrandTreePrefix = "/controller/match/tree/1"
	ModelCodePrefix = "/controller/code/1"
	LineupPrefix    = "/controller/stb/lineup/match/1"

	// StbDeviceID is the device type whose codes are listed per set-top
	// box provider instead of per brand
	StbDeviceID = 2
)

// Param is one query string parameter. Order matters: the opaque
// signature covers the path exactly as sent.
type Param struct {
	Key   string
	Value string
}

type Client struct {
	*config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		Config: cfg,
	}
}

// signedPath builds the query path with the fixed anti replay parameters
// (country, version, ts, nonce), the call parameters, and the trailing
// opaque signature
func (c *Client) signedPath(prefix string, params []Param, ts int64, nonce int) string {
	pairs := []string{
		"country=" + c.Country,
		"version=" + strconv.Itoa(c.Version),
		"ts=" + strconv.FormatInt(ts, 10),
		"nonce=" + strconv.Itoa(nonce),
	}
	for _, p := range params {
		pairs = append(pairs, p.Key+"="+url.QueryEscape(p.Value))
	}
	path := prefix + "?" + strings.Join(pairs, "&")
	return path + "&opaque=" + OpaqueParam(path, urlToken, urlSecretKey)
}

func (c *Client) get(prefix string, params ...Param) (string, error) {
	ts := time.Now().UnixMilli()
	nonce := rand.Intn(1_000_000_001) - 500_000_000
	fullURL := c.Server + c.signedPath(prefix, params, ts, nonce)
	log.Debug("GET %s", fullURL)

	r, err := req.Get(fullURL, req.Header{"User-Agent": "okhttp/3.8.0"})
	if err != nil {
		return "", err
	}
	if r.Response().StatusCode != 200 {
		return "", errors.New(r.Response().Status)
	}
	return r.ToString()
}

// Devices returns the JSON list of device types known by the API
func (c *Client) Devices() (string, error) {
	return c.get(DevicePrefix)
}

// BrandList returns the JSON list of brands for a device type
func (c *Client) BrandList(deviceID int) (string, error) {
	return c.get(BrandListPrefix, Param{"devid", strconv.Itoa(deviceID)})
}

// BrandTree returns the JSON power key tree of a brand, model codes included
func (c *Client) BrandTree(deviceID, brandID int) (string, error) {
	return c.get(BrandTreePrefix,
		Param{"devid", strconv.Itoa(deviceID)},
		Param{"miyk", "1"},
		Param{"brandid", strconv.Itoa(brandID)},
		Param{"power", "1"},
	)
}

// LineupTree returns the JSON power key tree of a set-top box provider.
// Set-top boxes replace brandid with the sp provider id.
func (c *Client) LineupTree(deviceID int, spID string) (string, error) {
	return c.get(BrandTreePrefix,
		Param{"devid", strconv.Itoa(deviceID)},
		Param{"miyk", "1"},
		Param{"spid", spID},
		Param{"power", "1"},
	)
}

// Lineups returns the JSON list of set-top box providers
func (c *Client) Lineups() (string, error) {
	return c.get(LineupPrefix)
}

// ModelCode returns the JSON key file of one model: frequency plus the
// encrypted code of every key
func (c *Client) ModelCode(matchID, vendor string) (string, error) {
	return c.get(ModelCodePrefix,
		Param{"matchid", matchID},
		Param{"vendor", vendor},
	)
}

// Throttle sleeps a polite random delay between two crawler queries
func Throttle() {
	delay := time.Duration(500+rand.Intn(1000)) * time.Millisecond
	time.Sleep(delay)
}
