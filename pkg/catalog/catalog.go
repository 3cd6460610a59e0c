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

package catalog

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/ysard/mi-remote-database/pkg/log"
)

const (
	DevicesBucket       = "devices"
	BrandsBucketPrefix  = "brands_"
	TreesBucketPrefix   = "trees_"
	LineupsBucketPrefix = "lineups_"
	ModelsBucketPrefix  = "models_"
)

type ErrBucketNotFound struct {
	Name string
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("Bucket not found: %s", e.Name)
}

// State is the on disk cache of the crawled vendor database: one bucket
// for the device types, one brands and one models bucket per device type.
// Model values hold the raw JSON dumps, parsed again on read.
type State struct {
	DB *bbolt.DB
}

func NewState(path string) (*State, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(DevicesBucket))
		return err
	}); err != nil {
		return nil, err
	}
	return &State{
		DB: db,
	}, nil
}

// Close ...
func (s *State) Close() {
	s.DB.Close()
}

func intToByte(v int) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

func brandsBucketName(deviceID int) string {
	return fmt.Sprintf("%s%d", BrandsBucketPrefix, deviceID)
}

func treesBucketName(deviceID int) string {
	return fmt.Sprintf("%s%d", TreesBucketPrefix, deviceID)
}

func lineupsBucketName(deviceID int) string {
	return fmt.Sprintf("%s%d", LineupsBucketPrefix, deviceID)
}

func modelsBucketName(deviceID int) string {
	return fmt.Sprintf("%s%d", ModelsBucketPrefix, deviceID)
}

// SetDevice stores a device type and creates its brands and models buckets
func (s *State) SetDevice(id int, name string) error {
	log.Debug("Setting device: %d %s", id, name)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(DevicesBucket))
		if b == nil {
			return ErrBucketNotFound{Name: DevicesBucket}
		}
		if err := b.Put(intToByte(id), []byte(name)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(brandsBucketName(id))); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(treesBucketName(id))); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(lineupsBucketName(id))); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(modelsBucketName(id)))
		return err
	})
}

// Devices returns the cached device types
func (s *State) Devices() (map[int]string, error) {
	devices := make(map[int]string)
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(DevicesBucket))
		if b == nil {
			return ErrBucketNotFound{Name: DevicesBucket}
		}
		return b.ForEach(func(k, v []byte) error {
			devices[int(binary.BigEndian.Uint32(k))] = string(v)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return devices, nil
}

// SetBrand stores one brand of a device type
func (s *State) SetBrand(brand Brand) error {
	log.Debug("Setting brand: %d %s", brand.ID, brand.Name)
	value, err := json.Marshal(brand)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(brandsBucketName(brand.DeviceID)))
		if err != nil {
			return err
		}
		return b.Put(intToByte(brand.ID), value)
	})
}

// Brands returns the cached brands of a device type
func (s *State) Brands(deviceID int) ([]Brand, error) {
	var brands []Brand
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(brandsBucketName(deviceID)))
		if b == nil {
			return ErrBucketNotFound{Name: brandsBucketName(deviceID)}
		}
		return b.ForEach(func(k, v []byte) error {
			var brand Brand
			if err := json.Unmarshal(v, &brand); err != nil {
				return err
			}
			brands = append(brands, brand)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return brands, nil
}

// SetBrandTree stores the raw JSON power key tree dump of one brand
func (s *State) SetBrandTree(deviceID, brandID int, raw []byte) error {
	log.Debug("Setting brand tree: device %d, brand %d, %d bytes", deviceID, brandID, len(raw))
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(treesBucketName(deviceID)))
		if err != nil {
			return err
		}
		return b.Put(intToByte(brandID), raw)
	})
}

// BrandTrees returns the raw JSON tree dumps of every brand of a device
// type, keyed by brand id
func (s *State) BrandTrees(deviceID int) (map[int][]byte, error) {
	trees := make(map[int][]byte)
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(treesBucketName(deviceID)))
		if b == nil {
			return ErrBucketNotFound{Name: treesBucketName(deviceID)}
		}
		return b.ForEach(func(k, v []byte) error {
			value := make([]byte, len(v))
			copy(value, v)
			trees[int(binary.BigEndian.Uint32(k))] = value
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return trees, nil
}

// SetLineupTree stores the raw JSON power key tree dump of one set-top
// box provider, keyed by its sp id
func (s *State) SetLineupTree(deviceID int, sp string, raw []byte) error {
	log.Debug("Setting lineup tree: device %d, sp %s, %d bytes", deviceID, sp, len(raw))
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(lineupsBucketName(deviceID)))
		if err != nil {
			return err
		}
		return b.Put([]byte(sp), raw)
	})
}

// LineupTrees returns the raw JSON tree dumps of every set-top box
// provider of a device type, keyed by sp id
func (s *State) LineupTrees(deviceID int) (map[string][]byte, error) {
	trees := make(map[string][]byte)
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(lineupsBucketName(deviceID)))
		if b == nil {
			return ErrBucketNotFound{Name: lineupsBucketName(deviceID)}
		}
		return b.ForEach(func(k, v []byte) error {
			value := make([]byte, len(v))
			copy(value, v)
			trees[string(k)] = value
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return trees, nil
}

// SetModel stores the raw JSON dump of a model key file
func (s *State) SetModel(deviceID int, modelID string, raw []byte) error {
	log.Debug("Setting model: device %d, model %s, %d bytes", deviceID, modelID, len(raw))
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(modelsBucketName(deviceID)))
		if err != nil {
			return err
		}
		return b.Put([]byte(modelID), raw)
	})
}

// Model returns the raw JSON dump of one model
func (s *State) Model(deviceID int, modelID string) ([]byte, error) {
	var raw []byte
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(modelsBucketName(deviceID)))
		if b == nil {
			return ErrBucketNotFound{Name: modelsBucketName(deviceID)}
		}
		value := b.Get([]byte(modelID))
		if value == nil {
			return ErrDump{What: fmt.Sprintf("model not found: %s", modelID)}
		}
		raw = append(raw, value...)
		return nil
	}); err != nil {
		return nil, err
	}
	return raw, nil
}

// Models returns the raw JSON dumps of every model of a device type
func (s *State) Models(deviceID int) (map[string][]byte, error) {
	models := make(map[string][]byte)
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(modelsBucketName(deviceID)))
		if b == nil {
			return ErrBucketNotFound{Name: modelsBucketName(deviceID)}
		}
		return b.ForEach(func(k, v []byte) error {
			value := make([]byte, len(v))
			copy(value, v)
			models[string(k)] = value
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return models, nil
}
