// Package storage abstracts the key-value stores backing persistent
// checkpoints. Drivers register themselves by type name.
package storage

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// StorageV1 is the initial layout of checkpoint records.
const (
	StorageV1 int32 = 1 + iota

	CurrentStorageVersion int32 = StorageV1
)

const versionFilename = ".ver"

var (
	ErrDbUnknownType       = errors.New("non-existent database type")
	ErrInvalidKey          = errors.New("invalid key")
	ErrInvalidBatch        = errors.New("invalid batch")
	ErrNotFound            = errors.New("not found")
	ErrIncompatibleStorage = errors.New("incompatible storage")
)

// Range is a key range.
type Range struct {
	// Start of the key range, include in the range.
	Start []byte

	// Limit of the key range, not include in the range.
	Limit []byte
}

// BytesPrefix returns the range of all keys starting with prefix.
func BytesPrefix(prefix []byte) *Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return &Range{Start: prefix, Limit: limit}
}

type Iterator interface {
	Release()
	Error() error
	Next() bool
	Key() []byte
	Value() []byte
}

type Batch interface {
	Release()
	Put(key, value []byte) error
	Delete(key []byte) error
}

type Storage interface {
	Close() error
	// Get returns ErrNotFound if key not exist
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	Write(batch Batch) error
	NewBatch() Batch
	NewIterator(slice *Range) Iterator
}

type StorageDriver struct {
	DbType        string
	CreateStorage func(storPath string) (Storage, error)
	OpenStorage   func(storPath string) (Storage, error)
}

var drivers []StorageDriver

func RegisterDriver(instance StorageDriver) {
	for _, drv := range drivers {
		if drv.DbType == instance.DbType {
			return
		}
	}
	drivers = append(drivers, instance)
}

func findDriver(dbtype string) (StorageDriver, bool) {
	for _, drv := range drivers {
		if drv.DbType == dbtype {
			return drv, true
		}
	}
	return StorageDriver{}, false
}

// CreateStorage initializes and opens a new database.
func CreateStorage(dbtype, dbpath string) (Storage, error) {
	drv, ok := findDriver(dbtype)
	if !ok {
		return nil, errors.Wrap(ErrDbUnknownType, dbtype)
	}
	return drv.CreateStorage(dbpath)
}

// OpenStorage opens an existing database.
func OpenStorage(dbtype, dbpath string) (Storage, error) {
	drv, ok := findDriver(dbtype)
	if !ok {
		return nil, errors.Wrap(ErrDbUnknownType, dbtype)
	}
	return drv.OpenStorage(dbpath)
}

// OpenOrCreateStorage opens the database at dbpath, creating it first when
// the directory does not exist yet.
func OpenOrCreateStorage(dbtype, dbpath string) (Storage, error) {
	if _, err := os.Stat(dbpath); os.IsNotExist(err) {
		return CreateStorage(dbtype, dbpath)
	}
	return OpenStorage(dbtype, dbpath)
}

func RegisteredDbTypes() []string {
	var types []string
	for _, drv := range drivers {
		types = append(types, drv.DbType)
	}
	return types
}

type storageVersion struct {
	Dbtype  string `json:"dbtype,omitempty"`
	Version int32  `json:"version,omitempty"`
}

// CheckCompatibility writes the version file of a fresh storage directory,
// or verifies the one left by a previous run.
func CheckCompatibility(dbtype, storPath string) error {
	verFile := filepath.Join(storPath, versionFilename)
	data, err := ioutil.ReadFile(verFile)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(storPath, 0700); err != nil {
			return err
		}
		data, err := json.Marshal(storageVersion{Dbtype: dbtype, Version: CurrentStorageVersion})
		if err != nil {
			return errors.Wrap(err, "marshal version")
		}
		return ioutil.WriteFile(verFile, data, 0600)
	}
	if err != nil {
		return errors.Wrap(err, "read version file")
	}

	var ver storageVersion
	if err = json.Unmarshal(data, &ver); err != nil {
		return errors.Wrap(err, "unmarshal version file")
	}
	if ver.Version == CurrentStorageVersion && ver.Dbtype == dbtype {
		return nil
	}
	return ErrIncompatibleStorage
}
