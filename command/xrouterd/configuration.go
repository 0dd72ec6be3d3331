// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/configuration"
	"github.com/bitmark-inc/xrouterd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultIdentityFile   = "xrouterd.identity"
	defaultPublicKeyFile  = "xrouterd.public"
	defaultPrivateKeyFile = "xrouterd.private"

	defaultLedgerCacheDirectory = "ledger.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "xrouterd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultWorkers = 4
	defaultQueue   = 1000

	defaultRateCeiling = 200.0 // packets per second over all peers
	defaultRateBurst   = 100

	defaultMinimumStake = 200.0 // coins
	satoshi             = 100000000
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// ListenType - zmq ROUTER sockets and their CURVE keys
type ListenType struct {
	Listen     []string `gluamapper:"listen" json:"listen"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// P2PType - libp2p stream listener
type P2PType struct {
	Listen      []string `gluamapper:"listen" json:"listen"`
	IdleTimeout float64  `gluamapper:"idle_timeout" json:"idle_timeout"`
}

// WorkersType - request processing goroutines
type WorkersType struct {
	Count int `gluamapper:"count" json:"count"`
	Queue int `gluamapper:"queue" json:"queue"`
}

// RateType - global packet ceiling and per-peer entry retention
type RateType struct {
	Ceiling   float64 `gluamapper:"ceiling" json:"ceiling"`
	Burst     int     `gluamapper:"burst" json:"burst"`
	Retention float64 `gluamapper:"retention" json:"retention"`
}

// BanType - misbehaviour scoring
type BanType struct {
	Threshold int     `gluamapper:"threshold" json:"threshold"`
	Window    float64 `gluamapper:"window" json:"window"`
	Duration  float64 `gluamapper:"duration" json:"duration"`
}

// LedgerType - the chain daemon holding the stake outputs
type LedgerType struct {
	IP           string  `gluamapper:"ip" json:"ip"`
	Port         int     `gluamapper:"port" json:"port"`
	Username     string  `gluamapper:"username" json:"username"`
	Password     string  `gluamapper:"password" json:"-"`
	Timeout      float64 `gluamapper:"timeout" json:"timeout"`
	MinimumStake float64 `gluamapper:"minimum_stake" json:"minimum_stake"`
	Mempool      float64 `gluamapper:"mempool_expiry" json:"mempool_expiry"`
	Cache        string  `gluamapper:"cache" json:"cache"`
}

// Configuration - everything read from the configuration file
type Configuration struct {
	DataDirectory string      `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string      `gluamapper:"pidfile" json:"pidfile"`
	Identity      string      `gluamapper:"identity" json:"identity"`
	Listen        ListenType  `gluamapper:"listen" json:"listen"`
	P2P           P2PType     `gluamapper:"p2p" json:"p2p"`
	Workers       WorkersType `gluamapper:"workers" json:"workers"`
	Rate          RateType    `gluamapper:"rate" json:"rate"`
	Ban           BanType     `gluamapper:"ban" json:"ban"`
	Ledger        LedgerType  `gluamapper:"ledger" json:"ledger"`

	Main       configuration.MainSettings                `gluamapper:"main" json:"main"`
	Currencies map[string]configuration.CurrencySettings `gluamapper:"currencies" json:"currencies"`
	Plugins    map[string]configuration.PluginSettings   `gluamapper:"plugins" json:"plugins"`

	Logging logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Identity:      defaultIdentityFile,

		Listen: ListenType{
			PrivateKey: defaultPrivateKeyFile,
			PublicKey:  defaultPublicKeyFile,
		},

		Workers: WorkersType{
			Count: defaultWorkers,
			Queue: defaultQueue,
		},

		Rate: RateType{
			Ceiling: defaultRateCeiling,
			Burst:   defaultRateBurst,
		},

		Ledger: LedgerType{
			IP:           "127.0.0.1",
			MinimumStake: defaultMinimumStake,
			Cache:        defaultLedgerCacheDirectory,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	if 0 == len(options.Listen.Listen) && 0 == len(options.P2P.Listen) {
		return nil, fmt.Errorf("Listen: no zmq or p2p listen addresses")
	}
	if options.Ledger.Port <= 0 || options.Ledger.Port > 65535 {
		return nil, fmt.Errorf("Ledger: invalid port: %d", options.Ledger.Port)
	}
	if options.Ledger.MinimumStake <= 0 {
		options.Ledger.MinimumStake = defaultMinimumStake
	}
	if options.Workers.Count <= 0 {
		options.Workers.Count = defaultWorkers
	}
	if options.Workers.Queue <= 0 {
		options.Workers.Queue = defaultQueue
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Identity,
		&options.Listen.PrivateKey,
		&options.Listen.PublicKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.ResolvePath(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.ResolvePath(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Ledger.Cache, &options.DataDirectory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.ResolvePath(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Logging.Directory,
	} {
		*d = util.ResolvePath(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// Settings - the routing tables as a policy source
func (c *Configuration) Settings() configuration.Settings {
	return configuration.Settings{
		Main:       c.Main,
		Currencies: c.Currencies,
		Plugins:    c.Plugins,
	}
}

// stake minimum in satoshi
func (c *Configuration) minimumStake() int64 {
	return int64(c.Ledger.MinimumStake * satoshi)
}
