// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/admission"
	"github.com/bitmark-inc/xrouterd/background"
	"github.com/bitmark-inc/xrouterd/configuration"
	"github.com/bitmark-inc/xrouterd/connector"
	"github.com/bitmark-inc/xrouterd/keypair"
	"github.com/bitmark-inc/xrouterd/ledger"
	"github.com/bitmark-inc/xrouterd/plugin"
	"github.com/bitmark-inc/xrouterd/ratelimit"
	"github.com/bitmark-inc/xrouterd/router"
	"github.com/bitmark-inc/xrouterd/rpcclient"
	"github.com/bitmark-inc/xrouterd/transport"
	"github.com/bitmark-inc/xrouterd/zmqutil"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform no background processing
	if processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("configuration: %#v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// node identity signs every reply
	identity, err := keypair.ReadIdentityFile(theConfiguration.Identity)
	if nil != err {
		log.Criticalf("read error on: %s  error: %s", theConfiguration.Identity, err)
		exitwithstatus.Message("%s: failed reading identity: %q  error: %s", program, theConfiguration.Identity, err)
	}
	log.Infof("identity public key: %s", keypair.PublicKey(identity))

	// ledger holding the stake outputs
	ledgerClient := rpcclient.New(logger.New("ledger-rpc"), rpcclient.Configuration{
		URL:      fmt.Sprintf("http://%s:%d", theConfiguration.Ledger.IP, theConfiguration.Ledger.Port),
		Username: theConfiguration.Ledger.Username,
		Password: theConfiguration.Ledger.Password,
		Timeout:  seconds(theConfiguration.Ledger.Timeout),
	})
	stakeLedger, err := ledger.NewCached(
		logger.New("ledger"),
		ledger.NewRPC(logger.New("ledger"), ledgerClient),
		theConfiguration.Ledger.Cache,
		seconds(theConfiguration.Ledger.Mempool),
	)
	if nil != err {
		log.Criticalf("ledger cache: %q  error: %s", theConfiguration.Ledger.Cache, err)
		exitwithstatus.Message("%s: ledger cache: %q  error: %s", program, theConfiguration.Ledger.Cache, err)
	}
	defer stakeLedger.Close()

	// routing tables and wallet connectors
	settings := theConfiguration.Settings()
	store := configuration.NewStore(configuration.NewPolicy(settings))

	connectorLog := logger.New("connector")
	registry := connector.NewRegistry()
	connectors, err := connector.Setup(connectorLog, settings.Currencies)
	if nil != err {
		log.Errorf("connector setup: %s", err)
	}
	registry.Replace(connectors)
	log.Infof("currencies: %v", registry.Currencies())

	reload := func() error {
		conf, err := getConfiguration(configurationFile)
		if nil != err {
			return err
		}
		settings := conf.Settings()
		connectors, err := connector.Setup(connectorLog, settings.Currencies)
		if nil != err {
			log.Errorf("connector setup: %s", err)
		}
		registry.Replace(connectors)
		store.Replace(configuration.NewPolicy(settings))
		log.Infof("reloaded currencies: %v  plugins: %v", registry.Currencies(), store.Policy().PluginNames())
		return nil
	}

	watcher, err := configuration.NewWatcher(logger.New("watcher"), configurationFile, 0, reload)
	if nil != err {
		log.Criticalf("configuration watcher error: %s", err)
		exitwithstatus.Message("%s: configuration watcher error: %s", program, err)
	}

	scoreboard := transport.NewScoreboard(
		logger.New("scoreboard"),
		theConfiguration.Ban.Threshold,
		seconds(theConfiguration.Ban.Window),
		seconds(theConfiguration.Ban.Duration),
	)
	limiter := ratelimit.New(seconds(theConfiguration.Rate.Retention))

	pluginLog := logger.New("plugin")
	r := router.New(logger.New("router"), router.Components{
		Key:      identity,
		Verifier: admission.New(logger.New("admission"), stakeLedger, theConfiguration.minimumStake()),
		Limiter:  limiter,
		Policies: store,
		Registry: registry,
		Plugins:  plugin.New(pluginLog, plugin.CommandExecutor{}, plugin.NewClients(pluginLog)),
		Reporter: scoreboard,
	})

	// global packet ceiling shared by all transports
	ceiling := rate.NewLimiter(rate.Limit(theConfiguration.Rate.Ceiling), theConfiguration.Rate.Burst)

	processes := background.Processes{
		watcher,
		&stats{
			log:        logger.New("stats"),
			counters:   r.Counters(),
			limiter:    limiter,
			scoreboard: scoreboard,
			memory:     len(options["memory-stats"]) > 0,
		},
	}

	if len(theConfiguration.Listen.Listen) > 0 {

		keys, err := zmqutil.LoadKeys(theConfiguration.Listen.PublicKey, theConfiguration.Listen.PrivateKey)
		if nil != err {
			log.Criticalf("read error on: %q or %q  error: %s", theConfiguration.Listen.PublicKey, theConfiguration.Listen.PrivateKey, err)
			exitwithstatus.Message("%s: failed reading zmq keys: %q or %q  error: %s", program, theConfiguration.Listen.PublicKey, theConfiguration.Listen.PrivateKey, err)
		}
		log.Tracef("zmq public key: %x", keys.Public)

		zmqListener, err := transport.NewZMQListener(logger.New("zmq"), transport.ZMQConfiguration{
			Listen:  theConfiguration.Listen.Listen,
			Keys:    keys,
			Workers: theConfiguration.Workers.Count,
			Queue:   theConfiguration.Workers.Queue,
		}, r, scoreboard, ceiling)
		if nil != err {
			log.Criticalf("zmq listener error: %s", err)
			exitwithstatus.Message("%s: zmq listener error: %s", program, err)
		}
		processes = append(processes, zmqListener)
	}

	if len(theConfiguration.P2P.Listen) > 0 {
		p2pListener, err := transport.NewP2PListener(logger.New("p2p"), transport.P2PConfiguration{
			Listen:      theConfiguration.P2P.Listen,
			Key:         identity,
			IdleTimeout: seconds(theConfiguration.P2P.IdleTimeout),
		}, r, scoreboard, ceiling)
		if nil != err {
			log.Criticalf("p2p listener error: %s", err)
			exitwithstatus.Message("%s: p2p listener error: %s", program, err)
		}
		for _, a := range p2pListener.Addresses() {
			log.Infof("p2p address: %s", a)
			if 0 == len(options["quiet"]) {
				fmt.Printf("p2p address: %s\n", a)
			}
		}
		processes = append(processes, p2pListener)
	}

	// start background processes
	log.Info("start background")
	bg := background.Start(processes, nil)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	bg.Stop()
}

// configuration times are in seconds
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
