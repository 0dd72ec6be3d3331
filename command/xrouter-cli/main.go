// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/xrouterd/keypair"
	"github.com/bitmark-inc/xrouterd/packet"
)

type metadata struct {
	identity  string
	stakeText string
	connect   string
	serverKey string
	p2p       string
	timeout   time.Duration
	verbose   bool
	e         io.Writer
	w         io.Writer

	key   *secp256k1.PrivateKey
	stake packet.StakeProof
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "xrouter-cli"
	app.Usage = "send signed requests to an xrouterd node"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "identity, i",
			Value:  "",
			Usage:  "*signing key `FILE`",
			EnvVar: "XROUTER_IDENTITY",
		},
		cli.StringFlag{
			Name:   "stake, s",
			Value:  "",
			Usage:  "*stake output owned by the identity `TXID:VOUT`",
			EnvVar: "XROUTER_STAKE",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "",
			Usage: "+zmq listener of the node `HOST:PORT`",
		},
		cli.StringFlag{
			Name:  "server-key, k",
			Value: "",
			Usage: " zmq public key of the node, tagged text or `FILE`",
		},
		cli.StringFlag{
			Name:  "p2p, p",
			Value: "",
			Usage: "+libp2p address of the node including its peer id `MULTIADDR`",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Value: 30 * time.Second,
			Usage: " wait this long for a reply `DURATION`",
		},
	}

	request := func(name string, command packet.Command, usage string, argsUsage string) cli.Command {
		return cli.Command{
			Name:      name,
			Usage:     usage,
			ArgsUsage: argsUsage,
			Action:    requestAction(command),
		}
	}

	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "create a new signing key file and display its stake address",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				cli.UintFlag{
					Name:  "version, n",
					Value: 0,
					Usage: " address version byte `NUMBER`",
				},
			},
			Action: runGenerate,
		},
		request("blockcount", packet.GetBlockCount, "height of the best chain", "CURRENCY"),
		request("blockhash", packet.GetBlockHash, "hash of the block at a height", "CURRENCY HEIGHT"),
		request("block", packet.GetBlock, "block details", "CURRENCY HASH"),
		request("transaction", packet.GetTransaction, "transaction details", "CURRENCY TXID"),
		request("allblocks", packet.GetAllBlocks, "blocks from a height", "CURRENCY HEIGHT"),
		request("alltransactions", packet.GetAllTransactions, "transactions of an account", "CURRENCY ACCOUNT[:TIME] LIMIT"),
		request("balance", packet.GetBalance, "balance of an account", "CURRENCY ACCOUNT[:TIME]"),
		request("balanceupdate", packet.GetBalanceUpdate, "balance change of an account", "CURRENCY ACCOUNT[:TIME] LIMIT"),
		request("bloom", packet.GetTransactionsBloomFilter, "transactions paying to addresses", "CURRENCY HEIGHT [ADDRESS...]"),
		request("send", packet.SendTransaction, "broadcast a signed transaction", "CURRENCY HEX"),
		{
			Name:      "call",
			Usage:     "invoke a plugin",
			ArgsUsage: "PLUGIN [PARAMETER...]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "fee, f",
					Value: "",
					Usage: " signed fee transaction `HEX`",
				},
			},
			Action: requestAction(packet.CustomCall),
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer

		c.App.Metadata["config"] = &metadata{
			identity:  c.GlobalString("identity"),
			stakeText: c.GlobalString("stake"),
			connect:   c.GlobalString("connect"),
			serverKey: c.GlobalString("server-key"),
			p2p:       c.GlobalString("p2p"),
			timeout:   c.GlobalDuration("timeout"),
			verbose:   c.GlobalBool("verbose"),
			e:         e,
			w:         w,
		}

		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// load - read the signing key and parse the stake
func (m *metadata) load() error {
	if "" == m.identity {
		return ErrRequiredIdentity
	}
	if "" == m.stakeText {
		return ErrRequiredStake
	}

	key, err := keypair.ReadIdentityFile(m.identity)
	if nil != err {
		return err
	}

	stake, err := parseStake(m.stakeText)
	if nil != err {
		return err
	}

	m.key = key
	m.stake = stake

	if m.verbose {
		fmt.Fprintf(m.e, "public key: %s\n", keypair.PublicKey(key))
		fmt.Fprintf(m.e, "stake: %s:%d\n", stake, stake.Vout)
	}
	return nil
}
