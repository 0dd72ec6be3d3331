// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/xrouterd/keypair"
	"github.com/bitmark-inc/xrouterd/zmqutil"
)

// setup command handler
//
// commands that run to create key files these commands cannot access
// any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate-identity", "id":
		identityFilename := getFilenameWithDirectory(arguments, defaultIdentityFile)
		publicKeyFilename := getFilenameWithDirectory(arguments, defaultPublicKeyFile)
		privateKeyFilename := getFilenameWithDirectory(arguments, defaultPrivateKeyFile)

		key, err := keypair.MakeIdentity(identityFilename)
		if nil != err {
			fmt.Printf("cannot generate identity: %q\n", identityFilename)
			fmt.Printf("error generating identity: %v\n", err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated identity: %q\n", identityFilename)
		fmt.Printf("  public key: %s\n", keypair.PublicKey(key))

		err = zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("cannot generate private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)
			fmt.Printf("error generating server key pair: %v\n", err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "address", "a":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing identity file argument")
		}
		key, err := keypair.ReadIdentityFile(arguments[0])
		if nil != err {
			exitwithstatus.Message("error reading: %q  error: %s", arguments[0], err)
		}
		version := uint64(0)
		if len(arguments) > 1 {
			version, err = strconv.ParseUint(arguments[1], 0, 8)
			if nil != err {
				exitwithstatus.Message("error in address version: %s", err)
			}
		}
		fmt.Printf("%s\n", keypair.Address(key, byte(version)))

	case "start", "run", "config-test", "cfg":
		return false // continue processing

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %v\n", command)
		}
		usage(program)
		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// help text for each command, continuation lines have no name
var setupCommands = []struct {
	name  string
	alias string
	text  string
}{
	{"help", "h", "display this message"},
	{"version", "v", "display version string"},
	{"generate-identity [DIR]", "id", "create the signing key: DIR/" + defaultIdentityFile},
	{"", "", "and the zmq key pair: DIR/" + defaultPrivateKeyFile + " DIR/" + defaultPublicKeyFile},
	{"address FILE [VERSION]", "a", "display the stake address of a signing key"},
	{"config-test", "cfg", "check the configuration file and display the result"},
	{"start", "run", "run the router, same as no arguments"},
}

func usage(program string) {
	fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)
	fmt.Printf("supported commands:\n")
	for _, c := range setupCommands {
		if "" == c.name {
			fmt.Printf("  %-26s  %-6s    %s\n", "", "", c.text)
			continue
		}
		fmt.Printf("\n  %-26s  %-6s  - %s\n", c.name, "("+c.alias+")", c.text)
	}
	fmt.Printf("\n")
}

// configuration command handler
//
// commands that only need the configuration file
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to start
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
