// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	zmq "github.com/pebbe/zmq4"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/util"
	"github.com/bitmark-inc/xrouterd/zmqutil"
)

const (
	zmqZapDomain = "xrouter"
	zmqSignal    = "inproc://xrouterd-listener-signal"
	zmqReplies   = "inproc://xrouterd-listener-replies"

	peerAddressProperty = "Peer-Address"

	defaultWorkers = 4
	defaultQueue   = 1000
)

// reply routing tags
const (
	tagIPv4 = "4"
	tagIPv6 = "6"
)

// ZMQConfiguration - ROUTER listener parameters
type ZMQConfiguration struct {
	Listen  []string
	Keys    zmqutil.Keys
	Workers int
	Queue   int
}

// ZMQListener - receives packets on ROUTER sockets
//
// sockets are only used by the goroutine that owns them: the poll
// loop owns the ROUTER sockets, each worker owns one PUSH socket that
// carries its replies back to the loop
type ZMQListener struct {
	log        *logger.L
	handler    Handler
	scoreboard *Scoreboard
	limiter    *rate.Limiter

	push      *zmq.Socket // signal send
	pull      *zmq.Socket // signal receive
	listeners *zmqutil.Listeners
	replies   *zmq.Socket // worker replies
	workers   []*zmq.Socket

	jobs chan job
}

type job struct {
	tag      string
	envelope [][]byte
	peer     string
	data     []byte
}

// NewZMQListener - bind the listen addresses
func NewZMQListener(log *logger.L, conf ZMQConfiguration, handler Handler, scoreboard *Scoreboard, limiter *rate.Limiter) (*ZMQListener, error) {

	log.Info("initialising…")

	c, err := util.NewConnections(conf.Listen)
	if nil != err {
		log.Errorf("ip and port error: %s", err)
		return nil, err
	}

	workers := conf.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	queue := conf.Queue
	if queue <= 0 {
		queue = defaultQueue
	}

	err = zmqutil.StartAuthentication(zmqZapDomain)
	if nil != err {
		return nil, err
	}

	l := &ZMQListener{
		log:        log,
		handler:    handler,
		scoreboard: scoreboard,
		limiter:    limiter,
		jobs:       make(chan job, queue),
	}

	// signalling channel
	pull, push, err := zmqutil.FanIn(zmqSignal, 1)
	if nil != err {
		return nil, err
	}
	l.pull = pull
	l.push = push[0]

	// one reply sender per worker
	l.replies, l.workers, err = zmqutil.FanIn(zmqReplies, workers)
	if nil != err {
		zmqutil.CloseAll(l.pull, l.push)
		return nil, err
	}

	l.listeners, err = zmqutil.Bind(log, zmq.ROUTER, zmqZapDomain, conf.Keys, c)
	if nil != err {
		log.Errorf("bind error: %s", err)
		l.close()
		l.push.Close()
		return nil, err
	}

	return l, nil
}

// Run - wait for incoming requests, process them and reply
func (l *ZMQListener) Run(args interface{}, shutdown <-chan struct{}) {

	log := l.log

	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	for i, s := range l.workers {
		wg.Add(1)
		go func(i int, s *zmq.Socket) {
			defer wg.Done()
			l.work(ctx, i, s)
		}(i, s)
	}

	done := make(chan struct{})
	go func() {
		poller := zmq.NewPoller()
		for _, s := range []*zmq.Socket{l.listeners.IPv4, l.listeners.IPv6} {
			if nil != s {
				poller.Add(s, zmq.POLLIN)
			}
		}
		poller.Add(l.replies, zmq.POLLIN)
		poller.Add(l.pull, zmq.POLLIN)
	loop:
		for {
			sockets, err := poller.Poll(-1)
			if nil != err {
				log.Errorf("poll error: %s", err)
				continue
			}
			for _, socket := range sockets {
				switch s := socket.Socket; s {
				case l.listeners.IPv4:
					l.receive(s, tagIPv4)
				case l.listeners.IPv6:
					l.receive(s, tagIPv6)
				case l.replies:
					l.reply(s)
				case l.pull:
					s.RecvMessageBytes(0)
					break loop
				}
			}
		}
		log.Info("shutting down")
		close(l.jobs)
		cancel()
		wg.Wait()
		l.close()
		log.Info("stopped")
		close(done)
	}()

	// wait for shutdown
	log.Info("waiting…")
	<-shutdown
	log.Info("initiate shutdown")
	l.push.SendMessage("stop")
	<-done
	l.push.Close()
}

// read one request and queue it for a worker
func (l *ZMQListener) receive(socket *zmq.Socket, tag string) {
	msg, metadata, err := socket.RecvMessageBytesWithMetadata(0, peerAddressProperty)
	if nil != err {
		l.log.Errorf("receive error: %s", err)
		return
	}

	// identity frame(s) then the packet
	if len(msg) < 2 {
		l.log.Debugf("short message: %d frames", len(msg))
		return
	}
	n := len(msg) - 1

	peer := peerName(metadata[peerAddressProperty], msg[0])
	if l.scoreboard.IsBanned(peer) {
		l.log.Debugf("peer: %s  dropped: %s", peer, fault.ErrPeerBanned)
		return
	}

	// the poll loop must not wait for the ceiling
	if !l.limiter.Allow() {
		l.log.Warnf("peer: %s  dropped: %s", peer, fault.ErrRateLimiting)
		return
	}

	j := job{
		tag:      tag,
		envelope: msg[:n],
		peer:     peer,
		data:     msg[n],
	}
	select {
	case l.jobs <- j:
	default:
		l.log.Warnf("peer: %s  dropped: %s", peer, fault.ErrQueueFull)
	}
}

// forward a worker's reply to the requester
func (l *ZMQListener) reply(replies *zmq.Socket) {
	msg, err := replies.RecvMessageBytes(0)
	if nil != err {
		l.log.Errorf("reply receive error: %s", err)
		return
	}
	if len(msg) < 3 {
		return
	}

	socket := l.listeners.Socket(tagIPv6 == string(msg[0]))
	if nil == socket {
		return
	}

	_, err = socket.SendMessage(msg[1:])
	if nil != err {
		l.log.Warnf("send error: %s", err)
	}
}

func (l *ZMQListener) work(ctx context.Context, n int, push *zmq.Socket) {
	log := l.log
	log.Debugf("worker[%d]: started", n)

	for j := range l.jobs {
		reply, err := l.handler.Handle(ctx, j.peer, j.data)
		if nil != err {
			log.Debugf("worker[%d]: peer: %s  no reply: %s", n, j.peer, err)
			continue
		}
		if nil == reply {
			continue
		}
		_, err = push.SendMessage(j.tag, j.envelope, reply)
		if nil != err {
			log.Errorf("worker[%d]: queue reply error: %s", n, err)
		}
	}

	log.Debugf("worker[%d]: stopped", n)
}

func (l *ZMQListener) close() {
	zmqutil.CloseAll(l.pull, l.replies)
	zmqutil.CloseAll(l.workers...)
	if nil != l.listeners {
		l.listeners.Close()
	}
}

// a peer is identified by its network address when the transport
// reports one, otherwise by its routing identity
func peerName(address string, identity []byte) string {
	if "" != address {
		return fmt.Sprintf("zmq:%s", address)
	}
	return "zmq:" + hex.EncodeToString(identity)
}
