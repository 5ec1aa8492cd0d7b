/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	irc "github.com/ircclient/engine"
	"github.com/ircclient/engine/events"
	"github.com/ircclient/engine/sasl"
	"github.com/ircclient/engine/shared/logfmt"
)

func main() {
	server := flag.String("server", "irc.libera.chat", "server address")
	port := flag.Int("port", 6697, "server port")
	useTLS := flag.Bool("tls", true, "use TLS")
	nick := flag.String("nick", "ircclient-demo", "nickname")
	channel := flag.String("channel", "", "channel to join once registered")
	saslUser := flag.String("sasl-user", "", "SASL PLAIN username (blank disables SASL)")
	saslPass := flag.String("sasl-pass", "", "SASL PLAIN password")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(logfmt.New())

	mainContext, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	wg := conc.NewWaitGroup()
	defer wg.Wait()

	client := irc.NewClient(irc.WithClientLogger(logrus.NewEntry(logger)))

	log := logger.WithField("component", "main")
	client.Events().Subscribe(0, func(e events.Event) {
		log.WithField("kind", e.Kind()).Info("event")
	})

	connOpts := []irc.ConnectionOption{
		irc.WithIdentity(*nick, *nick, *nick),
	}
	if *useTLS {
		connOpts = append(connOpts, irc.WithTLS(nil))
	}
	if *saslUser != "" {
		creds := sasl.Credentials{
			Authcid:  *saslUser,
			Password: sasl.NewSecureString(*saslPass),
		}
		connOpts = append(connOpts, irc.WithSASL("PLAIN", creds))
	}

	connectCtx, cancelConnect := context.WithTimeout(mainContext, 30*time.Second)
	defer cancelConnect()

	id, err := client.Connect(connectCtx, *server, *port, connOpts...)
	if err != nil {
		log.Fatal(fmt.Errorf("failed to connect: %w", err))
	}
	log.WithField("conn_id", id).Info("registered")

	if *channel != "" {
		if err := client.Join(id, *channel); err != nil {
			log.WithError(err).Warn("failed to join channel")
		}
	}

	killSignals := make(chan os.Signal, 1)
	signal.Notify(killSignals, syscall.SIGINT, syscall.SIGTERM)

	sig := <-killSignals
	log.Infof("shutting down, received signal: %s", sig)
	shutdown()
	client.DisconnectAll("client shutting down")
}
