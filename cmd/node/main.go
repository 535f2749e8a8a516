package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"powledger/api"
	"powledger/node"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	defaults := node.DefaultConfig()

	// Command line flags
	port := flag.String("port", defaults.Port, "HTTP port to listen on")
	nodeID := flag.String("id", "", "Node ID (auto-generated if not provided)")
	peers := flag.String("peers", "", "Comma-separated peer addresses to register at startup")
	fetchTimeout := flag.Duration("fetch-timeout", defaults.FetchTimeout, "Timeout for fetching a peer's chain")
	mineTimeout := flag.Duration("mine-timeout", 0, "Give up mining after this long (0 = no limit)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "Log format (text, json)")
	flag.Parse()

	setLogger(*logLevel, *logFormat)

	// Parse peers
	var peerList []string
	if *peers != "" {
		peerList = strings.Split(*peers, ",")
	}

	config := defaults
	config.Port = *port
	config.NodeID = *nodeID
	config.Peers = peerList
	config.FetchTimeout = *fetchTimeout
	config.MineTimeout = *mineTimeout

	fullNode := node.NewFullNode(config)
	server := api.NewServer(fullNode, config.Port)

	color.Cyan("⛓  powledger node %s", fullNode.ID())
	color.Green("   HTTP API on :%s", config.Port)
	if registered := fullNode.Peers(); len(registered) > 0 {
		color.Yellow("   Peers: %s", strings.Join(registered, ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logrus.WithError(err).Fatal("HTTP server failed")
		}
	case <-ctx.Done():
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("graceful shutdown failed")
		}
	}
}

// setLogger configures the standard logrus logger every package logs through
func setLogger(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		color.Red("invalid log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	if lvl < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	logrus.SetOutput(os.Stdout)

	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
