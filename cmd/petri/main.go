// Command petri runs a single node of a distributed, conservatively
// synchronized Petri-net simulation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/diogofriggo/petri/pkg/petri/core"
	"github.com/diogofriggo/petri/pkg/petri/definition"
	"github.com/diogofriggo/petri/pkg/petri/loader"
)

var (
	app = kingpin.New("petri", "Conservative (Chandy-Misra-Bryant) distributed Petri-net simulator.")

	terminalClock = app.Flag("terminal-clock", "Clock at which this node's simulation stops.").
			Required().Uint()
	node = app.Flag("node", "This node's own host:port endpoint.").
		Required().String()
	nodes = app.Flag("nodes", "Every node's host:port endpoint taking part in the simulation.").
		Required().Strings()
	netsFolder = app.Flag("nets-folder", "Folder containing one .json Petri net per node.").
			Required().ExistingDir()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logFile, err := os.OpenFile(fmt.Sprintf("%s.log", *node), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fatal("open log file", err)
	}
	defer logFile.Close()

	log := definition.NewDefaultLogger(*node, logFile)

	ctx := context.Background()
	bootstrapped, err := loader.Bootstrap(ctx, log, *node, *nodes, *netsFolder, int(*terminalClock))
	if err != nil {
		fatal("bootstrap", err)
	}

	invoker := core.InvokerInstance()
	invoker.Spawn(bootstrapped.Listener.Serve)

	engine := core.NewEngine(bootstrapped.EngineConfig)
	color.Cyan("node %s listening, %d fed node(s), running to terminal clock %d", *node, len(bootstrapped.EngineConfig.FedNodes), *terminalClock)

	runErr := engine.Run(bootstrapped.Ctx)
	bootstrapped.Listener.Close()

	if runErr != nil {
		// The listener's cancel cause, when not our own Close, is the
		// more specific error (e.g. a decode failure): prefer it.
		if cause := bootstrapped.Listener.Cause(); cause != nil && !errors.Is(cause, context.Canceled) {
			fatal("run", cause)
		}
		fatal("run", runErr)
	}
}

func fatal(step string, err error) {
	color.Red("fatal: %s: %v", step, err)
	os.Exit(1)
}
