// Command pasticceria runs the pastry-shop order pipeline simulator: it
// reads commands from stdin, advances the logical clock one tick per
// command, and prints protocol responses to stdout until EOF (spec §6).
//
// Grounded on main.go's fx composition root. The teacher wires Kitchen and
// an HTTP ApplicationServer through fx.Provide/fx.Invoke and lets fx.App
// block on the HTTP listener; there is no HTTP surface here (spec §1 rules
// out network I/O), so fx.Invoke instead runs the command loop to
// completion synchronously and the process exits as soon as it returns.
package main

import (
	"fmt"
	"os"

	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mrossi/pasticceria/internal/catalog"
	simconfig "github.com/mrossi/pasticceria/internal/config"
	"github.com/mrossi/pasticceria/internal/protocol"
	"github.com/mrossi/pasticceria/internal/scheduler"
	"github.com/mrossi/pasticceria/internal/simclock"
	"github.com/mrossi/pasticceria/internal/telemetry"
	"github.com/mrossi/pasticceria/internal/warehouse"
)

// ProvideEnv mirrors the teacher's ProvideEnv: it figures out the runtime
// environment from SIMULATOR_ENV (the teacher's SERVICE_ENV analogue).
func ProvideEnv() simconfig.Env {
	return simconfig.GetEnv()
}

// ProvideConfigProvider mirrors the teacher's ProvideConfig.
func ProvideConfigProvider(env simconfig.Env) (config.Provider, error) {
	return simconfig.Load(env)
}

// ProvideConfig extracts the simulator's own ambient settings.
func ProvideConfig(provider config.Provider) simconfig.Config {
	return simconfig.Populate(provider)
}

// ProvideLogger builds the shared structured logger at the configured level.
func ProvideLogger(cfg simconfig.Config) (*zap.Logger, error) {
	return telemetry.New(cfg.LogLevel)
}

// ProvideCatalog, ProvideWarehouse and ProvideScheduler build the three
// core data structures the spec's §1 core is defined over.
func ProvideCatalog() *catalog.Catalog {
	return catalog.New()
}

func ProvideWarehouse() *warehouse.Warehouse {
	return warehouse.New()
}

func ProvideScheduler(cat *catalog.Catalog, wh *warehouse.Warehouse, log *zap.Logger) *scheduler.Scheduler {
	return scheduler.New(cat, wh, log)
}

// Runtime bundles everything Run needs once the protocol header has been
// read, since the clock's courier needs the capacity that only arrives
// on stdin, not from fx's static DI graph.
type Runtime struct {
	Catalog   *catalog.Catalog
	Warehouse *warehouse.Warehouse
	Scheduler *scheduler.Scheduler
	Logger    *zap.Logger
}

func ProvideRuntime(cat *catalog.Catalog, wh *warehouse.Warehouse, sched *scheduler.Scheduler, log *zap.Logger) *Runtime {
	return &Runtime{Catalog: cat, Warehouse: wh, Scheduler: sched, Logger: log}
}

// Run reads the header line, wires the clock with the now-known capacity,
// and runs the command loop to EOF.
func Run(rt *Runtime) error {
	reader := protocol.NewReader(os.Stdin)
	writer := protocol.NewWriter(os.Stdout)
	defer writer.Flush()

	header, err := reader.ReadHeader()
	if err != nil {
		return err
	}

	clock := simclock.New(rt.Catalog, rt.Warehouse, rt.Scheduler, header.Capacity, rt.Logger)
	if err := clock.Run(reader, writer, header.Periodicity); err != nil {
		return err
	}
	return writer.Flush()
}

func main() {
	var runErr error
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			ProvideEnv,
			ProvideConfigProvider,
			ProvideConfig,
			ProvideLogger,
			ProvideCatalog,
			ProvideWarehouse,
			ProvideScheduler,
			ProvideRuntime,
		),
		fx.Invoke(func(rt *Runtime) {
			runErr = Run(rt)
		}),
	)

	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
