package app

import (
	"context"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/runtime"
	"github.com/iov-one/swapvault/store/iavl"
	"github.com/iov-one/swapvault/x/escrow"
	"github.com/iov-one/swapvault/x/sigs"
	"github.com/iov-one/swapvault/x/token"
	"github.com/iov-one/swapvault/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by abci Info.
const Name = "swapvault"

// Authenticator returns the authentication shared by all programs: keys
// that signed the transaction and addresses the executing program signed
// for.
func Authenticator() swapvault.Authenticator {
	return swapvault.ChainAuth(sigs.Authenticate{}, runtime.Authenticate{})
}

// Router returns a router with the system, token and escrow programs.
func Router(auth swapvault.Authenticator) *runtime.Router {
	ledger := token.NewController(auth)
	r := runtime.NewRouter()
	r.Register(runtime.NewSystemProgram(auth))
	r.Register(token.NewProgram(ledger))
	r.Register(escrow.NewProgram(auth, runtime.NewAccountBucket(), ledger, runtime.RentSysvar{}, token.ProgramID))
	return r
}

// QueryRouter returns all query handlers.
func QueryRouter(auth swapvault.Authenticator) swapvault.QueryRouter {
	qr := swapvault.NewQueryRouter()
	qr.RegisterAll(
		runtime.RegisterQuery,
		escrow.RegisterQuery,
		func(qr swapvault.QueryRouter) { token.RegisterQuery(qr, token.NewController(auth)) },
	)
	return qr
}

// Stack wraps the router with the decorators every transaction passes.
// Each transaction runs inside a savepoint, so any failing instruction
// reverts the whole transaction. Metrics may be nil.
func Stack(metrics swapvault.Decorator) swapvault.Handler {
	auth := Authenticator()
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewSavepoint().OnCheck().OnDeliver(),
		sigs.NewDecorator(),
		utils.NewProgramTagger(),
	).WithHandler(Router(auth))
}

// Initializer loads all genesis state.
func Initializer() swapvault.Initializer {
	return swapvault.ChainInitializers(
		runtime.Initializer{},
		token.Initializer{},
	)
}

// Options configures Application.
type Options struct {
	// DBDir is the database location. Empty keeps state in memory.
	DBDir string
	// Debug disables error redaction.
	Debug bool
	// Logger is used by the application and all programs.
	Logger log.Logger
	// Registerer receives the transaction metrics, if set.
	Registerer prometheus.Registerer
}

// Application returns the ABCI application.
func Application(opts Options) (BaseApp, error) {
	var metrics swapvault.Decorator
	if opts.Registerer != nil {
		m, err := utils.NewMetrics(opts.Registerer)
		if err != nil {
			return BaseApp{}, err
		}
		metrics = m
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	commit := iavl.NewCommitStore(opts.DBDir, Name)
	store := NewStoreApp(Name, commit, QueryRouter(Authenticator()), context.Background()).
		WithInit(Initializer()).
		WithLogger(logger)
	return NewBaseApp(store, DecodeTx, Stack(metrics), opts.Debug), nil
}
