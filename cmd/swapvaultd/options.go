package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/app"
	"github.com/iov-one/swapvault/commands/server"
	"github.com/iov-one/swapvault/crypto"
	"github.com/iov-one/swapvault/runtime"
	"github.com/iov-one/swapvault/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
)

// devLamports funds the development account created by GenInitOptions.
const devLamports = 1000000000000

// GenInitOptions will produce the app state for one rich account, to use
// for dev mode. The account address may be given as the first argument,
// otherwise a new key is generated and its seed printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr swapvault.Address
	if len(args) > 0 {
		a, err := swapvault.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		key := crypto.GenPrivKeyEd25519()
		addr = key.Address()
		fmt.Printf("address %s\nseed    %s\n", addr, hex.EncodeToString(key.Seed()))
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			runtime.RentConfName: runtime.DefaultRent(),
		},
		"accounts": []runtime.GenesisAccount{
			{Address: addr, Lamports: devLamports},
		},
		"token_accounts": []token.GenesisAccount{},
	}
	return json.Marshal(state)
}

// GenerateApp is used to create the application for the start command.
func GenerateApp(options *server.Options) (abci.Application, error) {
	return app.Application(app.Options{
		DBDir:      options.Config.DBDir,
		Debug:      options.Config.Debug,
		Logger:     options.Logger,
		Registerer: options.Registerer,
	})
}
