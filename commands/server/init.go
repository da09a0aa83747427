package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagChainID = "chain"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// GenesisFile returns the tendermint genesis location inside home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd writes the generated app state into the genesis file, creating
// the file when it does not exist yet. It also stores a default node
// configuration in home.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var chainID string
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.StringVar(&chainID, flagChainID, "swapvault-dev", "chain id of a genesis file created from scratch")
	initFlags.BoolVar(&force, flagForce, false, "overwrite an existing app state")
	if err := initFlags.Parse(args); err != nil {
		return err
	}
	if !swapvault.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}

	genFile := GenesisFile(home)
	if err := addGenesisOptions(genFile, chainID, options, force); err != nil {
		return err
	}
	logger.Info("App state written to genesis", "path", genFile)

	conf := DefaultConfig(home)
	conf.ChainID = chainID
	if doc, err := readGenesis(genFile); err == nil {
		_ = json.Unmarshal(doc["chain_id"], &conf.ChainID)
	}
	if _, err := os.Stat(filepath.Join(home, ConfigFile)); os.IsNotExist(err) {
		if err := SaveConfig(home, conf); err != nil {
			return err
		}
		logger.Info("Node configuration written", "path", filepath.Join(home, ConfigFile))
	}
	return nil
}

func readGenesis(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "parse genesis: %s", err)
	}
	return doc, nil
}

func addGenesisOptions(filename, chainID string, options json.RawMessage, force bool) error {
	doc, err := readGenesis(filename)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		id, err := json.Marshal(chainID)
		if err != nil {
			return err
		}
		doc = GenesisDoc{"chain_id": id}
		if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
			return errors.Wrap(err, "create config dir")
		}
	default:
		return err
	}

	if state, ok := doc["app_state"]; ok && len(state) > 0 && string(state) != "null" && !force {
		return errors.Wrapf(errors.ErrDuplicate, "app state already set in %s", filename)
	}
	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
