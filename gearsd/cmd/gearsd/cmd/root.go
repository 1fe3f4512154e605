package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cosmossdk.io/log"
	abciserver "github.com/cometbft/cometbft/abci/server"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gears-network/gears/baseapp"
	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/gearsd"
	sdk "github.com/gears-network/gears/types"
)

const (
	flagHome    = "home"
	flagAddress = "address"
	flagChainID = "chain-id"
)

// NewRootCmd builds the daemon command tree: init, start, export.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   gearsd.AppName,
		Short: "gears application daemon",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultHome := filepath.Join(home, ".gearsd")

	rootCmd.PersistentFlags().String(flagHome, defaultHome, "application home directory")

	rootCmd.AddCommand(
		initCmd(),
		startCmd(),
		exportCmd(),
	)

	return rootCmd
}

func homeDir() string {
	return cast.ToString(viper.Get(flagHome))
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default genesis file and home layout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := homeDir()
			configDir := filepath.Join(home, "config")
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Join(home, "data"), 0o755); err != nil {
				return err
			}

			genesisPath := filepath.Join(configDir, "genesis.json")
			if _, err := os.Stat(genesisPath); err == nil {
				return errors.Errorf("genesis file already exists: %s", genesisPath)
			}

			logger := log.NewLogger(os.Stderr)
			app, cleanup, err := openApp(logger)
			if err != nil {
				return err
			}
			defer cleanup()

			appState, err := json.MarshalIndent(app.DefaultGenesis(), "", "  ")
			if err != nil {
				return err
			}

			doc := cmttypes.GenesisDoc{
				ChainID:     cast.ToString(viper.Get(flagChainID)),
				GenesisTime: time.Now().UTC(),
				AppState:    appState,
			}
			if doc.ChainID == "" {
				doc.ChainID = "gears-devnet-1"
			}

			if err := doc.SaveAs(genesisPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote genesis to %s\n", genesisPath)
			return nil
		},
	}

	cmd.Flags().String(flagChainID, "gears-devnet-1", "chain id for the genesis file")
	return cmd
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the application over an ABCI socket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.NewLogger(os.Stderr)

			app, cleanup, err := openApp(logger)
			if err != nil {
				return err
			}
			defer cleanup()

			addr := cast.ToString(viper.Get(flagAddress))
			srv, err := abciserver.NewServer(addr, "socket", app)
			if err != nil {
				return errors.Wrap(err, "creating ABCI server")
			}

			if err := srv.Start(); err != nil {
				return errors.Wrap(err, "starting ABCI server")
			}
			logger.Info("ABCI server listening", "address", addr)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			return srv.Stop()
		},
	}

	cmd.Flags().String(flagAddress, "tcp://127.0.0.1:26658", "ABCI listen address")
	cmd.Flags().String("minimum-gas-prices", "", "validator fee floor, e.g. 1uatom per million gas")
	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the committed state as an app state document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.NewNopLogger()

			app, cleanup, err := openApp(logger)
			if err != nil {
				return err
			}
			defer cleanup()

			state, err := app.ExportAppState()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(json.RawMessage(state), "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func openApp(logger log.Logger) (*gearsd.GearsApp, func(), error) {
	dataDir := filepath.Join(homeDir(), "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nil, err
	}

	database, err := db.NewGoLevelDB("application", dataDir)
	if err != nil {
		return nil, nil, err
	}

	var opts []baseapp.Option
	if raw := cast.ToString(viper.Get("minimum-gas-prices")); raw != "" {
		prices, err := sdk.ParseCoins(raw)
		if err != nil {
			database.Close()
			return nil, nil, errors.Wrap(err, "parsing minimum-gas-prices")
		}
		opts = append(opts, baseapp.WithMinGasPrices(prices))
	}

	app, err := gearsd.NewGearsApp(logger, database, opts...)
	if err != nil {
		database.Close()
		return nil, nil, err
	}

	return app, func() { _ = database.Close() }, nil
}
