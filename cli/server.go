package cli

import (
	"fmt"
	"log"

	"github.com/Kariqs/amexan-eats/initializers"
	"github.com/Kariqs/amexan-eats/routes"
	"github.com/spf13/cobra"
)

func loadEnv(envFile string) {
	if envFile != "" {
		initializers.LoadEnv(envFile)
	} else {
		initializers.LoadEnv()
	}
}

// setup loads configuration and connects to the database.
func setup(envFile string, migrate bool) error {
	loadEnv(envFile)
	return connect(migrate)
}

func connect(migrate bool) error {
	if err := initializers.ConnectToDB(); err != nil {
		return err
	}
	if migrate {
		return initializers.SyncDatabase()
	}
	return nil
}

func NewServeCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadEnv(envFile)
			if err := initializers.Env.Validate(); err != nil {
				return err
			}
			if err := connect(true); err != nil {
				return err
			}
			server := routes.NewRouter(initializers.Env.AllowedOrigins)
			addr := ":" + initializers.Env.Port
			log.Printf("Listening on %s", addr)
			return server.Run(addr)
		},
	}
	cmd.Flags().StringVar(&envFile, "env", "", "path to a .env file")
	return cmd
}

func NewMigrateCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setup(envFile, true)
		},
	}
	cmd.Flags().StringVar(&envFile, "env", "", "path to a .env file")
	return cmd
}

func NewSeedCommand() *cobra.Command {
	var envFile, file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and foods from a YAML catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := initializers.LoadCatalog(file)
			if err != nil {
				return err
			}
			if err := setup(envFile, true); err != nil {
				return err
			}
			created, err := initializers.SeedCatalog(initializers.DB, catalog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d food(s)\n", created)
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env", "", "path to a .env file")
	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "catalog file")
	return cmd
}
