package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the client and phone tables",
	Long:  "Drop and recreate the client and phone tables. Existing data is lost.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if err := services.DB.InitializeSchema(cmd.Context()); err != nil {
			return err
		}

		logger.InfoContext(cmd.Context(), "schema initialized", "driver", services.DB.Driver())
		fmt.Fprintln(cmd.OutOrStdout(), "Schema initialized")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
