package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var phonesCmd = &cobra.Command{
	Use:   "phones",
	Short: "Manage client phone numbers",
}

var phonesAddCmd = &cobra.Command{
	Use:   "add <client-id> <number>",
	Short: "Attach a phone number to a client",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, number, err := parsePhoneArgs(args)
		if err != nil {
			return err
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.ClientService.AddPhone(cmd.Context(), clientID, number)
		if err != nil {
			return err
		}
		return renderResult(cmd.OutOrStdout(), result)
	},
}

var phonesDeleteCmd = &cobra.Command{
	Use:   "delete <client-id> <number>",
	Short: "Detach a phone number from a client",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, number, err := parsePhoneArgs(args)
		if err != nil {
			return err
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.ClientService.DeletePhone(cmd.Context(), clientID, number)
		if err != nil {
			return err
		}
		return renderResult(cmd.OutOrStdout(), result)
	},
}

func parsePhoneArgs(args []string) (int64, int64, error) {
	clientID, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	number, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid phone number: %s", args[1])
	}
	return clientID, number, nil
}

func init() {
	rootCmd.AddCommand(phonesCmd)
	phonesCmd.AddCommand(phonesAddCmd)
	phonesCmd.AddCommand(phonesDeleteCmd)
}
