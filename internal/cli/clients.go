package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/martijn/clientbook/internal/api/util"
	"github.com/martijn/clientbook/internal/core/domain"
	"github.com/martijn/clientbook/internal/core/repository"
	"github.com/martijn/clientbook/internal/infrastructure/sqldb"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  "Add, change, delete, show and search clients and their phone numbers",
}

var clientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := domain.NewClient{}
		in.FirstName, _ = cmd.Flags().GetString("first-name")
		in.LastName, _ = cmd.Flags().GetString("last-name")
		in.Email, _ = cmd.Flags().GetString("email")
		if cmd.Flags().Changed("number") {
			number, _ := cmd.Flags().GetInt64("number")
			in.Number = &number
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.ClientService.AddClient(cmd.Context(), in)
		if err != nil {
			return err
		}
		return renderResult(cmd.OutOrStdout(), result)
	},
}

var clientsUpdateCmd = &cobra.Command{
	Use:   "update <client-id>",
	Short: "Change client fields and/or swap a phone number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, err := parseID(args[0])
		if err != nil {
			return err
		}

		change := domain.ClientChange{Fields: domain.FieldSet{}}
		for _, field := range domain.ClientFields {
			flag := strings.ReplaceAll(string(field), "_", "-")
			if cmd.Flags().Changed(flag) {
				value, _ := cmd.Flags().GetString(flag)
				change.Fields.Set(field, value)
			}
		}

		oldSet, newSet := cmd.Flags().Changed("old-number"), cmd.Flags().Changed("new-number")
		if oldSet != newSet {
			return fmt.Errorf("--old-number and --new-number must be given together")
		}
		if oldSet {
			oldNumber, _ := cmd.Flags().GetInt64("old-number")
			newNumber, _ := cmd.Flags().GetInt64("new-number")
			change.Phone = &domain.PhoneChange{OldNumber: oldNumber, NewNumber: newNumber}
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.ClientService.ChangeClient(cmd.Context(), clientID, change)
		if err != nil {
			return err
		}
		return renderResult(cmd.OutOrStdout(), result)
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete <client-id>",
	Short: "Delete a client and its phones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, err := parseID(args[0])
		if err != nil {
			return err
		}

		// Confirm deletion
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("refusing to delete without --yes when stdin is not a terminal")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete client %d and all its phones? (yes/no): ", clientID)
			confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(confirm) != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.ClientService.DeleteClient(cmd.Context(), clientID)
		if err != nil {
			return err
		}
		return renderResult(cmd.OutOrStdout(), result)
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show <client-id>",
	Short: "Show a client with its phones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, err := parseID(args[0])
		if err != nil {
			return err
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.ClientService.Projection(cmd.Context(), clientID)
		if err != nil {
			return err
		}
		return renderResult(cmd.OutOrStdout(), result)
	},
}

var clientsFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Find clients matching every given filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var search domain.ClientSearch
		if cmd.Flags().Changed("first-name") {
			v, _ := cmd.Flags().GetString("first-name")
			search.FirstName = &v
		}
		if cmd.Flags().Changed("last-name") {
			v, _ := cmd.Flags().GetString("last-name")
			search.LastName = &v
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			search.Email = &v
		}
		if cmd.Flags().Changed("number") {
			v, _ := cmd.Flags().GetInt64("number")
			search.Number = &v
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.ClientService.FindClient(cmd.Context(), search)
		if err != nil {
			return err
		}
		return renderResult(cmd.OutOrStdout(), result)
	},
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients with their phones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		if page < 1 {
			page = 1
		}

		filter := repository.ClientListFilter{
			ListFilter: util.ListFilter{Page: page, PerPage: perPage},
		}

		if orderStr, _ := cmd.Flags().GetString("order"); orderStr != "" {
			orders, err := util.ParseOrderString(orderStr)
			if err != nil {
				return err
			}
			if err := util.ValidateOrderFields(orders, sqldb.OrderFields()); err != nil {
				return err
			}
			filter.Order = orders
		}

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		rows, total, err := services.ClientService.ListClients(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		return renderPage(cmd.OutOrStdout(), rows, page, filter.TotalPages(total), total)
	},
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid client id: %s", arg)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsUpdateCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	clientsCmd.AddCommand(clientsFindCmd)
	clientsCmd.AddCommand(clientsListCmd)

	clientsAddCmd.Flags().String("first-name", "", "first name")
	clientsAddCmd.Flags().String("last-name", "", "last name")
	clientsAddCmd.Flags().String("email", "", "email address")
	clientsAddCmd.Flags().Int64("number", 0, "optional first phone number")
	clientsAddCmd.MarkFlagRequired("first-name")
	clientsAddCmd.MarkFlagRequired("last-name")
	clientsAddCmd.MarkFlagRequired("email")

	clientsUpdateCmd.Flags().String("first-name", "", "new first name")
	clientsUpdateCmd.Flags().String("last-name", "", "new last name")
	clientsUpdateCmd.Flags().String("email", "", "new email address")
	clientsUpdateCmd.Flags().Int64("old-number", 0, "phone number to replace")
	clientsUpdateCmd.Flags().Int64("new-number", 0, "replacement phone number")

	clientsDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	clientsFindCmd.Flags().String("first-name", "", "match first name")
	clientsFindCmd.Flags().String("last-name", "", "match last name")
	clientsFindCmd.Flags().String("email", "", "match email address")
	clientsFindCmd.Flags().Int64("number", 0, "match phone number")

	clientsListCmd.Flags().String("order", "", "ordering, e.g. last_name|asc,id|desc")
	clientsListCmd.Flags().Int("page", 1, "page number")
	clientsListCmd.Flags().Int("per-page", 25, "clients per page (0 lists all)")
}
