package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/martijn/clientbook/internal/core/domain"
	"github.com/martijn/clientbook/internal/core/service"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Reset the store and run a sample session",
	Long: `Recreate the schema, then add four clients, attach a phone, rename a
client, detach a phone, delete a client and search, printing every result.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if err := services.DB.InitializeSchema(cmd.Context()); err != nil {
			return err
		}

		return runDemo(cmd.Context(), cmd.OutOrStdout(), services.ClientService)
	},
}

func runDemo(ctx context.Context, out io.Writer, svc *service.ClientService) error {
	step := func(title string, result *domain.Result, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", title, err)
		}
		fmt.Fprintf(out, "== %s\n", title)
		return renderResult(out, result)
	}

	add := func(first, last, email string, number *int64) (int64, error) {
		result, err := svc.AddClient(ctx, domain.NewClient{
			FirstName: first,
			LastName:  last,
			Email:     email,
			Number:    number,
		})
		if err := step("add client "+email, result, err); err != nil {
			return 0, err
		}
		return result.Rows[0].ClientID, nil
	}

	num := func(n int64) *int64 { return &n }

	alexey, err := add("Alexey", "Popovich", "alyosha@gmail.com", num(89001001100))
	if err != nil {
		return err
	}
	dobrynya, err := add("Dobrynya", "Nikitich", "dobriy@yandex.ru", nil)
	if err != nil {
		return err
	}
	zmey, err := add("Zmey", "Gorynych", "gorinich@mail.ru", nil)
	if err != nil {
		return err
	}
	if _, err := add("Ilya", "Muromets", "muromec@yandex.ru", num(89003003300)); err != nil {
		return err
	}

	result, err := svc.AddPhone(ctx, alexey, 89001001122)
	if err := step("add phone to Alexey", result, err); err != nil {
		return err
	}

	change := domain.ClientChange{Fields: domain.FieldSet{}}
	change.Fields.Set(domain.FieldFirstName, "DOBRYNYA")
	result, err = svc.ChangeClient(ctx, dobrynya, change)
	if err := step("rename Dobrynya", result, err); err != nil {
		return err
	}

	result, err = svc.DeletePhone(ctx, alexey, 89001001100)
	if err := step("delete Alexey's first phone", result, err); err != nil {
		return err
	}

	result, err = svc.DeleteClient(ctx, zmey)
	if err := step("delete Zmey", result, err); err != nil {
		return err
	}

	first, number := "Ilya", int64(89003003300)
	result, err = svc.FindClient(ctx, domain.ClientSearch{FirstName: &first, Number: &number})
	return step("find Ilya by name and number", result, err)
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
