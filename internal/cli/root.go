package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/martijn/clientbook/internal/core/repository"
	"github.com/martijn/clientbook/internal/core/service"
	"github.com/martijn/clientbook/internal/infrastructure/sqldb"
	"github.com/martijn/clientbook/internal/logging"
	"github.com/martijn/clientbook/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile    string
	outputMode string
	cfg        *config.Config
	logger     *slog.Logger
	logCloser  io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clientbook",
	Short: "Clientbook - clients and their phone numbers",
	Long: `Clientbook keeps a small relational register of clients and the phone
numbers attached to them.

It provides:
- Client creation, partial updates and deletion
- Attaching, swapping and detaching phone numbers
- Search by any combination of name, email and number
- SQLite and MySQL storage
- REST API for remote management`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if _, err := resolveOutputMode(cmd.OutOrStdout()); err != nil {
			return err
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, logCloser, err = logging.New(logging.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		slog.SetDefault(logger)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/clientbook/config.yml)")
	rootCmd.PersistentFlags().StringVarP(&outputMode, "output", "o", "", "output format: table or json (default table on a terminal, json otherwise)")
}

// resolveOutputMode returns the explicit --output value or picks one from
// whether out is a terminal.
func resolveOutputMode(out io.Writer) (string, error) {
	switch outputMode {
	case outputTable, outputJSON:
		return outputMode, nil
	case "":
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return outputTable, nil
		}
		return outputJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be %s or %s", outputMode, outputTable, outputJSON)
	}
}

// initServices opens the store and builds the client service
func initServices(ctx context.Context) (*Services, error) {
	// Initialize database
	db, err := sqldb.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := sqldb.NewClientPhoneRepository(db)
	logger.DebugContext(ctx, "store opened", "driver", db.Driver(), "dsn", cfg.DBDSN)

	return &Services{
		DB:            db,
		ClientRepo:    repo,
		ClientService: service.NewClientService(repo, logger),
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB            *sqldb.DB
	ClientRepo    repository.ClientPhoneRepository
	ClientService *service.ClientService
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
