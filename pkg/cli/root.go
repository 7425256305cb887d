package cli

import (
	"context"

	"github.com/TechXTT/crud"
	"github.com/TechXTT/crud/pkg/config"
	"github.com/spf13/cobra"
)

func version() string {
	return "v1.0.0"
}

const long = `crud maps JSON records to INSERT, UPDATE and DELETE statements and prints
query results as JSON records.

Connection settings come from flags, falling back to CRUD_DRIVER, CRUD_HOST,
CRUD_USER, CRUD_PASSWORD and CRUD_DATABASE (also read from a .env file).

Values written as "function: <expr>" are spliced into the statement as raw SQL.
Text that really starts with "function:" is written as "\\function: ..." by read
and is accepted in that form by create and update.
A JSON array instead of an object processes every element as its own row.

Examples:
  crud create --table employees --data '{"firstName":"Foo","lastName":"Bar"}'
  crud read "SELECT * FROM employees LIMIT 1"
  crud update --table employees --id 859649 --data '{"department":"Sales"}'
  crud delete --table employees --id 859649 --pk employee_id`

// OpenFunc opens the mapper a command runs against.
type OpenFunc func(ctx context.Context, cfg crud.Config) (*crud.Mapper, error)

type connFlags struct {
	envFile  string
	driver   string
	host     string
	user     string
	password string
	database string
}

func (f *connFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.envFile, "env-file", "", "Read defaults from this .env file instead of ./.env")
	pf.StringVar(&f.driver, "driver", "", "Database driver (mysql or postgres)")
	pf.StringVar(&f.host, "host", "", "Database host[:port]")
	pf.StringVar(&f.user, "user", "", "Database user")
	pf.StringVar(&f.password, "password", "", "Database password")
	pf.StringVar(&f.database, "database", "", "Database name")
}

func (f *connFlags) config() (crud.Config, error) {
	var files []string
	if f.envFile != "" {
		files = append(files, f.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return crud.Config{}, err
	}
	if f.driver != "" {
		cfg.Driver = f.driver
	}
	cfg.Credentials = crud.Credentials{
		Host:     f.host,
		User:     f.user,
		Password: f.password,
		Database: f.database,
	}
	return *cfg, nil
}

// session opens the mapper for one command and hands it to run.
type session struct {
	flags connFlags
	open  OpenFunc
}

func (s *session) run(cmd *cobra.Command, fn func(ctx context.Context, m *crud.Mapper) error) error {
	cfg, err := s.flags.config()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := s.open(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(ctx, m)
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}

// NewRootCmd builds the top-level `crud` command.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWith(func(ctx context.Context, cfg crud.Config) (*crud.Mapper, error) {
		return crud.Open(ctx, cfg)
	})
}

// NewRootCmdWith builds the command tree on a custom mapper opener.
func NewRootCmdWith(open OpenFunc) *cobra.Command {
	s := &session{open: open}
	root := &cobra.Command{
		Use:           "crud",
		Short:         "Record-level create, read, update and delete",
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	s.flags.register(root)
	root.AddCommand(newCreateCmd(s))
	root.AddCommand(newReadCmd(s))
	root.AddCommand(newUpdateCmd(s))
	root.AddCommand(newDeleteCmd(s))
	root.AddCommand(NewVersionCmd())
	return root
}
