package commands

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"salescrm/cmd/crmctl/output"
	"salescrm/internal/auth"
	"salescrm/internal/bootstrap"
	"salescrm/internal/config"
	"salescrm/internal/repository"
	"salescrm/internal/service"
)

// Bootstrap flags
const (
	adminUsernameFlag = "admin-username"
	adminPasswordFlag = "admin-password"
)

var bootstrapFlags = map[string]cobraflags.Flag{
	adminUsernameFlag: &cobraflags.StringFlag{
		Name:  adminUsernameFlag,
		Value: "",
		Usage: "Admin username (defaults to ADMIN_USERNAME)",
	},
	adminPasswordFlag: &cobraflags.StringFlag{
		Name:  adminPasswordFlag,
		Value: "",
		Usage: "Admin password (defaults to ADMIN_PASSWORD)",
	},
}

var resetTables bool

func newBootstrapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the schema, the admin account and the sample data",
		Long: `Create or update every table, register the admin account when it does not
exist yet and load the sample catalog, sales and inventory log when the
products table is empty. Running it again changes nothing.`,
		Args: cobra.NoArgs,
		RunE: bootstrapCommand,
	}
	cobraflags.RegisterMap(cmd, bootstrapFlags)
	cmd.Flags().BoolVar(&resetTables, "reset", false, "Drop every table before migrating")
	return cmd
}

func bootstrapCommand(cmd *cobra.Command, _ []string) error {
	if err := output.ValidateFormat(format); err != nil {
		return err
	}
	ctx := cmd.Context()

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := bootstrap.Options{
		AdminUsername:        e.cfg.AdminUsername,
		AdminPassword:        e.cfg.AdminPassword,
		Reset:                resetTables || e.cfg.ResetDB,
		DefaultAdminPassword: config.DefaultAdminPassword,
	}
	if v := bootstrapFlags[adminUsernameFlag].GetString(); v != "" {
		opts.AdminUsername = v
	}
	if v := bootstrapFlags[adminPasswordFlag].GetString(); v != "" {
		opts.AdminPassword = v
	}

	credentials := service.NewCredentialService(
		repository.NewUserRepository(e.db),
		auth.NewArgon2Hasher(auth.DefaultArgon2Params),
		e.logger,
	)
	report, err := bootstrap.Run(ctx, e.db, credentials, opts, e.logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != output.FormatTable {
		return output.Structured(out, format, report)
	}

	fmt.Fprintln(out, output.Success("schema is up to date"))
	if report.AdminCreated {
		fmt.Fprintln(out, output.Success("admin user %q created", opts.AdminUsername))
		if opts.AdminPassword == config.DefaultAdminPassword {
			fmt.Fprintln(out, output.Warning("admin uses the default password; change it before exposing the service"))
		}
	} else {
		fmt.Fprintln(out, output.Muted("admin user %q already exists", opts.AdminUsername))
	}
	if report.ProductsSeeded > 0 {
		fmt.Fprintln(out, output.Success("seeded %d products, %d sales and %d inventory log entries",
			report.ProductsSeeded, report.SalesSeeded, report.LogsSeeded))
	} else {
		fmt.Fprintln(out, output.Muted("products already present, sample data skipped"))
	}
	return nil
}
