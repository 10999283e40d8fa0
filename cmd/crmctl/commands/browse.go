package commands

import (
	"github.com/spf13/cobra"

	"salescrm/cmd/crmctl/output"
)

func newTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := output.ValidateFormat(format); err != nil {
				return err
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			tables, err := e.console.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			return output.Tables(cmd.OutOrStdout(), format, tables)
		},
	}
}

func newDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe TABLE",
		Short: "Show the columns, the first five rows and the row count of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := output.ValidateFormat(format); err != nil {
				return err
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			desc, err := e.console.DescribeTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output.TableDescription(cmd.OutOrStdout(), format, desc)
		},
	}
}

func newRowsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rows TABLE",
		Short: "Show every row of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := output.ValidateFormat(format); err != nil {
				return err
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			result, err := e.console.BrowseTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output.QueryResult(cmd.OutOrStdout(), format, result)
		},
	}
}
