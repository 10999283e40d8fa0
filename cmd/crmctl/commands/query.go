package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"salescrm/cmd/crmctl/output"
	"salescrm/internal/sqlclass"
)

// Query flags
const fileFlag = "file"

var queryFlags = map[string]cobraflags.Flag{
	fileFlag: &cobraflags.StringFlag{
		Name:  fileFlag,
		Value: "",
		Usage: "Read the statement from a file (- for stdin)",
	},
}

var assumeYes bool

var (
	errAborted        = errors.New("statement not executed")
	errEmptyStatement = errors.New("no statement given")
	errStatementFail  = errors.New("statement failed")
)

func newQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Execute a SQL statement",
		Long: `Execute a SQL statement against the store and print its result.

Statements that may modify or delete data (UPDATE, DELETE, DROP, TRUNCATE,
ALTER, ...) or whose kind is not recognised ask for confirmation first.
Pass --yes to confirm non-interactively.

Examples:
  crmctl query "SELECT name, price FROM products"
  crmctl query --yes "DELETE FROM feedback WHERE rating < 2"
  crmctl query --file cleanup.sql -o json`,
		RunE: queryCommand,
	}
	cobraflags.RegisterMap(cmd, queryFlags)
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Confirm statements that may modify or delete data")
	return cmd
}

func queryCommand(cmd *cobra.Command, args []string) error {
	if err := output.ValidateFormat(format); err != nil {
		return err
	}

	statement, err := readStatement(args, queryFlags[fileFlag].GetString(), cmd.InOrStdin())
	if err != nil {
		return err
	}

	inspection := sqlclass.Inspect(statement)
	if len(inspection.Statements) == 0 {
		return errEmptyStatement
	}
	if inspection.RequiresConfirmation && !assumeYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), inspection.Reasons)
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	result := e.console.Execute(cmd.Context(), statement)
	if err := output.QueryResult(cmd.OutOrStdout(), format, result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", errStatementFail, result.Error)
	}
	return nil
}

// readStatement takes the statement from the arguments, or from file when
// set. A file of "-" reads stdin.
func readStatement(args []string, file string, stdin io.Reader) (string, error) {
	if file != "" {
		if len(args) > 0 {
			return "", errors.New("give the statement either as arguments or with --file, not both")
		}
		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return "", fmt.Errorf("read statement: %w", err)
		}
		return string(data), nil
	}
	statement := strings.TrimSpace(strings.Join(args, " "))
	if statement == "" {
		return "", errEmptyStatement
	}
	return statement, nil
}

// confirm prints why the statement needs confirmation and reads one line.
// Only "yes" or "y" confirms.
func confirm(in io.Reader, out io.Writer, reasons []string) (bool, error) {
	fmt.Fprintln(out, output.Warning("this statement may modify or delete data:"))
	for _, r := range reasons {
		fmt.Fprintln(out, "  - "+r)
	}
	fmt.Fprint(out, "Execute it? Type yes to continue: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}
