package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"casefolio.dev/portfolio-web/internal/cms"
	"casefolio.dev/portfolio-web/internal/config"
)

// CheckCmd validates the CMS credentials for one mode without any network I/O.
type CheckCmd struct {
	Preview bool `help:"Check the preview credentials instead of delivery."`
}

// Run prints a presence table and fails when a required credential is missing.
func (c *CheckCmd) Run(cli *CLI) error {
	cfg, err := config.Load(context.Background(), config.WithEnvFile(cli.EnvFile))
	if err != nil {
		return err
	}
	return checkCredentials(os.Stdout, cfg.CMS, c.Preview)
}

func checkCredentials(out io.Writer, creds cms.Credentials, preview bool) error {
	client, err := cms.SelectClient(creds, preview)
	var missing *cms.MissingCredentialsError
	if errors.As(err, &missing) {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "VARIABLE\tSTATUS\n")
		for _, row := range missing.Table() {
			state := "missing"
			if row.Present {
				state = "ok"
			}
			fmt.Fprintf(tw, "%s\t%s\n", row.Variable, state)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s credentials configured\n", client.Mode())
	return nil
}
