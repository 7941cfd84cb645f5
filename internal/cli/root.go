// Package cli implements the seniority command line.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "seniority",
		Short: "Attach seniority levels to job posting batches.",
		Long: `seniority reads newline-delimited JSON job postings, looks up the
seniority level of every (organization, title) pair in a cache, asks the
SeniorityModel service for the misses in one batched call, and writes the
augmented records back out.

Every flag can also be set through the environment (SENIORITY_REDIS_ADDRS for
--redis.addrs) or a config file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := setAllConfig(v, cmd.Flags()); err != nil {
				return err
			}

			ret, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return fmt.Errorf("problem getting dry-run flag: %v", err)
			}
			if ret && cmd.Parent() != nil {
				return fmt.Errorf("dry run")
			}
			return nil
		},
	}
	rc.PersistentFlags().Bool("dry-run", false, "stop before executing")
	_ = rc.PersistentFlags().MarkHidden("dry-run")
	rc.PersistentFlags().StringP("config", "c", "", "Configuration file to read from (toml, yaml or json).")

	rc.AddCommand(newProcessCommand(stdin, stdout, stderr))
	rc.AddCommand(newLambdaCommand(stdin, stdout, stderr))
	rc.AddCommand(newConsumeCommand(stdin, stdout, stderr))
	rc.AddCommand(newServeModelCommand(stdin, stdout, stderr))
	rc.AddCommand(newInferCommand(stdin, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}
