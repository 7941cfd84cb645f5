package cli

import (
	"io"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

func newLambdaCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := defaultConfig()
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function triggered by S3 uploads.",
		Long: `lambda starts the Lambda runtime loop. Each invocation carries an S3 event;
every object in it is augmented and written to the output location. Clients
are opened once per container and reused across invocations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cfg, stderr)
			if err != nil {
				return err
			}
			defer e.close()

			proc, err := e.processor(cmd.Context())
			if err != nil {
				return err
			}
			lambda.StartWithOptions(proc.HandleS3Event, lambda.WithContext(cmd.Context()))
			return nil
		},
	}
	fs := cmd.Flags()
	cfg.logFlags(fs)
	cfg.cacheFlags(fs)
	cfg.modelFlags(fs)
	cfg.pipelineFlags(fs)
	cfg.blobFlags(fs)
	return cmd
}
