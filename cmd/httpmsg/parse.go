package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shapestone/shape-httpmessage/pkg/http"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a raw HTTP/1.x request or response and dump it",
		Long: `Parse reads a raw HTTP/1.x message from file, or from stdin when no file
is given. A request is built the way a CGI gateway populates one, so the
dump shows the derived URI and the parsed body.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			if http.IsResponse(data) {
				resp, err := http.ReadResponse(data)
				if err != nil {
					return err
				}
				a.logger.Debug("parsed response", zap.Int("status", resp.StatusCode()))
				return a.dump(cmd.OutOrStdout(), http.NodeToInterface(http.ResponseToNode(resp)))
			}

			req, err := http.ReadRequest(data)
			if err != nil {
				return err
			}
			req = req.WithLogger(a.logger)
			a.logger.Debug("parsed request",
				zap.String("method", req.Method()),
				zap.String("target", req.RequestTarget()))
			return a.dump(cmd.OutOrStdout(), http.NodeToInterface(http.RequestToNode(req)))
		},
	}
}
