package main

import (
	"bytes"
	"errors"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-httpmessage/pkg/cgi"
	"github.com/shapestone/shape-httpmessage/pkg/http"
)

func newCGICmd(a *app) *cobra.Command {
	var respond bool

	cmd := &cobra.Command{
		Use:   "cgi",
		Short: "Load the request of a CGI gateway and dump it",
		Long: `Cgi builds a request from the CGI meta-variables in the environment and
CONTENT_LENGTH bytes of body on stdin. With --respond the dump is written
as the body of a complete HTTP response, for use as a non-parsed-header
script.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			loader := &cgi.Loader{
				Stdin:     cmd.InOrStdin(),
				EnvFile:   a.cfg.EnvFile,
				MaxBody:   a.cfg.MaxBody,
				UploadDir: a.cfg.UploadDir,
				Logger:    a.logger,
			}
			defer func() {
				err = errors.Join(err, loader.Cleanup())
			}()

			req, err := loader.Load()
			if err != nil {
				return err
			}
			dump := http.NodeToInterface(http.RequestToNode(req))

			if !respond {
				return a.dump(cmd.OutOrStdout(), dump)
			}

			var body bytes.Buffer
			if err := a.dump(&body, dump); err != nil {
				return err
			}
			contentType := "application/json"
			if a.format == "yaml" {
				contentType = "application/yaml"
			}

			resp, err := http.NewResponse().
				WithLogger(a.logger).
				WithBody(http.NewStringStream(body.String())).
				WithProtocolVersion(req.ProtocolVersion())
			if err != nil {
				return err
			}
			if resp, err = resp.WithHeader("Content-Type", contentType); err != nil {
				return err
			}
			return http.NewEncoder(cmd.OutOrStdout()).Encode(resp)
		},
	}

	cmd.Flags().BoolVar(&respond, "respond", false, "write the dump as an HTTP response")
	return cmd
}
