package cli

import (
	"github.com/spf13/cobra"

	"github.com/specialistvlad/visapack/internal/server"
)

func (c *command) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pack generation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			srv := server.New(a, a.Logger(), server.WithCORSOrigins(c.v.GetStringSlice("cors-origins")...))
			return srv.ListenAndServe(cmd.Context(), c.v.GetString("addr"))
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed browser origins (default all)")
	return cmd
}
