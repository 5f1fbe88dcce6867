package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/render"
	"github.com/specialistvlad/visapack/modules/s3"
)

func (c *command) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a travel pack from a trip request file",
		Long: `Generate reads a trip request (YAML or JSON), runs the pipeline and writes
the pack to stdout or --out. With --upload-url the rendered pack is also PUT
to a pre-signed object-storage URL.

Exit codes: 0 ok, 2 invalid input or configuration, 3 the pack failed
validation, 1 anything else.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runGenerate(cmd.Context())
		},
	}
	flags := cmd.Flags()
	flags.StringP("request", "r", "", "Trip request file (.yaml, .yml or .json)")
	flags.StringP("format", "f", "json", "Output format: json, markdown or pdf")
	flags.StringP("out", "o", "", "Write the pack to this file instead of stdout")
	flags.String("upload-url", "", "Pre-signed PUT URL to upload the rendered pack to")
	return cmd
}

func (c *command) runGenerate(ctx context.Context) error {
	requestPath := c.v.GetString("request")
	if requestPath == "" {
		return &ExitError{Code: ExitUsage, Message: "missing --request: path to a trip request file"}
	}
	format, err := render.ParseFormat(c.v.GetString("format"))
	if err != nil {
		return usageError(err)
	}
	req, err := readRequest(requestPath)
	if err != nil {
		return usageError(err)
	}

	a, err := c.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx = ctxlog.WithLogger(ctx, a.Logger())

	pack, runErr := a.Generate(ctx, req)
	if pack == nil {
		return runErr
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, pack, format); err != nil {
		return err
	}
	if err := c.writeOutput(buf.Bytes()); err != nil {
		return err
	}

	if url := c.v.GetString("upload-url"); url != "" {
		res, err := s3.NewUploader(a.HTTPClient()).Upload(ctx, url, format.ContentType(), buf.Bytes())
		if err != nil {
			return err
		}
		a.Logger().Info("Pack uploaded.", "status", res.Status, "size", res.Size)
	}

	if runErr != nil {
		return &ExitError{Code: exitCodeFor(runErr), Message: runErr.Error()}
	}
	return nil
}

func (c *command) writeOutput(data []byte) error {
	out := c.v.GetString("out")
	if out == "" {
		_, err := c.outW.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write pack to '%s': %w", out, err)
	}
	return nil
}

// readRequest decodes a trip request file. JSON is chosen by extension;
// everything else is parsed as YAML.
func readRequest(path string) (model.TripRequest, error) {
	var req model.TripRequest
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read trip request '%s': %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &req)
	} else {
		err = yaml.Unmarshal(raw, &req)
	}
	if err != nil {
		return req, fmt.Errorf("failed to parse trip request '%s': %w", path, err)
	}
	return req, nil
}
