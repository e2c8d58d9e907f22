package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/formats"
)

// normalizeCommand creates the normalize command for testing payload
// normalization outside the server.
func (c *CLI) normalizeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "normalize [chart|grid|doc] [file]",
		Short: "Normalize a raw backend response into a view payload",
		Long: `Normalize a raw backend response into a view payload.

The normalize command runs a raw response document through the same
fallback cascade the server uses: typed JSON first, then envelope
unwrapping, embedded JSON, and markdown tables. With no file argument
the input is read from stdin.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := args[0]
			if err := errors.ValidateView(view); err != nil {
				return err
			}

			var raw []byte
			var err error
			if len(args) == 2 {
				raw, err = os.ReadFile(args[1])
				if err != nil {
					return fmt.Errorf("read input %s: %w", args[1], err)
				}
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			return c.runNormalize(view, raw, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runNormalize(view string, raw []byte, output string, stdout io.Writer) error {
	var payload any
	var err error
	switch view {
	case "chart":
		payload, err = formats.NormalizeChart(raw)
	case "grid":
		payload, err = formats.NormalizeGrid(raw)
	case "doc":
		payload, err = formats.NormalizeDoc(raw)
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Normalized %s payload", view)
	printFile(output)
	return nil
}
