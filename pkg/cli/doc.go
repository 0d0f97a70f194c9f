/*
Package cli provides command-line helpers used by the notesexport command.

Output Formatting:

Commands accept --format text|json|csv and render results through a
Formatter:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Results implementing Tabular render as aligned columns in text mode and
with a header row in CSV mode.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
