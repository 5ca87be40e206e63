package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sequencetools/uniprot-client/pkg/entry"
)

const fastaLineWidth = 60

var fetchAsFasta bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <query>",
	Short: "Retrieve records matching a query",
	Long: `Fetch searches the query, submits the matching identifiers to the
batch-export endpoint, waits for the export job to finish, and prints
the retrieved records. By default one description line per record is
printed; with --fasta the full sequences are emitted in FASTA format.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchAsFasta, "fasta", false, "emit full records in FASTA format")
}

func runFetch(cmd *cobra.Command, args []string) error {
	result, err := fetcher.Fetch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	if result == nil {
		logger.Info().Msg("No records matched the query")
		return nil
	}
	defer result.Close()

	out := cmd.OutOrStdout()
	count := 0
	for {
		e, err := result.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decoding export stream: %w", err)
		}

		if fetchAsFasta {
			writeFasta(out, e)
		} else {
			fmt.Fprintln(out, e.Description())
		}
		count++
	}

	logger.Info().Int("records", count).Msg("Fetch complete")
	return nil
}

// writeFasta prints a record as a FASTA block: the description line
// followed by the sequence wrapped at a fixed column width.
func writeFasta(w io.Writer, e *entry.Entry) {
	fmt.Fprintln(w, e.Description())

	seq := e.Sequence()
	for start := 0; start < len(seq); start += fastaLineWidth {
		end := start + fastaLineWidth
		if end > len(seq) {
			end = len(seq)
		}
		fmt.Fprintln(w, seq[start:end])
	}
}
