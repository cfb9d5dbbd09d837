// Package upload handles importing bank and credit card exports
package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"hometab/expense-tracker/cmd/common"
	"hometab/expense-tracker/cmd/root"
	"hometab/expense-tracker/internal/fileutils"
	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/normalizer"
	"hometab/expense-tracker/internal/pipeline"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload <file|dir>...",
	Short: "Import bank and credit card exports",
	Long: `Import one or more CSV, XLSX or XLS exports into the expense history.

Directories are searched recursively for supported files. Every file is
normalized, categorized from the learned mapping and merged into the stored
history; records already present are skipped.

Example:
  expense-tracker upload card-march.xlsx bank/`,
	Args: cobra.MinimumNArgs(1),
	RunE: uploadFunc,
}

// normalized is the outcome of reading one file.
type normalized struct {
	path    string
	records []models.Transaction
	err     error
}

func uploadFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	logger := c.GetLogger()
	out := cmd.OutOrStdout()

	files, err := fileutils.CollectFiles(args, normalizer.IsSupported)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No supported files found")
		return nil
	}

	ctx := common.Context(cmd)
	p := c.GetPipeline()

	// Files are read concurrently but merged one by one in argument order,
	// so a record repeated across files is kept from the first file.
	var failed []string
	uncategorized := 0
	for _, n := range normalizeAll(p, files) {
		name := filepath.Base(n.path)
		err := n.err
		var res pipeline.Result
		if err == nil {
			res, err = p.Process(ctx, n.records)
		}
		switch {
		case errors.Is(err, pipeline.ErrNoRecords):
			fmt.Fprintf(out, "%s: could not parse file\n", name)
			continue
		case err != nil:
			logger.WithError(err).Error("Failed to import file", logging.F(logging.FieldFile, n.path))
			fmt.Fprintf(out, "%s: %v\n", name, err)
			failed = append(failed, name)
			continue
		}
		fmt.Fprintf(out, "%s: %d parsed, %d added, %d duplicates\n", name, res.Parsed, res.Accepted, res.Duplicates)
		uncategorized += res.Uncategorized
	}

	if uncategorized > 0 {
		fmt.Fprintf(out, "%d new transactions have no category, use \"categorize\" or \"assign\" to fix them\n", uncategorized)
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to import %s", strings.Join(failed, ", "))
	}
	return nil
}

// normalizeAll reads every file with at most one worker per CPU. Failures
// are kept per file and never stop the other files.
func normalizeAll(p *pipeline.Pipeline, files []string) []normalized {
	results := make([]normalized, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			records, err := normalizeFile(p, path)
			results[i] = normalized{path: path, records: records, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func normalizeFile(p *pipeline.Pipeline, path string) ([]models.Transaction, error) {
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return p.Normalize(filepath.Base(path), f)
}
