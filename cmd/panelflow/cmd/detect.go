package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gocomics/panelflow"
	"github.com/gocomics/panelflow/book"
	"github.com/gocomics/panelflow/detector"
	"github.com/gocomics/panelflow/imaging"
	"github.com/gocomics/panelflow/order"
	"github.com/gocomics/panelflow/reader"
)

// toolVersion is the schema-facing "built by" string recorded in every
// BookData's metadata.
const toolVersion = "panelflow-cli"

var (
	detectConfigPath string
	detectOutputPath string
	detectBookHash   string
	detectDirection  string
)

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect SOURCE",
	Short: "detect panels and reading order across a book",
	Long: `Detect panels and reading order for every page of SOURCE, which may
be a CBZ/ZIP archive or a directory of page images. A PDF file opens for
its page count only; its pages cannot be decoded, so detect stops with an
error on the first page.

Results are written to --output as a BookData JSON document. If --output
already exists, its recorded user overrides are preserved and reapplied
over the freshly detected panels.`,
	Args: cobra.ExactArgs(1),
	Run:  runDetect,
}

func init() {
	RootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVar(&detectConfigPath, "config", "", "pipeline config YAML (defaults used if empty)")
	detectCmd.Flags().StringVar(&detectOutputPath, "output", "", "output BookData JSON file (required)")
	detectCmd.Flags().StringVar(&detectBookHash, "hash", "", "book content hash recorded in the output (optional)")
	detectCmd.Flags().StringVar(&detectDirection, "direction", "ltr", "reading direction, 'ltr' or 'rtl'")
}

func runDetect(cmd *cobra.Command, args []string) {
	source := args[0]
	if detectOutputPath == "" {
		fmt.Println("error: --output is required")
		os.Exit(1)
	}

	cfg := detector.DefaultConfig()
	if detectConfigPath != "" {
		check(unmarshalYAMLFile(detectConfigPath, &cfg))
	}
	cfg.DirectionName = detectDirection
	check(cfg.Validate())

	existing, hasExisting := loadExisting(detectOutputPath)

	b, err := reader.Open(source)
	check(err)
	defer b.Close()

	dir := book.DirectionLTR
	if cfg.Direction == order.RTL {
		dir = book.DirectionRTL
	}
	data := book.NewBookData(detectBookHash, dir, toolVersion, time.Now().UTC().Format(time.RFC3339))
	if hasExisting {
		data.Overrides = existing.Overrides
		data.BookHash = existing.BookHash
	}

	ctx := imaging.NewContext(false)
	for {
		frame, ok, err := b.Next()
		if err != nil {
			fmt.Println("error reading frame:", err)
			os.Exit(1)
		}
		if !ok {
			break
		}

		result, orderIDs, orderConf, err := detector.Detect(ctx, frame.Image, cfg)
		if err != nil {
			fmt.Printf("error detecting page %d: %v\n", frame.Index, err)
			os.Exit(1)
		}

		bounds := frame.Image.Bounds()
		page := panelflow.Page{
			Index:           frame.Index,
			Width:           bounds.Dx(),
			Height:          bounds.Dy(),
			Panels:          result.Panels,
			Order:           orderIDs,
			OrderConfidence: &orderConf,
			Source:          panelflow.SourceCV,
			Gutters:         result.Gutters,
			ProcessingTime:  &result.Elapsed,
		}
		data.Pages = append(data.Pages, book.ToPage(page))
	}
	data.ApplyOverrides()

	raw, err := book.Marshal(data)
	check(err)
	check(os.WriteFile(detectOutputPath, raw, 0o644))
	fmt.Printf("detected %d pages, wrote '%s'\n", len(data.Pages), detectOutputPath)
}

func loadExisting(path string) (book.BookData, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return book.BookData{}, false
	}
	data, err := book.Unmarshal(raw)
	if err != nil {
		return book.BookData{}, false
	}
	return data, true
}
