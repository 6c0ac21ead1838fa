package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/gocomics/panelflow/book"
	"github.com/gocomics/panelflow/preview"
	"github.com/gocomics/panelflow/reader"
)

var (
	serveAddr          string
	serveCacheCapacity int
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve SOURCE DATAFILE",
	Short: "serve a local inspection web server over a detected book",
	Long: `Serve page data and thumbnails for a previously detected book.

SOURCE is the same CBZ/directory/PDF path passed to 'detect'; DATAFILE is
the BookData JSON file 'detect' wrote. GET /pages lists all pages, GET
/pages/{index} returns one page's panels, and GET /pages/{index}/thumbnail
streams the decoded page image as JPEG.`,
	Args: cobra.ExactArgs(2),
	Run:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "address to listen on")
	serveCmd.Flags().IntVar(&serveCacheCapacity, "cache", 16, "decoded page image cache capacity")
}

func runServe(cmd *cobra.Command, args []string) {
	source, dataPath := args[0], args[1]

	raw, err := os.ReadFile(dataPath)
	check(err)
	data, err := book.Unmarshal(raw)
	check(err)

	rb, err := reader.Open(source)
	check(err)

	store, err := preview.NewReaderStore(data, rb, serveCacheCapacity)
	check(err)

	srv := preview.NewServer(store)
	fmt.Printf("serving %d pages on http://%s\n", len(data.Pages), serveAddr)
	check(http.ListenAndServe(serveAddr, srv))
}
